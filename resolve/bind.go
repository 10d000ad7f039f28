package resolve

import (
	"github.com/lumenscript/compiler/ident"
)

// bindResult is what the argument binder (§4.1) and the argument
// type-checker (§4.2) jointly produce for one call site: the arguments,
// each now associated with the parameter it was bound to, and whether any
// of them only partially matched their parameter's Kind.
type bindResult struct {
	bound             map[string]FunctionArgument // parameter keyword -> bound actual argument
	argKeywords       []string                    // parallel to the call's args slice: the keyword each was bound to
	maybeFallibleArgs bool
}

// bindArguments implements §4.1 (the argument binder) interleaved with §4.2
// (the argument type-checker), exactly as the spec's step numbering
// prescribes: each argument is bound and then immediately type-checked
// before the scan moves on, so the first problem encountered left-to-right
// is the one reported. It is grounded in grailbio/gql's ast_util.go
// addFuncall, which performs the same positional/keyword matching loop
// (there over FormalArg.Positional/Name rather than a single cursor), but
// follows the cursor-advance rule spelled out in §4.1 precisely: a keyword
// hit only advances the cursor when it lands exactly on the current
// position.
func bindArguments(
	functionIdent string,
	params []Parameter,
	callSpan ident.Span,
	abortOnError bool,
	args []FunctionArgument,
	scope Scope,
) (bindResult, error) {
	if len(args) > len(params) {
		return bindResult{}, newWrongNumberOfArgs(callSpan, len(params))
	}

	keywordIndex := make(map[string]int, len(params))
	allKeywords := make([]string, len(params))
	for i, p := range params {
		keywordIndex[p.Keyword] = i
		allKeywords[i] = p.Keyword
	}

	bound := map[string]FunctionArgument{}
	argKeywords := make([]string, len(args))
	maybeFallible := false
	pos := 0

	checkOne := func(param Parameter, arg FunctionArgument) error {
		td := arg.TypeDefOf(scope)
		if td.Fallible {
			return newFallibleArgument(arg.Span)
		}
		if !param.Kind.Intersects(td.Kind) {
			return newInvalidArgumentKind(functionIdent, abortOnError, formatArguments(args), param, td.Kind, arg.Span)
		}
		if !param.Kind.IsSuperset(td.Kind) {
			maybeFallible = true
		}
		return nil
	}

	for argIdx, arg := range args {
		var (
			keyword string
			param   Parameter
		)
		switch {
		case arg.Keyword == nil:
			// Positional: bind to the parameter at the current cursor. The
			// arity ceiling above guarantees pos < len(params) here.
			param = params[pos]
			keyword = param.Keyword
			pos++
		default:
			keyword = arg.Keyword.Value.Str()
			idx, ok := keywordIndex[keyword]
			if !ok {
				return bindResult{}, newUnknownKeyword(arg.Keyword.Span, keyword, allKeywords)
			}
			param = params[idx]
			// Tie-break (§4.1 step 3): only advance the cursor when the
			// keyword happens to land exactly where positional scanning
			// already is, so a later positional argument does not re-bind
			// the same parameter.
			if idx == pos {
				pos++
			}
		}
		if err := checkOne(param, arg); err != nil {
			return bindResult{}, err
		}
		// Duplicate keywords silently overwrite: last writer wins, matching
		// the map-insert semantics §4.1 and §9's open question both call
		// out as intentional.
		bound[keyword] = arg
		argKeywords[argIdx] = keyword
	}

	for i, p := range params {
		if p.Required {
			if _, ok := bound[p.Keyword]; !ok {
				return bindResult{}, newMissingArgument(callSpan, p.Keyword, i)
			}
		}
	}

	return bindResult{bound: bound, argKeywords: argKeywords, maybeFallibleArgs: maybeFallible}, nil
}
