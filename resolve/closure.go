package resolve

import (
	"github.com/lumenscript/compiler/ident"
	"github.com/lumenscript/compiler/kind"
)

// CallClosure is the closure syntax attached to a call site, as the parser
// hands it to this core: the bound-variable identifiers (with spans, for
// diagnostics) and a callback that compiles the closure's block once those
// variables are visible in scope. The resolver, not the parser, decides what
// TypeDef each variable gets (§4.3), so compilation of the block is deferred
// until after binding.
type CallClosure struct {
	Span          ident.Span
	VariablesSpan ident.Span
	Variables     []*ident.Node[ident.Ident]
	CompileBlock  func(scope Scope) (Expression, error)
}

// closureResult is what the closure validator (§4.3) hands back to the call
// finaliser: the compiled closure (nil if the function takes none), the
// local-scope snapshot taken right before binding (nil if binding was never
// reached), and the identifiers that were bound, so the caller can restore
// the scope unconditionally, even when compiling the block itself failed.
type closureResult struct {
	closure  *FunctionClosure
	snapshot *LocalEnv
	bound    []ident.Ident
}

// validateClosure implements §4.3. It is grounded in grailbio/gql's
// ast_util.go addFuncall closure handling (matching a FormalArg's declared
// AIType against the call's supplied closure variables) and ai.go's
// aiBindings (pushing synthesized bindings into scope before compiling a
// sub-expression), generalized from GQL's fixed two-variable (k, v) closures
// to the spec's arbitrary per-function ClosureInput list.
func validateClosure(
	identSpan, callSpan ident.Span,
	def *ClosureDefinition,
	raw *CallClosure,
	bound map[string]FunctionArgument,
	scope Scope,
	examples []Example,
) (closureResult, error) {
	switch {
	case def == nil && raw == nil:
		return closureResult{}, nil
	case def == nil && raw != nil:
		return closureResult{}, newUnexpectedClosure(callSpan, raw.Span)
	case def != nil && raw == nil:
		var example *string
		if len(def.Inputs) > 0 && def.Inputs[0].Example != "" {
			example = &def.Inputs[0].Example
		} else if len(examples) > 0 {
			example = &examples[0].Source
		}
		return closureResult{}, newMissingClosure(callSpan, example)
	}

	input, targetTypeDef, err := selectClosureInput(def.Inputs, bound, scope, callSpan)
	if err != nil {
		return closureResult{}, err
	}

	if len(raw.Variables) != len(input.Variables) {
		return closureResult{}, newClosureArityMismatch(identSpan, raw.VariablesSpan, len(input.Variables), len(raw.Variables))
	}

	snapshot := scope.Local.Snapshot()
	boundVars := make([]ident.Ident, len(raw.Variables))
	for i, varNode := range raw.Variables {
		td := input.Variables[i].Resolve(targetTypeDef)
		scope.Local.InsertVariable(varNode.Value, td, nil)
		boundVars[i] = varNode.Value
	}

	block, err := raw.CompileBlock(scope)
	if err != nil {
		// The variables are already bound; the caller restores scope for us
		// regardless of outcome (§4.4 step 1), so we hand back what we bound
		// even on failure.
		return closureResult{snapshot: snapshot, bound: boundVars}, err
	}

	return closureResult{
		closure: &FunctionClosure{
			Input:     input,
			Variables: boundVars,
			Block:     block,
		},
		snapshot: snapshot,
		bound:    boundVars,
	}, nil
}

// selectClosureInput implements §4.3's input-selection scan: for each
// declared input in order, locate the call argument bound to its
// parameter_keyword (skipping inputs whose keyword was not supplied), and
// take the first whose declared Kind is a superset of that argument's Kind.
// If none matches, the diagnostic reports the last-seen mismatched Kind, or
// kind.AnyKind() if no candidate argument was found at all.
func selectClosureInput(inputs []ClosureInput, bound map[string]FunctionArgument, scope Scope, callSpan ident.Span) (ClosureInput, TypeDef, error) {
	sawMismatch := false
	var lastMismatch TypeDef
	for _, in := range inputs {
		arg, ok := bound[in.ParameterKeyword]
		if !ok {
			continue
		}
		td := arg.TypeDefOf(scope)
		if !in.Kind.IsSuperset(td.Kind) {
			sawMismatch = true
			lastMismatch = td
			continue
		}
		return in, td, nil
	}
	foundKind := kind.AnyKind()
	if sawMismatch {
		foundKind = lastMismatch.Kind
	}
	return ClosureInput{}, TypeDef{}, newClosureParameterTypeMismatch(callSpan, foundKind)
}
