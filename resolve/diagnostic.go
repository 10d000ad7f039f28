package resolve

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/lumenscript/compiler/ident"
	"github.com/lumenscript/compiler/kind"
)

// Error codes (§6). These are wire-stable: tooling depends on the exact
// integers, so they must never change once shipped.
const (
	CodeUndefined                    = 105
	CodeWrongNumberOfArgs            = 106
	CodeMissingArgument              = 107
	CodeUnknownKeyword               = 108
	CodeUnexpectedClosure            = 109
	CodeInvalidArgumentKind          = 110
	CodeMissingClosure               = 111
	CodeClosureArityMismatch         = 120
	CodeClosureParameterTypeMismatch = 121
	CodeReturnTypeMismatch           = 122
	CodeCompilation                  = 610
	CodeAbortInfallible              = 620
	CodeFallibleArgument             = 630
	CodeUpdateState                  = 640
)

// Label is one annotated source span in a Diagnostic, e.g. "resolves to
// bytes" pointing at the argument expression.
type Label struct {
	Span    ident.Span
	Message string
	Primary bool
}

// Diagnostic is the resolver's single error type: every one of the 14 error
// kinds in §7 is represented as a Diagnostic with a distinct Code. It carries
// exactly what the spec requires for rendering: labelled spans and
// free-form notes, nothing that can't be cheaply cloned for reporting.
type Diagnostic struct {
	code    int
	message string
	labels  []Label
	notes   []string
	cause   error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.cause != nil {
		return fmt.Sprintf("%s: %v", d.message, d.cause)
	}
	return d.message
}

// Unwrap exposes a wrapped plugin error (Compilation only) to errors.Is/As.
func (d *Diagnostic) Unwrap() error { return d.cause }

// Code returns the wire-stable error code.
func (d *Diagnostic) Code() int { return d.code }

// Labels returns the diagnostic's annotated spans, in the order the
// constructor added them; the main location is the one marked Primary.
func (d *Diagnostic) Labels() []Label { return d.labels }

// Notes returns free-form supplementary text (suggestions, coercion hints).
func (d *Diagnostic) Notes() []string { return d.notes }

// Undefined (105): no function in the registry matches ident.
func newUndefined(identSpan ident.Span, name string, allIdents []string) *Diagnostic {
	msg := fmt.Sprintf("call to undefined function %q", name)
	var notes []string
	if suggestion, ok := nearestIdentifier(name, allIdents); ok {
		notes = append(notes, fmt.Sprintf("did you mean %q?", suggestion))
	}
	return &Diagnostic{
		code:    CodeUndefined,
		message: msg,
		labels:  []Label{{Span: identSpan, Message: "undefined function", Primary: true}},
		notes:   notes,
	}
}

// WrongNumberOfArgs (106): more arguments supplied than the function has
// parameters.
func newWrongNumberOfArgs(span ident.Span, max int) *Diagnostic {
	return &Diagnostic{
		code:    CodeWrongNumberOfArgs,
		message: fmt.Sprintf("wrong number of arguments: expected at most %d", max),
		labels:  []Label{{Span: span, Message: "too many arguments", Primary: true}},
	}
}

// MissingArgument (107): a required parameter's keyword is absent.
func newMissingArgument(callSpan ident.Span, keyword string, position int) *Diagnostic {
	return &Diagnostic{
		code:    CodeMissingArgument,
		message: fmt.Sprintf("required argument %q (position %d) is missing", keyword, position),
		labels:  []Label{{Span: callSpan, Message: fmt.Sprintf("missing argument %q", keyword), Primary: true}},
	}
}

// UnknownKeyword (108): a keyword argument names no declared parameter.
func newUnknownKeyword(span ident.Span, keyword string, allKeywords []string) *Diagnostic {
	var notes []string
	if suggestion, ok := nearestIdentifier(keyword, allKeywords); ok {
		notes = append(notes, fmt.Sprintf("did you mean %q?", suggestion))
	}
	return &Diagnostic{
		code:    CodeUnknownKeyword,
		message: fmt.Sprintf("unknown argument keyword %q", keyword),
		labels:  []Label{{Span: span, Message: "unknown keyword", Primary: true}},
		notes:   notes,
	}
}

// UnexpectedClosure (109): a closure was supplied to a function that
// declares none.
func newUnexpectedClosure(callSpan, closureSpan ident.Span) *Diagnostic {
	return &Diagnostic{
		code:    CodeUnexpectedClosure,
		message: "function does not take a closure",
		labels: []Label{
			{Span: callSpan, Message: "in this call"},
			{Span: closureSpan, Message: "unexpected closure", Primary: true},
		},
	}
}

// InvalidArgumentKind (110): the argument's Kind does not intersect the
// parameter's declared Kind at all.
func newInvalidArgumentKind(functionIdent string, abortOnError bool, argumentsFmt string, parameter Parameter, got kind.Kind, argumentSpan ident.Span) *Diagnostic {
	calledAs := functionIdent
	if abortOnError {
		calledAs += "!"
	}
	d := &Diagnostic{
		code:    CodeInvalidArgumentKind,
		message: fmt.Sprintf("invalid argument type for %s(%s)", calledAs, argumentsFmt),
		labels: []Label{
			{Span: argumentSpan, Message: fmt.Sprintf("resolves to %s", got), Primary: true},
			{Span: argumentSpan, Message: fmt.Sprintf("but parameter %q expects %s", parameter.Keyword, parameter.Kind)},
		},
	}
	d.notes = append(d.notes, fmt.Sprintf("try: %s = %s!(%s)", parameter.Keyword, parameter.Kind, parameter.Keyword))
	if name, ok := got.CoercibleName(); ok {
		d.notes = append(d.notes, fmt.Sprintf("or coerce: %s = to_%s(%s) ?? <default>", parameter.Keyword, name, parameter.Keyword))
	}
	return d
}

// MissingClosure (111): the function declares a closure but none was
// supplied.
func newMissingClosure(callSpan ident.Span, example *string) *Diagnostic {
	d := &Diagnostic{
		code:    CodeMissingClosure,
		message: "this function requires a closure",
		labels:  []Label{{Span: callSpan, Message: "missing closure", Primary: true}},
	}
	if example != nil && *example != "" {
		d.notes = append(d.notes, "example:\n"+*example)
	}
	return d
}

// ClosureArityMismatch (120): the closure's bound-variable count does not
// match the matched input's declared variable count.
func newClosureArityMismatch(identSpan, closureArgsSpan ident.Span, expected, supplied int) *Diagnostic {
	return &Diagnostic{
		code:    CodeClosureArityMismatch,
		message: fmt.Sprintf("closure expects %d argument(s), but %d were supplied", expected, supplied),
		labels: []Label{
			{Span: identSpan, Message: "in this call"},
			{Span: closureArgsSpan, Message: fmt.Sprintf("expected %d argument(s)", expected), Primary: true},
		},
	}
}

// ClosureParameterTypeMismatch (121): no declared closure input matches the
// target argument's Kind.
func newClosureParameterTypeMismatch(callSpan ident.Span, foundKind kind.Kind) *Diagnostic {
	return &Diagnostic{
		code:    CodeClosureParameterTypeMismatch,
		message: fmt.Sprintf("no closure signature accepts an argument of type %s", foundKind),
		labels:  []Label{{Span: callSpan, Message: fmt.Sprintf("found %s", foundKind), Primary: true}},
	}
}

// ReturnTypeMismatch (122): the closure block's return Kind is not a subset
// of the matched input's declared output Kind.
func newReturnTypeMismatch(blockSpan ident.Span, found, expected kind.Kind) *Diagnostic {
	return &Diagnostic{
		code:    CodeReturnTypeMismatch,
		message: fmt.Sprintf("closure returns %s, but %s was expected", found, expected),
		labels:  []Label{{Span: blockSpan, Message: fmt.Sprintf("resolves to %s", found), Primary: true}},
	}
}

// newCompilation (610) wraps a plugin's own compile error (§7). The code is
// always CodeCompilation. When the cause is itself a Diagnostic, its labels
// and notes are forwarded, with every label span rewritten to callSpan so the
// diagnostic points at the call site, not into the plugin's synthetic AST;
// otherwise a single label carrying the cause's message is used.
func newCompilation(callSpan ident.Span, cause error) *Diagnostic {
	d := &Diagnostic{
		code:    CodeCompilation,
		message: fmt.Sprintf("function call compilation error: %s", errors.Cause(cause)),
		labels:  []Label{{Span: callSpan, Message: cause.Error(), Primary: true}},
		cause:   cause,
	}
	var src *Diagnostic
	if errors.As(cause, &src) {
		d.notes = append(d.notes, src.notes...)
		if len(src.labels) > 0 {
			d.labels = make([]Label, len(src.labels))
			for i, l := range src.labels {
				l.Span = callSpan
				d.labels[i] = l
			}
		}
	}
	return d
}

// AbortInfallible (620): the caller marked the call abort-on-error, but
// nothing about the call can actually fail.
func newAbortInfallible(identSpan ident.Span) *Diagnostic {
	abortSpan := identSpan.PastEnd()
	return &Diagnostic{
		code:    CodeAbortInfallible,
		message: "abort-on-error marker on a call that cannot fail",
		labels: []Label{
			{Span: identSpan, Message: "this call always succeeds"},
			{Span: abortSpan, Message: "remove this marker", Primary: true},
		},
	}
}

// FallibleArgument (630): an argument expression is itself fallible, which
// this resolver never accepts (§4.2).
func newFallibleArgument(exprSpan ident.Span) *Diagnostic {
	return &Diagnostic{
		code:    CodeFallibleArgument,
		message: "argument expression may fail, but a function argument must not",
		labels:  []Label{{Span: exprSpan, Message: "may fail", Primary: true}},
	}
}

// UpdateState (640): Expression.UpdateState returned an error after the
// call was otherwise fully resolved.
func newUpdateState(callSpan ident.Span, cause string) *Diagnostic {
	return &Diagnostic{
		code:    CodeUpdateState,
		message: fmt.Sprintf("failed to update state: %s", cause),
		labels:  []Label{{Span: callSpan, Message: "while resolving this call", Primary: true}},
	}
}

// formatArguments renders the dense, ordered argument list for use in the
// InvalidArgumentKind message, the way grailbio/gql's ASTFuncall.String
// joins its args with commas.
func formatArguments(args []FunctionArgument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Keyword != nil {
			parts[i] = fmt.Sprintf("%s: <expr>", a.Keyword.Value.Str())
		} else {
			parts[i] = "<expr>"
		}
	}
	return strings.Join(parts, ", ")
}
