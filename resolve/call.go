package resolve

import (
	"context"
	"fmt"

	"github.com/lumenscript/compiler/ident"
)

// FunctionCall is the lowered form of a resolved call site (§3): an
// immutable record pairing the compiled Expression with the bookkeeping the
// runtime surface (§4.5) needs to recompute its own fallibility and render
// its own runtime errors without re-walking the call.
//
// Arguments is a shared, immutable handle once Resolve returns (§5);
// nothing in this package mutates it again, so callers may inspect it
// alongside the lowered call freely.
type FunctionCall struct {
	Span                   ident.Span
	Ident                  string
	FunctionID             int
	AbortOnError           bool
	Expr                   Expression
	MaybeFallibleArguments bool
	ClosureFallible        bool
	Closure                *FunctionClosure
	Arguments              *ArgumentList
	RawArguments           []FunctionArgument
}

var _ Expression = (*FunctionCall)(nil)

// Resolve implements §4.5's resolve(ctx): it delegates to the compiled
// expression and, on an ordinary failure, wraps the message the way the
// spec requires. A contract violation (the compiled expression somehow
// producing an Abort-variant error, which this resolver must never itself
// produce) is not something Go's error type distinguishes from an ordinary
// error, so it is surfaced identically — the contract is enforced by never
// constructing one, not by detecting one here.
func (c *FunctionCall) Resolve(ctx context.Context) (Value, error) {
	v, err := c.Expr.Resolve(ctx)
	if err != nil {
		return nil, &Diagnostic{
			code:    CodeCompilation,
			message: fmt.Sprintf("function call error for %q at (%s): %s", c.Ident, c.Span, err),
			labels:  []Label{{Span: c.Span, Message: err.Error(), Primary: true}},
			cause:   err,
		}
	}
	return v, nil
}

// TypeDefOf implements §4.5's type_def(scope): the fallibility algebra folds
// in maybe_fallible_arguments and closure_fallible, then abort_on_error
// clears the result — abort is the final override, since it replaces a
// runtime failure with an unrecoverable abort rather than letting it
// surface as one.
func (c *FunctionCall) TypeDefOf(scope Scope) TypeDef {
	td := c.Expr.TypeDefOf(scope)
	fallible := td.Fallible || c.MaybeFallibleArguments || c.ClosureFallible
	if c.AbortOnError {
		fallible = false
	}
	return td.WithFallibility(fallible)
}

// UpdateState delegates to the already-compiled expression; the finaliser
// (§4.4 step 6) already invoked it once while lowering the call, so this
// only matters if a FunctionCall is itself nested as another call's
// argument and gets type-checked again by its caller.
func (c *FunctionCall) UpdateState(local *LocalEnv, external *ExternalEnv) error {
	return c.Expr.UpdateState(local, external)
}

// String renders the call in `ident(kw: arg, kw: arg) { |v| block }` form, the
// way grailbio/gql's ASTFuncall.String renders a call for logging and test
// assertions. Every argument, positional or not, is shown under the keyword
// it was bound to, in the ArgumentList's first-insertion order.
func (c *FunctionCall) String() string {
	out := c.Ident + "("
	for i, kw := range c.Arguments.Keywords() {
		if i > 0 {
			out += ", "
		}
		expr, _ := c.Arguments.Get(kw)
		out += fmt.Sprintf("%s: %s", kw, expr.String())
	}
	out += ")"
	if c.Closure != nil {
		out += " { |"
		for i, v := range c.Closure.Variables {
			if i > 0 {
				out += ", "
			}
			out += v.Str()
		}
		out += "| " + c.Closure.Block.String() + " }"
	}
	return out
}

// ResolveArguments exposes §4.5's resolve_arguments(function): the dense,
// parameter-ordered argument vector computed from this call's original,
// unresolved argument list (§4.5's "the stored argument list"), so each
// argument's positional-vs-keyword origin is still intact.
func (c *FunctionCall) ResolveArguments(fn Function) Resolved {
	return resolveArguments(c.RawArguments, fn.Parameters())
}

// NewLiteralCall builds an already-resolved FunctionCall wrapping expr
// directly, bypassing lookup, binding, and closure validation entirely. It
// is grounded in the original Rust source's FunctionCall::noop()-style
// constructor, used there by call-site rewriting and by its own test
// harness to produce a FunctionCall value without standing up a registry.
func NewLiteralCall(span ident.Span, name string, expr Expression) *FunctionCall {
	return &FunctionCall{
		Span:       span,
		Ident:      name,
		FunctionID: -1,
		Expr:       expr,
		Arguments:  newArgumentList(),
	}
}

// Resolve is the top-level entry point (§4): given a parsed call site, it
// runs the lookup (component B), the argument binder and type-checker
// (components C and D, interleaved per §4.1/§4.2), the closure validator
// (component E, §4.3), and the call finaliser (component F, §4.4), in that
// order, and lowers the result into a FunctionCall.
//
// It is grounded in grailbio/gql's ast_util.go addFuncall, which drives the
// same lookup → bind → closure → compile pipeline in one function; this
// split mirrors the spec's own component boundaries instead of GQL's single
// pass, since each stage here can fail with a distinct diagnostic.
func Resolve(
	registry *Registry,
	scope Scope,
	identNode *ident.Node[ident.Ident],
	callSpan ident.Span,
	abortOnError bool,
	args []FunctionArgument,
	rawClosure *CallClosure,
) (*FunctionCall, error) {
	name := identNode.Value.Str()
	debugf(callSpan, "resolving call to %q", name)

	functionID, fn, ok := registry.Lookup(name)
	if !ok {
		return nil, newUndefined(identNode.Span, name, registry.Identifiers())
	}

	params := fn.Parameters()
	br, err := bindArguments(name, params, callSpan, abortOnError, args, scope)
	if err != nil {
		return nil, err
	}

	argumentList := newArgumentList()
	for i, a := range args {
		argumentList.Insert(br.argKeywords[i], a.Expr)
	}

	cr, err := validateClosure(identNode.Span, callSpan, fn.Closure(), rawClosure, br.bound, scope, fn.Examples())
	if err != nil {
		if cr.snapshot != nil {
			scope.Local.Restore(cr.snapshot, cr.bound)
		}
		return nil, err
	}

	fr, err := finalizeCall(identNode.Span, callSpan, fn, scope, argumentList, cr, br.maybeFallibleArgs, abortOnError)
	if err != nil {
		return nil, err
	}

	return &FunctionCall{
		Span:                   callSpan,
		Ident:                  name,
		FunctionID:             functionID,
		AbortOnError:           abortOnError,
		Expr:                   fr.expr,
		MaybeFallibleArguments: br.maybeFallibleArgs,
		ClosureFallible:        fr.closureFallible,
		Closure:                cr.closure,
		Arguments:              argumentList,
		RawArguments:           args,
	}, nil
}

