// Package resolve implements the function-call resolution and type-checking
// core of an expression-language compiler: given a parsed call-site
// `ident(arg, keyword=arg, ...) { |v1, v2| block }`, it locates the function,
// binds and type-checks arguments, validates and binds an optional closure,
// and lowers the call into a runtime-ready FunctionCall.
//
// It is grounded in grailbio/gql's function-call handling (func.go's FormalArg
// and Func, ast_util.go's addFuncall, ai.go's AIType/AIArg), generalized from
// GQL's concrete value system to the Kind lattice in package kind and to
// explicit error returns instead of panics, per the resolver's own contract:
// §7 requires that resolution errors never be recovered inside this core.
package resolve

import (
	"context"

	"github.com/lumenscript/compiler/ident"
	"github.com/lumenscript/compiler/kind"
)

// Value is the runtime's own value representation. It is opaque to this
// core: the downstream evaluator that interprets a lowered Expression is an
// external collaborator (§1), so this package never inspects a Value beyond
// passing it through.
type Value any

// TypeDef pairs a Kind with whether evaluating the expression may fail at
// runtime.
type TypeDef struct {
	Kind     kind.Kind
	Fallible bool
}

// WithFallibility returns a copy of t with Fallible set to fallible.
func (t TypeDef) WithFallibility(fallible bool) TypeDef {
	t.Fallible = fallible
	return t
}

// Scope is the pair of environments an Expression's TypeDef and Resolve need:
// the mutable lexical scope local to the current call chain, and the global
// analysis/runtime state shared across the whole compilation.
type Scope struct {
	Local    *LocalEnv
	External *ExternalEnv
}

// Expression is the contract produced and consumed by this core (§6). The
// parser builds Expression trees for argument expressions and closure
// bodies; this core inspects their TypeDef and, once it has lowered a call,
// wraps one in a FunctionCall.
type Expression interface {
	// Resolve evaluates the expression at runtime.
	Resolve(ctx context.Context) (Value, error)
	// TypeDefOf reports the expression's static Kind and fallibility given a
	// scope pair.
	TypeDefOf(scope Scope) TypeDef
	// UpdateState lets an expression push state into the environments after
	// it has been fully resolved. The default behavior (most expressions)
	// is a no-op; call-like expressions that mutate global state override
	// it.
	UpdateState(local *LocalEnv, external *ExternalEnv) error
	// String renders a human-readable, non-diagnostic form of the
	// expression, for logging and test assertions only.
	String() string
}

// Parameter is a declared formal of a built-in function.
type Parameter struct {
	Keyword  string
	Kind     kind.Kind
	Required bool
}

// FunctionArgument is one actual argument at a call site: a keyword (if
// named) paired with the argument expression, plus the span of the whole
// `keyword = expr` (or bare `expr`) text.
type FunctionArgument struct {
	Span    ident.Span
	Keyword *ident.Node[ident.Ident] // nil for a positional argument.
	Expr    Expression
}

// TypeDefOf returns the argument's TypeDef under the given scope.
func (a FunctionArgument) TypeDefOf(scope Scope) TypeDef {
	return a.Expr.TypeDefOf(scope)
}

// ClosureVarKindTag discriminates the four ways a closure-bound variable's
// type can be derived from the target argument's Kind (§3).
type ClosureVarKindTag int

const (
	// ClosureVarExact binds the variable to a fixed Kind regardless of the
	// target argument.
	ClosureVarExact ClosureVarKindTag = iota
	// ClosureVarTarget binds the variable to the target argument's full
	// TypeDef (Kind and fallibility).
	ClosureVarTarget
	// ClosureVarTargetInnerValue binds the variable to the reduced element
	// Kind of the target if it is a collection, else Any.
	ClosureVarTargetInnerValue
	// ClosureVarTargetInnerKey binds the variable to Bytes if the target may
	// be an Object, Integer if it may be an Array, their union if both are
	// possible, or Any if the target reaches neither collection shape.
	ClosureVarTargetInnerKey
)

// ClosureVarKind is a ClosureVarKindTag plus the payload ClosureVarExact
// needs.
type ClosureVarKind struct {
	Tag   ClosureVarKindTag
	Exact kind.Kind // meaningful iff Tag == ClosureVarExact.
}

// Resolve derives the bound variable's TypeDef from the target argument's
// TypeDef, per the VariableKind rule in §3.
func (k ClosureVarKind) Resolve(target TypeDef) TypeDef {
	switch k.Tag {
	case ClosureVarExact:
		return TypeDef{Kind: k.Exact}
	case ClosureVarTarget:
		return target
	case ClosureVarTargetInnerValue:
		return TypeDef{Kind: target.Kind.InnerValueKind()}
	case ClosureVarTargetInnerKey:
		return TypeDef{Kind: target.Kind.InnerKeyKind()}
	default:
		panic("resolve: unknown ClosureVarKindTag")
	}
}

// ClosureInput is one candidate signature a function's closure may match.
// ParameterKeyword names which call argument the closure iterates over;
// Kind must be a superset of that argument's Kind for this input to match;
// Output is the Kind the closure block must return. Example, when set, is
// attached to the MissingClosure diagnostic if this is the first input.
type ClosureInput struct {
	ParameterKeyword string
	Kind             kind.Kind
	Variables        []ClosureVarKind
	Output           kind.Kind
	Example          string
}

// ClosureDefinition is the closure signature(s) a function declares. At most
// one Input matches a given call site.
type ClosureDefinition struct {
	Inputs []ClosureInput
}

// Example is one documented usage of a function, surfaced by diagnostics
// (e.g. MissingClosure falls back to the function's first Example's Source
// when the first closure input has no Example of its own).
type Example struct {
	Title  string
	Source string
	Result string
}

// Function is the host ABI this core consumes (§6): the plugin interface the
// standard-library crate supplies for every built-in function.
type Function interface {
	Identifier() string
	Parameters() []Parameter
	Closure() *ClosureDefinition
	Compile(scope Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error)
	Examples() []Example
}

// FunctionCompileContext is handed to Function.Compile. ExternalContext is
// the external environment's context bag, lent to this one call's
// compilation: the caller swaps it out of the ExternalEnv (leaving a fresh
// empty bag in its place) before invoking Compile, and swaps the bag found in
// ExternalContext afterward back in (§4.4 step 4, §5).
type FunctionCompileContext struct {
	CallSpan        ident.Span
	ExternalContext *ContextBag
}
