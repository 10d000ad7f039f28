package resolve

import "github.com/lumenscript/compiler/ident"

// FunctionClosure is the compiled closure attached to a lowered call: the
// matched ClosureInput, the bound variable identifiers (in declaration
// order), and the already-compiled block Expression.
type FunctionClosure struct {
	Input     ClosureInput
	Variables []ident.Ident
	Block     Expression
}

// ArgumentList is the mapping keyword -> expression the resolver hands to a
// Function's Compile hook, plus the optional compiled closure (§6). It is
// shared, immutable once built (§5, §9's "Arc-shared arguments" note): after
// Resolve returns, nothing mutates an ArgumentList again, so it is
// safe for the runtime to inspect alongside the lowered FunctionCall without
// copying.
type ArgumentList struct {
	values   map[string]Expression
	order    []string
	closure  *FunctionClosure
}

// newArgumentList creates an empty ArgumentList.
func newArgumentList() *ArgumentList {
	return &ArgumentList{values: map[string]Expression{}}
}

// Insert adds keyword -> expr. The first Insert of a given keyword fixes its
// position in Keywords(); a later Insert of the same keyword only updates
// its expression.
func (l *ArgumentList) Insert(keyword string, expr Expression) {
	if _, ok := l.values[keyword]; !ok {
		l.order = append(l.order, keyword)
	}
	l.values[keyword] = expr
}

// Keywords returns every bound keyword, in first-insertion order.
func (l *ArgumentList) Keywords() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Get returns the expression bound to keyword, if any.
func (l *ArgumentList) Get(keyword string) (Expression, bool) {
	e, ok := l.values[keyword]
	return e, ok
}

// SetClosure attaches the compiled closure to the argument list.
func (l *ArgumentList) SetClosure(c *FunctionClosure) { l.closure = c }

// Closure returns the compiled closure, if the call had one.
func (l *ArgumentList) Closure() *FunctionClosure { return l.closure }

// Resolved is the dense, parameter-ordered argument vector
// resolve_arguments(function) computes (§4.5): a slot per parameter, empty
// where the caller omitted an optional argument.
type Resolved struct {
	Parameters []Parameter
	Slots      []Expression // nil where unbound.
}

// resolveArguments normalises the call's original argument list into a
// vector parallel to params: every keyword argument is placed first, then
// the remaining holes are filled with positional arguments in source order
// (§4.5). This must run over the raw call-site arguments, not over an
// ArgumentList already keyed by the binder's resolved keyword — the binder
// (§4.1) can assign a positional argument to a parameter another, later
// keyword argument also names (scenario 4: `test(three=3, 2, one=1)` binds
// the positional `2` to "one" because the cursor hasn't advanced past it
// yet), and a keyword-first index collapses both onto the same slot,
// silently losing the positional argument's value. Working from the raw
// args keeps each argument's true positional-vs-keyword origin intact. Per
// §4.5 these errors are informational: they are unreachable if the binder
// did its job, so on the rare mismatch this simply leaves a hole rather
// than failing the runtime.
func resolveArguments(args []FunctionArgument, params []Parameter) Resolved {
	slots := make([]Expression, len(params))
	filled := make([]bool, len(params))
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p.Keyword] = i
	}

	var positional []Expression
	for _, a := range args {
		if a.Keyword == nil {
			positional = append(positional, a.Expr)
			continue
		}
		if i, ok := index[a.Keyword.Value.Str()]; ok {
			slots[i] = a.Expr
			filled[i] = true
		}
	}
	pi := 0
	for i := range params {
		if filled[i] {
			continue
		}
		if pi < len(positional) {
			slots[i] = positional[pi]
			pi++
		}
	}
	return Resolved{Parameters: params, Slots: slots}
}
