package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenscript/compiler/ident"
	"github.com/lumenscript/compiler/kind"
)

func identNode(name string) *ident.Node[ident.Ident] {
	n := ident.NewNode(ident.Span{Start: 0, End: len(name)}, ident.Intern(name))
	return &n
}

func TestResolveUndefinedFunctionSuggestsNearest(t *testing.T) {
	registry := NewRegistry([]Function{&stubFunction{ident: "teest"}})
	_, err := Resolve(registry, newScope(), identNode("test"), ident.Span{}, false, nil, nil)
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, CodeUndefined, d.Code())
	assert.Contains(t, d.Notes()[0], "teest")
}

func TestResolveSimpleCallNoClosure(t *testing.T) {
	fn := &stubFunction{
		ident:  "upcase",
		params: []Parameter{{Keyword: "value", Kind: kind.Exact(kind.Bytes), Required: true}},
		compile: func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
			v, ok := args.Get("value")
			if !ok {
				t.Fatal("expected value argument bound")
			}
			return &stubExpression{td: TypeDef{Kind: kind.Exact(kind.Bytes)}, str: v.String()}, nil
		},
	}
	registry := NewRegistry([]Function{fn})
	args := []FunctionArgument{{Expr: &stubExpression{td: TypeDef{Kind: kind.Exact(kind.Bytes)}, str: "\"hi\""}}}

	call, err := Resolve(registry, newScope(), identNode("upcase"), ident.Span{}, false, args, nil)
	require.NoError(t, err)
	assert.Equal(t, "upcase", call.Ident)
	assert.False(t, call.MaybeFallibleArguments)
	assert.False(t, call.TypeDefOf(newScope()).Fallible)
}

func TestResolveClosureForEachStyleBindsAndUnbinds(t *testing.T) {
	def := &ClosureDefinition{Inputs: []ClosureInput{
		{
			ParameterKeyword: "value",
			Kind:             kind.Exact(kind.Array).Union(kind.Exact(kind.Object)),
			Variables:        []ClosureVarKind{{Tag: ClosureVarTargetInnerKey}, {Tag: ClosureVarTargetInnerValue}},
			Output:           kind.AnyKind(),
		},
	}}
	fn := &stubFunction{
		ident:   "for_each",
		params:  []Parameter{{Keyword: "value", Kind: kind.Exact(kind.Array).Union(kind.Exact(kind.Object)), Required: true}},
		closure: def,
		compile: func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
			return &stubExpression{td: TypeDef{Kind: kind.AnyKind()}}, nil
		},
	}
	registry := NewRegistry([]Function{fn})

	arrKind := kind.NewArray(kind.Exact(kind.Bytes))
	args := []FunctionArgument{{Expr: &stubExpression{td: TypeDef{Kind: arrKind}}}}

	scope := newScope()
	keyID := ident.Intern("k")
	valID := ident.Intern("v")

	raw := &CallClosure{
		Variables: []*ident.Node[ident.Ident]{kw("k"), kw("v")},
		CompileBlock: func(s Scope) (Expression, error) {
			keyTD, _, ok := s.Local.Lookup(keyID)
			require.True(t, ok)
			assert.Equal(t, kind.Exact(kind.Integer), keyTD.Kind)
			valTD, _, ok := s.Local.Lookup(valID)
			require.True(t, ok)
			assert.Equal(t, kind.Exact(kind.Bytes), valTD.Kind)
			return &stubExpression{td: TypeDef{Kind: kind.AnyKind()}}, nil
		},
	}

	call, err := Resolve(registry, scope, identNode("for_each"), ident.Span{}, false, args, raw)
	require.NoError(t, err)
	require.NotNil(t, call.Closure)

	// Scope balance (§8): once resolution completes, the closure variables
	// must no longer be visible.
	_, _, keyStillBound := scope.Local.Lookup(keyID)
	_, _, valStillBound := scope.Local.Lookup(valID)
	assert.False(t, keyStillBound)
	assert.False(t, valStillBound)
}

func TestResolveAbortOnInfallibleCallFullyMatching(t *testing.T) {
	fn := &stubFunction{
		ident:  "always_succeeds",
		params: []Parameter{{Keyword: "value", Kind: kind.Exact(kind.Bytes), Required: true}},
		compile: func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
			return &stubExpression{td: TypeDef{Kind: kind.Exact(kind.Bytes), Fallible: false}}, nil
		},
	}
	registry := NewRegistry([]Function{fn})
	args := []FunctionArgument{{Expr: &stubExpression{td: TypeDef{Kind: kind.Exact(kind.Bytes)}}}}

	_, err := Resolve(registry, newScope(), identNode("always_succeeds"), ident.Span{}, true, args, nil)
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, CodeAbortInfallible, d.Code())
}

func TestFunctionCallResolveWrapsRuntimeError(t *testing.T) {
	call := &FunctionCall{
		Span:  ident.Span{Start: 1, End: 4},
		Ident: "frob",
		Expr:  &failingResolveExpression{},
	}
	_, err := call.Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frob")
	assert.Contains(t, err.Error(), "1:4")
}

type failingResolveExpression struct{ stubExpression }

func (e *failingResolveExpression) Resolve(ctx context.Context) (Value, error) {
	return nil, assertError{"boom"}
}
