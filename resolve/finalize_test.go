package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenscript/compiler/ident"
	"github.com/lumenscript/compiler/kind"
)

func TestFinalizeCallRestoresScopeBeforeCompile(t *testing.T) {
	scope := newScope()
	id := ident.Intern("v")
	scope.Local.InsertVariable(id, TypeDef{Kind: kind.Exact(kind.Bytes)}, "prior")

	snapshot := scope.Local.Snapshot()
	scope.Local.InsertVariable(id, TypeDef{Kind: kind.Exact(kind.Integer)}, nil)

	var sawDuringCompile TypeDef
	fn := &stubFunction{ident: "f"}
	compiled := false
	fnCompile := func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
		compiled = true
		td, _, _ := s.Local.Lookup(id)
		sawDuringCompile = td
		return &stubExpression{td: TypeDef{Kind: kind.AnyKind()}}, nil
	}
	fn.compile = fnCompile

	cr := closureResult{
		closure:  &FunctionClosure{Input: ClosureInput{Output: kind.AnyKind()}, Variables: []ident.Ident{id}, Block: &stubExpression{td: TypeDef{Kind: kind.Exact(kind.Bytes)}}},
		snapshot: snapshot,
		bound:    []ident.Ident{id},
	}

	_, err := finalizeCall(ident.Span{}, ident.Span{}, fn, scope, newArgumentList(), cr, false, false)
	require.NoError(t, err)
	assert.True(t, compiled)
	assert.Equal(t, kind.Exact(kind.Bytes), sawDuringCompile.Kind)
}

func TestFinalizeCallReturnTypeMismatch(t *testing.T) {
	fn := &stubFunction{ident: "f"}
	cr := closureResult{
		closure: &FunctionClosure{
			Input: ClosureInput{Output: kind.Exact(kind.Integer)},
			Block: &stubExpression{td: TypeDef{Kind: kind.Exact(kind.Bytes)}},
		},
	}
	_, err := finalizeCall(ident.Span{}, ident.Span{}, fn, newScope(), newArgumentList(), cr, false, false)
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, CodeReturnTypeMismatch, d.Code())
}

func TestFinalizeCallCompilationErrorWrapsCause(t *testing.T) {
	fn := &stubFunction{ident: "f"}
	fn.compile = func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
		return nil, assertError{"plugin exploded"}
	}
	_, err := finalizeCall(ident.Span{}, ident.Span{}, fn, newScope(), newArgumentList(), closureResult{}, false, false)
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, CodeCompilation, d.Code())
	assert.Contains(t, d.Error(), "plugin exploded")
}

func TestFinalizeCallAbortInfallible(t *testing.T) {
	fn := &stubFunction{ident: "f"}
	fn.compile = func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
		return &stubExpression{td: TypeDef{Kind: kind.AnyKind(), Fallible: false}}, nil
	}
	_, err := finalizeCall(ident.Span{}, ident.Span{}, fn, newScope(), newArgumentList(), closureResult{}, false, true)
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, CodeAbortInfallible, d.Code())
}

func TestFinalizeCallAbortAllowedWhenFallible(t *testing.T) {
	fn := &stubFunction{ident: "f"}
	fn.compile = func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
		return &stubExpression{td: TypeDef{Kind: kind.AnyKind(), Fallible: true}}, nil
	}
	fr, err := finalizeCall(ident.Span{}, ident.Span{}, fn, newScope(), newArgumentList(), closureResult{}, false, true)
	require.NoError(t, err)
	assert.NotNil(t, fr.expr)
}

func TestFinalizeCallUpdateStateFailure(t *testing.T) {
	fn := &stubFunction{ident: "f"}
	fn.compile = func(s Scope, ctx *FunctionCompileContext, args *ArgumentList) (Expression, error) {
		return &failingUpdateExpression{}, nil
	}
	_, err := finalizeCall(ident.Span{}, ident.Span{}, fn, newScope(), newArgumentList(), closureResult{}, false, false)
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, CodeUpdateState, d.Code())
}

type failingUpdateExpression struct{ stubExpression }

func (e *failingUpdateExpression) UpdateState(local *LocalEnv, external *ExternalEnv) error {
	return assertError{"state update failed"}
}
