package kind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenscript/compiler/kind"
)

func TestExactAndEmpty(t *testing.T) {
	k := kind.Exact(kind.Integer)
	assert.True(t, k.Exact())
	assert.False(t, k.Empty())
	assert.True(t, kind.EmptyKind().Empty())
	assert.False(t, kind.AnyKind().Exact())
}

func TestSuperset(t *testing.T) {
	any := kind.AnyKind()
	i := kind.Exact(kind.Integer)
	assert.True(t, any.IsSuperset(i))
	assert.False(t, i.IsSuperset(any))
	assert.True(t, i.IsSuperset(i))
}

func TestIntersectsPartialMatch(t *testing.T) {
	bytesOrInt := kind.Exact(kind.Bytes).Union(kind.Exact(kind.Integer))
	i := kind.Exact(kind.Integer)
	assert.True(t, bytesOrInt.Intersects(i))
	assert.False(t, i.IsSuperset(bytesOrInt))
	assert.False(t, bytesOrInt.IsSuperset(i))
}

func TestDisjoint(t *testing.T) {
	b := kind.Exact(kind.Boolean)
	i := kind.Exact(kind.Integer)
	assert.False(t, b.Intersects(i))
}

func TestCollectionElemReduction(t *testing.T) {
	elem := kind.Exact(kind.Bytes)
	arr := kind.NewArray(elem)
	assert.True(t, arr.IsCollection())
	assert.True(t, arr.IsArray())
	assert.False(t, arr.IsObject())
	assert.Equal(t, "bytes", arr.ArrayElem().String())
}

func TestInnerKeyKind(t *testing.T) {
	obj := kind.NewObject(kind.Exact(kind.Bytes))
	assert.Equal(t, "bytes", obj.InnerKeyKind().String())

	arr := kind.NewArray(kind.Exact(kind.Bytes))
	assert.Equal(t, "integer", arr.InnerKeyKind().String())

	both := obj.Union(arr)
	assert.Equal(t, "bytes|integer", both.InnerKeyKind().String())

	scalar := kind.Exact(kind.Integer)
	assert.Equal(t, "any", scalar.InnerKeyKind().String())
}

func TestInnerValueKind(t *testing.T) {
	obj := kind.NewObject(kind.Exact(kind.Bytes))
	assert.Equal(t, "bytes", obj.InnerValueKind().String())

	both := kind.NewArray(kind.Exact(kind.Integer)).Union(kind.NewObject(kind.Exact(kind.Bytes)))
	assert.Equal(t, "bytes|integer", both.InnerValueKind().String())
}

func TestUnionMergesCollectionElems(t *testing.T) {
	a := kind.NewArray(kind.Exact(kind.Bytes))
	b := kind.NewArray(kind.Exact(kind.Integer))
	u := a.Union(b)
	assert.Equal(t, "bytes|integer", u.ArrayElem().String())
}

func TestCoercibleName(t *testing.T) {
	n, ok := kind.Exact(kind.Integer).CoercibleName()
	assert.True(t, ok)
	assert.Equal(t, "int", n)

	_, ok = kind.NewArray(kind.AnyKind()).CoercibleName()
	assert.False(t, ok)
}

func TestStringRendersAnyAndUnions(t *testing.T) {
	assert.Equal(t, "any", kind.AnyKind().String())
	u := kind.Exact(kind.Bytes).Union(kind.Exact(kind.Integer))
	assert.Equal(t, "bytes|integer", u.String())
}
