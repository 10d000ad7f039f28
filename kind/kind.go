// Package kind implements the compile-time value-shape lattice used to
// type-check function arguments, closure bindings, and block return values.
//
// A Kind is a set of primitive shapes (bytes, integer, float, boolean,
// timestamp, regex, null) plus the two collection shapes (array, object).
// Collections additionally carry a reduced element Kind, mirroring
// grailbio/gql's value_type.go (a flat ValueType enum with LikeString/LikeDate
// grouping) generalized into a true lattice with union, intersection, and
// superset tests, the way the function-call resolver's §4.2/§4.3 checks need.
package kind

import (
	"sort"
	"strings"
)

// Bits is a bitset over the primitive and collection shapes a Kind may
// contain.
type Bits uint16

const (
	Bytes Bits = 1 << iota
	Integer
	Float
	Boolean
	Timestamp
	Regex
	Null
	Array
	Object

	none Bits = 0
	all  Bits = Bytes | Integer | Float | Boolean | Timestamp | Regex | Null | Array | Object
)

var names = []struct {
	bit  Bits
	name string
}{
	{Bytes, "bytes"},
	{Integer, "integer"},
	{Float, "float"},
	{Boolean, "boolean"},
	{Timestamp, "timestamp"},
	{Regex, "regex"},
	{Null, "null"},
	{Array, "array"},
	{Object, "object"},
}

// Kind is a lattice value: a set of runtime value shapes. Array and Object
// carry a reduced element Kind describing what they may contain; it is nil
// when the element shape is unconstrained (equivalent to Any).
type Kind struct {
	bits      Bits
	arrayElem *Kind
	objectElem *Kind
}

// Exact builds a singleton Kind for one primitive bit.
func Exact(b Bits) Kind { return Kind{bits: b} }

// AnyKind returns the top of the lattice: every shape is possible.
func AnyKind() Kind { return Kind{bits: all} }

// EmptyKind returns the bottom of the lattice: no shape is possible. A well-formed
// TypeDef never carries an Empty Kind; it exists as the identity element for
// Union and as the result of an always-failing Intersect.
func EmptyKind() Kind { return Kind{} }

// NewArray builds a Kind containing only arrays whose elements are elem.
func NewArray(elem Kind) Kind {
	e := elem
	return Kind{bits: Array, arrayElem: &e}
}

// NewObject builds a Kind containing only objects whose fields are elem.
func NewObject(elem Kind) Kind {
	e := elem
	return Kind{bits: Object, objectElem: &e}
}

// Union combines the bits (and reduced element kinds) of two Kinds.
func (k Kind) Union(other Kind) Kind {
	out := Kind{bits: k.bits | other.bits}
	out.arrayElem = unionElem(k.bits, k.arrayElem, other.bits, other.arrayElem, Array)
	out.objectElem = unionElem(k.bits, k.objectElem, other.bits, other.objectElem, Object)
	return out
}

// Add is an alias for Union, matching the vocabulary of §3 ("union/add
// operations").
func (k Kind) Add(other Kind) Kind { return k.Union(other) }

func unionElem(aBits Bits, a *Kind, bBits Bits, b *Kind, which Bits) *Kind {
	aHas := aBits&which != 0
	bHas := bBits&which != 0
	switch {
	case aHas && bHas:
		if a == nil || b == nil {
			return nil
		}
		u := a.Union(*b)
		return &u
	case aHas:
		return a
	case bHas:
		return b
	default:
		return nil
	}
}

// Intersect returns the lattice meet of k and other: the shapes possible
// under both.
func (k Kind) Intersect(other Kind) Kind {
	out := Kind{bits: k.bits & other.bits}
	if out.bits&Array != 0 {
		out.arrayElem = intersectElem(k.arrayElem, other.arrayElem)
	}
	if out.bits&Object != 0 {
		out.objectElem = intersectElem(k.objectElem, other.objectElem)
	}
	return out
}

func intersectElem(a, b *Kind) *Kind {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		i := a.Intersect(*b)
		return &i
	}
}

// Intersects reports whether k and other share at least one possible shape.
func (k Kind) Intersects(other Kind) bool {
	return k.bits&other.bits != 0
}

// IsSuperset reports whether every shape in other is also possible in k (k ⊇
// other). The element kinds of collections are not required to nest for this
// check: the call-site invariant only needs the top-level shape to match,
// exactly as grailbio/gql's FormalArg.Types check only compares ValueType.
func (k Kind) IsSuperset(other Kind) bool {
	return other.bits&^k.bits == 0
}

// Empty reports whether k admits no shape at all.
func (k Kind) Empty() bool { return k.bits == none }

// Exact reports whether k is a singleton: exactly one shape is possible.
func (k Kind) Exact() bool {
	b := k.bits
	return b != 0 && b&(b-1) == 0
}

// IsCollection reports whether k may be an array or an object.
func (k Kind) IsCollection() bool { return k.bits&(Array|Object) != 0 }

// IsArray reports whether k may be an array.
func (k Kind) IsArray() bool { return k.bits&Array != 0 }

// IsObject reports whether k may be an object.
func (k Kind) IsObject() bool { return k.bits&Object != 0 }

// Has reports whether k includes the given primitive bit(s).
func (k Kind) Has(b Bits) bool { return k.bits&b != 0 }

// ArrayElem returns the reduced element Kind of k's array possibility, or Any
// if unconstrained. Used to derive TargetInnerValue closure bindings.
func (k Kind) ArrayElem() Kind {
	if k.arrayElem == nil {
		return AnyKind()
	}
	return *k.arrayElem
}

// ObjectElem returns the reduced field-value Kind of k's object possibility,
// or Any if unconstrained. Used to derive TargetInnerValue closure bindings.
func (k Kind) ObjectElem() Kind {
	if k.objectElem == nil {
		return AnyKind()
	}
	return *k.objectElem
}

// InnerKeyKind implements the ClosureVar TargetInnerKey rule from §3: bytes if
// k may be an object, integer if k may be an array, the union of both if both
// are possible, any if k reaches neither collection shape.
func (k Kind) InnerKeyKind() Kind {
	var out Kind
	if k.IsObject() {
		out = out.Union(Exact(Bytes))
	}
	if k.IsArray() {
		out = out.Union(Exact(Integer))
	}
	if out.Empty() {
		return AnyKind()
	}
	return out
}

// InnerValueKind implements the ClosureVar TargetInnerValue rule: the reduced
// element kind of k if k is a collection, else any.
func (k Kind) InnerValueKind() Kind {
	switch {
	case k.IsArray() && k.IsObject():
		return k.ArrayElem().Union(k.ObjectElem())
	case k.IsArray():
		return k.ArrayElem()
	case k.IsObject():
		return k.ObjectElem()
	default:
		return AnyKind()
	}
}

// String renders k as a human-readable "a|b|c" list of shape names, in a
// stable order, for use in diagnostics.
func (k Kind) String() string {
	if k.bits == all {
		return "any"
	}
	if k.Empty() {
		return "none"
	}
	var parts []string
	for _, n := range names {
		if k.bits&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// CoercibleName returns the T of the `to_T` coercion the diagnostics layer
// can suggest for k (§4.6), and false when k is not exactly one of the scalar
// kinds bytes, integer, float, boolean, or timestamp. Collections, null, and
// regex have no scalar coercion function in the standard library this core
// assumes.
func (k Kind) CoercibleName() (string, bool) {
	switch k.bits {
	case Bytes:
		return "string", true
	case Integer:
		return "int", true
	case Float:
		return "float", true
	case Boolean:
		return "bool", true
	case Timestamp:
		return "timestamp", true
	default:
		return "", false
	}
}
