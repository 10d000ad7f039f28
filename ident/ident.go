// Package ident implements interned identifiers with source spans, the
// Ident/Span/Node building blocks that the rest of the resolver is built on.
//
// It plays the same role as grailbio/gql's symbol package: a process-global
// intern table that maps identifier text to a small stable integer, so that
// identifier comparison is O(1) regardless of string length.
package ident

import (
	"fmt"
	"sync"

	"github.com/spaolacci/murmur3"
)

// ID is an interned identifier. The zero value is Invalid.
type ID int32

// Ident is the spec's name for an interned symbol. It is the same type as ID;
// the alias exists so call sites can speak the vocabulary of the resolver
// ("Ident") while the implementation stays a plain interned integer.
type Ident = ID

// Invalid is the zero ID. No interned identifier ever has this value.
const Invalid = ID(0)

type table struct {
	mu   sync.RWMutex
	ids  map[string]ID
	strs []string // strs[0] is unused (Invalid has no name).
}

var global = table{
	ids:  map[string]ID{},
	strs: []string{""},
}

// Intern returns the ID for name, allocating a new one if name has not been
// seen before. Interning the same string always returns the same ID.
func Intern(name string) ID {
	if name == "" {
		panic("ident: empty identifier")
	}
	global.mu.RLock()
	if id, ok := global.ids[name]; ok {
		global.mu.RUnlock()
		return id
	}
	global.mu.RUnlock()

	global.mu.Lock()
	defer global.mu.Unlock()
	if id, ok := global.ids[name]; ok {
		return id
	}
	id := ID(len(global.strs))
	global.strs = append(global.strs, name)
	global.ids[name] = id
	return id
}

// Str returns the interned text for id.
func (id ID) Str() string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if int(id) >= len(global.strs) {
		panic(fmt.Sprintf("ident: id %d not interned", id))
	}
	return global.strs[id]
}

// Hash returns a stable murmur3 hash of id's text, used to bucket identifiers
// in a hash-addressed index (e.g. resolve.Registry's lookup table). The hash
// is computed from the text on every call; it is not cached.
func (id ID) Hash() uint64 {
	name := id.Str()
	return murmur3.Sum64([]byte(name))
}

func (id ID) String() string { return id.Str() }

// All returns every identifier currently interned, in interning order, across
// every namespace (function names, keywords, variables alike).
func All() []ID {
	global.mu.RLock()
	defer global.mu.RUnlock()
	out := make([]ID, 0, len(global.strs)-1)
	for i := 1; i < len(global.strs); i++ {
		out = append(out, ID(i))
	}
	return out
}

// Span is a half-open byte range [Start, End) in the source buffer.
type Span struct {
	Start int
	End   int
}

// PastEnd returns the one-byte span immediately following s, used to point a
// diagnostic at a single-character marker (such as the `!` abort-on-error
// suffix) that sits just after an identifier or call.
func (s Span) PastEnd() Span { return Span{Start: s.End, End: s.End + 1} }

func (s Span) String() string { return fmt.Sprintf("%d:%d", s.Start, s.End) }

// Node pairs an AST value with the Span it was parsed from.
type Node[T any] struct {
	Span  Span
	Value T
}

// NewNode creates a Node.
func NewNode[T any](span Span, value T) Node[T] {
	return Node[T]{Span: span, Value: value}
}
