package resolve

import (
	"reflect"
	"sync"

	"github.com/lumenscript/compiler/ident"
)

// binding is one entry in a LocalEnv: a variable's static type and, where
// known, its compile-time value.
type binding struct {
	typeDef TypeDef
	value   Value
}

// LocalEnv is the mutable lexical scope the resolver mutates while binding a
// closure's variables (§4.3) and restores afterward (§4.4 step 1). It plays
// the same role as grailbio/gql's aiBindings, but as a flat mutable map
// rather than a stack of frames: §5 is explicit that scope mutation around a
// call site is balanced and single-threaded, so a snapshot-and-restore map
// is sufficient and cheaper to clone than a frame stack.
type LocalEnv struct {
	vars map[ident.Ident]binding
}

// NewLocalEnv creates an empty LocalEnv.
func NewLocalEnv() *LocalEnv {
	return &LocalEnv{vars: map[ident.Ident]binding{}}
}

// Lookup returns the binding for id, if any.
func (e *LocalEnv) Lookup(id ident.Ident) (TypeDef, Value, bool) {
	b, ok := e.vars[id]
	if !ok {
		return TypeDef{}, nil, false
	}
	return b.typeDef, b.value, true
}

// InsertVariable binds id to typeDef/value, overwriting any existing entry.
func (e *LocalEnv) InsertVariable(id ident.Ident, typeDef TypeDef, value Value) {
	e.vars[id] = binding{typeDef: typeDef, value: value}
}

// RemoveVariable removes id's binding, returning the removed entry (if any)
// as a (typeDef, value, existed) triple.
func (e *LocalEnv) RemoveVariable(id ident.Ident) (TypeDef, Value, bool) {
	b, ok := e.vars[id]
	if ok {
		delete(e.vars, id)
	}
	return b.typeDef, b.value, ok
}

// Snapshot returns a copy of e's current bindings. The closure validator
// (§4.3) takes a snapshot immediately before inserting closure variables, so
// the call finaliser (§4.4 step 1) can restore exactly the prior state.
func (e *LocalEnv) Snapshot() *LocalEnv {
	cp := make(map[ident.Ident]binding, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &LocalEnv{vars: cp}
}

// Restore undoes the bindings in ids: for each id, if snapshot had a prior
// entry it is put back, otherwise id is removed entirely. This is the exact
// operation §4.4 step 1 and §8's "scope balance" property require.
func (e *LocalEnv) Restore(snapshot *LocalEnv, ids []ident.Ident) {
	for _, id := range ids {
		if b, ok := snapshot.vars[id]; ok {
			e.vars[id] = b
		} else {
			delete(e.vars, id)
		}
	}
}

// ContextBag is a heterogeneous, type-keyed map: the "opaque external-context
// bag" handed to Function.Compile and atomically swapped back afterward
// (§3, §5). Go generics stand in for the type-keyed Any map the spec
// describes for languages that have one, per SPEC_FULL.md's note on
// FunctionCompileContext.
type ContextBag struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

// NewContextBag creates an empty bag.
func NewContextBag() *ContextBag {
	return &ContextBag{values: map[reflect.Type]any{}}
}

// Set stores v in the bag, keyed by its static type T. A second Set of the
// same T overwrites the first.
func Set[T any](b *ContextBag, v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[reflect.TypeOf((*T)(nil)).Elem()] = v
}

// Get retrieves the value of type T previously stored with Set, if any.
func Get[T any](b *ContextBag) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	v, ok := b.values[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// ExternalEnv is the mutable global analysis/runtime state shared across a
// whole compilation, plus the single swappable ContextBag slot function
// compilation borrows (§3).
type ExternalEnv struct {
	contextBag *ContextBag
}

// NewExternalEnv creates an ExternalEnv with a fresh, empty context bag.
func NewExternalEnv() *ExternalEnv {
	return &ExternalEnv{contextBag: NewContextBag()}
}

// SwapExternalContext installs next as the current context bag and returns
// the bag it replaced. Callers (§4.4 step 4) are obliged to swap the prior
// bag back before returning control past the compile call they swapped it
// for.
func (e *ExternalEnv) SwapExternalContext(next *ContextBag) *ContextBag {
	prev := e.contextBag
	e.contextBag = next
	return prev
}
