package resolve

import "github.com/lumenscript/compiler/ident"

// Registry is the list of installed functions a call resolves against. It
// plays the role of grailbio/gql's global constant table of
// RegisterBuiltinFunc-registered Funcs (func.go), but as an explicit,
// constructed value rather than process-global state, since this core is a
// pure function of (registry, call, scope) per §1.
//
// Lookup is bucketed by ident.ID.Hash() rather than backed by a plain
// map[string]int, grounded in the same hash-bucketing grailbio/gql's own
// (unretrieved) hash package was built for. Each Lookup interns the name and
// hashes its text anew; bucket hashes are not cached.
type Registry struct {
	funcs   []Function
	buckets [][]int // bucket index -> funcs indices whose identifier hashes there
	mask    uint64
}

// NewRegistry builds a Registry from an ordered list of functions. Later
// entries with a duplicate identifier shadow earlier ones in lookup, but
// every entry remains addressable by its function_id (its index in funcs).
func NewRegistry(funcs []Function) *Registry {
	n := bucketCount(len(funcs))
	r := &Registry{
		funcs:   funcs,
		buckets: make([][]int, n),
		mask:    uint64(n - 1),
	}
	for i, f := range funcs {
		id := ident.Intern(f.Identifier())
		b := id.Hash() & r.mask
		r.buckets[b] = append(r.buckets[b], i)
	}
	return r
}

// bucketCount returns the smallest power of two at least n, so a bucket
// index can be computed with a mask instead of a modulo.
func bucketCount(n int) int {
	c := 1
	for c < n {
		c *= 2
	}
	return c
}

// Lookup finds the unique (function_id, Function) for name. When duplicate
// identifiers share a bucket, the later-registered one (per NewRegistry's
// shadowing rule) wins.
func (r *Registry) Lookup(name string) (int, Function, bool) {
	id := ident.Intern(name)
	b := id.Hash() & r.mask
	found := -1
	for _, i := range r.buckets[b] {
		if r.funcs[i].Identifier() == name {
			found = i
		}
	}
	if found == -1 {
		return 0, nil, false
	}
	return found, r.funcs[found], true
}

// ByID returns the function registered at function_id i.
//
// REQUIRES: i is a valid index into the registry used at resolution time
// (the FunctionCall invariant in §3).
func (r *Registry) ByID(i int) Function {
	return r.funcs[i]
}

// Identifiers lists every registered function name, in registration order.
// Undefined (§4.6) uses this as the candidate pool for its "did you mean"
// suggestion.
func (r *Registry) Identifiers() []string {
	out := make([]string, len(r.funcs))
	for i, f := range r.funcs {
		out[i] = f.Identifier()
	}
	return out
}
