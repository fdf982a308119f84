// Package treemap defines the contract both concurrent tree variants
// (pkg/treemap/bst, pkg/treemap/avl) implement, and the reserved key
// constants shared between them.
//
// Keys are 32-bit signed integers (spec.md §6). MinKey and MaxKey bound the
// key universe and back the two sentinel nodes every tree carries; callers
// must never insert or delete them.
package treemap

import "math"

const (
	// MinKey is the reserved low-sentinel key, distinctly below any key an
	// application may use.
	MinKey int32 = math.MinInt32
	// MaxKey is the reserved high-sentinel key (the C original's INT_MAX).
	MaxKey int32 = math.MaxInt32
)

// Reserved reports whether k is one of the two sentinel keys applications
// must not use.
func Reserved(k int32) bool {
	return k == MinKey || k == MaxKey
}

// Map is the operation set spec.md §6 exposes at the core layer: lookup,
// insert, delete, a single-threaded validator, and a warmup helper for
// benchmark seeding. Both pkg/treemap/bst.Tree[V] and pkg/treemap/avl.Tree[V]
// implement it.
type Map[V any] interface {
	// Lookup returns true iff a valid node with key k exists at some
	// linearization point during the call.
	Lookup(k int32) bool

	// Insert returns true iff k was absent and is now present with value v.
	Insert(k int32, v V) bool

	// Delete returns true iff k was present and has been removed.
	Delete(k int32) bool

	// Validate runs the single-threaded invariant check. Callers must hold
	// back concurrent mutators while calling it; it is a testing aid, not
	// safe to call concurrently with Insert/Delete.
	Validate() error

	// Warmup seeds the PRNG (or reuses its existing state, unless force is
	// set) and repeatedly inserts random keys in [0, maxKey) until n
	// insertions succeed, returning the count actually performed.
	Warmup(n int, maxKey int32, seed uint64, force bool) int

	// Name returns a human-readable variant identifier ("bst" or "avl").
	Name() string
}
