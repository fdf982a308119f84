// Package arena is an optional pooled allocator for tree nodes, modeling
// the C original's XMALLOC contract: allocation failure is fatal, never a
// recoverable error (spec.md §7). It exists for the allocation-heavy
// workloads the benchmark harness drives; the tree packages default to
// plain new() and only use Pool when configured to.
//
// Grounded on the teacher's pkg/heap.HeapManager, which grows storage in
// fixed-size segments on demand rather than allocating per-record; Pool
// does the in-memory equivalent with sync.Pool instead of on-disk segments.
package arena

import (
	"sync"
	"sync/atomic"

	"github.com/bobboyms/latchtree/pkg/errors"
	"github.com/bobboyms/latchtree/pkg/reclaim"
)

// Pool allocates and recycles values of type T. Recycled values are only
// handed back out once pkg/reclaim.Guard confirms no reader active before
// their retirement could still be observing them — reusing a pooled node's
// storage is exactly the hazard plain garbage collection doesn't have, so
// Pool reintroduces reclaim.Guard to close it.
type Pool[T any] struct {
	pool  sync.Pool
	guard *reclaim.Guard

	maxSize int
	pending atomic.Int64
}

// New returns a Pool that allocates fresh *T via new(T) when empty. maxSize
// bounds how many retired items may be queued awaiting a safe reclamation
// point before Retire starts releasing them to the Go garbage collector
// outright instead of recycling them (a backstop against unbounded growth
// under a reader that never exits its critical section). maxSize <= 0
// disables the backstop: every retirement is queued for recycling.
func New[T any](maxSize int) *Pool[T] {
	p := &Pool[T]{
		guard:   reclaim.New(),
		maxSize: maxSize,
	}
	p.pool.New = func() any { return new(T) }
	return p
}

// Enter/Exit delegate to the underlying reclaim.Guard: callers must bracket
// any unsynchronized traversal that might dereference a pooled node with
// Enter/Exit so a concurrent Retire can't hand that node's storage to a new
// Alloc while the traversal is still reading it.
func (p *Pool[T]) Enter() reclaim.Token { return p.guard.Enter() }
func (p *Pool[T]) Exit(t reclaim.Token) { p.guard.Exit(t) }

// Alloc returns a zeroed *T, recycled from a retired item if one is
// available and safely reclaimable, otherwise freshly allocated. Alloc
// never returns an error on its own (Go allocation only fails by panicking
// the whole process on OOM, matching the C allocator's abort contract) but
// accepts the same shape as the XMALLOC abstraction for symmetry with
// callers that want to treat allocation failure uniformly via
// pkg/errors.Fatal.
func (p *Pool[T]) Alloc() *T {
	v, ok := p.pool.Get().(*T)
	if !ok || v == nil {
		// sync.Pool.New always supplies a *T, so this only happens if T's
		// zero value can't be constructed, which never occurs for the
		// node structs this package is used with. Treated as fatal rather
		// than returned, matching the XMALLOC abort contract.
		panic(errors.Fatal("arena: allocation returned unexpected type", nil))
	}
	return v
}

// Retire schedules v for recycling once no reader active at the time of
// the call could still be observing it (see pkg/reclaim). zero is called
// just before v is handed back out by a future Alloc, to erase the
// previous occupant's fields.
//
// If maxSize retirements are already queued awaiting that safe point,
// Retire instead drops v without zeroing or recycling it: v is never
// mutated or reused, so a reader with a stale pointer into it stays safe
// regardless of epoch, and plain garbage collection reclaims it once
// unreachable. This is the backstop against unbounded queue growth behind
// one slow reader.
func (p *Pool[T]) Retire(v *T, zero func(*T)) {
	if p.maxSize > 0 && p.pending.Load() >= int64(p.maxSize) {
		return
	}
	p.pending.Add(1)
	p.guard.Retire(func() {
		p.pending.Add(-1)
		if zero != nil {
			zero(v)
		}
		p.pool.Put(v)
	})
}
