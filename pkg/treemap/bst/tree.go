package bst

import (
	"sync"

	"golang.org/x/exp/rand"

	"github.com/bobboyms/latchtree/pkg/arena"
	treeerrors "github.com/bobboyms/latchtree/pkg/errors"
	"github.com/bobboyms/latchtree/pkg/treemap"
)

// Tree is an unbalanced concurrent binary search tree keyed by int32, as
// described in spec.md. The zero value is not usable; construct one with
// New.
type Tree[V any] struct {
	low  *Node[V]
	high *Node[V] // also the physical root: low.parent has no meaning, high.parent == low

	pool *arena.Pool[Node[V]]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Tree at construction time.
type Option[V any] func(*Tree[V])

// WithArena routes node allocation through a shared arena.Pool instead of
// plain new(), recycling retired nodes once pkg/reclaim confirms no
// optimistic reader could still be observing them. See pkg/arena's doc
// comment for why this is opt-in rather than the default.
func WithArena[V any](pool *arena.Pool[Node[V]]) Option[V] {
	return func(t *Tree[V]) { t.pool = pool }
}

// New constructs an empty tree with its two sentinel nodes (spec.md §3).
func New[V any](opts ...Option[V]) *Tree[V] {
	t := &Tree[V]{}
	for _, opt := range opts {
		opt(t)
	}

	var zero V
	low := t.allocNode(treemap.MinKey, zero)
	high := t.allocNode(treemap.MaxKey, zero)

	low.succ.Store(high)
	high.pred.Store(low)
	high.parent.Store(low) // "real root has a parent" — spec.md §3

	t.low, t.high = low, high
	return t
}

func (t *Tree[V]) allocNode(key int32, value V) *Node[V] {
	if t.pool == nil {
		return newNode(key, value)
	}
	n := t.pool.Alloc()
	*n = Node[V]{key: key, value: value}
	n.valid.Store(true)
	return n
}

func (t *Tree[V]) retireNode(n *Node[V]) {
	if t.pool == nil {
		return
	}
	t.pool.Retire(n, func(n *Node[V]) { *n = Node[V]{} })
}

var _ treemap.Map[struct{}] = (*Tree[struct{}])(nil)

// Name implements treemap.Map.
func (t *Tree[V]) Name() string { return "bst" }

// root is the physical tree root: the high sentinel (spec.md §3).
func (t *Tree[V]) root() *Node[V] { return t.high }

// find performs the unsynchronized descent and list-walk correction of
// spec.md §4.1. It returns the node the tree descent landed on (n), and
// the logically-correct predecessor/successor pair (p, s) such that
// p.key < k <= s.key, even if the descent observed stale pointers.
//
// When t.pool is set, the whole descent runs inside a pkg/reclaim
// read-side critical section: without it, a retired node's storage could
// be recycled and overwritten by a concurrent Alloc while this walk still
// holds a raw pointer into it.
func (t *Tree[V]) find(k int32) (n, p, s *Node[V]) {
	if t.pool != nil {
		tok := t.pool.Enter()
		defer t.pool.Exit(tok)
	}

	cur := t.root()
	for {
		if k == cur.key {
			break
		}
		var next *Node[V]
		if k < cur.key {
			next = cur.left.Load()
		} else {
			next = cur.right.Load()
		}
		if next == nil {
			break
		}
		cur = next
	}

	var start *Node[V]
	if cur.key >= k {
		start = cur.pred.Load()
	} else {
		start = cur
	}

	node := start
	for node.key > k {
		node = node.pred.Load()
	}
	for {
		next := node.succ.Load()
		if next == nil || next.key >= k {
			break
		}
		node = next
	}

	return cur, node, node.succ.Load()
}

// Lookup implements treemap.Map. No lock is taken: membership is decided
// purely from the logical list, which is the source of truth (spec.md
// §4.1 "lookups are optimistically linearizable via the logical list").
func (t *Tree[V]) Lookup(k int32) bool {
	if treemap.Reserved(k) {
		reservedKeyPanic(k)
	}
	_, _, s := t.find(k)
	if s == nil {
		return false
	}
	if t.pool == nil {
		return s.key == k && s.valid.Load()
	}
	// find's own critical section already ended; s.key/s.valid are read
	// again here without a lock, so they need their own guard window too.
	tok := t.pool.Enter()
	defer t.pool.Exit(tok)
	return s.key == k && s.valid.Load()
}

func reservedKeyPanic(k int32) {
	panic(treeerrors.Fatal("reserved key", &treeerrors.ReservedKeyError{Key: k}))
}
