package avl

import (
	"runtime"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/bobboyms/latchtree/pkg/arena"
	treeerrors "github.com/bobboyms/latchtree/pkg/errors"
	"github.com/bobboyms/latchtree/pkg/treemap"
)

// Tree is a relaxed-balance concurrent AVL tree keyed by int32. The zero
// value is not usable; construct one with New.
type Tree[V any] struct {
	low  *Node[V]
	high *Node[V]

	pool *arena.Pool[Node[V]]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Tree at construction time.
type Option[V any] func(*Tree[V])

// WithArena routes node allocation through a shared arena.Pool. See
// pkg/treemap/bst.WithArena and pkg/arena's doc comment.
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
	high.parent.Store(low)

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
func (t *Tree[V]) Name() string { return "avl" }

func (t *Tree[V]) root() *Node[V] { return t.high }

// find is identical to pkg/treemap/bst's: the logical list is the same
// structure regardless of how the physical tree balances itself (spec.md
// §4.1).
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

// Lookup implements treemap.Map.
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

// lockParent implements spec.md §4.4.
func lockParent[V any](n *Node[V]) *Node[V] {
	for {
		p := n.parent.Load()
		p.treeLock.Lock()
		if n.parent.Load() == p && p.valid.Load() {
			return p
		}
		p.treeLock.Unlock()
		for {
			p2 := n.parent.Load()
			if p2 != nil && p2.valid.Load() {
				break
			}
			runtime.Gosched()
		}
	}
}
