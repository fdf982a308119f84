// Package bst implements the unbalanced concurrent binary search tree
// variant of spec.md: a physical BST augmented with a logical doubly
// linked list in key order, validated optimistically against that list and
// mutated under per-node spinlocks.
//
// See pkg/treemap/avl for the relaxed-balance sibling that adds cached
// heights and upward rebalancing on top of the same protocol.
package bst

import (
	"sync/atomic"

	"github.com/bobboyms/latchtree/pkg/spinlock"
)

// cachePad is sized so a Node's two spinlocks don't share a cache line with
// an unrelated node's fields when nodes are packed in a slice or arena —
// spec.md §3 calls this out explicitly for the lock fields.
const cachePad = 64

// Node is one key/value pair in the tree, simultaneously a BST node (via
// parent/left/right) and a member of the logical key-ordered list (via
// pred/succ). Every pointer field is an atomic.Pointer so that the
// unsynchronized optimistic reads in find (spec.md §4.1) are acquires
// paired with the releases every mutator does when publishing a change
// (spec.md §5 "Memory ordering").
type Node[V any] struct {
	key   int32
	valid atomic.Bool

	pred atomic.Pointer[Node[V]]
	succ atomic.Pointer[Node[V]]

	parent atomic.Pointer[Node[V]]
	left   atomic.Pointer[Node[V]]
	right  atomic.Pointer[Node[V]]

	succLock spinlock.Lock
	treeLock spinlock.Lock

	value V

	_ [cachePad]byte
}

func newNode[V any](key int32, value V) *Node[V] {
	n := &Node[V]{key: key, value: value}
	n.valid.Store(true)
	return n
}

// Key returns the node's immutable key.
func (n *Node[V]) Key() int32 { return n.key }

// Value returns the node's payload. Reading Value on a node observed to be
// invalid is safe (the memory is never freed out from under a reader in
// Go) but the value may be stale with respect to the logical set.
func (n *Node[V]) Value() V { return n.value }

// Valid reports whether the node is still logically a member of the set.
func (n *Node[V]) Valid() bool { return n.valid.Load() }

func (n *Node[V]) child(left bool) *Node[V] {
	if left {
		return n.left.Load()
	}
	return n.right.Load()
}

func (n *Node[V]) setChild(left bool, c *Node[V]) {
	if left {
		n.left.Store(c)
		return
	}
	n.right.Store(c)
}

// linkSide returns which child slot (true=left) n occupies in parent, or false
// with ok=false if n is not currently parent's child on either side
// (possible transiently during a concurrent rotation/replace).
func linkSide[V any](parent, n *Node[V]) (left bool, ok bool) {
	if parent.left.Load() == n {
		return true, true
	}
	if parent.right.Load() == n {
		return false, true
	}
	return false, false
}
