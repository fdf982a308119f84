// Package avl implements the relaxed-balance concurrent AVL tree variant of
// spec.md: the same physical-tree-plus-logical-list design as pkg/treemap/bst,
// with cached per-side subtree heights and an upward rebalancing walk
// triggered after each structural change. Balance is best-effort: a
// concurrent reader may observe a transiently unbalanced tree between an
// insert/delete and the rebalance that corrects it.
package avl

import (
	"sync/atomic"

	"github.com/bobboyms/latchtree/pkg/spinlock"
)

// cachePad accounts for the extra height fields this variant carries over
// pkg/treemap/bst.Node, spanning the node across two cache lines (spec.md
// §3).
const cachePad = 64

// Node is one key/value pair in the tree. leftHeight/rightHeight are plain
// fields, not atomics: they are read and written exclusively while holding
// treeLock, exactly like the left/right/parent pointers they summarize, and
// the optimistic find path never inspects them.
type Node[V any] struct {
	key   int32
	valid atomic.Bool

	pred atomic.Pointer[Node[V]]
	succ atomic.Pointer[Node[V]]

	parent atomic.Pointer[Node[V]]
	left   atomic.Pointer[Node[V]]
	right  atomic.Pointer[Node[V]]

	leftHeight  int32
	rightHeight int32

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

// Value returns the node's payload.
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

// balanceFactor is leftHeight - rightHeight; the caller must hold n.treeLock.
func (n *Node[V]) balanceFactor() int32 { return n.leftHeight - n.rightHeight }

// height is n's own subtree height as seen by a parent; the caller must
// hold n.treeLock, or n must be nil.
func height[V any](n *Node[V]) int32 {
	if n == nil {
		return 0
	}
	if n.leftHeight > n.rightHeight {
		return n.leftHeight + 1
	}
	return n.rightHeight + 1
}

// setHeight records child's height on the isLeft side of n and reports
// whether the recorded value changed. The caller must hold n.treeLock and,
// if child != nil, child.treeLock.
func setHeight[V any](n *Node[V], isLeft bool, child *Node[V]) bool {
	h := height(child)
	if isLeft {
		changed := n.leftHeight != h
		n.leftHeight = h
		return changed
	}
	changed := n.rightHeight != h
	n.rightHeight = h
	return changed
}

// linkSide returns which child slot (true=left) n occupies in parent.
func linkSide[V any](parent, n *Node[V]) (left bool, ok bool) {
	if parent.left.Load() == n {
		return true, true
	}
	if parent.right.Load() == n {
		return false, true
	}
	return false, false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
