package bst

import "runtime"

// lockParent implements spec.md §4.4: acquire n.parent's treeLock
// defensively against a concurrent rotation or deletion having moved n out
// from under the caller between the read of n.parent and the lock
// acquisition.
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

// removalLocks carries the tree locks acquireTreeLocks obtained on behalf
// of removeFromTree, and whether n turned out to have one-or-fewer vs two
// children.
type removalLocks[V any] struct {
	twoChildren bool

	// one-or-fewer-children case
	child *Node[V]

	// two-children case: succ is n's in-order successor (n.succ), already
	// known to have no left child; succParent is succ's physical parent
	// (may equal n itself if succ is n's immediate right child).
	succ             *Node[V]
	succParent       *Node[V]
	succParentLocked bool
	succRight        *Node[V]
}

// acquireTreeLocks implements spec.md §4.5: lock the set of nodes whose
// tree pointers removeFromTree needs to mutate to physically detach n, in
// a fixed downward order (n, then its children / successor chain) using
// trylock-and-back-off so this never deadlocks against a concurrent
// upward-walking rebalance or another deleter doing the same thing
// elsewhere in the tree.
func acquireTreeLocks[V any](n *Node[V]) removalLocks[V] {
	backoff := 0
	for {
		n.treeLock.Lock()

		left := n.left.Load()
		right := n.right.Load()

		if left == nil || right == nil {
			child := left
			if child == nil {
				child = right
			}
			if child != nil && !child.treeLock.TryLock() {
				n.treeLock.Unlock()
				backoffWait(&backoff)
				continue
			}
			return removalLocks[V]{twoChildren: false, child: child}
		}

		succ := n.succ.Load()
		succParent := succ.parent.Load()
		succParentLocked := false

		if succParent != n {
			if !succParent.treeLock.TryLock() {
				n.treeLock.Unlock()
				backoffWait(&backoff)
				continue
			}
			succParentLocked = true
			if succ.parent.Load() != succParent || !succParent.valid.Load() {
				succParent.treeLock.Unlock()
				n.treeLock.Unlock()
				backoffWait(&backoff)
				continue
			}
		}

		if !succ.treeLock.TryLock() {
			if succParentLocked {
				succParent.treeLock.Unlock()
			}
			n.treeLock.Unlock()
			backoffWait(&backoff)
			continue
		}

		succRight := succ.right.Load()
		if succRight != nil && !succRight.treeLock.TryLock() {
			succ.treeLock.Unlock()
			if succParentLocked {
				succParent.treeLock.Unlock()
			}
			n.treeLock.Unlock()
			backoffWait(&backoff)
			continue
		}

		return removalLocks[V]{
			twoChildren:      true,
			succ:             succ,
			succParent:       succParent,
			succParentLocked: succParentLocked,
			succRight:        succRight,
		}
	}
}

func backoffWait(n *int) {
	for i := 0; i < 1<<*n; i++ {
		runtime.Gosched()
	}
	if *n < 6 {
		*n++
	}
}
