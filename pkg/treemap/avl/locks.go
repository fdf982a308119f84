package avl

import "runtime"

// removalLocks carries the tree locks acquireTreeLocks obtained on behalf
// of removeFromTree (spec.md §4.5).
type removalLocks[V any] struct {
	twoChildren bool

	child *Node[V]

	succ             *Node[V]
	succParent       *Node[V]
	succParentLocked bool
	succRight        *Node[V]
}

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
