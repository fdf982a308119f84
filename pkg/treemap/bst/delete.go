package bst

import "github.com/bobboyms/latchtree/pkg/treemap"

// Delete implements treemap.Map (spec.md §4.3): validate the node is
// present under its predecessor's succLock exactly as Insert does, unlink
// it from the logical list, then physically detach it from the tree under
// the lock set acquireTreeLocks hands back.
func (t *Tree[V]) Delete(k int32) bool {
	if treemap.Reserved(k) {
		reservedKeyPanic(k)
	}

	for {
		_, p, _ := t.find(k)

		p.succLock.Lock()

		cur := p.succ.Load()
		if cur == nil || !(p.key < k && k <= cur.key) || !p.valid.Load() {
			p.succLock.Unlock()
			continue
		}

		if cur.key != k {
			p.succLock.Unlock()
			return false
		}
		target := cur

		// Two-lock ordering: always p (predecessor) before target, matching
		// Insert's ordering so the two never deadlock against each other.
		target.succLock.Lock()

		locks := acquireTreeLocks(target)
		sParent := lockParent(target)

		target.valid.Store(false)
		targetSucc := target.succ.Load()
		targetSucc.pred.Store(p)
		p.succ.Store(targetSucc)

		target.succLock.Unlock()
		p.succLock.Unlock()

		t.removeFromTree(target, sParent, locks)
		t.retireNode(target)

		return true
	}
}

// removeFromTree physically detaches target, already logically unlinked
// from the list, from the tree. locks and sParent carry every lock
// acquireTreeLocks/lockParent obtained on target's behalf; removeFromTree
// releases all of them before returning, fixing the "removed node is
// returned by value" ambiguity noted in spec.md §4.3 by having the caller
// (Delete) hold the actual *Node[V] throughout instead of relying on this
// method to hand it back.
func (t *Tree[V]) removeFromTree(target, sParent *Node[V], locks removalLocks[V]) {
	side, _ := linkSide(sParent, target)

	if !locks.twoChildren {
		child := locks.child
		if child != nil {
			child.parent.Store(sParent)
		}
		sParent.setChild(side, child)

		t.afterRemove(sParent, child, side)

		if child != nil {
			child.treeLock.Unlock()
		}
		target.treeLock.Unlock()
		sParent.treeLock.Unlock()
		return
	}

	succ := locks.succ
	succParent := locks.succParent
	succRight := locks.succRight

	targetLeft := target.left.Load()
	targetRight := target.right.Load()

	// succ is target's immediate right child (no left child of its own) iff
	// succParent == target; in that case succ's right subtree is already
	// succRight and must be left untouched — overwriting it with
	// targetRight would store succ into its own right field, since
	// targetRight == succ in that case.
	if succParent != target {
		succSide, _ := linkSide(succParent, succ)
		succParent.setChild(succSide, succRight)
		if succRight != nil {
			succRight.parent.Store(succParent)
		}
		succ.right.Store(targetRight)
		if targetRight != nil {
			targetRight.parent.Store(succ)
		}
	}
	succ.left.Store(targetLeft)
	if targetLeft != nil {
		targetLeft.parent.Store(succ)
	}

	sParent.setChild(side, succ)
	succ.parent.Store(sParent)

	t.afterRemove(sParent, succ, side)

	if succRight != nil {
		succRight.treeLock.Unlock()
	}
	succ.treeLock.Unlock()
	if locks.succParentLocked {
		succParent.treeLock.Unlock()
	}
	target.treeLock.Unlock()
	sParent.treeLock.Unlock()
}

// afterRemove is the BST variant's hook for the AVL variant's upward
// rebalance walk; the unbalanced tree does nothing.
func (t *Tree[V]) afterRemove(_, _ *Node[V], _ bool) {}
