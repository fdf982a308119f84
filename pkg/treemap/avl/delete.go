package avl

import "github.com/bobboyms/latchtree/pkg/treemap"

// Delete implements treemap.Map (spec.md §4.3), mirroring
// pkg/treemap/bst.Tree.Delete's list unlink and lock-set acquisition, then
// finishing the physical removal with height bookkeeping and a single
// rebalancing walk (spec.md §4.6) rooted at the lowest site the removal
// structurally touched.
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

func (t *Tree[V]) removeFromTree(target, sParent *Node[V], locks removalLocks[V]) {
	side, _ := linkSide(sParent, target)

	if !locks.twoChildren {
		child := locks.child
		if child != nil {
			child.parent.Store(sParent)
		}
		sParent.setChild(side, child)

		target.treeLock.Unlock()
		if child != nil {
			child.treeLock.Unlock()
		}
		sParentPinned := sParent
		sParentPinned.treeLock.Unlock()

		t.rebalanceAt(sParentPinned, child, side)
		return
	}

	succ := locks.succ
	succParent := locks.succParent
	succRight := locks.succRight

	targetLeft := target.left.Load()
	targetRight := target.right.Load()

	directChild := succParent == target
	succSide := false
	if !directChild {
		succSide, _ = linkSide(succParent, succ)
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

	// Finalize succ's own cached heights from its new children before any
	// rebalance walk can observe it, so a walk reaching succ from below
	// never reads a stale half-updated value. In the direct-child case the
	// walk starts at succ itself and records its new left height there.
	if !directChild {
		succ.leftHeight = height(succ.left.Load())
	}
	succ.rightHeight = height(succ.right.Load())

	sParent.setChild(side, succ)
	succ.parent.Store(sParent)

	succRightLocked := succRight
	if succRight != nil {
		succRight.treeLock.Unlock()
	}
	succ.treeLock.Unlock()
	succParentLocked := locks.succParentLocked
	if succParentLocked {
		succParent.treeLock.Unlock()
	}
	target.treeLock.Unlock()
	sParent.treeLock.Unlock()

	// A single rebalance walk suffices: when there's a separate detach
	// site below succ, starting there climbs through succ and on up to
	// sParent and beyond, so a second walk from sParent would just redo
	// (and risk racing against) the same ground the first one already
	// covered. When succ was target's direct child, succ itself is the
	// lowest changed node (it gained target's left subtree), so the walk
	// starts at succ and checks its balance before climbing to sParent.
	if directChild {
		t.rebalanceAt(succ, targetLeft, true)
	} else {
		t.rebalanceAt(succParent, succRightLocked, succSide)
	}
}
