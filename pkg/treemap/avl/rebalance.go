package avl

// rebalanceAt implements spec.md §4.6's upward rebalancing walk, adapted
// into a self-contained pass that acquires its own locks from scratch
// rather than threading locks through from the caller's mutation. Insert
// and delete each finish their structural change and release every lock
// they held before calling this; that keeps lock lifetimes simple at the
// cost of a brief window, after the structural change and before
// rebalancing catches up, where a concurrent reader can observe the
// transient imbalance spec.md explicitly tolerates for this variant.
//
// parent is the node whose isLeft-th child just changed to child (child
// may be nil). rebalanceAt updates parent's cached height for that side,
// and if that leaves parent unbalanced, rotates, then continues the walk
// upward until a level is reached whose height didn't change, or the root
// is reached.
func (t *Tree[V]) rebalanceAt(parent, child *Node[V], isLeft bool) {
	parent.treeLock.Lock()
	if !parent.valid.Load() {
		parent.treeLock.Unlock()
		return
	}
	if child != nil {
		child.treeLock.Lock()
	}

	for {
		changed := setHeight(parent, isLeft, child)

		// The high sentinel is the physical root (spec.md §3) but not a
		// real key: its balance factor is meaningless (it only ever has a
		// left child) and its parent link to low is bookkeeping, not a
		// rotatable tree edge, so the walk stops here unconditionally.
		if parent == t.root() {
			if child != nil {
				child.treeLock.Unlock()
			}
			parent.treeLock.Unlock()
			return
		}

		bf := parent.balanceFactor()

		if !changed && abs32(bf) < 2 {
			if child != nil {
				child.treeLock.Unlock()
			}
			parent.treeLock.Unlock()
			return
		}

		for abs32(bf) >= 2 {
			heavyLeft := bf > 0
			if child == nil || heavyLeft != isLeft {
				if child != nil {
					child.treeLock.Unlock()
				}
				child = acquireChildSide(parent, heavyLeft)
				if child == nil {
					break
				}
				isLeft = heavyLeft
			}

			childBF := child.balanceFactor()
			if (heavyLeft && childBF < 0) || (!heavyLeft && childBF > 0) {
				grand := child.child(!heavyLeft)
				if grand != nil {
					grand.treeLock.Lock()
					t.rotate(grand, child, !heavyLeft, heavyLeft)
					child.treeLock.Unlock()
					child = grand
				}
			}

			gp := lockParent(parent)
			nodeWasLeft, _ := linkSide(gp, parent)
			t.rotate(child, parent, isLeft, nodeWasLeft)
			newParent, newChild := child, parent
			bf = newParent.balanceFactor()

			if abs32(bf) >= 2 {
				gp.treeLock.Unlock()
				parent, child = newParent, newChild
				isLeft = heavyLeft
				continue
			}

			parent, child = newParent, newChild
			isLeft = (parent.left.Load() == child)
			gp.treeLock.Unlock()
			bf = parent.balanceFactor()
		}

		if child != nil {
			child.treeLock.Unlock()
		}
		if parent == t.root() {
			parent.treeLock.Unlock()
			return
		}

		gp := lockParent(parent)
		newChild := parent
		newIsLeft, _ := linkSide(gp, newChild)
		parent = gp
		child = newChild
		isLeft = newIsLeft
	}
}

// acquireChildSide try-locks parent's isLeft-th child, releasing and
// retrying parent's own lock on failure so this can never deadlock against
// a concurrent rebalance walk approaching the same node from below.
func acquireChildSide[V any](parent *Node[V], isLeft bool) *Node[V] {
	for {
		c := parent.child(isLeft)
		if c == nil {
			return nil
		}
		if c.treeLock.TryLock() {
			return c
		}
		parent.treeLock.Unlock()
		parent.treeLock.Lock()
		if !parent.valid.Load() {
			return nil
		}
	}
}

// rotate is the textbook single rotation (spec.md §4.6): child, currently
// node's childIsLeft-th child, is promoted to node's position under
// parent. The caller holds node.treeLock, child.treeLock, and
// parent.treeLock (parent may be nil only when node is the physical
// root, which never happens here since the root is always the high
// sentinel and is never rotated away from the top).
func (t *Tree[V]) rotate(child, node *Node[V], childIsLeft, nodeIsLeft bool) {
	parent := node.parent.Load()

	var grand *Node[V]
	if childIsLeft {
		grand = child.right.Load()
		child.right.Store(node)
		node.left.Store(grand)
	} else {
		grand = child.left.Load()
		child.left.Store(node)
		node.right.Store(grand)
	}
	if grand != nil {
		grand.parent.Store(node)
	}
	node.parent.Store(child)
	child.parent.Store(parent)
	if parent != nil {
		parent.setChild(nodeIsLeft, child)
	}

	if childIsLeft {
		node.leftHeight = height(grand)
		child.rightHeight = height(node)
	} else {
		node.rightHeight = height(grand)
		child.leftHeight = height(node)
	}
}
