package bst

import "github.com/bobboyms/latchtree/pkg/treemap"

// Insert implements treemap.Map (spec.md §4.2): locate the insertion slot
// optimistically, validate it under the predecessor's succLock (the
// "validation latch", spec.md glossary), pick a physical tree slot
// compatible with that ordering window, then splice into both the list and
// the tree before releasing the locks.
func (t *Tree[V]) Insert(k int32, v V) bool {
	if treemap.Reserved(k) {
		reservedKeyPanic(k)
	}

	for {
		n, p, s := t.find(k)

		p.succLock.Lock()

		cur := p.succ.Load()
		if cur == nil || !(p.key < k && k <= cur.key) || !p.valid.Load() {
			p.succLock.Unlock()
			continue
		}
		s = cur

		if s.key == k {
			p.succLock.Unlock()
			return false
		}

		parent := p
		if n == p || n == s {
			parent = n
		}
		wantLeft := false
		for {
			parent.treeLock.Lock()
			if parent == p {
				if parent.right.Load() == nil {
					break
				}
			} else {
				if parent.left.Load() == nil {
					wantLeft = true
					break
				}
			}
			parent.treeLock.Unlock()
			if parent == p {
				parent = s
			} else {
				parent = p
			}
		}

		newNode := t.allocNode(k, v)
		newNode.pred.Store(p)
		newNode.succ.Store(s)
		s.pred.Store(newNode)
		p.succ.Store(newNode)

		p.succLock.Unlock()

		newNode.parent.Store(parent)
		parent.setChild(wantLeft, newNode)

		t.afterInsert(parent, newNode, wantLeft)

		return true
	}
}

// afterInsert is the BST variant's hook for what the AVL variant uses to
// trigger rebalancing; the unbalanced tree just releases the lock.
func (t *Tree[V]) afterInsert(parent, _ *Node[V], _ bool) {
	parent.treeLock.Unlock()
}
