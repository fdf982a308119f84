package avl

import "github.com/bobboyms/latchtree/pkg/treemap"

// Insert implements treemap.Map (spec.md §4.2), identical in its list/tree
// splice logic to pkg/treemap/bst.Tree.Insert, but finishing with a
// rebalancing walk instead of a plain unlock (spec.md §4.6).
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

		pinned := parent
		pinned.treeLock.Unlock()

		t.rebalanceAt(pinned, newNode, wantLeft)

		return true
	}
}
