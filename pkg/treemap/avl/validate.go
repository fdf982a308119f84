package avl

import (
	"fmt"

	treeerrors "github.com/bobboyms/latchtree/pkg/errors"
	"github.com/bobboyms/latchtree/pkg/treemap"
)

// Validate implements treemap.Map. Like pkg/treemap/bst's validator, this
// is single-threaded and takes no locks; it additionally checks the AVL
// balance factor, which only holds in quiescence (spec.md §4 invariant 4).
func (t *Tree[V]) Validate() error {
	seen := make(map[*Node[V]]bool)

	prev := t.low
	if prev.key != treemap.MinKey {
		return detail("low sentinel has wrong key")
	}
	seen[prev] = true

	for {
		cur := prev.succ.Load()
		if cur == nil {
			return detail("list ends before reaching high sentinel")
		}
		if cur.pred.Load() != prev {
			return detail(fmt.Sprintf("node %d: pred/succ mismatch with %d", cur.key, prev.key))
		}
		if cur.key <= prev.key {
			return detail(fmt.Sprintf("list out of order: %d before %d", prev.key, cur.key))
		}
		seen[cur] = true
		if cur.key == treemap.MaxKey {
			break
		}
		prev = cur
	}

	if _, err := t.validateSubtree(t.root(), t.low, seen); err != nil {
		return err
	}
	delete(seen, t.low)
	if len(seen) != 0 {
		return detail(fmt.Sprintf("%d node(s) reachable from the tree but not the list", len(seen)))
	}
	return nil
}

// validateSubtree returns the subtree's height alongside any error, so the
// caller can cross-check cached height fields against the true depth.
func (t *Tree[V]) validateSubtree(n *Node[V], parent *Node[V], seen map[*Node[V]]bool) (int32, error) {
	if n == nil {
		return 0, nil
	}
	if n.parent.Load() != parent {
		return 0, detail(fmt.Sprintf("node %d: parent pointer mismatch", n.key))
	}
	if !seen[n] {
		return 0, detail(fmt.Sprintf("node %d: reachable from tree but not from list", n.key))
	}
	delete(seen, n)

	left := n.left.Load()
	if left != nil && left.key >= n.key {
		return 0, detail(fmt.Sprintf("node %d: left child %d violates ordering", n.key, left.key))
	}
	right := n.right.Load()
	if right != nil && right.key <= n.key {
		return 0, detail(fmt.Sprintf("node %d: right child %d violates ordering", n.key, right.key))
	}

	leftHeight, err := t.validateSubtree(left, n, seen)
	if err != nil {
		return 0, err
	}
	rightHeight, err := t.validateSubtree(right, n, seen)
	if err != nil {
		return 0, err
	}

	if n.leftHeight != leftHeight {
		return 0, detail(fmt.Sprintf("node %d: cached leftHeight %d, actual %d", n.key, n.leftHeight, leftHeight))
	}
	if n.rightHeight != rightHeight {
		return 0, detail(fmt.Sprintf("node %d: cached rightHeight %d, actual %d", n.key, n.rightHeight, rightHeight))
	}

	// The high sentinel is the physical root (spec.md §3) but never a real
	// key: it only ever has a left child, so its own balance factor is
	// meaningless and excluded from the AVL check.
	if n != t.high {
		bf := leftHeight - rightHeight
		if bf > 1 || bf < -1 {
			return 0, detail(fmt.Sprintf("node %d: balance factor %d exceeds 1", n.key, bf))
		}
	}

	h := leftHeight
	if rightHeight > h {
		h = rightHeight
	}
	return h + 1, nil
}

func detail(msg string) error {
	return &treeerrors.InvariantViolationError{Detail: msg}
}
