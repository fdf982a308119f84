package bst

import (
	"fmt"

	treeerrors "github.com/bobboyms/latchtree/pkg/errors"
	"github.com/bobboyms/latchtree/pkg/treemap"
)

// Validate implements treemap.Map. It is the single-threaded structural
// checker spec.md §6 calls for: safe to run only when no concurrent
// mutator is active, since it reads pointers without taking any locks.
// It checks the logical list is strictly increasing and reciprocal, that
// every node reachable from the list is reachable from the tree and vice
// versa, and that the tree's key ordering is consistent with the list's.
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

	// high.parent == low is bookkeeping (spec.md §3), not a real tree edge,
	// so the root is validated against low rather than nil.
	if err := t.validateSubtree(t.root(), t.low, seen); err != nil {
		return err
	}
	// low sits beside the tree (only high.parent points to it, spec.md §3);
	// it is never reached by descending from the root.
	delete(seen, t.low)
	if len(seen) != 0 {
		return detail(fmt.Sprintf("%d node(s) reachable from the tree but not the list", len(seen)))
	}
	return nil
}

// validateSubtree walks the physical tree in order, confirming BST
// ordering and parent/child reciprocity, and removes each visited node
// from seen so Validate can detect tree nodes absent from the list.
func (t *Tree[V]) validateSubtree(n *Node[V], parent *Node[V], seen map[*Node[V]]bool) error {
	if n == nil {
		return nil
	}
	if n.parent.Load() != parent {
		return detail(fmt.Sprintf("node %d: parent pointer mismatch", n.key))
	}
	if !seen[n] {
		return detail(fmt.Sprintf("node %d: reachable from tree but not from list", n.key))
	}
	delete(seen, n)

	left := n.left.Load()
	if left != nil && left.key >= n.key {
		return detail(fmt.Sprintf("node %d: left child %d violates ordering", n.key, left.key))
	}
	right := n.right.Load()
	if right != nil && right.key <= n.key {
		return detail(fmt.Sprintf("node %d: right child %d violates ordering", n.key, right.key))
	}

	if err := t.validateSubtree(left, n, seen); err != nil {
		return err
	}
	return t.validateSubtree(right, n, seen)
}

func detail(msg string) error {
	return &treeerrors.InvariantViolationError{Detail: msg}
}
