package bst

import "github.com/bobboyms/latchtree/pkg/treemap"

// Shape reports the live key count and physical height, for benchmark
// reporting. Like Validate, it is single-threaded only: it walks raw
// pointers without taking any lock. The high sentinel is not counted in
// the height, so an empty tree reports (0, 0).
func (t *Tree[V]) Shape() (liveKeys int, height int32) {
	return shapeOf(t.root().left.Load())
}

func shapeOf[V any](n *Node[V]) (count int, height int32) {
	if n == nil {
		return 0, 0
	}
	lc, lh := shapeOf(n.left.Load())
	rc, rh := shapeOf(n.right.Load())
	h := lh
	if rh > h {
		h = rh
	}
	self := 0
	if n.valid.Load() && !treemap.Reserved(n.key) {
		self = 1
	}
	return lc + rc + self, h + 1
}
