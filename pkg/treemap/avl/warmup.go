package avl

import "golang.org/x/exp/rand"

// Warmup implements treemap.Map (spec.md §6). See pkg/treemap/bst.Warmup
// for the force/reseed contract; behavior here is identical, only the
// underlying tree differs.
func (t *Tree[V]) Warmup(n int, maxKey int32, seed uint64, force bool) int {
	t.rngMu.Lock()
	defer t.rngMu.Unlock()

	if force || t.rng == nil {
		t.rng = rand.New(rand.NewSource(seed))
	}

	var zero V
	successes := 0
	for successes < n {
		k := int32(t.rng.Int63n(int64(maxKey)))
		if t.Insert(k, zero) {
			successes++
		}
	}
	return successes
}
