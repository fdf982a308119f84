package bst

import "golang.org/x/exp/rand"

// Warmup implements treemap.Map (spec.md §6): draw random keys in
// [0, maxKey) from a PRNG seeded with seed, inserting each until n
// insertions succeed, and return that count. force controls whether a
// prior call's PRNG stream is continued or discarded: without force, a
// second Warmup on the same Tree draws further keys from where the first
// left off; with force, it reseeds from scratch.
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
