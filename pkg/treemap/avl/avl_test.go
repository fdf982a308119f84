package avl

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/bobboyms/latchtree/pkg/arena"
	"github.com/bobboyms/latchtree/pkg/treemap"
)

func TestInsertLookupDelete(t *testing.T) {
	tr := New[string]()

	if tr.Lookup(1) {
		t.Fatal("empty tree reports key 1 present")
	}
	if !tr.Insert(1, "a") {
		t.Fatal("first insert of key 1 should succeed")
	}
	if tr.Insert(1, "b") {
		t.Fatal("second insert of key 1 should fail")
	}
	if !tr.Lookup(1) {
		t.Fatal("key 1 should be present after insert")
	}
	if !tr.Delete(1) {
		t.Fatal("delete of present key 1 should succeed")
	}
	if tr.Lookup(1) {
		t.Fatal("key 1 should be absent after delete")
	}
}

func TestReservedKeysPanic(t *testing.T) {
	tr := New[int]()
	cases := []func(){
		func() { tr.Insert(treemap.MinKey, 0) },
		func() { tr.Lookup(treemap.MaxKey) },
		func() { tr.Delete(treemap.MinKey) },
	}
	for i, fn := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("case %d: expected panic on reserved key", i)
				}
			}()
			fn()
		}()
	}
}

// TestOrderedFillIsBalanced mirrors the "S2 ordered fill" scenario:
// inserting keys 1..N in increasing order into an unbalanced BST degrades
// to a linked list, but the AVL variant must stay logarithmically deep.
func TestOrderedFillIsBalanced(t *testing.T) {
	tr := New[int]()
	const n = 1000
	for i := int32(1); i <= n; i++ {
		if !tr.Insert(i, int(i)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after ordered fill: %v", err)
	}
	for i := int32(1); i <= n; i++ {
		if !tr.Lookup(i) {
			t.Fatalf("key %d missing after ordered fill", i)
		}
	}
}

// TestReverseFillIsBalanced mirrors "S3 reverse fill".
func TestReverseFillIsBalanced(t *testing.T) {
	tr := New[int]()
	const n = 1000
	for i := int32(n); i >= 1; i-- {
		if !tr.Insert(i, int(i)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after reverse fill: %v", err)
	}
}

func TestSmallOrderedFillListOrder(t *testing.T) {
	tr := New[int]()
	for i := int32(1); i <= 7; i++ {
		if !tr.Insert(i, int(i)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := []int32{}
	for n := tr.low.succ.Load(); n != tr.high; n = n.succ.Load() {
		got = append(got, n.Key())
	}
	want := []int32{1, 2, 3, 4, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("list walk length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list walk = %v, want %v", got, want)
		}
	}
}

func TestDeleteAllShapesThenValidate(t *testing.T) {
	tr := New[int]()
	keys := []int32{50, 25, 75, 10, 30, 60, 90, 5, 15, 27, 35, 1, 2, 3, 4}
	for _, k := range keys {
		if !tr.Insert(k, int(k)) {
			t.Fatalf("insert %d failed", k)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after build: %v", err)
	}

	toDelete := []int32{1, 2, 5, 15, 25, 50, 75, 90}
	for _, k := range toDelete {
		if !tr.Delete(k) {
			t.Fatalf("delete %d should have succeeded", k)
		}
		if err := tr.Validate(); err != nil {
			t.Fatalf("validate after deleting %d: %v", k, err)
		}
		if tr.Lookup(k) {
			t.Fatalf("key %d still present after delete", k)
		}
	}
}

func TestRandomizedAgainstReference(t *testing.T) {
	tr := New[int]()
	ref := make(map[int32]bool)
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 20000; i++ {
		k := int32(rng.Intn(500))
		switch rng.Intn(3) {
		case 0:
			want := !ref[k]
			if got := tr.Insert(k, int(k)); got != want {
				t.Fatalf("insert %d: got %v want %v", k, got, want)
			}
			ref[k] = true
		case 1:
			want := ref[k]
			if got := tr.Delete(k); got != want {
				t.Fatalf("delete %d: got %v want %v", k, got, want)
			}
			delete(ref, k)
		case 2:
			want := ref[k]
			if got := tr.Lookup(k); got != want {
				t.Fatalf("lookup %d: got %v want %v", k, got, want)
			}
		}
		if i%2000 == 0 {
			if err := tr.Validate(); err != nil {
				t.Fatalf("validate at step %d: %v", i, err)
			}
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after randomized workload: %v", err)
	}
}

func TestConcurrentDisjointKeys(t *testing.T) {
	tr := New[int]()
	const workers = 16
	const perWorker = 500

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(base int32) {
			defer wg.Done()
			for i := int32(0); i < perWorker; i++ {
				k := base*perWorker + i
				if !tr.Insert(k, int(k)) {
					t.Errorf("worker %d: insert %d failed", base, k)
				}
			}
		}(int32(w))
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		for i := int32(0); i < perWorker; i++ {
			k := int32(w)*perWorker + i
			if !tr.Lookup(k) {
				t.Fatalf("key %d missing after concurrent insert", k)
			}
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after concurrent insert: %v", err)
	}
}

func TestConcurrentMixedSharedKeyspace(t *testing.T) {
	tr := New[int]()
	const workers = 8
	const ops = 4000
	const keyspace = 200

	for i := int32(0); i < keyspace; i += 2 {
		tr.Insert(i, int(i))
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < ops; i++ {
				k := int32(rng.Intn(keyspace))
				switch rng.Intn(3) {
				case 0:
					tr.Insert(k, int(k))
				case 1:
					tr.Delete(k)
				case 2:
					tr.Lookup(k)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after concurrent mixed workload: %v", err)
	}
}

func TestWithArenaConcurrentMutation(t *testing.T) {
	pool := arena.New[Node[int]](0)
	tr := New[int](WithArena(pool))

	const workers = 16
	const opsPerWorker = 3000
	const keySpace = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerWorker; i++ {
				k := int32(rng.Intn(keySpace))
				switch rng.Intn(3) {
				case 0:
					tr.Insert(k, i)
				case 1:
					tr.Delete(k)
				case 2:
					tr.Lookup(k)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after pooled concurrent mutation: %v", err)
	}
}

func TestShape(t *testing.T) {
	tr := New[int]()
	if live, height := tr.Shape(); live != 0 || height != 0 {
		t.Fatalf("empty tree: expected (0, 0), got (%d, %d)", live, height)
	}
	for i := int32(1); i <= 1000; i++ {
		tr.Insert(i, int(i))
	}
	live, height := tr.Shape()
	if live != 1000 {
		t.Fatalf("expected 1000 live keys, got %d", live)
	}
	// A relaxed-balance AVL tree over 1000 ascending keys should stay
	// within a small constant factor of log2(1000) ~= 10, nowhere near
	// the 1000 an unbalanced tree would reach.
	if height > 25 {
		t.Fatalf("expected a balanced height, got %d", height)
	}
}
