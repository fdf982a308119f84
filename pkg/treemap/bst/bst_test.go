package bst

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
	if tr.Delete(1) {
		t.Fatal("delete of already-deleted key 1 should fail")
	}
	if tr.Lookup(1) {
		t.Fatal("key 1 should be absent after delete")
	}
}

func TestReservedKeysPanic(t *testing.T) {
	tr := New[int]()

	cases := []func(){
		func() { tr.Insert(treemap.MinKey, 0) },
		func() { tr.Lookup(treemap.MinKey) },
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

func TestOrderedFillThenValidate(t *testing.T) {
	tr := New[int]()
	for i := int32(0); i < 2000; i++ {
		if !tr.Insert(i, int(i)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after ordered fill: %v", err)
	}
	for i := int32(0); i < 2000; i++ {
		if !tr.Lookup(i) {
			t.Fatalf("key %d missing after ordered fill", i)
		}
	}
}

func TestReverseFillThenValidate(t *testing.T) {
	tr := New[int]()
	for i := int32(1999); i >= 0; i-- {
		if !tr.Insert(i, int(i)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after reverse fill: %v", err)
	}
}

func TestDeleteAllShapes(t *testing.T) {
	// Build a tree then delete keys that exercise: leaf (5, 15), one-child
	// (75), and two-children (25, 50) removal. In both two-children deletes
	// the successor sits below the target's right child.
	tr := New[int]()
	keys := []int32{50, 25, 75, 10, 30, 60, 90, 5, 15, 27, 35}
	for _, k := range keys {
		if !tr.Insert(k, int(k)) {
			t.Fatalf("insert %d failed", k)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate after build: %v", err)
	}

	toDelete := []int32{5, 15, 25, 50, 75}
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

	remaining := []int32{10, 27, 30, 35, 60, 90}
	for _, k := range remaining {
		if !tr.Lookup(k) {
			t.Fatalf("key %d should still be present", k)
		}
	}
}

func TestRandomizedAgainstReference(t *testing.T) {
	tr := New[int]()
	ref := make(map[int32]bool)
	rng := rand.New(rand.NewSource(1))

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

	// Pre-seed so deletes have something to contend with immediately.
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
	for _, k := range []int32{5, 3, 8, 1, 4} {
		tr.Insert(k, int(k))
	}
	live, height := tr.Shape()
	if live != 5 {
		t.Fatalf("expected 5 live keys, got %d", live)
	}
	if height == 0 {
		t.Fatal("expected a positive height for a non-empty tree")
	}
}
