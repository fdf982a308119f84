package reclaim

import (
	"sync"
	"testing"
)

func TestRetireReclaimedWhenNoReaders(t *testing.T) {
	g := New()
	released := false
	g.Retire(func() { released = true })
	if !released {
		t.Fatal("expected immediate reclamation with no active readers")
	}
}

func TestRetireHeldBackByActiveReader(t *testing.T) {
	g := New()
	tok := g.Enter()

	released := false
	g.Retire(func() { released = true })
	if released {
		t.Fatal("expected retirement to be held back while a reader entered before it is active")
	}

	g.Exit(tok)
	g.TryReclaim()
	if !released {
		t.Fatal("expected reclamation once the blocking reader exited")
	}
}

func TestConcurrentEnterExitRetire(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	var releasedCount int
	var mu sync.Mutex

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				tok := g.Enter()
				g.Exit(tok)
			}
		}()
	}

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Retire(func() {
				mu.Lock()
				releasedCount++
				mu.Unlock()
			})
		}()
	}

	wg.Wait()
	g.TryReclaim()

	mu.Lock()
	defer mu.Unlock()
	if releasedCount != 100 {
		t.Fatalf("expected all 100 retirements eventually reclaimed, got %d", releasedCount)
	}
}
