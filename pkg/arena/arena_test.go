package arena

import "testing"

type widget struct {
	n int
}

func TestAllocRetireRecycles(t *testing.T) {
	p := New[widget](0)

	v := p.Alloc()
	v.n = 7

	zeroed := false
	p.Retire(v, func(w *widget) { zeroed = true; *w = widget{} })
	if !zeroed {
		t.Fatal("expected zero callback to run once reclaimed with no active readers")
	}

	v2 := p.Alloc()
	if v2.n != 0 {
		t.Fatalf("expected a recycled, zeroed widget, got n=%d", v2.n)
	}
}

func TestEnterExitDelaysReclamation(t *testing.T) {
	p := New[widget](0)
	v := p.Alloc()

	tok := p.Enter()
	zeroed := false
	p.Retire(v, func(w *widget) { zeroed = true })
	if zeroed {
		t.Fatal("expected retirement to be held back while a reader is active")
	}
	p.Exit(tok)

	// A later Retire's own TryReclaim call sweeps anything now eligible.
	p.Retire(p.Alloc(), func(*widget) {})
	if !zeroed {
		t.Fatal("expected reclamation once the blocking reader exited")
	}
}

func TestRetireBackstopDropsInsteadOfQueueing(t *testing.T) {
	p := New[widget](2)
	tok := p.Enter() // hold every retirement back

	zeroCalls := 0
	for i := 0; i < 10; i++ {
		p.Retire(p.Alloc(), func(*widget) { zeroCalls++ })
	}

	if p.pending.Load() > 2 {
		t.Fatalf("expected queued retirements capped at maxSize=2, got %d", p.pending.Load())
	}

	p.Exit(tok)
	p.Retire(p.Alloc(), func(*widget) { zeroCalls++ })

	// Only the items that made it into the queue (<= maxSize) can ever be
	// zeroed/recycled; the rest were dropped straight to the garbage
	// collector. The final Retire above also finds the queue full, so it is
	// dropped too and runs no reclaim sweep.
	if zeroCalls >= 10 {
		t.Fatalf("expected most retirements to bypass the pool once over the backstop, got %d zeroed", zeroCalls)
	}
}
