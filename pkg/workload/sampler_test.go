package workload

import "testing"

func TestSamplerReproducible(t *testing.T) {
	mix := Mix{Insert: 40, Delete: 20, Lookup: 40}
	a := NewSampler(42, 1000, mix)
	b := NewSampler(42, 1000, mix)

	for i := 0; i < 500; i++ {
		ka, va := a.Next()
		kb, vb := b.Next()
		if ka != kb || va != vb {
			t.Fatalf("step %d: same-seed samplers diverged: (%v,%d) vs (%v,%d)", i, ka, va, kb, vb)
		}
	}
}

func TestSamplerStaysInKeySpace(t *testing.T) {
	s := NewSampler(7, 50, Mix{Insert: 1, Delete: 1, Lookup: 1})
	for i := 0; i < 1000; i++ {
		_, key := s.Next()
		if key < 0 || key >= 50 {
			t.Fatalf("key %d out of [0, 50)", key)
		}
	}
}

func TestSamplerZeroMixDefaultsToLookup(t *testing.T) {
	s := NewSampler(1, 10, Mix{})
	kind, _ := s.Next()
	if kind != SampledLookup {
		t.Fatalf("expected SampledLookup as the fallback, got %v", kind)
	}
}
