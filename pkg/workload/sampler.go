package workload

import "golang.org/x/exp/rand"

// Mix weights the three operations a worker samples from, in the same
// relative-weight style as a config file's ratios (spec.md §8's scenario
// mixes, e.g. "60% lookup, 25% insert, 15% delete").
type Mix struct {
	Insert int
	Delete int
	Lookup int
}

// Sampler draws a reproducible stream of (operation kind, key) pairs from
// a seeded PRNG, exactly the rand.New(rand.NewSource(seed)) construction
// pkg/treemap/*/warmup.go uses, so a fixed seed reproduces the same
// sequence across a process restart.
type Sampler struct {
	rng      *rand.Rand
	keySpace int32
	total    int
	mix      Mix
}

// NewSampler returns a Sampler that will draw from [0, keySpace) using the
// given op mix and seed.
func NewSampler(seed uint64, keySpace int32, mix Mix) *Sampler {
	return &Sampler{
		rng:      rand.New(rand.NewSource(seed)),
		keySpace: keySpace,
		mix:      mix,
	}
}

// Next draws the next operation kind and key. kind is one of
// SampledInsert, SampledDelete or SampledLookup; Lookup has no OpLog entry
// of its own kind (only Insert/Delete outcomes are logged for replay).
func (s *Sampler) Next() (kind SampledOp, key int32) {
	total := s.mix.Insert + s.mix.Delete + s.mix.Lookup
	if total <= 0 {
		total = 1
	}
	roll := s.rng.Intn(total)
	switch {
	case roll < s.mix.Insert:
		kind = SampledInsert
	case roll < s.mix.Insert+s.mix.Delete:
		kind = SampledDelete
	default:
		kind = SampledLookup
	}
	key = int32(s.rng.Int63n(int64(s.keySpace)))
	return kind, key
}

// SampledOp identifies which of the three operations a Sampler drew.
// Unlike OpKind, it includes SampledLookup since the sampler drives all
// three operations, while OpLog only ever records the two mutations.
type SampledOp uint8

const (
	SampledInsert SampledOp = iota
	SampledDelete
	SampledLookup
)

func (k SampledOp) String() string {
	switch k {
	case SampledInsert:
		return "insert"
	case SampledDelete:
		return "delete"
	default:
		return "lookup"
	}
}
