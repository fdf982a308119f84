// Package reclaim implements a minimal epoch-based reclamation guard.
//
// Plain Go garbage collection already makes "drop the pointer on delete"
// memory-safe: the collector never frees memory a goroutine can still
// reach, so a stale Lookup holding a reference to an unlinked node cannot
// read freed memory (spec.md §9's reclamation worry, for the default
// new()-per-node allocation path, simply does not apply in Go).
//
// The hazard reappears the moment storage is pooled and handed back out
// for reuse (pkg/arena): a reader still mid-traversal of a retired node
// must not see that node's fields overwritten for a brand new key. Guard
// closes exactly that gap: a retired item is only released back to its
// pool once every reader that could have observed it before retirement has
// left its read-side critical section.
package reclaim

import (
	"sync"
	"sync/atomic"
)

const inactive = ^uint64(0)

type slot struct {
	epoch atomic.Uint64
}

// Token is returned by Enter and must be passed back to Exit exactly once.
type Token struct {
	s *slot
}

// Guard tracks a global epoch counter, one slot per concurrent reader, and
// a queue of retired-but-not-yet-reclaimed items.
type Guard struct {
	epoch atomic.Uint64

	mu    sync.Mutex
	slots []*slot
	free  []*slot

	retireMu sync.Mutex
	retired  []retirement
}

type retirement struct {
	epoch   uint64
	release func()
}

// New returns a ready-to-use Guard.
func New() *Guard {
	return &Guard{}
}

// Enter marks the calling goroutine as an active reader and returns a
// Token to pass to Exit when the read-side critical section ends. Enter
// must be called before dereferencing anything that could be concurrently
// retired, and the critical section must be short (no blocking calls):
// while any reader is active, nothing retired after it entered can be
// reclaimed.
func (g *Guard) Enter() Token {
	s := g.acquireSlot()
	s.epoch.Store(g.epoch.Load())
	return Token{s: s}
}

// Exit ends the read-side critical section started by the matching Enter.
func (g *Guard) Exit(t Token) {
	t.s.epoch.Store(inactive)
	g.releaseSlot(t.s)
}

// Retire records that release should run once no reader active at the time
// of the call (or earlier) can still be observing the retired item. It
// also opportunistically reclaims anything already eligible.
func (g *Guard) Retire(release func()) {
	e := g.epoch.Add(1)

	g.retireMu.Lock()
	g.retired = append(g.retired, retirement{epoch: e, release: release})
	g.retireMu.Unlock()

	g.TryReclaim()
}

// TryReclaim releases every retired item whose retirement predates every
// currently active reader. It is safe to call at any time, including
// periodically from a background goroutine; it never blocks on a reader.
func (g *Guard) TryReclaim() {
	min := g.minActiveEpoch()

	g.retireMu.Lock()
	defer g.retireMu.Unlock()

	kept := g.retired[:0]
	for _, r := range g.retired {
		if r.epoch < min {
			r.release()
			continue
		}
		kept = append(kept, r)
	}
	g.retired = kept
}

func (g *Guard) minActiveEpoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	min := inactive
	for _, s := range g.slots {
		if e := s.epoch.Load(); e != inactive && e < min {
			min = e
		}
	}
	return min
}

func (g *Guard) acquireSlot() *slot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n := len(g.free); n > 0 {
		s := g.free[n-1]
		g.free = g.free[:n-1]
		return s
	}
	s := &slot{}
	s.epoch.Store(inactive)
	g.slots = append(g.slots, s)
	return s
}

func (g *Guard) releaseSlot(s *slot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.free = append(g.free, s)
}
