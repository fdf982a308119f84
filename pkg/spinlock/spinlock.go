// Package spinlock implements a try-lock-friendly spin mutex.
//
// The tree packages under pkg/treemap pair every node with two of these
// (succLock and treeLock). Critical sections are always a handful of
// pointer writes, so spinning beats parking a goroutine: there is nothing
// worth a context switch, and the trylock-then-back-off protocol used by
// lockParent/acquireTreeLocks/rebalance needs a lock that can report
// failure instead of blocking.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// Lock is a spin-based mutual exclusion lock. The zero value is unlocked.
type Lock struct {
	held atomic.Bool
}

// Lock blocks, spinning, until the lock is acquired.
func (l *Lock) Lock() {
	backoff := 0
	for !l.held.CompareAndSwap(false, true) {
		spin(backoff)
		if backoff < 6 {
			backoff++
		}
	}
}

// Unlock releases the lock. Unlocking an already-unlocked Lock is a
// programmer error and panics, same as sync.Mutex.
func (l *Lock) Unlock() {
	if !l.held.CompareAndSwap(true, false) {
		panic("spinlock: unlock of unlocked Lock")
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return l.held.CompareAndSwap(false, true)
}

// IsHeld reports whether the lock is currently held by anyone. Useful only
// for assertions in tests; never used to gate correctness.
func (l *Lock) IsHeld() bool {
	return l.held.Load()
}

// spin yields the processor with mildly increasing patience. runtime.Gosched
// is enough on a Go scheduler (unlike the original's raw PAUSE-instruction
// spin, goroutines share an OS thread pool that needs to be given back).
func spin(backoff int) {
	for i := 0; i < 1<<backoff; i++ {
		runtime.Gosched()
	}
}
