package workload

import (
	"sync"

	"github.com/google/uuid"
)

// OpKind identifies the mutation an Entry recorded.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpDelete
)

func (k OpKind) String() string {
	if k == OpDelete {
		return "delete"
	}
	return "insert"
}

// Entry is one completed mutation against a tree, recorded for later
// replay. Seq orders entries by completion, not by issue time: two
// goroutines racing to mutate overlapping keys may complete in either
// order, and a replay checker must only require consistency with some
// such completion order, not the one the workload generator intended.
type Entry struct {
	Seq    uint64
	Kind   OpKind
	Key    int32
	Result bool // Insert/Delete's own true/false return
}

// OpLog is an append-only, concurrency-safe record of completed mutations
// against one tree, grounded on the teacher's WAL writer: there, every
// write is appended under a lock and assigned the next LSN before
// anything else observes it, which is exactly the ordering guarantee a
// linearizability replay check needs. Unlike the teacher's WAL, this
// never touches disk: persistence is out of scope here, only the
// in-memory record of what happened and in what completion order.
type OpLog struct {
	RunID uuid.UUID

	seq *SeqTracker

	mu      sync.Mutex
	entries []Entry
}

// NewOpLog returns an empty log tagged with a fresh run identifier.
func NewOpLog() *OpLog {
	return &OpLog{
		RunID: uuid.New(),
		seq:   NewSeqTracker(0),
	}
}

// Record appends a completed mutation's outcome and returns the Entry
// assigned to it.
func (l *OpLog) Record(kind OpKind, key int32, result bool) Entry {
	l.mu.Lock()
	e := Entry{Seq: l.seq.Next(), Kind: kind, Key: key, Result: result}
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return e
}

// Entries returns a snapshot of everything recorded so far, ordered by
// completion sequence.
func (l *OpLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
