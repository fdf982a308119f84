// Package report serializes a benchmark run's summary to BSON, the same
// marshal/unmarshal shape the teacher's pkg/storage/bson.go uses for
// documents, applied here to a run summary instead of a row.
package report

import (
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Summary is a single benchmark run's result: the scenario that produced
// it, timing, the tree's Shape afterward, and whether Validate passed.
type Summary struct {
	RunID     string    `bson:"run_id"`
	Variant   string    `bson:"variant"`
	Scenario  string    `bson:"scenario"`
	Seed      uint64    `bson:"seed"`
	Workers   int       `bson:"workers"`
	StartedAt int64     `bson:"started_at_unix_nano"`
	ElapsedNS int64     `bson:"elapsed_ns"`
	Ops       OpCounts  `bson:"ops"`
	Shape     TreeShape `bson:"shape"`
	Valid     bool      `bson:"valid"`
	ValidErr  string    `bson:"valid_err,omitempty"`
}

// OpCounts tallies completed operations by kind and outcome.
type OpCounts struct {
	Inserts      int64 `bson:"inserts"`
	InsertHits   int64 `bson:"insert_hits"`
	Deletes      int64 `bson:"deletes"`
	DeleteHits   int64 `bson:"delete_hits"`
	Lookups      int64 `bson:"lookups"`
	LookupHits   int64 `bson:"lookup_hits"`
}

// TreeShape records the structural stats the tree's post-run Shape call
// reports: how many live keys remain and how tall the physical tree grew.
type TreeShape struct {
	LiveKeys int   `bson:"live_keys"`
	Height   int32 `bson:"height"`
}

// Marshal mirrors the teacher's MarshalBson, narrowed to a Summary instead
// of a bare bson.D: BSON documents are naturally keyed, and a struct tag
// gives a stable, self-describing field name per column without having to
// hand-build a bson.D.
func Marshal(s Summary) ([]byte, error) {
	return bson.Marshal(s)
}

// Unmarshal mirrors the teacher's UnmarshalBson.
func Unmarshal(data []byte) (Summary, error) {
	var s Summary
	if err := bson.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("report: unmarshal summary: %w", err)
	}
	return s, nil
}

// WriteFile marshals s and writes it to path.
func WriteFile(path string, s Summary) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("report: marshal summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and unmarshals a summary previously written by WriteFile.
func ReadFile(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("report: read %s: %w", path, err)
	}
	return Unmarshal(data)
}
