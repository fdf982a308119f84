package report

import (
	"path/filepath"
	"testing"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	s := Summary{
		RunID:    "11111111-1111-1111-1111-111111111111",
		Variant:  "avl",
		Scenario: "workers=4 ops=1000",
		Seed:     7,
		Workers:  4,
		Ops: OpCounts{
			Inserts: 400, InsertHits: 390,
			Deletes: 200, DeleteHits: 150,
			Lookups: 400, LookupHits: 300,
		},
		Shape: TreeShape{LiveKeys: 240, Height: 12},
		Valid: true,
	}

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got != s {
		t.Fatalf("round trip mismatch:\n  got  %+v\n  want %+v", got, s)
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.bson")

	s := Summary{RunID: "r1", Variant: "bst", Valid: false, ValidErr: "boom"}
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != s {
		t.Fatalf("round trip mismatch:\n  got  %+v\n  want %+v", got, s)
	}
}
