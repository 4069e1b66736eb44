package history

import (
	"reflect"
	"testing"
)

func TestRecordAndWindow(t *testing.T) {
	tr := New(nil)

	if got := tr.Window("eins", 4); len(got) != 0 {
		t.Fatalf("expected empty window, got %v", got)
	}

	for _, ok := range []bool{false, true, true, false, true, true} {
		tr.Record("eins", ok)
	}

	if tr.Len("eins") != 6 {
		t.Fatalf("expected 6 attempts, got %d", tr.Len("eins"))
	}

	tests := []struct {
		size int
		want []bool
	}{
		{0, nil},
		{1, []bool{true}},
		{4, []bool{true, false, true, true}},
		{10, []bool{false, true, true, false, true, true}},
	}
	for _, tt := range tests {
		got := tr.Window("eins", tt.size)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestSeedAndSnapshotAreCopies(t *testing.T) {
	seed := map[string][]bool{"eins": {true}}
	tr := New(seed)
	seed["eins"][0] = false

	if !tr.Get("eins")[0] {
		t.Fatal("tracker shares memory with its seed")
	}

	snap := tr.Snapshot()
	tr.Record("eins", false)
	if len(snap["eins"]) != 1 {
		t.Errorf("snapshot changed after Record: %v", snap["eins"])
	}
}

func TestCountTrue(t *testing.T) {
	if got := CountTrue([]bool{true, false, true}); got != 2 {
		t.Errorf("CountTrue = %d, want 2", got)
	}
	if got := CountTrue(nil); got != 0 {
		t.Errorf("CountTrue(nil) = %d, want 0", got)
	}
}
