// Package history keeps the per-item record of correct and incorrect attempts.
package history

// Tracker maps an item key to its attempts, oldest first. Records only grow.
type Tracker struct {
	records map[string][]bool
}

// New creates a tracker seeded with a copy of seed, which may be nil.
func New(seed map[string][]bool) *Tracker {
	t := &Tracker{records: make(map[string][]bool, len(seed))}
	for k, v := range seed {
		t.records[k] = append([]bool(nil), v...)
	}
	return t
}

// Record appends one attempt for key.
func (t *Tracker) Record(key string, correct bool) {
	t.records[key] = append(t.records[key], correct)
}

// Get returns the full record for key. The slice must not be modified.
func (t *Tracker) Get(key string) []bool {
	return t.records[key]
}

// Len returns the number of attempts recorded for key.
func (t *Tracker) Len(key string) int {
	return len(t.records[key])
}

// Window returns the last size attempts for key, or fewer if the record is
// shorter.
func (t *Tracker) Window(key string, size int) []bool {
	return Tail(t.records[key], size)
}

// Snapshot returns a deep copy of every record.
func (t *Tracker) Snapshot() map[string][]bool {
	out := make(map[string][]bool, len(t.records))
	for k, v := range t.records {
		out[k] = append([]bool(nil), v...)
	}
	return out
}

// Tail returns the last n elements of record.
func Tail(record []bool, n int) []bool {
	if n <= 0 {
		return nil
	}
	if n >= len(record) {
		return record
	}
	return record[len(record)-n:]
}

// CountTrue returns the number of correct attempts in record.
func CountTrue(record []bool) int {
	n := 0
	for _, ok := range record {
		if ok {
			n++
		}
	}
	return n
}
