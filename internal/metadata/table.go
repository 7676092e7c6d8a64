package metadata

import (
	"maps"
	"slices"
)

// Table maps attribute index to value.
type Table map[uint8]Value

// Entry is one index/value pair of a table snapshot.
type Entry struct {
	Index uint8
	Value Value
}

// Clone returns an independent copy of t. Clone of a nil table is nil.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return maps.Clone(t)
}

// Merge overwrites the indices present in src and leaves the others alone.
func (t Table) Merge(src Table) {
	maps.Copy(t, src)
}

// Remove deletes the given indices. Unknown indices are ignored.
func (t Table) Remove(indices ...uint8) {
	for _, idx := range indices {
		delete(t, idx)
	}
}

// Snapshot returns the entries ordered by index.
func (t Table) Snapshot() []Entry {
	if len(t) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(t))
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Index: k, Value: t[k]}
	}
	return out
}
