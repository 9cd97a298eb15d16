package engine

import "github.com/miniql/miniql/internal/sqlvalue"

// Index maps a cell's textual form to the set of row-ids holding that
// value. The same shape backs the primary-key index (name "__pk__"),
// every unique index (name "__uniq_<column>"), and every index created by
// CREATE INDEX; only the table methods that consult them treat a
// collision differently (PK/unique reject it, a plain secondary index
// allows it).
type Index map[string]map[uint64]struct{}

// NewIndex returns an empty Index.
func NewIndex() Index {
	return make(Index)
}

// Add records rowID under value's textual key.
func (idx Index) Add(value sqlvalue.Value, rowID uint64) {
	key := value.String()
	set, ok := idx[key]
	if !ok {
		set = make(map[uint64]struct{})
		idx[key] = set
	}
	set[rowID] = struct{}{}
}

// Remove drops rowID from value's key, deleting the key entirely once its
// set empties (matching rdbms_core.py's _remove_from_indexes).
func (idx Index) Remove(value sqlvalue.Value, rowID uint64) {
	key := value.String()
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, rowID)
	if len(set) == 0 {
		delete(idx, key)
	}
}

// Lookup returns the row-id set for value, if any.
func (idx Index) Lookup(value sqlvalue.Value) (map[uint64]struct{}, bool) {
	set, ok := idx[value.String()]
	return set, ok
}
