package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miniql/miniql/internal/logging"
	"github.com/miniql/miniql/internal/sqlvalue"
)

var log = logging.GetLogger("engine")

// Row is one stored record paired with its row-id.
type Row struct {
	RowID  uint64
	Values []sqlvalue.Value
}

// Condition is one `col OP literal` term of a WHERE clause.
type Condition struct {
	Column   string
	Operator string
	Value    sqlvalue.Value
}

// Table is one named relation: its declared columns, the rows keyed by
// row-id, and the indexes (primary key, unique, and user-created) kept in
// sync with every mutation.
type Table struct {
	Name          string
	columns       []Column
	columnIndex   map[string]int
	rows          map[uint64][]sqlvalue.Value
	rowIDCounter  uint64
	primaryKey    string
	uniqueColumns []string
	foreignKeys   []ForeignKey
	indexes       map[string]Index
	indexColumn   map[string]string // index name -> column it's built over
}

// NewTable builds an empty table from its column declarations, detecting
// the (at most one) primary-key column and the non-PK unique columns.
func NewTable(name string, columns []Column, foreignKeys []ForeignKey) *Table {
	t := &Table{
		Name:         name,
		columns:      columns,
		columnIndex:  make(map[string]int, len(columns)),
		rows:         make(map[uint64][]sqlvalue.Value),
		rowIDCounter: 1,
		foreignKeys:  foreignKeys,
		indexes:      make(map[string]Index),
		indexColumn:  make(map[string]string),
	}
	for i, c := range columns {
		t.columnIndex[c.Name] = i
		if c.PrimaryKey && t.primaryKey == "" {
			t.primaryKey = c.Name
		}
	}
	for _, c := range columns {
		if c.Unique && c.Name != t.primaryKey {
			t.uniqueColumns = append(t.uniqueColumns, c.Name)
		}
	}
	if t.primaryKey != "" {
		t.indexes["__pk__"] = NewIndex()
		t.indexColumn["__pk__"] = t.primaryKey
	}
	for _, col := range t.uniqueColumns {
		name := "__uniq_" + col
		t.indexes[name] = NewIndex()
		t.indexColumn[name] = col
	}
	return t
}

// Columns returns the table's declared columns in order.
func (t *Table) Columns() []Column {
	return t.columns
}

// PrimaryKey returns the primary-key column name, or "" if none.
func (t *Table) PrimaryKey() string {
	return t.primaryKey
}

// ForeignKeys returns the table's declared foreign keys.
func (t *Table) ForeignKeys() []ForeignKey {
	return t.foreignKeys
}

// ColumnIndex returns the declared position of name, or -1 if unknown.
func (t *Table) ColumnIndex(name string) int {
	i, ok := t.columnIndex[name]
	if !ok {
		return -1
	}
	return i
}

// RowIDCounter returns the next row-id that would be assigned.
func (t *Table) RowIDCounter() uint64 {
	return t.rowIDCounter
}

// SetRowIDCounter overrides the next row-id to assign, used by the
// persistence layer after restoring a snapshot's rows directly.
func (t *Table) SetRowIDCounter(n uint64) {
	t.rowIDCounter = n
}

// Rows returns every stored row, keyed by row-id. Callers must not
// mutate the returned map or its slices.
func (t *Table) Rows() map[uint64][]sqlvalue.Value {
	return t.rows
}

// Row returns the current values for rowID, if present.
func (t *Table) Row(rowID uint64) ([]sqlvalue.Value, bool) {
	r, ok := t.rows[rowID]
	return r, ok
}

// SecondaryIndexes returns the name and underlying column of every index
// created by CREATE INDEX, excluding the primary-key and UNIQUE indexes
// NewTable derives automatically from the column declarations. Used by
// the persistence layer to know which indexes a snapshot must record
// explicitly versus rebuild for free from Columns.
func (t *Table) SecondaryIndexes() map[string]string {
	out := make(map[string]string)
	for name, col := range t.indexColumn {
		if name == "__pk__" || strings.HasPrefix(name, "__uniq_") {
			continue
		}
		out[name] = col
	}
	return out
}

// validate coerces val to col's declared type and enforces NOT NULL /
// PRIMARY KEY nullability, mirroring rdbms_core.py's Table._validate.
func validate(col Column, val sqlvalue.Value) (sqlvalue.Value, error) {
	if val.IsNull() {
		if col.NotNull || col.PrimaryKey {
			return sqlvalue.Value{}, fmt.Errorf("NULL violation in %s", col.Name)
		}
		return sqlvalue.Null, nil
	}
	return val.CoerceTo(col.Type)
}

// Insert validates and stores one row. If explicitRowID is non-nil it is
// used as the row-id (the executor supplies this when an INTEGER primary
// key lets the row-id track the key directly); otherwise the table's own
// counter is used. Insert performs zero writes if any check fails.
func (t *Table) Insert(values []sqlvalue.Value, explicitRowID *uint64) (uint64, error) {
	if len(values) != len(t.columns) {
		return 0, fmt.Errorf("column count mismatch in %s: got %d, want %d", t.Name, len(values), len(t.columns))
	}

	validated := make([]sqlvalue.Value, len(values))
	for i, col := range t.columns {
		v, err := validate(col, values[i])
		if err != nil {
			return 0, err
		}
		validated[i] = v
	}

	if t.primaryKey != "" {
		pkVal := validated[t.columnIndex[t.primaryKey]]
		if _, ok := t.indexes["__pk__"].Lookup(pkVal); ok {
			return 0, fmt.Errorf("primary key violation: %s", pkVal.String())
		}
	}

	for _, col := range t.uniqueColumns {
		val := validated[t.columnIndex[col]]
		if val.IsNull() {
			continue
		}
		if _, ok := t.indexes["__uniq_"+col].Lookup(val); ok {
			return 0, fmt.Errorf("UNIQUE constraint violation: column %q value %q already exists", col, val.String())
		}
	}

	finalID := t.rowIDCounter
	if explicitRowID != nil {
		finalID = *explicitRowID
	}
	if _, occupied := t.rows[finalID]; occupied {
		return 0, fmt.Errorf("row id %d already occupied in %s", finalID, t.Name)
	}

	t.rows[finalID] = validated
	if finalID >= t.rowIDCounter {
		t.rowIDCounter = finalID + 1
	}
	t.updateIndexes(finalID, validated)

	log.Debug("row inserted", "table", t.Name, "row_id", finalID)
	return finalID, nil
}

// RestoreRow installs an already-validated row at rowID, used by the
// persistence layer when replaying a snapshot: it writes the row and
// updates every index, but skips the validation and collision checks
// Insert performs since a saved snapshot was valid when it was written.
func (t *Table) RestoreRow(rowID uint64, values []sqlvalue.Value) {
	t.rows[rowID] = values
	if rowID >= t.rowIDCounter {
		t.rowIDCounter = rowID + 1
	}
	t.updateIndexes(rowID, values)
}

// Delete removes rowID, a no-op if it doesn't exist.
func (t *Table) Delete(rowID uint64) {
	row, ok := t.rows[rowID]
	if !ok {
		return
	}
	t.removeFromIndexes(rowID, row)
	delete(t.rows, rowID)
}

// Update replaces rowID's stored values, a no-op if rowID doesn't exist.
// It re-checks unique constraints (excluding rowID's own current slot)
// before writing, mirroring rdbms_core.py's update_row.
func (t *Table) Update(rowID uint64, newValues []sqlvalue.Value) error {
	old, ok := t.rows[rowID]
	if !ok {
		return nil
	}

	for _, col := range t.uniqueColumns {
		val := newValues[t.columnIndex[col]]
		if val.IsNull() {
			continue
		}
		if set, ok := t.indexes["__uniq_"+col].Lookup(val); ok {
			if _, owns := set[rowID]; !owns {
				return fmt.Errorf("UNIQUE constraint violation: column %q value %q already exists", col, val.String())
			}
		}
	}

	t.removeFromIndexes(rowID, old)
	t.rows[rowID] = newValues
	t.updateIndexes(rowID, newValues)
	return nil
}

// Select returns the rows matching conds (nil/empty conds matches
// everything). A single `primaryKey = literal` condition short-circuits
// to a PK-index probe; every other shape does a full scan in ascending
// row-id order, which is what makes "first row of the group" (§8.2)
// deterministic.
func (t *Table) Select(conds []Condition) []Row {
	if t.primaryKey != "" {
		for _, c := range conds {
			if c.Column != t.primaryKey || c.Operator != "=" {
				continue
			}
			var results []Row
			if set, ok := t.indexes["__pk__"].Lookup(c.Value); ok {
				ids := sortedIDs(set)
				for _, rid := range ids {
					row := t.rows[rid]
					if match(t.columnIndex, row, conds) {
						results = append(results, Row{RowID: rid, Values: row})
					}
				}
			}
			return results
		}
	}

	ids := make([]uint64, 0, len(t.rows))
	for rid := range t.rows {
		ids = append(ids, rid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var results []Row
	for _, rid := range ids {
		row := t.rows[rid]
		if match(t.columnIndex, row, conds) {
			results = append(results, Row{RowID: rid, Values: row})
		}
	}
	return results
}

func sortedIDs(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// match applies every condition's operator in turn, short-circuiting to
// false on the first failure — including any condition whose cell is
// Null, matching rdbms_core.py's Table._match.
func match(columnIndex map[string]int, row []sqlvalue.Value, conds []Condition) bool {
	for _, c := range conds {
		i, ok := columnIndex[c.Column]
		if !ok {
			continue
		}
		cell := row[i]
		if cell.IsNull() {
			return false
		}
		if !evalOperator(cell, c.Operator, c.Value) {
			return false
		}
	}
	return true
}

func evalOperator(cell sqlvalue.Value, op string, val sqlvalue.Value) bool {
	switch op {
	case "=":
		return cell.Equal(val)
	case "!=":
		return !cell.Equal(val)
	case ">":
		cmp, ok := cell.Compare(val)
		return ok && cmp > 0
	case "<":
		cmp, ok := cell.Compare(val)
		return ok && cmp < 0
	case ">=":
		cmp, ok := cell.Compare(val)
		return ok && cmp >= 0
	case "<=":
		cmp, ok := cell.Compare(val)
		return ok && cmp <= 0
	case "LIKE":
		return cell.Like(val.String())
	default:
		return false
	}
}

// CreateIndex builds a secondary index over column from the table's
// current rows.
func (t *Table) CreateIndex(name, column string) error {
	i, ok := t.columnIndex[column]
	if !ok {
		return fmt.Errorf("column %q not found in %s", column, t.Name)
	}
	idx := NewIndex()
	for rid, row := range t.rows {
		idx.Add(row[i], rid)
	}
	t.indexes[name] = idx
	t.indexColumn[name] = column
	return nil
}

func (t *Table) updateIndexes(rowID uint64, values []sqlvalue.Value) {
	if t.primaryKey != "" {
		pkVal := values[t.columnIndex[t.primaryKey]]
		t.indexes["__pk__"][pkVal.String()] = map[uint64]struct{}{rowID: {}}
	}
	for name, idx := range t.indexes {
		if name == "__pk__" {
			continue
		}
		col := t.indexColumn[name]
		val := values[t.columnIndex[col]]
		if val.IsNull() {
			continue
		}
		idx.Add(val, rowID)
	}
}

func (t *Table) removeFromIndexes(rowID uint64, values []sqlvalue.Value) {
	for name, idx := range t.indexes {
		col := t.primaryKey
		if name != "__pk__" {
			col = t.indexColumn[name]
		}
		i, ok := t.columnIndex[col]
		if !ok {
			continue
		}
		idx.Remove(values[i], rowID)
	}
}
