package persistence

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miniql/miniql/internal/engine"
	"github.com/miniql/miniql/internal/logging"
	"github.com/miniql/miniql/internal/sqlvalue"
)

var log = logging.GetLogger("persistence")

// snapshot is the gob-serializable mirror of a whole engine.Catalog,
// grounded on rdbms_core.py.Catalog.save's per-table dict: cols, pk
// (implicit in cols), fk, rows, ctr, and (unlike the source, which
// pickles every index verbatim) the secondary indexes only, since the
// primary-key and UNIQUE indexes rebuild for free from the column
// declarations when a table is reconstructed.
type snapshot struct {
	Tables []tableSnapshot
}

type tableSnapshot struct {
	Name         string
	Columns      []columnSnapshot
	ForeignKeys  []foreignKeySnapshot
	Rows         []rowSnapshot
	RowIDCounter uint64
	Indexes      []indexSnapshot
}

type columnSnapshot struct {
	Name       string
	Type       sqlvalue.ColumnType
	PrimaryKey bool
	Unique     bool
	NotNull    bool
}

type foreignKeySnapshot struct {
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

type rowSnapshot struct {
	RowID  uint64
	Values []sqlvalue.Value
}

type indexSnapshot struct {
	Name   string
	Column string
}

// Save writes every table in cat to path as one gob-encoded snapshot,
// via a temp-file-then-rename so a crash mid-write never leaves a
// truncated or half-written file in path's place.
func Save(path string, cat *engine.Catalog) error {
	var snap snapshot
	for name, t := range cat.All() {
		ts := tableSnapshot{
			Name:         name,
			RowIDCounter: t.RowIDCounter(),
		}
		for _, c := range t.Columns() {
			ts.Columns = append(ts.Columns, columnSnapshot{
				Name:       c.Name,
				Type:       c.Type,
				PrimaryKey: c.PrimaryKey,
				Unique:     c.Unique,
				NotNull:    c.NotNull,
			})
		}
		for _, fk := range t.ForeignKeys() {
			ts.ForeignKeys = append(ts.ForeignKeys, foreignKeySnapshot{
				Column:           fk.Column,
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
			})
		}
		for rowID, values := range t.Rows() {
			ts.Rows = append(ts.Rows, rowSnapshot{RowID: rowID, Values: values})
		}
		for name, col := range t.SecondaryIndexes() {
			ts.Indexes = append(ts.Indexes, indexSnapshot{Name: name, Column: col})
		}
		snap.Tables = append(snap.Tables, ts)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp snapshot: %w", err)
	}

	log.Info("snapshot saved", "path", path, "tables", len(snap.Tables))
	return nil
}

// Load restores a catalog from path. A missing file is not an error — it
// returns an empty catalog, mirroring rdbms_core.py.Catalog.load's
// os.path.exists guard (a fresh database simply has nothing to load).
func Load(path string) (*engine.Catalog, error) {
	cat := engine.NewCatalog()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	for _, ts := range snap.Tables {
		columns := make([]engine.Column, len(ts.Columns))
		for i, cs := range ts.Columns {
			columns[i] = engine.Column{
				Name:       cs.Name,
				Type:       cs.Type,
				PrimaryKey: cs.PrimaryKey,
				Unique:     cs.Unique,
				NotNull:    cs.NotNull,
			}
		}
		foreignKeys := make([]engine.ForeignKey, len(ts.ForeignKeys))
		for i, fs := range ts.ForeignKeys {
			foreignKeys[i] = engine.ForeignKey{
				Column:           fs.Column,
				ReferencedTable:  fs.ReferencedTable,
				ReferencedColumn: fs.ReferencedColumn,
			}
		}

		t := engine.NewTable(ts.Name, columns, foreignKeys)
		for _, rs := range ts.Rows {
			t.RestoreRow(rs.RowID, rs.Values)
		}
		t.SetRowIDCounter(ts.RowIDCounter)
		for _, is := range ts.Indexes {
			if err := t.CreateIndex(is.Name, is.Column); err != nil {
				return nil, fmt.Errorf("rebuild index %s on %s: %w", is.Name, ts.Name, err)
			}
		}

		cat.Put(ts.Name, t)
	}

	log.Info("snapshot loaded", "path", filepath.Clean(path), "tables", len(snap.Tables))
	return cat, nil
}
