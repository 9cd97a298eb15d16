package engine

import "github.com/miniql/miniql/internal/sqlvalue"

// Column describes one declared column of a table.
type Column struct {
	Name       string
	Type       sqlvalue.ColumnType
	PrimaryKey bool
	Unique     bool
	NotNull    bool
}

// ForeignKey declares that Column in the owning table must, for every
// non-null cell, match some row's ReferencedColumn in ReferencedTable.
type ForeignKey struct {
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}
