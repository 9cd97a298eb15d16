package sqlparser

import "github.com/miniql/miniql/internal/sqlvalue"

// Statement is the marker interface every recognized statement shape
// implements. The executor type-switches on the concrete type.
type Statement interface {
	statement()
}

// ColumnDef is one column definition inside CREATE TABLE.
type ColumnDef struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Unique     bool
}

// ForeignKeyDef is one FOREIGN KEY(...) REFERENCES clause inside
// CREATE TABLE.
type ForeignKeyDef struct {
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

// CreateTableStatement is CREATE TABLE name (col defs..., fk defs...).
type CreateTableStatement struct {
	Table       string
	Columns     []ColumnDef
	ForeignKeys []ForeignKeyDef
}

func (CreateTableStatement) statement() {}

// CreateIndexStatement is CREATE INDEX name ON table (column).
type CreateIndexStatement struct {
	Name   string
	Table  string
	Column string
}

func (CreateIndexStatement) statement() {}

// DropTableStatement is DROP TABLE name.
type DropTableStatement struct {
	Table string
}

func (DropTableStatement) statement() {}

// InsertStatement is INSERT INTO table [(...)] VALUES (...).
type InsertStatement struct {
	Table  string
	Values []sqlvalue.Value
}

func (InsertStatement) statement() {}

// Condition is one `col OP literal` term of a WHERE clause.
type Condition struct {
	Column   string
	Operator string
	Value    sqlvalue.Value
}

// SelectStatement is the plain single-table SELECT shape.
type SelectStatement struct {
	Columns []string // ["*"] for a star select
	Table   string
	Where   []Condition
}

func (SelectStatement) statement() {}

// ColumnRef is a column reference in a JOIN's ON clause or projection
// list, optionally qualified with a table name.
type ColumnRef struct {
	Table  string // "" if unqualified
	Column string
}

// JoinStatement is the single-JOIN SELECT shape: SELECT cols FROM t1
// [INNER] JOIN t2 ON t1.c1 = t2.c2.
type JoinStatement struct {
	Columns []ColumnRef
	Star    bool // true for SELECT * — Columns is empty, executor expands it
	Table1  string
	Table2  string
	Left    ColumnRef
	Right   ColumnRef
}

func (JoinStatement) statement() {}

// SelectItem is one projection item of an aggregate SELECT: either a
// bare column (Func == "") or an aggregate function call over a column
// (Func == "COUNT" and Column == "*" for COUNT(*)).
type SelectItem struct {
	Func   string
	Column string
}

// AggregateStatement is the GROUP BY / aggregate-function SELECT shape.
type AggregateStatement struct {
	Items   []SelectItem
	Table   string
	Where   []Condition
	GroupBy string // "" if ungrouped
}

func (AggregateStatement) statement() {}

// UpdateStatement is UPDATE table SET col=val, ... [WHERE ...].
type UpdateStatement struct {
	Table       string
	Assignments []Assignment
	Where       []Condition
}

func (UpdateStatement) statement() {}

// Assignment is one `col = literal` term of a SET clause.
type Assignment struct {
	Column string
	Value  sqlvalue.Value
}

// DeleteStatement is DELETE FROM table [WHERE ...].
type DeleteStatement struct {
	Table string
	Where []Condition
}

func (DeleteStatement) statement() {}

// BeginStatement is the bare BEGIN keyword.
type BeginStatement struct{}

func (BeginStatement) statement() {}

// CommitStatement is the bare COMMIT keyword.
type CommitStatement struct{}

func (CommitStatement) statement() {}

// RollbackStatement is the bare ROLLBACK keyword.
type RollbackStatement struct{}

func (RollbackStatement) statement() {}
