package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miniql/miniql/internal/engine"
	"github.com/miniql/miniql/internal/logging"
	"github.com/miniql/miniql/internal/sqlparser"
	"github.com/miniql/miniql/internal/sqlvalue"
	"github.com/miniql/miniql/internal/txn"
)

var log = logging.GetLogger("executor")

// ErrUnsupported is the sentinel for a grammatically-recognized statement
// shape this engine doesn't implement, as distinct from a statement the
// parser couldn't recognize at all (sqlparser.ErrParse /
// ErrUnknownCommand). No path in this package returns it: the parser
// rejects a second JOIN with sqlparser.ErrParse, and OR in a WHERE clause
// is not detected.
var ErrUnsupported = errors.New("unsupported")

// Executor runs parsed statements against a catalog and transaction
// manager, auditing every statement it's given.
type Executor struct {
	Catalog *engine.Catalog
	Txn     *txn.Manager
	Audit   AuditSink
}

// New builds an Executor over an existing catalog and transaction
// manager.
func New(cat *engine.Catalog, tx *txn.Manager, audit AuditSink) *Executor {
	return &Executor{Catalog: cat, Txn: tx, Audit: audit}
}

// Execute is the sole entry point: it normalizes whitespace, audits the
// statement, dispatches it, and recovers any panic into the error Result
// shape — a defense against a parser or table bug, not a control-flow
// mechanism.
func (e *Executor) Execute(ctx context.Context, query string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic recovered during execute", "panic", fmt.Sprint(r))
			result = errorResult("Error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errorResult("Error: %s", err.Error())
	}

	q := strings.Join(strings.Fields(query), " ")

	if e.Audit != nil {
		if err := e.Audit.Write(q); err != nil {
			log.Warn("audit write failed", "error", err)
		}
	}

	if q == "" {
		return errorResult("Empty query")
	}

	stmt, err := sqlparser.Parse(q)
	if err != nil {
		if errors.Is(err, sqlparser.ErrUnknownCommand) {
			return errorResult("%s", err.Error())
		}
		return errorResult("Error: %s", err.Error())
	}

	return e.dispatch(ctx, stmt)
}

func (e *Executor) dispatch(ctx context.Context, stmt sqlparser.Statement) Result {
	switch s := stmt.(type) {
	case sqlparser.BeginStatement:
		if err := e.Txn.Begin(); err != nil {
			return errorResult("Error: %s", err.Error())
		}
		return successMessage("Transaction Started")
	case sqlparser.CommitStatement:
		if err := e.Txn.Commit(); err != nil {
			return errorResult("Error: %s", err.Error())
		}
		return successMessage("Transaction Committed")
	case sqlparser.RollbackStatement:
		count, err := e.Txn.Rollback(e.Catalog)
		if err != nil {
			return errorResult("Error: %s", err.Error())
		}
		return successMessage(fmt.Sprintf("Rolled back %d operations", count))
	case sqlparser.CreateTableStatement:
		return e.execCreateTable(s)
	case sqlparser.CreateIndexStatement:
		return e.execCreateIndex(s)
	case sqlparser.DropTableStatement:
		return e.execDropTable(s)
	case sqlparser.InsertStatement:
		return e.execInsert(s)
	case sqlparser.SelectStatement:
		return e.execSelect(s)
	case sqlparser.JoinStatement:
		return e.execJoin(s)
	case sqlparser.AggregateStatement:
		return e.execAggregate(s)
	case sqlparser.UpdateStatement:
		return e.execUpdate(s)
	case sqlparser.DeleteStatement:
		return e.execDelete(s)
	default:
		return errorResult("Error: unrecognized statement")
	}
}

func (e *Executor) execCreateTable(s sqlparser.CreateTableStatement) Result {
	columns := make([]engine.Column, len(s.Columns))
	for i, cd := range s.Columns {
		ct, ok := sqlvalue.ParseColumnType(cd.Type)
		if !ok {
			return errorResult("Error: unknown column type %q", cd.Type)
		}
		columns[i] = engine.Column{
			Name:       cd.Name,
			Type:       ct,
			PrimaryKey: cd.PrimaryKey,
			Unique:     cd.Unique,
			NotNull:    cd.NotNull,
		}
	}
	foreignKeys := make([]engine.ForeignKey, len(s.ForeignKeys))
	for i, fd := range s.ForeignKeys {
		foreignKeys[i] = engine.ForeignKey{
			Column:           fd.Column,
			ReferencedTable:  fd.ReferencedTable,
			ReferencedColumn: fd.ReferencedColumn,
		}
	}
	e.Catalog.CreateTable(s.Table, columns, foreignKeys)
	return successMessage(fmt.Sprintf("Table %s created", s.Table))
}

func (e *Executor) execCreateIndex(s sqlparser.CreateIndexStatement) Result {
	tbl, err := e.Catalog.Table(s.Table)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}
	if err := tbl.CreateIndex(s.Name, s.Column); err != nil {
		return errorResult("Error: %s", err.Error())
	}
	return successMessage("Index created")
}

func (e *Executor) execDropTable(s sqlparser.DropTableStatement) Result {
	if _, err := e.Catalog.Table(s.Table); err != nil {
		e.Catalog.DropTable(s.Table)
		return successMessage(fmt.Sprintf("table %s did not exist", s.Table))
	}
	e.Catalog.DropTable(s.Table)
	return successMessage(fmt.Sprintf("table %s dropped", s.Table))
}

// execInsert enforces every FK declared on the target table before
// writing, aligns an INTEGER primary key's literal value with the
// row-id when present, and performs zero writes on any failure —
// grounded line-for-line on rdbms_core.py._insert.
func (e *Executor) execInsert(s sqlparser.InsertStatement) Result {
	tbl, err := e.Catalog.Table(s.Table)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}

	for _, fk := range tbl.ForeignKeys() {
		i := tbl.ColumnIndex(fk.Column)
		if i < 0 || i >= len(s.Values) {
			continue
		}
		val := s.Values[i]
		if val.IsNull() {
			continue
		}
		if err := e.checkForeignKey(fk, val); err != nil {
			return errorResult("Error: %s", err.Error())
		}
	}

	var explicitRowID *uint64
	if pk := tbl.PrimaryKey(); pk != "" {
		i := tbl.ColumnIndex(pk)
		if i >= 0 && i < len(s.Values) && s.Values[i].Kind == sqlvalue.KindInt {
			rid := uint64(s.Values[i].I)
			explicitRowID = &rid
		}
	}

	rowID, err := tbl.Insert(s.Values, explicitRowID)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}
	e.Txn.Log(txn.UndoEntry{Kind: txn.UndoDelete, Table: s.Table, RowID: rowID})

	return Result{Status: StatusSuccess, RowID: rowID}
}

// checkForeignKey mirrors rdbms_core.py._insert's two-branch FK check: a
// reference to the referenced table's own primary key uses the fast
// indexed probe, everything else falls back to a full scan compared by
// textual equality.
func (e *Executor) checkForeignKey(fk engine.ForeignKey, val sqlvalue.Value) error {
	ref, err := e.Catalog.Table(fk.ReferencedTable)
	if err != nil {
		return fmt.Errorf("FK Integrity Error: referenced table %q not found", fk.ReferencedTable)
	}

	if fk.ReferencedColumn == ref.PrimaryKey() {
		rows := ref.Select([]engine.Condition{{Column: fk.ReferencedColumn, Operator: "=", Value: val}})
		if len(rows) > 0 {
			return nil
		}
		return fmt.Errorf("FK Integrity Error: %s not in %s", val.String(), fk.ReferencedTable)
	}

	refIdx := ref.ColumnIndex(fk.ReferencedColumn)
	if refIdx < 0 {
		return fmt.Errorf("FK Integrity Error: column %q not found in %s", fk.ReferencedColumn, fk.ReferencedTable)
	}
	for _, row := range ref.Rows() {
		if row[refIdx].String() == val.String() {
			return nil
		}
	}
	return fmt.Errorf("FK Integrity Error: %s not in %s", val.String(), fk.ReferencedTable)
}

func (e *Executor) execSelect(s sqlparser.SelectStatement) Result {
	tbl, err := e.Catalog.Table(s.Table)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}

	conds := make([]engine.Condition, len(s.Where))
	for i, c := range s.Where {
		conds[i] = engine.Condition{Column: c.Column, Operator: c.Operator, Value: c.Value}
	}
	data := tbl.Select(conds)

	columnNames := make([]string, len(tbl.Columns()))
	for i, c := range tbl.Columns() {
		columnNames[i] = c.Name
	}

	star := len(s.Columns) == 1 && s.Columns[0] == "*"
	outCols := columnNames
	idxs := make([]int, len(columnNames))
	for i := range idxs {
		idxs[i] = i
	}
	if !star {
		outCols = s.Columns
		idxs = idxs[:0]
		for _, name := range s.Columns {
			if i := tbl.ColumnIndex(name); i >= 0 {
				idxs = append(idxs, i)
			}
		}
	}

	rows := make([][]sqlvalue.Value, len(data))
	for i, d := range data {
		row := make([]sqlvalue.Value, len(idxs))
		for j, idx := range idxs {
			row[j] = d.Values[idx]
		}
		rows[i] = row
	}

	return Result{Status: StatusSuccess, Columns: outCols, Rows: rows}
}

func (e *Executor) execUpdate(s sqlparser.UpdateStatement) Result {
	tbl, err := e.Catalog.Table(s.Table)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}

	conds := make([]engine.Condition, len(s.Where))
	for i, c := range s.Where {
		conds[i] = engine.Condition{Column: c.Column, Operator: c.Operator, Value: c.Value}
	}
	rows := tbl.Select(conds)

	for _, row := range rows {
		prior := append([]sqlvalue.Value(nil), row.Values...)
		e.Txn.Log(txn.UndoEntry{Kind: txn.UndoUpdate, Table: s.Table, RowID: row.RowID, Values: prior})

		next := append([]sqlvalue.Value(nil), row.Values...)
		for _, a := range s.Assignments {
			if i := tbl.ColumnIndex(a.Column); i >= 0 {
				next[i] = a.Value
			}
		}
		if err := tbl.Update(row.RowID, next); err != nil {
			return errorResult("Error: %s", err.Error())
		}
	}

	return Result{Status: StatusSuccess, RowsAffected: len(rows)}
}

// execDelete refuses to delete a row still referenced by some other
// table's foreign key, grounded on rdbms_core.py._delete's child-scan
// loop, then journals and deletes every matched row.
func (e *Executor) execDelete(s sqlparser.DeleteStatement) Result {
	tbl, err := e.Catalog.Table(s.Table)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}

	conds := make([]engine.Condition, len(s.Where))
	for i, c := range s.Where {
		conds[i] = engine.Condition{Column: c.Column, Operator: c.Operator, Value: c.Value}
	}
	rows := tbl.Select(conds)

	for _, row := range rows {
		if blocker, ok := e.findReferencingRow(s.Table, tbl, row); ok {
			return errorResult("Error: FK Integrity Error: Referenced by %s", blocker)
		}
	}

	for _, row := range rows {
		e.Txn.Log(txn.UndoEntry{Kind: txn.UndoInsert, Table: s.Table, RowID: row.RowID, Values: row.Values})
		tbl.Delete(row.RowID)
	}

	return Result{Status: StatusSuccess, RowsAffected: len(rows)}
}

func (e *Executor) findReferencingRow(tableName string, tbl *engine.Table, row engine.Row) (string, bool) {
	for _, otherName := range e.Catalog.Tables() {
		other, err := e.Catalog.Table(otherName)
		if err != nil {
			continue
		}
		for _, fk := range other.ForeignKeys() {
			if fk.ReferencedTable != tableName {
				continue
			}
			pIdx := tbl.ColumnIndex(fk.ReferencedColumn)
			cIdx := other.ColumnIndex(fk.Column)
			if pIdx < 0 || cIdx < 0 {
				continue
			}
			for _, childRow := range other.Rows() {
				if childRow[cIdx].String() == row.Values[pIdx].String() {
					return otherName, true
				}
			}
		}
	}
	return "", false
}
