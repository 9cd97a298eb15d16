package executor

import (
	"github.com/miniql/miniql/internal/engine"
	"github.com/miniql/miniql/internal/sqlparser"
	"github.com/miniql/miniql/internal/sqlvalue"
)

// execJoin implements the single-JOIN hash equi-join, grounded on
// rdbms_enhanced.py._exec_join: the smaller table builds the hash map,
// strictly so — a tie keeps table2 as the build side and table1 as the
// probe side, matching the source's `if len(t1.rows) < len(t2.rows))`
// condition verbatim. Projection always writes table1's columns before
// table2's regardless of which one built the hash.
func (e *Executor) execJoin(s sqlparser.JoinStatement) Result {
	t1, err := e.Catalog.Table(s.Table1)
	if err != nil {
		return errorResult("Error: one or more tables not found")
	}
	t2, err := e.Catalog.Table(s.Table2)
	if err != nil {
		return errorResult("Error: one or more tables not found")
	}

	idx1, idx2, ok := resolveJoinColumns(s, t1, t2)
	if !ok {
		return errorResult("Error: column in JOIN ON clause not found")
	}

	buildTbl, probeTbl := t2, t1
	buildIdx, probeIdx := idx2, idx1
	buildIsT1 := false
	if len(t1.Rows()) < len(t2.Rows()) {
		buildTbl, probeTbl = t1, t2
		buildIdx, probeIdx = idx1, idx2
		buildIsT1 = true
	}

	hashMap := make(map[string][][]sqlvalue.Value)
	for _, row := range buildTbl.Rows() {
		key := row[buildIdx].String()
		hashMap[key] = append(hashMap[key], row)
	}

	type pair struct{ t1Row, t2Row []sqlvalue.Value }
	var joined []pair
	for _, probeRow := range probeTbl.Rows() {
		key := probeRow[probeIdx].String()
		for _, buildRow := range hashMap[key] {
			if buildIsT1 {
				joined = append(joined, pair{t1Row: buildRow, t2Row: probeRow})
			} else {
				joined = append(joined, pair{t1Row: probeRow, t2Row: buildRow})
			}
		}
	}

	targets := s.Columns
	if s.Star {
		for _, c := range t1.Columns() {
			targets = append(targets, sqlparser.ColumnRef{Table: s.Table1, Column: c.Name})
		}
		for _, c := range t2.Columns() {
			targets = append(targets, sqlparser.ColumnRef{Table: s.Table2, Column: c.Name})
		}
	}

	headers := make([]string, len(targets))
	for i, ref := range targets {
		if ref.Table != "" {
			headers[i] = ref.Table + "." + ref.Column
		} else {
			headers[i] = ref.Column
		}
	}

	rows := make([][]sqlvalue.Value, 0, len(joined))
	for _, p := range joined {
		row := make([]sqlvalue.Value, len(targets))
		for i, ref := range targets {
			row[i] = resolveJoinCell(ref, s.Table1, s.Table2, t1, t2, p.t1Row, p.t2Row)
		}
		rows = append(rows, row)
	}

	return Result{Status: StatusSuccess, Columns: headers, Rows: rows}
}

// resolveJoinColumns mirrors rdbms_enhanced.py._exec_join's resolve_col
// dispatch exactly: only the left side's table qualifier is consulted.
func resolveJoinColumns(s sqlparser.JoinStatement, t1, t2 *engine.Table) (idx1, idx2 int, ok bool) {
	left, right := s.Left, s.Right
	if left.Table == s.Table1 {
		idx1 = t1.ColumnIndex(left.Column)
		idx2 = t2.ColumnIndex(right.Column)
	} else {
		idx1 = t1.ColumnIndex(right.Column)
		idx2 = t2.ColumnIndex(left.Column)
	}
	return idx1, idx2, idx1 >= 0 && idx2 >= 0
}

func resolveJoinCell(ref sqlparser.ColumnRef, name1, name2 string, t1, t2 *engine.Table, row1, row2 []sqlvalue.Value) sqlvalue.Value {
	switch ref.Table {
	case name1:
		if i := t1.ColumnIndex(ref.Column); i >= 0 {
			return row1[i]
		}
	case name2:
		if i := t2.ColumnIndex(ref.Column); i >= 0 {
			return row2[i]
		}
	default:
		if i := t1.ColumnIndex(ref.Column); i >= 0 {
			return row1[i]
		}
		if i := t2.ColumnIndex(ref.Column); i >= 0 {
			return row2[i]
		}
	}
	return sqlvalue.Null
}
