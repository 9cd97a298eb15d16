package executor

import (
	"math"

	"github.com/miniql/miniql/internal/engine"
	"github.com/miniql/miniql/internal/sqlparser"
	"github.com/miniql/miniql/internal/sqlvalue"
)

// nullGroupKey is a sentinel distinct from any Value.String() output,
// giving NULL its own GROUP BY bucket instead of colliding with a
// legitimate empty-string text value.
const nullGroupKey = "\x00__null_group__\x00"

// execAggregate implements grouped aggregation, grounded on
// rdbms_enhanced.py._exec_aggregate: partition the WHERE-filtered rows
// by the GROUP BY column (or one global group), then evaluate each
// projection item — an aggregate call or a bare column — per group.
func (e *Executor) execAggregate(s sqlparser.AggregateStatement) Result {
	tbl, err := e.Catalog.Table(s.Table)
	if err != nil {
		return errorResult("Error: %s", err.Error())
	}

	if s.GroupBy != "" && tbl.ColumnIndex(s.GroupBy) < 0 {
		return errorResult("Error: unknown GROUP BY column: %s", s.GroupBy)
	}

	conds := make([]engine.Condition, len(s.Where))
	for i, c := range s.Where {
		conds[i] = engine.Condition{Column: c.Column, Operator: c.Operator, Value: c.Value}
	}
	data := tbl.Select(conds)

	type group struct {
		key  string
		rows [][]sqlvalue.Value
	}
	var groups []group
	index := make(map[string]int)

	groupIdx := -1
	if s.GroupBy != "" {
		groupIdx = tbl.ColumnIndex(s.GroupBy)
	} else {
		// No GROUP BY forms a single implicit group that exists even
		// when zero rows survive the WHERE filter, so e.g. COUNT(*)
		// still returns one row with 0 rather than an empty result.
		index["__global__"] = 0
		groups = append(groups, group{key: "__global__"})
	}

	for _, d := range data {
		key := "__global__"
		if groupIdx >= 0 {
			cell := d.Values[groupIdx]
			if cell.IsNull() {
				key = nullGroupKey
			} else {
				key = cell.String()
			}
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].rows = append(groups[i].rows, d.Values)
	}

	var headers []string
	rows := make([][]sqlvalue.Value, 0, len(groups))
	for gi, g := range groups {
		var resultRow []sqlvalue.Value
		for _, item := range s.Items {
			if item.Func != "" {
				val := evalAggregateFunc(tbl, item, g.rows)
				resultRow = append(resultRow, val)
				if gi == 0 {
					headers = append(headers, item.Func+"("+item.Column+")")
				}
				continue
			}
			i := tbl.ColumnIndex(item.Column)
			var val sqlvalue.Value
			if i >= 0 && len(g.rows) > 0 {
				val = g.rows[0][i]
			} else {
				val = sqlvalue.Null
			}
			resultRow = append(resultRow, val)
			if gi == 0 {
				headers = append(headers, item.Column)
			}
		}
		rows = append(rows, resultRow)
	}

	return Result{Status: StatusSuccess, Columns: headers, Rows: rows}
}

func evalAggregateFunc(tbl *engine.Table, item sqlparser.SelectItem, rows [][]sqlvalue.Value) sqlvalue.Value {
	if item.Func == "COUNT" {
		return sqlvalue.Int(int64(len(rows)))
	}

	i := tbl.ColumnIndex(item.Column)
	if i < 0 {
		return sqlvalue.Int(0)
	}

	var nums []float64
	allInt := true
	for _, r := range rows {
		cell := r[i]
		if f, ok := cell.Float64(); ok {
			nums = append(nums, f)
			if cell.Kind != sqlvalue.KindInt {
				allInt = false
			}
		}
	}
	if len(nums) == 0 {
		return sqlvalue.Int(0)
	}

	// AVG always divides, so it's always a Real in Python 3 even over
	// all-integer inputs; SUM/MIN/MAX preserve Int when every
	// contributing cell was an Int, matching the source's untouched
	// Python numeric-tower behavior.
	switch item.Func {
	case "SUM":
		total := sumFloats(nums)
		if allInt {
			return sqlvalue.Int(int64(total))
		}
		return sqlvalue.Real(round2(total))
	case "AVG":
		return sqlvalue.Real(round2(sumFloats(nums) / float64(len(nums))))
	case "MIN":
		m := nums[0]
		for _, n := range nums[1:] {
			if n < m {
				m = n
			}
		}
		if allInt {
			return sqlvalue.Int(int64(m))
		}
		return sqlvalue.Real(round2(m))
	case "MAX":
		m := nums[0]
		for _, n := range nums[1:] {
			if n > m {
				m = n
			}
		}
		if allInt {
			return sqlvalue.Int(int64(m))
		}
		return sqlvalue.Real(round2(m))
	default:
		return sqlvalue.Int(0)
	}
}

func sumFloats(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
