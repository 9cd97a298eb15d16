package sqlparser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	aggregateRe = regexp.MustCompile(`(?i)^SELECT (.*?) FROM (\w+)(?:\s+WHERE\s+(.*?))?(?:\s+GROUP BY\s+(.*))?$`)
	aggFuncRe   = regexp.MustCompile(`(?i)^(SUM|AVG|COUNT|MIN|MAX)\((.*?)\)$`)
)

// parseAggregate recognizes the GROUP BY / aggregate-function SELECT
// shape, grounded on rdbms_enhanced.py._exec_aggregate.
func parseAggregate(q string) (Statement, error) {
	m := aggregateRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed aggregate SELECT", ErrParse)
	}
	selClause, table, where, groupClause := m[1], m[2], m[3], m[4]

	var items []SelectItem
	for _, part := range strings.Split(selClause, ",") {
		part = strings.TrimSpace(part)
		if am := aggFuncRe.FindStringSubmatch(part); am != nil {
			items = append(items, SelectItem{Func: strings.ToUpper(am[1]), Column: strings.TrimSpace(am[2])})
		} else {
			items = append(items, SelectItem{Column: part})
		}
	}

	return AggregateStatement{
		Items:   items,
		Table:   table,
		Where:   parseWhere(where),
		GroupBy: strings.TrimSpace(groupClause),
	}, nil
}
