package sqlparser

import (
	"fmt"
	"regexp"
	"strings"
)

var joinRe = regexp.MustCompile(`(?i)^SELECT (.*?) FROM (\w+) (?:INNER )?JOIN (\w+) ON (.*)$`)

// parseJoin recognizes the single-JOIN SELECT shape, grounded on
// rdbms_enhanced.py._exec_join's regex and ON-clause handling. Nested
// joins are rejected the same way the source rejects a second " JOIN "
// inside the ON clause.
func parseJoin(q string) (Statement, error) {
	m := joinRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed JOIN", ErrParse)
	}
	colsClause, table1, table2, onClause := m[1], m[2], m[3], m[4]

	if strings.Contains(strings.ToUpper(onClause), " JOIN ") {
		return nil, fmt.Errorf("%w: nested JOINs are not supported, use a single JOIN", ErrParse)
	}

	eq := strings.SplitN(onClause, "=", 2)
	if len(eq) != 2 {
		return nil, fmt.Errorf("%w: invalid JOIN condition, use table1.col = table2.col", ErrParse)
	}
	left := resolveColumnRef(eq[0])
	right := resolveColumnRef(eq[1])

	var columns []ColumnRef
	star := strings.TrimSpace(colsClause) == "*"
	if !star {
		for _, c := range strings.Split(colsClause, ",") {
			columns = append(columns, resolveColumnRef(c))
		}
	}

	return JoinStatement{Columns: columns, Star: star, Table1: table1, Table2: table2, Left: left, Right: right}, nil
}
