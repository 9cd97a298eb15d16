package sqlparser

import (
	"fmt"
	"regexp"
	"strings"
)

var selectRe = regexp.MustCompile(`(?i)^SELECT (.*?) FROM (\w+)(?:\s+WHERE\s+(.*))?$`)

func parseSelect(q string) (Statement, error) {
	m := selectRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed SELECT", ErrParse)
	}
	colsClause, table, where := m[1], m[2], m[3]

	var columns []string
	if strings.TrimSpace(colsClause) == "*" {
		columns = []string{"*"}
	} else {
		for _, c := range strings.Split(colsClause, ",") {
			columns = append(columns, strings.TrimSpace(c))
		}
	}

	return SelectStatement{Columns: columns, Table: table, Where: parseWhere(where)}, nil
}
