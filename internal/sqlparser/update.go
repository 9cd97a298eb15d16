package sqlparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/miniql/miniql/internal/sqlvalue"
)

var updateRe = regexp.MustCompile(`(?i)^UPDATE (\w+) SET (.*?)(?:\s+WHERE\s+(.*))?$`)

func parseUpdate(q string) (Statement, error) {
	m := updateRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed UPDATE", ErrParse)
	}
	table, setClause, where := m[1], m[2], m[3]

	var assignments []Assignment
	for _, term := range splitQuoted(setClause) {
		parts := strings.SplitN(term, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: invalid SET clause %q", ErrParse, term)
		}
		col := strings.TrimSpace(parts[0])
		assignments = append(assignments, Assignment{Column: col, Value: sqlvalue.ParseLiteral(parts[1])})
	}

	return UpdateStatement{Table: table, Assignments: assignments, Where: parseWhere(where)}, nil
}
