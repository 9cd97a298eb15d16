package sqlparser

import (
	"strings"

	"github.com/miniql/miniql/internal/sqlvalue"
)

// whereOperators lists the operators in match priority order: '!=', '>='
// and '<=' must be tried before the bare '=' they contain, following
// rdbms_core.py._parse_where's ops list.
var whereOperators = []string{"!=", ">=", "<=", "=", ">", "<", "LIKE"}

// parseWhere splits clause on literal " AND " (not "AND" generally —
// this mirrors the source's exact split token) and recognizes one
// operator per resulting term, grounded on rdbms_core.py._parse_where.
func parseWhere(clause string) []Condition {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil
	}

	var parts []string
	if strings.Contains(clause, " AND ") {
		parts = strings.Split(clause, " AND ")
	} else {
		parts = []string{clause}
	}

	var conds []Condition
	for _, p := range parts {
		for _, op := range whereOperators {
			idx := strings.Index(p, op)
			if idx < 0 {
				continue
			}
			col := strings.TrimSpace(p[:idx])
			rhs := strings.TrimSpace(p[idx+len(op):])
			conds = append(conds, Condition{Column: col, Operator: op, Value: sqlvalue.ParseLiteral(rhs)})
			break
		}
	}
	return conds
}
