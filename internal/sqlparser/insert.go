package sqlparser

import (
	"fmt"
	"regexp"

	"github.com/miniql/miniql/internal/sqlvalue"
)

// insertRe tolerates an optional explicit column list between the table
// name and VALUES, matching rdbms_core.py._insert's `(\w+).+VALUES` —
// permissive about everything between the table name and VALUES, since
// the source never actually validates an explicit column list against
// declared column order.
var insertRe = regexp.MustCompile(`(?i)^INSERT INTO (\w+).+VALUES\s*\((.*)\)$`)

func parseInsert(q string) (Statement, error) {
	m := insertRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed INSERT", ErrParse)
	}
	table, valuesBody := m[1], m[2]

	tokens := splitQuoted(valuesBody)
	values := make([]sqlvalue.Value, len(tokens))
	for i, tok := range tokens {
		values[i] = sqlvalue.ParseLiteral(tok)
	}

	return InsertStatement{Table: table, Values: values}, nil
}
