package sqlparser

import (
	"fmt"
	"regexp"
)

var deleteRe = regexp.MustCompile(`(?i)^DELETE FROM (\w+)(?:\s+WHERE\s+(.*))?$`)

func parseDelete(q string) (Statement, error) {
	m := deleteRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed DELETE", ErrParse)
	}
	return DeleteStatement{Table: m[1], Where: parseWhere(m[2])}, nil
}
