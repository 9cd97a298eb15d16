package sqlparser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse reports a query whose leading keyword was recognized but
// whose body didn't match that statement's expected shape.
var ErrParse = errors.New("parse error")

// ErrUnknownCommand reports a leading keyword this recognizer doesn't
// dispatch at all, matching rdbms_core.py.execute's "Unknown command: X".
var ErrUnknownCommand = errors.New("Unknown command")

// Parse normalizes whitespace and recognizes query as one of the
// engine's statement shapes, dispatching on its first keyword exactly
// the way rdbms_core.py's execute does, with the SELECT sniffing order
// (JOIN, then GROUP BY / aggregate functions, then plain) rdbms_enhanced.py
// layers in front of it.
func Parse(query string) (Statement, error) {
	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return nil, ErrParse
	}

	cmd := strings.ToUpper(strings.Fields(q)[0])
	upper := strings.ToUpper(q)

	switch cmd {
	case "BEGIN":
		return BeginStatement{}, nil
	case "COMMIT":
		return CommitStatement{}, nil
	case "ROLLBACK":
		return RollbackStatement{}, nil
	case "CREATE":
		if strings.Contains(upper, "INDEX") {
			return parseCreateIndex(q)
		}
		return parseCreateTable(q)
	case "INSERT":
		return parseInsert(q)
	case "SELECT":
		if strings.Contains(upper, " JOIN ") {
			return parseJoin(q)
		}
		if strings.Contains(upper, "GROUP BY") || containsAggregateFunc(upper) {
			return parseAggregate(q)
		}
		return parseSelect(q)
	case "UPDATE":
		return parseUpdate(q)
	case "DELETE":
		return parseDelete(q)
	case "DROP":
		return parseDropTable(q)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func containsAggregateFunc(upper string) bool {
	for _, fn := range []string{"SUM(", "COUNT(", "AVG(", "MIN(", "MAX("} {
		if strings.Contains(upper, fn) {
			return true
		}
	}
	return false
}

// splitParenList splits body on commas at paren-nesting depth zero,
// grounded on rdbms_core.py._create's column-definition splitter. Used
// for a CREATE TABLE body's column and FOREIGN KEY definitions.
func splitParenList(body string) []string {
	var defs []string
	var curr strings.Builder
	depth := 0
	for _, c := range body {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		}
		if c == ',' && depth == 0 {
			defs = append(defs, strings.TrimSpace(curr.String()))
			curr.Reset()
			continue
		}
		curr.WriteRune(c)
	}
	defs = append(defs, strings.TrimSpace(curr.String()))
	return defs
}

// splitQuoted splits body on commas outside single/double quotes,
// grounded on rdbms_core.py._parse_args. Used for VALUES(...) lists and
// SET clauses.
func splitQuoted(body string) []string {
	var args []string
	var curr strings.Builder
	inQuote := false
	for _, c := range body {
		if c == '\'' || c == '"' {
			inQuote = !inQuote
		}
		if c == ',' && !inQuote {
			args = append(args, strings.TrimSpace(curr.String()))
			curr.Reset()
			continue
		}
		curr.WriteRune(c)
	}
	args = append(args, strings.TrimSpace(curr.String()))
	return args
}

// resolveColumnRef splits "table.column" into its parts, leaving Table
// empty for a bare column name.
func resolveColumnRef(ref string) ColumnRef {
	ref = strings.TrimSpace(ref)
	if i := strings.Index(ref, "."); i >= 0 {
		return ColumnRef{Table: ref[:i], Column: ref[i+1:]}
	}
	return ColumnRef{Column: ref}
}
