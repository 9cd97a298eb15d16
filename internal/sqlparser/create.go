package sqlparser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	createTableRe = regexp.MustCompile(`(?i)^CREATE TABLE (\w+)\s*\((.*)\)$`)
	createIndexRe = regexp.MustCompile(`(?i)^CREATE INDEX (\w+) ON (\w+)\s*\((.*)\)$`)
	foreignKeyRe  = regexp.MustCompile(`(?i)^FOREIGN KEY\s*\((.*?)\)\s*REFERENCES\s*(\w+)\s*\((.*?)\)$`)
)

func parseCreateTable(q string) (Statement, error) {
	m := createTableRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed CREATE TABLE", ErrParse)
	}
	name, body := m[1], m[2]

	var columns []ColumnDef
	var foreignKeys []ForeignKeyDef
	for _, def := range splitParenList(body) {
		if strings.HasPrefix(strings.ToUpper(def), "FOREIGN KEY") {
			fm := foreignKeyRe.FindStringSubmatch(def)
			if fm == nil {
				return nil, fmt.Errorf("%w: malformed FOREIGN KEY clause %q", ErrParse, def)
			}
			foreignKeys = append(foreignKeys, ForeignKeyDef{
				Column:           strings.TrimSpace(fm[1]),
				ReferencedTable:  strings.TrimSpace(fm[2]),
				ReferencedColumn: strings.TrimSpace(fm[3]),
			})
			continue
		}

		fields := strings.Fields(def)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: malformed column definition %q", ErrParse, def)
		}
		upperDef := strings.ToUpper(def)
		columns = append(columns, ColumnDef{
			Name:       fields[0],
			Type:       fields[1],
			PrimaryKey: strings.Contains(upperDef, "PRIMARY KEY"),
			NotNull:    strings.Contains(upperDef, "NOT NULL"),
			Unique:     strings.Contains(upperDef, "UNIQUE"),
		})
	}

	return CreateTableStatement{Table: name, Columns: columns, ForeignKeys: foreignKeys}, nil
}

func parseCreateIndex(q string) (Statement, error) {
	m := createIndexRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed CREATE INDEX", ErrParse)
	}
	return CreateIndexStatement{Name: m[1], Table: m[2], Column: strings.TrimSpace(m[3])}, nil
}

// parseDropTable takes the query's last whitespace-delimited token as
// the table name, matching rdbms_core.py._drop's `q.split()[-1]`.
func parseDropTable(q string) (Statement, error) {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty DROP TABLE", ErrParse)
	}
	return DropTableStatement{Table: fields[len(fields)-1]}, nil
}
