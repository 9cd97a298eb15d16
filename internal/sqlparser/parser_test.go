package sqlparser

import (
	"testing"

	"github.com/miniql/miniql/internal/sqlvalue"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT UNIQUE)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, ok := stmt.(CreateTableStatement)
	if !ok {
		t.Fatalf("got %T, want CreateTableStatement", stmt)
	}
	if ct.Table != "users" || len(ct.Columns) != 3 {
		t.Fatalf("got %+v", ct)
	}
	if !ct.Columns[0].PrimaryKey {
		t.Error("expected id to be primary key")
	}
	if !ct.Columns[1].NotNull {
		t.Error("expected name to be not null")
	}
	if !ct.Columns[2].Unique {
		t.Error("expected email to be unique")
	}
}

func TestParseCreateTableWithForeignKey(t *testing.T) {
	stmt, err := Parse("CREATE TABLE wallets (w_id INTEGER PRIMARY KEY, c_id INTEGER, FOREIGN KEY (c_id) REFERENCES customers (c_id))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct := stmt.(CreateTableStatement)
	if len(ct.ForeignKeys) != 1 {
		t.Fatalf("got %+v", ct.ForeignKeys)
	}
	fk := ct.ForeignKeys[0]
	if fk.Column != "c_id" || fk.ReferencedTable != "customers" || fk.ReferencedColumn != "c_id" {
		t.Errorf("got %+v", fk)
	}
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := Parse("CREATE INDEX idx_age ON users (age)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ci := stmt.(CreateIndexStatement)
	if ci.Name != "idx_age" || ci.Table != "users" || ci.Column != "age" {
		t.Errorf("got %+v", ci)
	}
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse("DROP TABLE users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.(DropTableStatement).Table != "users" {
		t.Errorf("got %+v", stmt)
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("INSERT INTO customers VALUES (101, 'Stark Industries', 'LOW')")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ins := stmt.(InsertStatement)
	if ins.Table != "customers" {
		t.Fatalf("got %+v", ins)
	}
	want := []sqlvalue.Value{sqlvalue.Int(101), sqlvalue.Text("Stark Industries"), sqlvalue.Text("LOW")}
	if len(ins.Values) != len(want) {
		t.Fatalf("got %+v", ins.Values)
	}
	for i := range want {
		if ins.Values[i] != want[i] {
			t.Errorf("value %d: got %+v, want %+v", i, ins.Values[i], want[i])
		}
	}
}

func TestParseInsertWithEmbeddedComma(t *testing.T) {
	stmt, err := Parse("INSERT INTO t VALUES (1, 'a, b', 2.5)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ins := stmt.(InsertStatement)
	if ins.Values[1] != sqlvalue.Text("a, b") {
		t.Errorf("got %+v, want quoted comma preserved", ins.Values[1])
	}
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(SelectStatement)
	if len(sel.Columns) != 1 || sel.Columns[0] != "*" {
		t.Errorf("got %+v", sel)
	}
	if sel.Where != nil {
		t.Errorf("expected no WHERE conditions, got %+v", sel.Where)
	}
}

func TestParseSelectWithWhere(t *testing.T) {
	stmt, err := Parse("SELECT balance FROM wallets WHERE w_id = 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(SelectStatement)
	if len(sel.Where) != 1 {
		t.Fatalf("got %+v", sel.Where)
	}
	c := sel.Where[0]
	if c.Column != "w_id" || c.Operator != "=" || c.Value != sqlvalue.Int(1) {
		t.Errorf("got %+v", c)
	}
}

func TestParseSelectWithAndConditions(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users WHERE age >= 18 AND name LIKE '%a%'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(SelectStatement)
	if len(sel.Where) != 2 {
		t.Fatalf("got %+v", sel.Where)
	}
	if sel.Where[0].Operator != ">=" {
		t.Errorf("got %+v", sel.Where[0])
	}
	if sel.Where[1].Operator != "LIKE" {
		t.Errorf("got %+v", sel.Where[1])
	}
}

func TestParseJoin(t *testing.T) {
	stmt, err := Parse("SELECT customers.name, wallets.balance FROM wallets JOIN customers ON wallets.c_id = customers.c_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j := stmt.(JoinStatement)
	if j.Table1 != "wallets" || j.Table2 != "customers" {
		t.Fatalf("got %+v", j)
	}
	if j.Left.Table != "wallets" || j.Left.Column != "c_id" {
		t.Errorf("got left %+v", j.Left)
	}
	if j.Right.Table != "customers" || j.Right.Column != "c_id" {
		t.Errorf("got right %+v", j.Right)
	}
	if len(j.Columns) != 2 {
		t.Fatalf("got %+v", j.Columns)
	}
}

func TestParseJoinRejectsNestedJoin(t *testing.T) {
	_, err := Parse("SELECT * FROM a JOIN b ON a.x = b.y JOIN c ON b.y = c.z")
	if err == nil {
		t.Fatal("expected error for nested JOIN")
	}
}

func TestParseAggregateWithGroupBy(t *testing.T) {
	stmt, err := Parse("SELECT type, COUNT(*), SUM(amount) FROM tx_log GROUP BY type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agg := stmt.(AggregateStatement)
	if agg.GroupBy != "type" {
		t.Errorf("got %+v", agg)
	}
	if len(agg.Items) != 3 {
		t.Fatalf("got %+v", agg.Items)
	}
	if agg.Items[0].Func != "" || agg.Items[0].Column != "type" {
		t.Errorf("got %+v", agg.Items[0])
	}
	if agg.Items[1].Func != "COUNT" || agg.Items[1].Column != "*" {
		t.Errorf("got %+v", agg.Items[1])
	}
	if agg.Items[2].Func != "SUM" || agg.Items[2].Column != "amount" {
		t.Errorf("got %+v", agg.Items[2])
	}
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse("UPDATE wallets SET balance = 950000.00 WHERE w_id = 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upd := stmt.(UpdateStatement)
	if upd.Table != "wallets" || len(upd.Assignments) != 1 {
		t.Fatalf("got %+v", upd)
	}
	if upd.Assignments[0].Column != "balance" || upd.Assignments[0].Value != sqlvalue.Real(950000.00) {
		t.Errorf("got %+v", upd.Assignments[0])
	}
}

func TestParseUpdateMultipleAssignments(t *testing.T) {
	stmt, err := Parse("UPDATE users SET name = 'bob', age = 31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upd := stmt.(UpdateStatement)
	if len(upd.Assignments) != 2 {
		t.Fatalf("got %+v", upd.Assignments)
	}
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM users WHERE id = 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	del := stmt.(DeleteStatement)
	if del.Table != "users" || len(del.Where) != 1 {
		t.Fatalf("got %+v", del)
	}
}

func TestParseTransactionKeywords(t *testing.T) {
	tests := []struct {
		query string
		want  Statement
	}{
		{"BEGIN", BeginStatement{}},
		{"COMMIT", CommitStatement{}},
		{"ROLLBACK", RollbackStatement{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stmt, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stmt != tt.want {
				t.Errorf("got %+v, want %+v", stmt, tt.want)
			}
		})
	}
}

func TestParseUnknownCommand(t *testing.T) {
	if _, err := Parse("EXPLAIN SELECT 1"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestParseEmptyQuery(t *testing.T) {
	if _, err := Parse("   "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSplitParenList(t *testing.T) {
	got := splitParenList("a INTEGER, b TEXT, FOREIGN KEY (c) REFERENCES d (e)")
	want := []string{"a INTEGER", "b TEXT", "FOREIGN KEY (c) REFERENCES d (e)"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitQuoted(t *testing.T) {
	got := splitQuoted("1, 'a, b', 2.5")
	want := []string{"1", "'a, b'", "2.5"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
