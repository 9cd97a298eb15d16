package engine

import (
	"testing"

	"github.com/miniql/miniql/internal/sqlvalue"
)

func usersTable() *Table {
	return NewTable("users", []Column{
		{Name: "id", Type: sqlvalue.TypeInteger, PrimaryKey: true},
		{Name: "name", Type: sqlvalue.TypeText, NotNull: true},
		{Name: "email", Type: sqlvalue.TypeText, Unique: true},
		{Name: "age", Type: sqlvalue.TypeInteger},
	}, nil)
}

func TestInsertAndSelect(t *testing.T) {
	tbl := usersTable()

	id, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Text("a@x.com"), sqlvalue.Int(30)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Fatalf("got row id %d, want 1", id)
	}

	rows := tbl.Select(nil)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Values[1] != sqlvalue.Text("alice") {
		t.Errorf("got %+v, want alice", rows[0].Values[1])
	}
}

func TestInsertRejectsColumnCountMismatch(t *testing.T) {
	tbl := usersTable()
	_, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1)}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestInsertRejectsNotNullViolation(t *testing.T) {
	tbl := usersTable()
	_, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Null, sqlvalue.Null, sqlvalue.Null}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestInsertRejectsPrimaryKeyViolation(t *testing.T) {
	tbl := usersTable()
	if _, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Null}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("bob"), sqlvalue.Null, sqlvalue.Null}, nil); err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestInsertRejectsUniqueViolation(t *testing.T) {
	tbl := usersTable()
	if _, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Text("a@x.com"), sqlvalue.Null}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("bob"), sqlvalue.Text("a@x.com"), sqlvalue.Null}, nil); err == nil {
		t.Fatal("expected unique violation")
	}
}

func TestInsertAllowsMultipleNullsInUniqueColumn(t *testing.T) {
	tbl := usersTable()
	if _, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("a"), sqlvalue.Null, sqlvalue.Null}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("b"), sqlvalue.Null, sqlvalue.Null}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExplicitRowID(t *testing.T) {
	tbl := usersTable()
	rid := uint64(50)
	id, err := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(50), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Null}, &rid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 50 {
		t.Fatalf("got %d, want 50", id)
	}
	if tbl.RowIDCounter() != 51 {
		t.Errorf("counter = %d, want 51", tbl.RowIDCounter())
	}
}

func TestDeleteIsNoOpForMissingRow(t *testing.T) {
	tbl := usersTable()
	tbl.Delete(999) // must not panic
}

func TestUpdateRow(t *testing.T) {
	tbl := usersTable()
	id, _ := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Int(30)}, nil)

	if err := tbl.Update(id, []sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Int(31)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row, _ := tbl.Row(id)
	if row[3] != sqlvalue.Int(31) {
		t.Errorf("got %+v, want 31", row[3])
	}
}

func TestUpdateRejectsUniqueCollisionWithOtherRow(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("a"), sqlvalue.Text("a@x.com"), sqlvalue.Null}, nil)
	id2, _ := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("b"), sqlvalue.Text("b@x.com"), sqlvalue.Null}, nil)

	err := tbl.Update(id2, []sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("b"), sqlvalue.Text("a@x.com"), sqlvalue.Null})
	if err == nil {
		t.Fatal("expected unique violation")
	}
}

func TestUpdateAllowsSettingOwnExistingUniqueValue(t *testing.T) {
	tbl := usersTable()
	id, _ := tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("a"), sqlvalue.Text("a@x.com"), sqlvalue.Null}, nil)

	err := tbl.Update(id, []sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("a"), sqlvalue.Text("a@x.com"), sqlvalue.Int(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectWithConditions(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Int(30)}, nil)
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("bob"), sqlvalue.Null, sqlvalue.Int(25)}, nil)

	rows := tbl.Select([]Condition{{Column: "age", Operator: ">", Value: sqlvalue.Int(26)}})
	if len(rows) != 1 || rows[0].Values[1] != sqlvalue.Text("alice") {
		t.Fatalf("got %+v", rows)
	}
}

func TestSelectPrimaryKeyFastPath(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Int(30)}, nil)
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("bob"), sqlvalue.Null, sqlvalue.Int(25)}, nil)

	rows := tbl.Select([]Condition{{Column: "id", Operator: "=", Value: sqlvalue.Int(2)}})
	if len(rows) != 1 || rows[0].RowID != 2 {
		t.Fatalf("got %+v", rows)
	}
}

func TestSelectNullCellNeverMatches(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice"), sqlvalue.Null, sqlvalue.Null}, nil)

	rows := tbl.Select([]Condition{{Column: "age", Operator: "!=", Value: sqlvalue.Int(5)}})
	if len(rows) != 0 {
		t.Fatalf("expected no rows to match a Null cell, got %+v", rows)
	}
}

func TestSelectIsDeterministicallyOrderedByRowID(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(3), sqlvalue.Text("c"), sqlvalue.Null, sqlvalue.Null}, nil)
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("a"), sqlvalue.Null, sqlvalue.Null}, nil)
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("b"), sqlvalue.Null, sqlvalue.Null}, nil)

	rows := tbl.Select(nil)
	for i := 1; i < len(rows); i++ {
		if rows[i-1].RowID > rows[i].RowID {
			t.Fatalf("rows not in ascending row-id order: %+v", rows)
		}
	}
}

func TestLikeOperator(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("alice wonderland"), sqlvalue.Null, sqlvalue.Null}, nil)

	rows := tbl.Select([]Condition{{Column: "name", Operator: "LIKE", Value: sqlvalue.Text("%wonder%")}})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestCreateIndexAndLookup(t *testing.T) {
	tbl := usersTable()
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(1), sqlvalue.Text("a"), sqlvalue.Null, sqlvalue.Int(30)}, nil)
	tbl.Insert([]sqlvalue.Value{sqlvalue.Int(2), sqlvalue.Text("b"), sqlvalue.Null, sqlvalue.Int(30)}, nil)

	if err := tbl.CreateIndex("idx_age", "age"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set, ok := tbl.indexes["idx_age"].Lookup(sqlvalue.Int(30))
	if !ok || len(set) != 2 {
		t.Fatalf("got %v ok=%v, want 2 entries", set, ok)
	}
}

func TestCreateIndexUnknownColumn(t *testing.T) {
	tbl := usersTable()
	if err := tbl.CreateIndex("idx_bogus", "bogus"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSecondaryIndexesExcludesPKAndUnique(t *testing.T) {
	tbl := usersTable()
	tbl.CreateIndex("idx_age", "age")

	got := tbl.SecondaryIndexes()
	if len(got) != 1 || got["idx_age"] != "age" {
		t.Fatalf("got %+v, want only idx_age -> age", got)
	}
}

func TestRestoreRowWritesAndIndexesWithoutValidation(t *testing.T) {
	tbl := usersTable()
	tbl.RestoreRow(5, []sqlvalue.Value{sqlvalue.Int(5), sqlvalue.Text("restored"), sqlvalue.Text("r@x.com"), sqlvalue.Int(40)})

	row, ok := tbl.Row(5)
	if !ok || row[1] != sqlvalue.Text("restored") {
		t.Fatalf("got %+v ok=%v", row, ok)
	}
	if tbl.RowIDCounter() != 6 {
		t.Errorf("got counter %d, want 6", tbl.RowIDCounter())
	}

	set, ok := tbl.indexes["__uniq_email"].Lookup(sqlvalue.Text("r@x.com"))
	if !ok || len(set) != 1 {
		t.Fatalf("expected restored row to be indexed, got %v ok=%v", set, ok)
	}
}
