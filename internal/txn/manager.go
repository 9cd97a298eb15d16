package txn

import (
	"errors"

	"github.com/google/uuid"

	"github.com/miniql/miniql/internal/engine"
	"github.com/miniql/miniql/internal/logging"
	"github.com/miniql/miniql/internal/sqlvalue"
)

var log = logging.GetLogger("txn")

// ErrTransaction reports a transaction-state misuse: BEGIN while already
// active, or ROLLBACK while inactive. A bare COMMIT while inactive is not
// an error; see Commit.
var ErrTransaction = errors.New("transaction error")

// UndoKind tags the compensating action an UndoEntry performs when
// replayed by Rollback.
type UndoKind uint8

const (
	// UndoDelete compensates an INSERT: replay deletes RowID.
	UndoDelete UndoKind = iota
	// UndoInsert compensates a DELETE: replay re-inserts Values at RowID.
	UndoInsert
	// UndoUpdate compensates an UPDATE: replay restores Values at RowID.
	UndoUpdate
)

// UndoEntry is one journaled compensating action.
type UndoEntry struct {
	Kind   UndoKind
	Table  string
	RowID  uint64
	Values []sqlvalue.Value
}

// Manager tracks whether a transaction is active and holds its undo
// journal. It carries no lock of its own; like Catalog, it assumes a
// single cooperative caller.
type Manager struct {
	active  bool
	stack   []UndoEntry
	traceID string
}

// NewManager returns an inactive transaction manager.
func NewManager() *Manager {
	return &Manager{}
}

// Active reports whether a transaction is currently open.
func (m *Manager) Active() bool {
	return m.active
}

// TraceID returns the current transaction's correlation id, or "" if
// none is active.
func (m *Manager) TraceID() string {
	return m.traceID
}

// Begin opens a transaction, assigning a fresh trace id. Calling Begin
// while already active returns ErrTransaction rather than silently
// discarding the in-flight journal — a previous BEGIN-mid-transaction is
// treated as caller error, not reinitialized.
func (m *Manager) Begin() error {
	if m.active {
		return ErrTransaction
	}
	m.active = true
	m.stack = nil
	m.traceID = uuid.New().String()
	log.Info("transaction started", "trace_id", m.traceID)
	return nil
}

// Log appends entry to the journal if a transaction is active; it is a
// no-op otherwise. Rollback's own replay never calls Log — compensating
// writes must not themselves become journal entries.
func (m *Manager) Log(entry UndoEntry) {
	if !m.active {
		return
	}
	m.stack = append(m.stack, entry)
}

// Commit closes the transaction and discards its journal. A bare COMMIT
// with no open transaction is a no-op, not an error — matching
// rdbms_core.py's execute, which clears trx.active unconditionally on
// COMMIT with no inactive check.
func (m *Manager) Commit() error {
	if !m.active {
		return nil
	}
	log.Info("transaction committed", "trace_id", m.traceID)
	m.active = false
	m.stack = nil
	m.traceID = ""
	return nil
}

// Rollback replays the journal LIFO against cat, applying each entry's
// compensating action directly against the table (bypassing Log, so the
// replay itself never grows the journal), then closes the transaction.
// If a compensating action itself fails — for example because a table
// named in the journal was dropped after BEGIN (DROP TABLE is not
// journaled), or because the catalog was mutated directly — Rollback
// stops and surfaces that error; the store may be left partially
// restored.
func (m *Manager) Rollback(cat *engine.Catalog) (int, error) {
	if !m.active {
		return 0, ErrTransaction
	}

	count := 0
	for len(m.stack) > 0 {
		entry := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]

		tbl, err := cat.Table(entry.Table)
		if err != nil {
			m.active = false
			return count, err
		}

		switch entry.Kind {
		case UndoDelete:
			tbl.Delete(entry.RowID)
		case UndoInsert:
			rid := entry.RowID
			if _, err := tbl.Insert(entry.Values, &rid); err != nil {
				m.active = false
				return count, err
			}
		case UndoUpdate:
			if err := tbl.Update(entry.RowID, entry.Values); err != nil {
				m.active = false
				return count, err
			}
		}
		count++
	}

	log.Info("transaction rolled back", "trace_id", m.traceID, "compensations", count)
	m.active = false
	m.stack = nil
	m.traceID = ""
	return count, nil
}
