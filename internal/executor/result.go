package executor

import (
	"fmt"

	"github.com/miniql/miniql/internal/sqlvalue"
)

// Status values for Result.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the single return shape of Execute: a control acknowledgment
// (CREATE/DROP/BEGIN/COMMIT/ROLLBACK), a write acknowledgment (INSERT/
// UPDATE/DELETE), a row set (SELECT), or an error — distinguished by
// which fields are populated, matching spec.md §6's four shapes.
type Result struct {
	Status       string             `json:"status"`
	RowsAffected int                `json:"rows_affected,omitempty"`
	RowID        uint64             `json:"row_id,omitempty"`
	Columns      []string           `json:"columns,omitempty"`
	Rows         [][]sqlvalue.Value `json:"rows,omitempty"`
	Message      string             `json:"message,omitempty"`
}

func errorResult(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

func successMessage(msg string) Result {
	return Result{Status: StatusSuccess, Message: msg}
}

// AuditSink receives every normalized statement Execute runs, regardless
// of outcome. The default implementation lives in internal/audit.
type AuditSink interface {
	Write(statement string) error
}
