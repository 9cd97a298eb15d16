package audit

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/miniql/miniql/internal/logging"
)

var log = logging.GetLogger("audit")

// FileSink is the default executor.AuditSink: it appends one line per
// statement to Path, opening and closing the file on every call so a
// long-running process never holds the descriptor, grounded on
// spec.md §6's "opened, appended, and closed per statement" contract.
type FileSink struct {
	Path string
}

// NewFileSink reports the audit file's current size (if any already
// exists) at Info level, then returns a sink ready to append to it.
func NewFileSink(path string) *FileSink {
	if info, err := os.Stat(path); err == nil {
		log.Info("audit log opened", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	} else {
		log.Info("audit log will be created", "path", path)
	}
	return &FileSink{Path: path}
}

// Write appends one timestamped line for statement. A failure here is
// logged but never returned as fatal to the caller's execution path —
// spec.md §6 requires audit failures not to affect execution, so
// executor.Executor only logs the error this returns, it doesn't act on it.
func (s *FileSink) Write(statement string) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(time.RFC3339), statement)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
