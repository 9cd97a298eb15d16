// Package audit provides the default file-backed executor.AuditSink: an
// append-only statement log, one line per statement, timestamped in
// RFC3339. The log format follows the executor's audit contract; the file
// is opened, appended to and closed on every write.
package audit
