// Package executor runs one parsed statement at a time against a
// catalog and transaction manager, translating every outcome — success
// or failure — into a single Result value. Execute never returns a Go
// error to its caller; it recovers failures into Result's error shape.
package executor
