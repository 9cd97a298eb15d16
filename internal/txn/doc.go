// Package txn implements the single-writer transaction manager: a LIFO
// journal of undo entries recorded during BEGIN/COMMIT/ROLLBACK and
// replayed, in reverse, to compensate a rolled-back statement sequence.
package txn
