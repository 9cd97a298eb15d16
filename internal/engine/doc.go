// Package engine implements the in-memory relational store: tables, their
// primary/unique/secondary indexes, foreign-key declarations, and the
// catalog that owns a database's named tables.
package engine
