// Package persistence saves and restores a full engine.Catalog snapshot
// to a single opaque file, grounded on rdbms_core.py's pickle-based
// Catalog.save/load.
package persistence
