package engine

import "fmt"

// Catalog owns every table in a database by name. It carries no internal
// lock: the engine is single-threaded and cooperative by design, and
// callers embedding it are expected to serialize access themselves (see
// DESIGN.md — a deliberate divergence from a mutex-guarded owning struct).
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// CreateTable registers a new table, replacing any table of the same
// name.
func (c *Catalog) CreateTable(name string, columns []Column, foreignKeys []ForeignKey) *Table {
	t := NewTable(name, columns, foreignKeys)
	c.tables[name] = t
	log.Info("table created", "table", name, "columns", len(columns))
	return t
}

// DropTable removes a table, a no-op if it doesn't exist.
func (c *Catalog) DropTable(name string) {
	delete(c.tables, name)
}

// Table looks up a table by name.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found", name)
	}
	return t, nil
}

// Tables returns every table name currently registered.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	return names
}

// Put installs t directly under name, used by the persistence layer when
// restoring a snapshot.
func (c *Catalog) Put(name string, t *Table) {
	c.tables[name] = t
}

// All returns the underlying table map for iteration by the persistence
// layer. Callers must not mutate the returned map.
func (c *Catalog) All() map[string]*Table {
	return c.tables
}
