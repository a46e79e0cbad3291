package schema

import (
	"errors"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

// Table describes the structure of one table. The Add methods return
// the table so calls can be chained; the first failed validation is
// kept and reported by Err, and later Add calls are ignored.
type Table struct {
	name        string
	columns     []*Column
	byName      map[string]*Column
	indexes     []*Index
	foreignKeys []*ForeignKey
	err         error
}

// NewTable creates an empty table definition.
func NewTable(name string) *Table {
	t := &Table{name: name, byName: make(map[string]*Column)}
	if name == "" {
		t.err = errs.Invalid("table", "name is empty")
	}
	return t
}

func (t *Table) Name() string { return t.name }

// Err returns the first error recorded by an Add call.
func (t *Table) Err() error { return t.err }

func (t *Table) fail(err error) *Table {
	if t.err == nil {
		t.err = err
	}
	return t
}

// AddColumn appends columns in order. Columns must be valid, unnamed in
// this table so far and not yet attached to another table.
func (t *Table) AddColumn(cols ...*Column) *Table {
	for _, c := range cols {
		if t.err != nil {
			return t
		}
		if c == nil {
			return t.fail(errs.Invalid("column", "nil column for table %s", t.name))
		}
		if err := c.validate(); err != nil {
			return t.fail(err)
		}
		if c.table != nil && c.table != t {
			return t.fail(errs.Domain("column %s already belongs to table %s", c.name, c.table.name))
		}
		if _, exists := t.byName[c.name]; exists {
			return t.fail(errs.Invalid("column", "duplicate column %s in table %s", c.name, t.name))
		}
		c.table = t
		t.columns = append(t.columns, c)
		t.byName[c.name] = c
	}
	return t
}

// AddIndex attaches indexes. Every indexed column must exist and a table
// has at most one primary index.
func (t *Table) AddIndex(indexes ...*Index) *Table {
	for _, idx := range indexes {
		if t.err != nil {
			return t
		}
		if err := t.checkIndex(idx); err != nil {
			return t.fail(err)
		}
		idx.attach(t)
		t.indexes = append(t.indexes, idx)
	}
	return t
}

func (t *Table) checkIndex(idx *Index) error {
	if idx == nil {
		return errs.Invalid("index", "nil index for table %s", t.name)
	}
	if len(idx.columns) == 0 {
		return errs.Invalid("index", "index on %s has no columns", t.name)
	}
	if err := t.checkIndexColumns(idx.columns); err != nil {
		return err
	}
	for _, existing := range t.indexes {
		if existing == idx {
			return errs.Invalid("index", "index %s added twice", idx.Name())
		}
		if idx.typ == Primary && existing.typ == Primary {
			return errs.Domain("table %s already has a primary key", t.name)
		}
	}
	return nil
}

func (t *Table) checkIndexColumns(names []string) error {
	for _, name := range names {
		if _, ok := t.byName[name]; !ok {
			return errs.Domain("index column %s is not a column of %s", name, t.name)
		}
	}
	return nil
}

// AddForeignKey attaches foreign keys whose referring columns belong to
// this table.
func (t *Table) AddForeignKey(fks ...*ForeignKey) *Table {
	for _, fk := range fks {
		if t.err != nil {
			return t
		}
		if fk == nil {
			return t.fail(errs.Invalid("foreign key", "nil foreign key for table %s", t.name))
		}
		if err := fk.validate(); err != nil {
			return t.fail(err)
		}
		if fk.Table() != t {
			return t.fail(errs.Domain("foreign key %s refers from table %s, not %s", fk.Name(), fk.Table().name, t.name))
		}
		t.foreignKeys = append(t.foreignKeys, fk)
	}
	return t
}

// Columns returns the columns in definition order.
func (t *Table) Columns() []*Column { return append([]*Column(nil), t.columns...) }

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Indexes returns the indexes in the order they were added.
func (t *Table) Indexes() []*Index { return append([]*Index(nil), t.indexes...) }

// ForeignKeys returns the foreign keys in the order they were added.
func (t *Table) ForeignKeys() []*ForeignKey { return append([]*ForeignKey(nil), t.foreignKeys...) }

// PrimaryKey returns the primary index, or nil.
func (t *Table) PrimaryKey() *Index {
	for _, idx := range t.indexes {
		if idx.typ == Primary {
			return idx
		}
	}
	return nil
}

// Validate reports the recorded error, or checks that auto increment
// columns are covered by the primary key.
func (t *Table) Validate() error {
	if t.err != nil {
		return t.err
	}
	if len(t.columns) == 0 {
		return errs.Invalid("table", "%s has no columns", t.name)
	}
	var errList []error
	pk := t.PrimaryKey()
	for _, c := range t.columns {
		if !c.autoIncrement {
			continue
		}
		if pk == nil || len(pk.columns) != 1 || pk.columns[0] != c.name {
			errList = append(errList, errs.Domain("auto increment column %s.%s must be the sole primary key", t.name, c.name))
		}
	}
	return errors.Join(errList...)
}
