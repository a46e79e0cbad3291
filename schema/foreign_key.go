package schema

import (
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

// Action is a referential action for ON UPDATE and ON DELETE.
type Action string

const (
	NoAction   Action = ""
	Restrict   Action = "RESTRICT"
	Cascade    Action = "CASCADE"
	SetNull    Action = "SET NULL"
	SetDefault Action = "SET DEFAULT"
)

// ForeignKey links columns of one table to columns of another (or the
// same) table.
type ForeignKey struct {
	name            string
	columns         []*Column
	referredColumns []*Column
	onUpdate        Action
	onDelete        Action
}

// NewForeignKey creates an empty foreign key. Set its columns with
// SetReferringColumns and SetReferredColumns.
func NewForeignKey() *ForeignKey {
	return &ForeignKey{}
}

// SetReferringColumns replaces the referring columns. Every column must
// already belong to a table and all must belong to the same one.
func (fk *ForeignKey) SetReferringColumns(cols ...*Column) error {
	if err := sameTable("referring", cols); err != nil {
		return err
	}
	fk.columns = append([]*Column(nil), cols...)
	return nil
}

// SetReferredColumns replaces the referred columns, with the same rules
// as SetReferringColumns.
func (fk *ForeignKey) SetReferredColumns(cols ...*Column) error {
	if err := sameTable("referred", cols); err != nil {
		return err
	}
	fk.referredColumns = append([]*Column(nil), cols...)
	return nil
}

func sameTable(role string, cols []*Column) error {
	if len(cols) == 0 {
		return errs.Invalid("foreign key", "no %s columns given", role)
	}
	var table *Table
	for _, c := range cols {
		if c == nil {
			return errs.Invalid("foreign key", "nil %s column", role)
		}
		if c.table == nil {
			return errs.Domain("%s column %s does not belong to a table", role, c.name)
		}
		if table == nil {
			table = c.table
		} else if c.table != table {
			return errs.Domain("%s columns span tables %s and %s", role, table.name, c.table.name)
		}
	}
	return nil
}

// OnUpdate sets the ON UPDATE action.
func (fk *ForeignKey) OnUpdate(a Action) *ForeignKey {
	fk.onUpdate = a
	return fk
}

// OnDelete sets the ON DELETE action.
func (fk *ForeignKey) OnDelete(a Action) *ForeignKey {
	fk.onDelete = a
	return fk
}

// SetName gives the foreign key an explicit constraint name.
func (fk *ForeignKey) SetName(name string) *ForeignKey {
	fk.name = name
	return fk
}

// Name returns the explicit name, or <table>_<col>..._fkey.
func (fk *ForeignKey) Name() string {
	if fk.name != "" {
		return fk.name
	}
	parts := make([]string, 0, len(fk.columns)+2)
	if t := fk.Table(); t != nil {
		parts = append(parts, t.name)
	}
	for _, c := range fk.columns {
		parts = append(parts, c.name)
	}
	parts = append(parts, "fkey")
	return strings.Join(parts, "_")
}

// Table returns the table of the referring columns.
func (fk *ForeignKey) Table() *Table {
	if len(fk.columns) == 0 {
		return nil
	}
	return fk.columns[0].table
}

// ReferredTable returns the table of the referred columns.
func (fk *ForeignKey) ReferredTable() *Table {
	if len(fk.referredColumns) == 0 {
		return nil
	}
	return fk.referredColumns[0].table
}

// Columns returns the referring columns.
func (fk *ForeignKey) Columns() []*Column { return append([]*Column(nil), fk.columns...) }

// ReferredColumns returns the referred columns.
func (fk *ForeignKey) ReferredColumns() []*Column {
	return append([]*Column(nil), fk.referredColumns...)
}

func (fk *ForeignKey) OnUpdateAction() Action { return fk.onUpdate }
func (fk *ForeignKey) OnDeleteAction() Action { return fk.onDelete }

func (fk *ForeignKey) validate() error {
	if len(fk.columns) == 0 || len(fk.referredColumns) == 0 {
		return errs.Invalid("foreign key", "%s needs referring and referred columns", fk.Name())
	}
	if len(fk.columns) != len(fk.referredColumns) {
		return errs.Domain("foreign key %s maps %d columns to %d", fk.Name(), len(fk.columns), len(fk.referredColumns))
	}
	for _, a := range []Action{fk.onUpdate, fk.onDelete} {
		switch a {
		case NoAction, Restrict, Cascade, SetNull, SetDefault:
		default:
			return errs.Invalid("foreign key", "unknown action %q", string(a))
		}
	}
	return nil
}
