package schema

import "strings"

// IndexType is the kind of an index.
type IndexType int

const (
	Plain IndexType = iota
	Unique
	Primary
)

func (t IndexType) String() string {
	switch t {
	case Primary:
		return "PRIMARY"
	case Unique:
		return "UNIQUE"
	default:
		return "INDEX"
	}
}

// Index is a PRIMARY, UNIQUE or plain index over an ordered list of
// column names.
type Index struct {
	typ     IndexType
	columns []string
	table   *Table
	name    string // explicit name, or the cached derived one
	derived bool
}

// NewIndex creates an index over the named columns.
func NewIndex(typ IndexType, columns ...string) *Index {
	return &Index{typ: typ, columns: append([]string(nil), columns...)}
}

// AddColumns appends columns to the index. A derived name is recomputed
// on next access. Once the index is attached, a column unknown to the
// table is recorded as the table's error and nothing is appended.
func (i *Index) AddColumns(columns ...string) *Index {
	if i.table != nil {
		if err := i.table.checkIndexColumns(columns); err != nil {
			i.table.fail(err)
			return i
		}
	}
	i.columns = append(i.columns, columns...)
	i.invalidate()
	return i
}

// SetName gives the index an explicit name. An empty name returns to
// derived naming.
func (i *Index) SetName(name string) *Index {
	i.name = name
	i.derived = false
	return i
}

func (i *Index) Type() IndexType { return i.typ }

// Columns returns a copy of the indexed column names.
func (i *Index) Columns() []string { return append([]string(nil), i.columns...) }

// Table returns the name of the table the index is attached to.
func (i *Index) Table() string {
	if i.table == nil {
		return ""
	}
	return i.table.name
}

// Name returns the explicit name if set. Otherwise primary indexes are
// named PRIMARY and others <table>_<col>..._idx, or _uidx when unique.
// The derived name is cached until the columns or table change.
func (i *Index) Name() string {
	if i.typ == Primary {
		return "PRIMARY"
	}
	if i.name != "" {
		return i.name
	}
	parts := make([]string, 0, len(i.columns)+2)
	if i.table != nil {
		parts = append(parts, i.table.name)
	}
	parts = append(parts, i.columns...)
	suffix := "idx"
	if i.typ == Unique {
		suffix = "uidx"
	}
	parts = append(parts, suffix)
	i.name = strings.Join(parts, "_")
	i.derived = true
	return i.name
}

func (i *Index) invalidate() {
	if i.derived {
		i.name = ""
		i.derived = false
	}
}

func (i *Index) attach(table *Table) {
	i.table = table
	i.invalidate()
}
