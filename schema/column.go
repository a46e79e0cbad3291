// Package schema models table structure: columns, indexes and foreign
// keys. The dialect visitors turn a Table into CREATE TABLE statements.
package schema

import "github.com/EgbertW/WASP-sub001/internal/errs"

// Errors shared with the rest of the module. Match them with errors.Is.
var (
	ErrInvalidArgument = errs.ErrInvalidArgument
	ErrDomain          = errs.ErrDomain
)

// Type is a portable column type. Dialects map it to their own names.
type Type int

const (
	Integer Type = iota
	BigInt
	SmallInt
	Varchar
	Char
	Text
	Boolean
	Float
	Double
	Decimal
	Date
	DateTime
	Timestamp
	Time
	Blob
	JSON
)

var typeNames = [...]string{
	Integer:   "INTEGER",
	BigInt:    "BIGINT",
	SmallInt:  "SMALLINT",
	Varchar:   "VARCHAR",
	Char:      "CHAR",
	Text:      "TEXT",
	Boolean:   "BOOLEAN",
	Float:     "FLOAT",
	Double:    "DOUBLE",
	Decimal:   "DECIMAL",
	Date:      "DATE",
	DateTime:  "DATETIME",
	Timestamp: "TIMESTAMP",
	Time:      "TIME",
	Blob:      "BLOB",
	JSON:      "JSON",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// IsInteger reports whether the type is one of the integer types.
func (t Type) IsInteger() bool {
	return t == Integer || t == BigInt || t == SmallInt
}

// Column describes one column. It belongs to at most one Table, which is
// set when the column is added.
type Column struct {
	name          string
	typ           Type
	size          int
	precision     int
	scale         int
	nullable      bool
	def           any
	hasDefault    bool
	autoIncrement bool
	unsigned      bool
	table         *Table
}

// ColumnOption configures a Column at construction time.
type ColumnOption func(*Column)

// Size sets the length of VARCHAR and CHAR columns.
func Size(n int) ColumnOption {
	return func(c *Column) { c.size = n }
}

// Precision sets the precision and scale of DECIMAL columns.
func Precision(precision, scale int) ColumnOption {
	return func(c *Column) {
		c.precision = precision
		c.scale = scale
	}
}

// Nullable allows NULL values in the column.
func Nullable() ColumnOption {
	return func(c *Column) { c.nullable = true }
}

// Default sets the column default. A nil value means DEFAULT NULL and
// implies Nullable.
func Default(v any) ColumnOption {
	return func(c *Column) {
		c.def = v
		c.hasDefault = true
		if v == nil {
			c.nullable = true
		}
	}
}

// AutoIncrement marks an integer column as generated by the database.
func AutoIncrement() ColumnOption {
	return func(c *Column) { c.autoIncrement = true }
}

// Unsigned marks a numeric column unsigned where the dialect supports it.
func Unsigned() ColumnOption {
	return func(c *Column) { c.unsigned = true }
}

// NewColumn creates a detached column. It is validated when added to a
// table.
func NewColumn(name string, typ Type, opts ...ColumnOption) *Column {
	c := &Column{name: name, typ: typ}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Column) Name() string          { return c.name }
func (c *Column) Type() Type            { return c.typ }
func (c *Column) Size() int             { return c.size }
func (c *Column) IsNullable() bool      { return c.nullable }
func (c *Column) IsAutoIncrement() bool { return c.autoIncrement }
func (c *Column) IsUnsigned() bool      { return c.unsigned }

// Precision returns the precision and scale of a DECIMAL column.
func (c *Column) Precision() (precision, scale int) { return c.precision, c.scale }

// Default returns the default value and whether one is set.
func (c *Column) Default() (any, bool) { return c.def, c.hasDefault }

// Table returns the table the column belongs to, or nil when detached.
func (c *Column) Table() *Table { return c.table }

func (c *Column) validate() error {
	if c.name == "" {
		return errs.Invalid("column", "name is empty")
	}
	if c.typ < 0 || int(c.typ) >= len(typeNames) {
		return errs.Invalid("column", "%s has unknown type %d", c.name, int(c.typ))
	}
	if (c.typ == Varchar || c.typ == Char) && c.size <= 0 {
		return errs.Invalid("column", "%s of type %s needs a size", c.name, c.typ)
	}
	if c.typ == Decimal && (c.precision <= 0 || c.scale < 0 || c.scale > c.precision) {
		return errs.Invalid("column", "%s has invalid precision %d,%d", c.name, c.precision, c.scale)
	}
	if c.autoIncrement && !c.typ.IsInteger() {
		return errs.Invalid("column", "%s: auto increment needs an integer type, got %s", c.name, c.typ)
	}
	if c.autoIncrement && c.nullable {
		return errs.Invalid("column", "%s: auto increment column cannot be nullable", c.name)
	}
	switch c.def.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
	default:
		return errs.Invalid("column", "%s: unsupported default type %T", c.name, c.def)
	}
	return nil
}
