package visitors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/quoting"
	"github.com/EgbertW/WASP-sub001/schema"
)

// ddlDialect holds the parts of CREATE TABLE that differ between dialects.
type ddlDialect struct {
	// columnType renders the SQL type of a column, including any
	// auto-increment type substitution.
	columnType func(c *schema.Column) string

	// autoIncrement is appended to auto-increment column definitions.
	autoIncrement string

	// inlineAutoPK writes PRIMARY KEY AUTOINCREMENT on the column itself
	// and omits the table level primary key.
	inlineAutoPK bool

	// inlineIndexes writes secondary indexes inside CREATE TABLE instead
	// of separate CREATE INDEX statements.
	inlineIndexes bool

	// tableSuffix follows the closing parenthesis of CREATE TABLE.
	tableSuffix string
}

// DDLOption configures CreateTable.
type DDLOption func(*ddlOptions)

type ddlOptions struct {
	ifNotExists bool
}

// IfNotExists makes CreateTable emit CREATE TABLE IF NOT EXISTS and
// CREATE INDEX IF NOT EXISTS where the dialect allows it.
func IfNotExists() DDLOption {
	return func(o *ddlOptions) { o.ifNotExists = true }
}

// CreateTable renders the statements that create t: the CREATE TABLE
// statement followed by one CREATE INDEX per secondary index on dialects
// without inline index syntax. Tables with a recorded or detected schema
// error are refused.
func (b *baseVisitor) CreateTable(t *schema.Table, opts ...DDLOption) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var o ddlOptions
	for _, opt := range opts {
		opt(&o)
	}

	var defs []string
	inlinePK := ""
	for _, c := range t.Columns() {
		def, err := b.columnDef(c)
		if err != nil {
			return nil, err
		}
		if c.IsAutoIncrement() && b.ddl.inlineAutoPK {
			def += " PRIMARY KEY AUTOINCREMENT"
			inlinePK = c.Name()
		}
		defs = append(defs, def)
	}

	if pk := t.PrimaryKey(); pk != nil && inlinePK == "" {
		defs = append(defs, "PRIMARY KEY ("+b.columnList(pk.Columns())+")")
	}

	var indexStmts []string
	for _, idx := range t.Indexes() {
		if idx.Type() == schema.Primary {
			continue
		}
		if b.ddl.inlineIndexes {
			kw := "KEY "
			if idx.Type() == schema.Unique {
				kw = "UNIQUE KEY "
			}
			defs = append(defs, kw+b.quoteIdent(idx.Name())+" ("+b.columnList(idx.Columns())+")")
			continue
		}
		indexStmts = append(indexStmts, b.createIndex(t, idx, o.ifNotExists))
	}

	for _, fk := range t.ForeignKeys() {
		defs = append(defs, b.foreignKeyDef(fk))
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if o.ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(b.quoteIdent(t.Name()))
	sb.WriteString(" (\n    ")
	sb.WriteString(strings.Join(defs, ",\n    "))
	sb.WriteString("\n)")
	sb.WriteString(b.ddl.tableSuffix)

	return append([]string{sb.String()}, indexStmts...), nil
}

// DropTable renders DROP TABLE for the named table.
func (b *baseVisitor) DropTable(name string, ifExists bool) string {
	if ifExists {
		return "DROP TABLE IF EXISTS " + b.quoteIdent(name)
	}
	return "DROP TABLE " + b.quoteIdent(name)
}

func (b *baseVisitor) columnDef(c *schema.Column) (string, error) {
	var sb strings.Builder
	sb.WriteString(b.quoteIdent(c.Name()))
	sb.WriteString(" ")
	sb.WriteString(b.ddl.columnType(c))
	if c.IsNullable() {
		sb.WriteString(" NULL")
	} else {
		sb.WriteString(" NOT NULL")
	}
	if v, ok := c.Default(); ok {
		lit, err := quoting.Literal(v, b.escapeString)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", c.Name(), err)
		}
		sb.WriteString(" DEFAULT ")
		sb.WriteString(lit)
	}
	if c.IsAutoIncrement() {
		sb.WriteString(b.ddl.autoIncrement)
	}
	return sb.String(), nil
}

func (b *baseVisitor) columnList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = b.quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func (b *baseVisitor) createIndex(t *schema.Table, idx *schema.Index, ifNotExists bool) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if idx.Type() == schema.Unique {
		sb.WriteString("UNIQUE ")
	}
	sb.WriteString("INDEX ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(b.quoteIdent(idx.Name()))
	sb.WriteString(" ON ")
	sb.WriteString(b.quoteIdent(t.Name()))
	sb.WriteString(" (")
	sb.WriteString(b.columnList(idx.Columns()))
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) foreignKeyDef(fk *schema.ForeignKey) string {
	names := func(cols []*schema.Column) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = c.Name()
		}
		return out
	}

	var sb strings.Builder
	sb.WriteString("CONSTRAINT ")
	sb.WriteString(b.quoteIdent(fk.Name()))
	sb.WriteString(" FOREIGN KEY (")
	sb.WriteString(b.columnList(names(fk.Columns())))
	sb.WriteString(") REFERENCES ")
	sb.WriteString(b.quoteIdent(fk.ReferredTable().Name()))
	sb.WriteString(" (")
	sb.WriteString(b.columnList(names(fk.ReferredColumns())))
	sb.WriteString(")")
	if a := fk.OnDeleteAction(); a != schema.NoAction {
		sb.WriteString(" ON DELETE " + string(a))
	}
	if a := fk.OnUpdateAction(); a != schema.NoAction {
		sb.WriteString(" ON UPDATE " + string(a))
	}
	return sb.String()
}

// sized renders NAME(n).
func sized(name string, n int) string {
	return name + "(" + strconv.Itoa(n) + ")"
}

// decimal renders NAME(p,s).
func decimal(name string, c *schema.Column) string {
	p, s := c.Precision()
	return name + "(" + strconv.Itoa(p) + "," + strconv.Itoa(s) + ")"
}
