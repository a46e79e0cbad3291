package visitors

import (
	"github.com/EgbertW/WASP-sub001/internal/quoting"
	"github.com/EgbertW/WASP-sub001/schema"
)

// SQLiteVisitor generates SQLite-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column" (ANSI SQL).
// Placeholders are named after their token: :p0, :p1, ...
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:         v,
		name:          "sqlite",
		quoteIdent:    quoting.DoubleQuote,
		escapeString:  quoting.EscapeString,
		placeholder:   func(token string, _ int) string { return ":" + token },
		named:         true,
		parameterize:  true,
		returning:     true,
		defaultValues: " DEFAULT VALUES",
		noLimit:       "-1",
		ddl: ddlDialect{
			columnType:   sqliteColumnType,
			inlineAutoPK: true,
		},
	}
	v.applyOptions(opts)
	v.Reset()
	return v
}

func sqliteColumnType(c *schema.Column) string {
	switch c.Type() {
	case schema.Integer, schema.BigInt, schema.SmallInt:
		// Only INTEGER PRIMARY KEY aliases the rowid.
		return "INTEGER"
	case schema.Varchar:
		return sized("VARCHAR", c.Size())
	case schema.Char:
		return sized("CHAR", c.Size())
	case schema.Float, schema.Double:
		return "REAL"
	case schema.Decimal:
		return decimal("NUMERIC", c)
	case schema.JSON:
		return "TEXT"
	default:
		return c.Type().String()
	}
}
