package visitors

import (
	"strconv"

	"github.com/EgbertW/WASP-sub001/internal/quoting"
	"github.com/EgbertW/WASP-sub001/schema"
)

// PostgresVisitor generates PostgreSQL-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column".
// Placeholders are positional: $1, $2, ...
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:         v,
		name:          "postgres",
		quoteIdent:    quoting.DoubleQuote,
		escapeString:  quoting.EscapeString,
		placeholder:   func(_ string, i int) string { return "$" + strconv.Itoa(i) },
		parameterize:  true,
		returning:     true,
		defaultValues: " DEFAULT VALUES",
		ddl: ddlDialect{
			columnType: postgresColumnType,
		},
	}
	v.applyOptions(opts)
	v.Reset()
	return v
}

func postgresColumnType(c *schema.Column) string {
	if c.IsAutoIncrement() {
		switch c.Type() {
		case schema.BigInt:
			return "BIGSERIAL"
		case schema.SmallInt:
			return "SMALLSERIAL"
		default:
			return "SERIAL"
		}
	}
	switch c.Type() {
	case schema.Varchar:
		return sized("VARCHAR", c.Size())
	case schema.Char:
		return sized("CHAR", c.Size())
	case schema.Float:
		return "REAL"
	case schema.Double:
		return "DOUBLE PRECISION"
	case schema.Decimal:
		return decimal("NUMERIC", c)
	case schema.DateTime:
		return "TIMESTAMP"
	case schema.Timestamp:
		return "TIMESTAMP WITH TIME ZONE"
	case schema.Blob:
		return "BYTEA"
	case schema.JSON:
		return "JSONB"
	default:
		return c.Type().String()
	}
}
