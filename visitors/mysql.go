package visitors

import (
	"github.com/EgbertW/WASP-sub001/internal/quoting"
	"github.com/EgbertW/WASP-sub001/schema"
)

// MySQLVisitor generates MySQL-dialect SQL.
// Identifiers are quoted with backticks: `table`.`column`.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
// Parameterized mode is enabled by default for SQL injection protection.
// Pass WithoutParams() to disable (not recommended for production).
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:         v,
		name:          "mysql",
		quoteIdent:    quoting.Backtick,
		escapeString:  quoting.EscapeMySQLString,
		placeholder:   func(_ string, _ int) string { return "?" },
		parameterize:  true,
		defaultValues: " () VALUES ()",
		noLimit:       "18446744073709551615",
		ddl: ddlDialect{
			columnType:    mysqlColumnType,
			autoIncrement: " AUTO_INCREMENT",
			inlineIndexes: true,
			tableSuffix:   " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		},
	}
	v.applyOptions(opts)
	v.Reset()
	return v
}

func mysqlColumnType(c *schema.Column) string {
	var t string
	switch c.Type() {
	case schema.Integer:
		t = "INT"
	case schema.Varchar:
		t = sized("VARCHAR", c.Size())
	case schema.Char:
		t = sized("CHAR", c.Size())
	case schema.Boolean:
		t = "TINYINT(1)"
	case schema.Decimal:
		t = decimal("DECIMAL", c)
	case schema.Blob:
		t = "LONGBLOB"
	default:
		t = c.Type().String()
	}
	if c.IsUnsigned() {
		t += " UNSIGNED"
	}
	return t
}
