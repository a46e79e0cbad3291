// Package quoting provides identifier and literal quoting shared by the
// dialect visitors and the DDL generator.
package quoting

import (
	"fmt"
	"strconv"
	"strings"
)

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Qualified quotes each non-empty part and joins them with dots, so
// ("orders", "id") becomes "orders"."id" and ("", "id") becomes "id".
func Qualified(quote func(string) string, parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, quote(p))
	}
	return strings.Join(quoted, ".")
}

// EscapeString escapes a standard SQL string literal (PostgreSQL, SQLite)
// by doubling single quotes. Backslashes are ordinary characters there.
//
// Only used where binding is impossible: column DEFAULT values in DDL and
// the WithoutParams debug mode of the visitors.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeMySQLString escapes a MySQL string literal. MySQL reads the
// backslash as an escape character, so it is doubled as well.
func EscapeMySQLString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeLikePattern escapes LIKE wildcard characters (%, _) in a string
// so they are matched literally. The backslash is used as the escape character.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Literal renders a Go scalar as a SQL literal: strings quoted and
// escaped with escape (EscapeString when nil), booleans as TRUE/FALSE,
// numbers in Go's shortest form.
func Literal(val any, escape func(string) string) (string, error) {
	if escape == nil {
		escape = EscapeString
	}
	switch v := val.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + escape(v) + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("wasp: unsupported literal type %T", val)
	}
}
