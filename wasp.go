// Package wasp provides a SQL query builder and schema model for Go.
//
// This package re-exports the error values and the most used entry points
// of its subpackages. Advanced users can import subpackages directly:
//   - github.com/EgbertW/WASP-sub001/q (statement builder)
//   - github.com/EgbertW/WASP-sub001/managers (fluent statement managers)
//   - github.com/EgbertW/WASP-sub001/nodes (expression tree)
//   - github.com/EgbertW/WASP-sub001/visitors (SQL and DDL generation)
//   - github.com/EgbertW/WASP-sub001/schema (tables, columns, indexes, foreign keys)
//   - github.com/EgbertW/WASP-sub001/db (execution against database/sql)
package wasp

import (
	"context"

	"github.com/EgbertW/WASP-sub001/db"
	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/q"
	"github.com/EgbertW/WASP-sub001/schema"
	"github.com/EgbertW/WASP-sub001/visitors"
)

// Errors shared by every package of the module. Match them with errors.Is.
var (
	ErrInvalidArgument = errs.ErrInvalidArgument
	ErrInvalidOperator = errs.ErrInvalidOperator
	ErrDomain          = errs.ErrDomain
	ErrNoDefaultTable  = errs.ErrNoDefaultTable
	ErrUnsupported     = errs.ErrUnsupported
)

// ArgumentError describes an invalid argument.
type ArgumentError = errs.ArgumentError

// --- Statements ---

// SelectManager builds SELECT queries.
type SelectManager = managers.SelectManager

// InsertManager builds INSERT statements.
type InsertManager = managers.InsertManager

// UpdateManager builds UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager builds DELETE statements.
type DeleteManager = managers.DeleteManager

// Select builds a SELECT from clause parts. See q.Select.
func Select(parts ...any) (*managers.SelectManager, error) {
	return q.Select(parts...)
}

// Insert builds an INSERT into table. See q.Insert.
func Insert(table any, parts ...any) (*managers.InsertManager, error) {
	return q.Insert(table, parts...)
}

// Update builds an UPDATE of table. See q.Update.
func Update(table any, parts ...any) (*managers.UpdateManager, error) {
	return q.Update(table, parts...)
}

// Delete builds a DELETE from table. See q.Delete.
func Delete(table any, parts ...any) (*managers.DeleteManager, error) {
	return q.Delete(table, parts...)
}

// --- Dialects ---

// NewPostgresVisitor creates a PostgreSQL visitor.
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor creates a MySQL visitor.
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// NewSQLiteVisitor creates a SQLite visitor.
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}

// WithoutParams renders values inline instead of binding them.
//
// Values are escaped, not bound. Use it for debugging output only.
func WithoutParams() visitors.Option {
	return visitors.WithoutParams()
}

// --- Schema and execution ---

// Table is a schema table definition.
type Table = schema.Table

// NewTable starts a schema table definition.
func NewTable(name string) *schema.Table {
	return schema.NewTable(name)
}

// DB runs statements against a database/sql pool.
type DB = db.DB

// Config selects the engine and data source of a DB.
type Config = db.Config

// Open connects to the database described by cfg. See db.Open.
func Open(ctx context.Context, cfg Config, opts ...db.Option) (*db.DB, error) {
	return db.Open(ctx, cfg, opts...)
}
