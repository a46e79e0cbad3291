// Package softdelete provides a Transformer that injects "column IS NULL"
// conditions into SELECT statements, filtering out soft-deleted rows.
//
// By default it adds WHERE "deleted_at" IS NULL for every table the query
// reads from (FROM and JOIN targets). Both the column name and the set of
// tables can be customised via options.
//
// # Basic usage
//
//	query := managers.NewSelectManager(users).Use(softdelete.New())
//	// SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL
//
// # Custom column
//
//	sd := softdelete.New(softdelete.WithColumn("removed_at"))
//	// ... WHERE "users"."removed_at" IS NULL
//
// # Restrict to specific tables
//
//	sd := softdelete.New(softdelete.WithTables("users"))
//	// Only "users" gets the IS NULL condition; other joined tables are unchanged.
//
// # Per-table columns
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
//
// # Console usage
//
//	wasp> plugin softdelete
//	wasp> plugin softdelete removed_at on users posts
//	wasp> plugin off softdelete
package softdelete

import (
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// SoftDelete is a Transformer that appends IS NULL conditions for a
// soft-delete column on every referenced table (or a configured subset).
type SoftDelete struct {
	plugins.BaseTransformer
	Column  string
	Columns map[string]string // per-table column overrides (table name → column name)
	tables  map[string]bool   // nil means apply to all tables
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name. Default is "deleted_at".
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// WithTables restricts the plugin to the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		if sd.tables == nil {
			sd.tables = make(map[string]bool, len(names))
		}
		for _, n := range names {
			sd.tables[n] = true
		}
	}
}

// WithTableColumn sets a per-table column override. The table is added
// to the whitelist, restricting the plugin's scope.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.Columns == nil {
			sd.Columns = make(map[string]string)
		}
		sd.Columns[table] = column
		WithTables(table)(sd)
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect adds "column IS NULL" to the WHERE clause for each
// matching table the statement reads from.
func (sd *SoftDelete) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	for _, ref := range plugins.CollectTables(s) {
		if sd.appliesTo(ref.Name) {
			s.Where = s.Where.And(ref.Relation.Col(sd.columnFor(ref.Name)).IsNull())
		}
	}
	return s, nil
}

// Tables returns the whitelisted tables, or nil when the plugin applies
// to every table.
func (sd *SoftDelete) Tables() []string {
	if sd.tables == nil {
		return nil
	}
	out := make([]string, 0, len(sd.tables))
	for t := range sd.tables {
		out = append(out, t)
	}
	return out
}

func (sd *SoftDelete) appliesTo(tableName string) bool {
	if sd.tables == nil {
		return true
	}
	return sd.tables[tableName]
}

// columnFor returns the column name to use for the given table.
func (sd *SoftDelete) columnFor(tableName string) string {
	if col, ok := sd.Columns[tableName]; ok {
		return col
	}
	return sd.Column
}
