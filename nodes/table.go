package nodes

import "github.com/EgbertW/WASP-sub001/internal/errs"

// TableClause is a reference to a named table, optionally aliased.
type TableClause struct {
	Name  string
	Alias string
}

// NewTable creates a reference to the named table.
func NewTable(name string) *TableClause {
	return &TableClause{Name: name}
}

func (t *TableClause) Accept(v Visitor) string { return v.VisitTable(t) }

// As returns an aliased copy of the table reference.
func (t *TableClause) As(alias string) *TableClause {
	return &TableClause{Name: t.Name, Alias: alias}
}

// Ref returns the name fields use to qualify themselves: the alias when
// set, the table name otherwise.
func (t *TableClause) Ref() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// Col creates a field bound to this table.
func (t *TableClause) Col(name string) *Field {
	return NewField(t, name)
}

// Star creates a qualified wildcard (table.*).
func (t *TableClause) Star() *Wildcard {
	return &Wildcard{Table: t}
}

// SourceTableClause is the source of rows for a statement or the target
// of a join: a named table or an aliased subquery.
type SourceTableClause struct {
	Table    *TableClause     // nil for subquery sources
	Subquery *SelectStatement // nil for table sources
	Alias    string           // alias of a subquery source
}

// NewSourceTable wraps a table reference as a statement source.
func NewSourceTable(t *TableClause) *SourceTableClause {
	return &SourceTableClause{Table: t}
}

// NewSubquerySource makes an aliased subquery usable as a source.
func NewSubquerySource(sub *SelectStatement, alias string) (*SourceTableClause, error) {
	if sub == nil {
		return nil, errs.Invalid("table", "Invalid table: nil subquery")
	}
	if alias == "" {
		return nil, errs.Invalid("table", "Invalid table: subquery source needs an alias")
	}
	return &SourceTableClause{Subquery: sub, Alias: alias}, nil
}

func (s *SourceTableClause) Accept(v Visitor) string { return v.VisitSourceTable(s) }

// Relation returns the table reference fields of this source qualify
// themselves with. For a subquery that is a table named after its alias.
func (s *SourceTableClause) Relation() *TableClause {
	if s.Table != nil {
		return s.Table
	}
	return &TableClause{Name: s.Alias}
}

// Col creates a field bound to this source.
func (s *SourceTableClause) Col(name string) *Field {
	return NewField(s.Relation(), name)
}

// AsSource converts a table-like node into a source clause. Anything other
// than a *TableClause or *SourceTableClause is rejected with an
// invalid-argument error mentioning "Invalid table".
func AsSource(table Node) (*SourceTableClause, error) {
	switch t := table.(type) {
	case *TableClause:
		if t == nil || t.Name == "" {
			return nil, errs.Invalid("table", "Invalid table: empty table name")
		}
		return NewSourceTable(t), nil
	case *SourceTableClause:
		if t == nil || (t.Table == nil && t.Subquery == nil) {
			return nil, errs.Invalid("table", "Invalid table: empty source")
		}
		if t.Table == nil && t.Alias == "" {
			return nil, errs.Invalid("table", "Invalid table: subquery source needs an alias")
		}
		return t, nil
	default:
		return nil, errs.Invalid("table", "Invalid table: %T", table)
	}
}

// AsTable converts a table-like node into a plain table reference, as
// needed by DELETE, UPDATE and INSERT. Subquery sources are rejected.
func AsTable(table Node) (*TableClause, error) {
	src, err := AsSource(table)
	if err != nil {
		return nil, err
	}
	if src.Table == nil {
		return nil, errs.Invalid("table", "Invalid table: subquery cannot be modified")
	}
	return src.Table, nil
}
