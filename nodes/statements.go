package nodes

import "github.com/EgbertW/WASP-sub001/internal/errs"

// SelectStatement is the data container for a SELECT query. The fluent
// API for building one lives in the managers and q packages.
type SelectStatement struct {
	Fields       []Node
	Table        *SourceTableClause // nil: FROM is built from the referenced tables
	DefaultTable *TableClause       // overrides the default table for unqualified fields
	Joins        []*JoinClause
	Where        *WhereClause
	GroupBy      *GroupByClause
	Having       *HavingClause
	Order        *OrderClause
	Limit        *LimitClause
	Offset       *OffsetClause
	Distinct     bool
}

// NewSelectStatement creates a SELECT from table. A nil table is allowed;
// anything else must be table-like.
func NewSelectStatement(table Node) (*SelectStatement, error) {
	s := &SelectStatement{}
	if table == nil {
		return s, nil
	}
	src, err := AsSource(table)
	if err != nil {
		return nil, err
	}
	s.Table = src
	return s, nil
}

func (n *SelectStatement) Accept(v Visitor) string { return v.VisitSelect(n) }

// SourceTable returns the table unqualified fields of this query resolve
// against: the explicit default table, else the FROM table, else the
// first table referenced by a field. It returns nil when none applies.
func (n *SelectStatement) SourceTable() *TableClause {
	if n.DefaultTable != nil {
		return n.DefaultTable
	}
	if n.Table != nil {
		return n.Table.Relation()
	}
	for _, f := range n.Fields {
		if t := fieldTable(f); t != nil {
			return t
		}
	}
	return nil
}

func fieldTable(n Node) *TableClause {
	switch f := n.(type) {
	case *Field:
		return f.Table
	case *FieldAlias:
		return fieldTable(f.Expr)
	case *Wildcard:
		return f.Table
	}
	return nil
}

// Clone returns a copy whose slices and clauses can be changed without
// affecting n. Expression nodes are shared.
func (n *SelectStatement) Clone() *SelectStatement {
	out := *n
	out.Fields = append([]Node(nil), n.Fields...)
	out.Joins = append([]*JoinClause(nil), n.Joins...)
	if n.Where != nil {
		w := *n.Where
		out.Where = &w
	}
	if n.GroupBy != nil {
		out.GroupBy = &GroupByClause{Exprs: append([]Node(nil), n.GroupBy.Exprs...)}
	}
	if n.Having != nil {
		h := *n.Having
		out.Having = &h
	}
	if n.Order != nil {
		out.Order = &OrderClause{Terms: append([]*OrderTerm(nil), n.Order.Terms...)}
	}
	return &out
}

// Assignment pairs a column with a value, as in UPDATE ... SET and the
// column/value lists of INSERT.
type Assignment struct {
	Field *Field
	Value Node
}

// NewAssignment creates an assignment; val is wrapped with Literal.
func NewAssignment(field *Field, val any) (*Assignment, error) {
	if field == nil || field.Name == "" {
		return nil, errs.Invalid("assignment", "column is empty")
	}
	return &Assignment{Field: field, Value: Literal(val)}, nil
}

func (n *Assignment) Accept(v Visitor) string { return v.VisitAssignment(n) }

// DeleteStatement is the data container for a DELETE query.
type DeleteStatement struct {
	Table     *TableClause
	Where     *WhereClause
	Returning []Node
}

// NewDeleteStatement creates a DELETE from table. The table must be a
// *TableClause or a *SourceTableClause naming a table.
func NewDeleteStatement(table Node) (*DeleteStatement, error) {
	t, err := AsTable(table)
	if err != nil {
		return nil, err
	}
	return &DeleteStatement{Table: t}, nil
}

func (n *DeleteStatement) Accept(v Visitor) string { return v.VisitDelete(n) }

// Clone returns a copy whose clauses can be changed without affecting n.
func (n *DeleteStatement) Clone() *DeleteStatement {
	out := *n
	if n.Where != nil {
		w := *n.Where
		out.Where = &w
	}
	out.Returning = append([]Node(nil), n.Returning...)
	return &out
}

// UpdateStatement is the data container for an UPDATE query.
type UpdateStatement struct {
	Table       *TableClause
	Assignments []*Assignment
	Where       *WhereClause
	Returning   []Node
}

// NewUpdateStatement creates an UPDATE of table.
func NewUpdateStatement(table Node) (*UpdateStatement, error) {
	t, err := AsTable(table)
	if err != nil {
		return nil, err
	}
	return &UpdateStatement{Table: t}, nil
}

func (n *UpdateStatement) Accept(v Visitor) string { return v.VisitUpdate(n) }

// Clone returns a copy whose clauses can be changed without affecting n.
func (n *UpdateStatement) Clone() *UpdateStatement {
	out := *n
	out.Assignments = append([]*Assignment(nil), n.Assignments...)
	if n.Where != nil {
		w := *n.Where
		out.Where = &w
	}
	out.Returning = append([]Node(nil), n.Returning...)
	return &out
}

// InsertStatement is the data container for a single-row INSERT. Values
// keeps column order as given.
type InsertStatement struct {
	Table     *TableClause
	Values    []*Assignment
	Returning []Node
}

// NewInsertStatement creates an INSERT into table.
func NewInsertStatement(table Node) (*InsertStatement, error) {
	t, err := AsTable(table)
	if err != nil {
		return nil, err
	}
	return &InsertStatement{Table: t}, nil
}

func (n *InsertStatement) Accept(v Visitor) string { return v.VisitInsert(n) }

// Set adds or replaces the value for a column, keeping the position of
// a column that is already present.
func (n *InsertStatement) Set(a *Assignment) {
	for i, existing := range n.Values {
		if existing.Field.Name == a.Field.Name {
			n.Values[i] = a
			return
		}
	}
	n.Values = append(n.Values, a)
}

// Clone returns a copy whose clauses can be changed without affecting n.
func (n *InsertStatement) Clone() *InsertStatement {
	out := *n
	out.Values = append([]*Assignment(nil), n.Values...)
	out.Returning = append([]Node(nil), n.Returning...)
	return &out
}
