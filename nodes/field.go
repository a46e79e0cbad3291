package nodes

// Field is a column reference. When Table is nil the field is qualified
// with the default table of the render context.
type Field struct {
	Predications
	Name  string
	Table *TableClause
}

// NewField creates a field bound to table. Pass a nil table for a field
// that resolves against the default table.
func NewField(table *TableClause, name string) *Field {
	f := &Field{Name: name, Table: table}
	f.Predications.self = f
	return f
}

func (f *Field) Accept(v Visitor) string { return v.VisitField(f) }

// FieldAlias names an expression in a select list: expr AS alias.
type FieldAlias struct {
	Predications
	Expr  Node
	Alias string
}

// NewFieldAlias creates an alias for expr.
func NewFieldAlias(expr Node, alias string) *FieldAlias {
	n := &FieldAlias{Expr: expr, Alias: alias}
	n.Predications.self = n
	return n
}

func (n *FieldAlias) Accept(v Visitor) string { return v.VisitFieldAlias(n) }

// Wildcard is * or table.*.
type Wildcard struct {
	Table *TableClause // nil for unqualified *
}

// Star returns an unqualified wildcard.
func Star() *Wildcard {
	return &Wildcard{}
}

func (n *Wildcard) Accept(v Visitor) string { return v.VisitWildcard(n) }
