package nodes

// Constant wraps a scalar value. A nil value renders as NULL without
// using a bind slot; anything else is bound through Parameters.
type Constant struct {
	Predications
	Value any
}

// NewConstant creates a constant node.
func NewConstant(val any) *Constant {
	c := &Constant{Value: val}
	c.Predications.self = c
	return c
}

func (c *Constant) Accept(v Visitor) string { return v.VisitConstant(c) }

// IsNull reports whether the constant is SQL NULL.
func (c *Constant) IsNull() bool { return c.Value == nil }

// List is a parenthesised, comma separated list of expressions, the
// right-hand side of IN.
type List struct {
	Items []Node
}

// NewList wraps each value with Literal.
func NewList(vals ...any) *List {
	items := make([]Node, len(vals))
	for i, v := range vals {
		items[i] = Literal(v)
	}
	return &List{Items: items}
}

func (n *List) Accept(v Visitor) string { return v.VisitList(n) }

// SQLLiteral is a raw SQL fragment injected verbatim into the query.
//
// SECURITY: Raw is rendered without escaping. Never pass user input as the
// raw text; use Binds for values.
type SQLLiteral struct {
	Predications
	Combinable
	Raw   string
	Binds []any
}

// NewSQLLiteral creates a raw fragment with optional bound values. Binds
// are assigned in order when the fragment is rendered and their
// placeholders replace each "?" in Raw.
func NewSQLLiteral(raw string, binds ...any) *SQLLiteral {
	n := &SQLLiteral{Raw: raw, Binds: binds}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *SQLLiteral) Accept(v Visitor) string { return v.VisitSQLLiteral(n) }
