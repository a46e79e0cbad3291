package nodes

// Predications provides comparison methods to types that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Node
}

// Eq creates self = val. A nil val renders as IS NULL.
func (p Predications) Eq(val any) *Comparison {
	return newComparison(p.self, OpEq, Literal(val))
}

// NotEq creates self <> val. A nil val renders as IS NOT NULL.
func (p Predications) NotEq(val any) *Comparison {
	return newComparison(p.self, OpNotEq, Literal(val))
}

// Gt creates self > val.
func (p Predications) Gt(val any) *Comparison {
	return newComparison(p.self, OpGt, Literal(val))
}

// GtEq creates self >= val.
func (p Predications) GtEq(val any) *Comparison {
	return newComparison(p.self, OpGtEq, Literal(val))
}

// Lt creates self < val.
func (p Predications) Lt(val any) *Comparison {
	return newComparison(p.self, OpLt, Literal(val))
}

// LtEq creates self <= val.
func (p Predications) LtEq(val any) *Comparison {
	return newComparison(p.self, OpLtEq, Literal(val))
}

// Like creates self LIKE val.
func (p Predications) Like(val any) *Comparison {
	return newComparison(p.self, OpLike, Literal(val))
}

// NotLike creates self NOT LIKE val.
func (p Predications) NotLike(val any) *Comparison {
	return newComparison(p.self, OpNotLike, Literal(val))
}

// In creates self IN (vals...).
func (p Predications) In(vals ...any) *Comparison {
	return newComparison(p.self, OpIn, NewList(vals...))
}

// NotIn creates self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *Comparison {
	return newComparison(p.self, OpNotIn, NewList(vals...))
}

// InQuery creates self IN (subquery).
func (p Predications) InQuery(sub *SelectStatement) *Comparison {
	return newComparison(p.self, OpIn, sub)
}

// IsNull creates self IS NULL.
func (p Predications) IsNull() *Comparison {
	return newComparison(p.self, OpIs, NewConstant(nil))
}

// IsNotNull creates self IS NOT NULL.
func (p Predications) IsNotNull() *Comparison {
	return newComparison(p.self, OpIsNot, NewConstant(nil))
}

// As wraps self in a FieldAlias.
func (p Predications) As(alias string) *FieldAlias {
	return NewFieldAlias(p.self, alias)
}

// Asc creates an ascending order term.
func (p Predications) Asc() *OrderTerm {
	return &OrderTerm{Expr: p.self, Direction: Asc}
}

// Desc creates a descending order term.
func (p Predications) Desc() *OrderTerm {
	return &OrderTerm{Expr: p.self, Direction: Desc}
}
