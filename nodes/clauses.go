package nodes

import (
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

// WhereClause holds the condition of a WHERE clause.
type WhereClause struct {
	Condition Node
}

// NewWhere creates a WHERE clause. Several conditions are joined with AND.
func NewWhere(conds ...Node) (*WhereClause, error) {
	cond := And(conds...)
	if cond == nil {
		return nil, errs.Invalid("where", "no condition given")
	}
	return &WhereClause{Condition: cond}, nil
}

func (n *WhereClause) Accept(v Visitor) string { return v.VisitWhere(n) }

// And returns a new clause with cond added to the existing condition.
func (n *WhereClause) And(cond Node) *WhereClause {
	if n == nil {
		return &WhereClause{Condition: cond}
	}
	return &WhereClause{Condition: And(n.Condition, cond)}
}

// HavingClause holds the condition of a HAVING clause.
type HavingClause struct {
	Condition Node
}

// NewHaving creates a HAVING clause. Several conditions are joined with AND.
func NewHaving(conds ...Node) (*HavingClause, error) {
	cond := And(conds...)
	if cond == nil {
		return nil, errs.Invalid("having", "no condition given")
	}
	return &HavingClause{Condition: cond}, nil
}

func (n *HavingClause) Accept(v Visitor) string { return v.VisitHaving(n) }

// GroupByClause lists the GROUP BY expressions.
type GroupByClause struct {
	Exprs []Node
}

func (n *GroupByClause) Accept(v Visitor) string { return v.VisitGroupBy(n) }

// Direction is the sort direction of an order term.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns ASC or DESC.
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ParseDirection accepts "ASC" or "DESC" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC", "":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return Asc, errs.Invalid("direction", "expected ASC or DESC, got %q", s)
}

// OrderTerm is one (expression, direction) pair of an ORDER BY clause.
type OrderTerm struct {
	Expr      Node
	Direction Direction
}

func (n *OrderTerm) Accept(v Visitor) string { return v.VisitOrderTerm(n) }

// OrderClause is an ordered list of order terms.
type OrderClause struct {
	Terms []*OrderTerm
}

// NewOrder creates an ORDER BY clause. Plain expressions sort ascending.
func NewOrder(terms ...Node) (*OrderClause, error) {
	out := &OrderClause{}
	for i, t := range terms {
		switch term := t.(type) {
		case *OrderTerm:
			out.Terms = append(out.Terms, term)
		case nil:
			return nil, errs.Invalid("order", "term %d is nil", i)
		default:
			out.Terms = append(out.Terms, &OrderTerm{Expr: term, Direction: Asc})
		}
	}
	if len(out.Terms) == 0 {
		return nil, errs.Invalid("order", "no terms given")
	}
	return out, nil
}

func (n *OrderClause) Accept(v Visitor) string { return v.VisitOrder(n) }

// LimitClause caps the number of rows returned.
type LimitClause struct {
	Count int
}

// NewLimit rejects negative counts.
func NewLimit(count int) (*LimitClause, error) {
	if count < 0 {
		return nil, errs.Invalid("limit", "must be non-negative, got %d", count)
	}
	return &LimitClause{Count: count}, nil
}

func (n *LimitClause) Accept(v Visitor) string { return v.VisitLimit(n) }

// OffsetClause skips rows before returning results.
type OffsetClause struct {
	Offset int
}

// NewOffset rejects negative offsets.
func NewOffset(offset int) (*OffsetClause, error) {
	if offset < 0 {
		return nil, errs.Invalid("offset", "must be non-negative, got %d", offset)
	}
	return &OffsetClause{Offset: offset}, nil
}

func (n *OffsetClause) Accept(v Visitor) string { return v.VisitOffset(n) }
