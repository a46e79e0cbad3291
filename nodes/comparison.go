package nodes

import (
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

// Comparison operators accepted by NewComparison.
const (
	OpEq      = "="
	OpNotEq   = "<>"
	OpNotEqC  = "!="
	OpLt      = "<"
	OpLtEq    = "<="
	OpGt      = ">"
	OpGtEq    = ">="
	OpLike    = "LIKE"
	OpNotLike = "NOT LIKE"
	OpIn      = "IN"
	OpNotIn   = "NOT IN"
	OpIs      = "IS"
	OpIsNot   = "IS NOT"
)

var allowedOperators = map[string]bool{
	OpEq: true, OpNotEq: true, OpNotEqC: true,
	OpLt: true, OpLtEq: true, OpGt: true, OpGtEq: true,
	OpLike: true, OpNotLike: true,
	OpIn: true, OpNotIn: true,
	OpIs: true, OpIsNot: true,
}

// NormalizeOperator upper-cases and trims op and checks it against the
// allow-list.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToUpper(op)), " ")
	if !allowedOperators[normalized] {
		return "", errs.Operator(op)
	}
	return normalized, nil
}

// Comparison is a binary comparison: Left Op Right.
type Comparison struct {
	Combinable
	Op    string
	Left  Node
	Right Node

	// Escape is the escape character of a LIKE pattern, if any.
	Escape string
}

// NewComparison validates op and builds the comparison. IN and NOT IN
// require a *List or *SelectStatement on the right.
func NewComparison(left Node, op string, right Node) (*Comparison, error) {
	normalized, err := NormalizeOperator(op)
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, errs.Invalid("comparison", "left operand is nil")
	}
	if right == nil {
		right = NewConstant(nil)
	}
	if normalized == OpIn || normalized == OpNotIn {
		switch right.(type) {
		case *List, *SelectStatement:
		default:
			return nil, errs.Invalid("comparison", "%s needs a list or subquery, got %T", normalized, right)
		}
	}
	return newComparison(left, normalized, right), nil
}

// newComparison builds a comparison for an operator known to be valid.
func newComparison(left Node, op string, right Node) *Comparison {
	n := &Comparison{Left: left, Op: op, Right: right}
	n.self = n
	return n
}

func (n *Comparison) Accept(v Visitor) string { return v.VisitComparison(n) }

// IsNullCheck reports whether the comparison is against a NULL constant
// and should render as IS [NOT] NULL.
func (n *Comparison) IsNullCheck() bool {
	c, ok := n.Right.(*Constant)
	return ok && c.IsNull()
}
