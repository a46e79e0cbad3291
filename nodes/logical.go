package nodes

import (
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

// Boolean operators.
const (
	OpAnd = "AND"
	OpOr  = "OR"
)

// Boolean joins two or more conditions with AND or OR.
type Boolean struct {
	Combinable
	Op       string
	Operands []Node
}

// NewBoolean validates op (AND or OR) and builds the expression.
func NewBoolean(op string, operands ...Node) (*Boolean, error) {
	normalized := strings.ToUpper(strings.TrimSpace(op))
	if normalized != OpAnd && normalized != OpOr {
		return nil, errs.Operator(op)
	}
	if len(operands) == 0 {
		return nil, errs.Invalid("condition", "%s needs at least one operand", normalized)
	}
	for i, o := range operands {
		if o == nil {
			return nil, errs.Invalid("condition", "operand %d of %s is nil", i, normalized)
		}
	}
	return newBoolean(normalized, operands), nil
}

func newBoolean(op string, operands []Node) *Boolean {
	n := &Boolean{Op: op, Operands: operands}
	n.self = n
	return n
}

func (n *Boolean) Accept(v Visitor) string { return v.VisitBoolean(n) }

// And combines conditions with AND. A single condition is returned as-is.
// Nil entries are skipped; And of nothing is nil.
func And(conds ...Node) Node {
	return chain(OpAnd, conds)
}

// Or combines conditions with OR. A single condition is returned as-is.
func Or(conds ...Node) Node {
	return chain(OpOr, conds)
}

func chain(op string, conds []Node) Node {
	operands := make([]Node, 0, len(conds))
	for _, c := range conds {
		if c != nil {
			operands = append(operands, c)
		}
	}
	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	}
	return newBoolean(op, operands)
}

// Not negates an expression.
type Not struct {
	Combinable
	Expr Node
}

// NewNot creates a negation of expr.
func NewNot(expr Node) *Not {
	n := &Not{Expr: expr}
	n.self = n
	return n
}

func (n *Not) Accept(v Visitor) string { return v.VisitNot(n) }
