// Package nodes defines the expression tree, clauses and statements that
// make up a SQL query, together with the Parameters context used while
// rendering them.
package nodes

import "github.com/EgbertW/WASP-sub001/internal/errs"

// Errors shared with the rest of the module. Match them with errors.Is.
var (
	ErrInvalidArgument = errs.ErrInvalidArgument
	ErrInvalidOperator = errs.ErrInvalidOperator
	ErrNoDefaultTable  = errs.ErrNoDefaultTable
	ErrUnsupported     = errs.ErrUnsupported
)

// Node is the interface that all tree nodes implement.
type Node interface {
	Accept(visitor Visitor) string
}

// Visitor walks the tree and produces SQL text. Dialect visitors in the
// visitors package implement it.
type Visitor interface {
	VisitTable(node *TableClause) string
	VisitSourceTable(node *SourceTableClause) string
	VisitField(node *Field) string
	VisitFieldAlias(node *FieldAlias) string
	VisitWildcard(node *Wildcard) string
	VisitConstant(node *Constant) string
	VisitList(node *List) string
	VisitSQLLiteral(node *SQLLiteral) string
	VisitComparison(node *Comparison) string
	VisitBoolean(node *Boolean) string
	VisitNot(node *Not) string
	VisitFunction(node *Function) string
	VisitJoin(node *JoinClause) string
	VisitWhere(node *WhereClause) string
	VisitGroupBy(node *GroupByClause) string
	VisitHaving(node *HavingClause) string
	VisitOrder(node *OrderClause) string
	VisitOrderTerm(node *OrderTerm) string
	VisitLimit(node *LimitClause) string
	VisitOffset(node *OffsetClause) string
	VisitAssignment(node *Assignment) string
	VisitSelect(node *SelectStatement) string
	VisitInsert(node *InsertStatement) string
	VisitUpdate(node *UpdateStatement) string
	VisitDelete(node *DeleteStatement) string
}

// Parameterizer is implemented by visitors that bind values. Callers
// reset it before a render and read the Parameters and the first render
// error afterwards.
type Parameterizer interface {
	Parameters() *Parameters
	Reset()
	Err() error
}

// Literal wraps a raw Go value into a Constant. If val already implements
// Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	return NewConstant(val)
}
