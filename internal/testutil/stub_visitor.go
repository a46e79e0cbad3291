// Package testutil provides shared test helpers for the wasp module.
package testutil

import "github.com/EgbertW/WASP-sub001/nodes"

// StubVisitor implements nodes.Visitor with minimal return values for testing.
// Methods return meaningful short strings to aid in test assertions.
type StubVisitor struct{}

var _ nodes.Visitor = StubVisitor{}

func (sv StubVisitor) VisitTable(n *nodes.TableClause) string             { return n.Name }
func (sv StubVisitor) VisitSourceTable(n *nodes.SourceTableClause) string { return "source" }
func (sv StubVisitor) VisitField(n *nodes.Field) string                   { return n.Name }
func (sv StubVisitor) VisitFieldAlias(n *nodes.FieldAlias) string         { return n.Alias }
func (sv StubVisitor) VisitWildcard(n *nodes.Wildcard) string             { return "*" }
func (sv StubVisitor) VisitConstant(n *nodes.Constant) string             { return "const" }
func (sv StubVisitor) VisitList(n *nodes.List) string                     { return "list" }
func (sv StubVisitor) VisitSQLLiteral(n *nodes.SQLLiteral) string         { return n.Raw }
func (sv StubVisitor) VisitComparison(n *nodes.Comparison) string {
	return n.Left.Accept(sv) + " " + n.Op + " " + n.Right.Accept(sv)
}
func (sv StubVisitor) VisitBoolean(n *nodes.Boolean) string        { return "bool" }
func (sv StubVisitor) VisitNot(n *nodes.Not) string                { return "not" }
func (sv StubVisitor) VisitFunction(n *nodes.Function) string      { return n.Name }
func (sv StubVisitor) VisitJoin(n *nodes.JoinClause) string        { return "join" }
func (sv StubVisitor) VisitWhere(n *nodes.WhereClause) string      { return "where" }
func (sv StubVisitor) VisitGroupBy(n *nodes.GroupByClause) string  { return "group" }
func (sv StubVisitor) VisitHaving(n *nodes.HavingClause) string    { return "having" }
func (sv StubVisitor) VisitOrder(n *nodes.OrderClause) string      { return "order" }
func (sv StubVisitor) VisitOrderTerm(n *nodes.OrderTerm) string    { return "term" }
func (sv StubVisitor) VisitLimit(n *nodes.LimitClause) string      { return "limit" }
func (sv StubVisitor) VisitOffset(n *nodes.OffsetClause) string    { return "offset" }
func (sv StubVisitor) VisitAssignment(n *nodes.Assignment) string  { return "assign" }
func (sv StubVisitor) VisitSelect(n *nodes.SelectStatement) string { return "select" }
func (sv StubVisitor) VisitInsert(n *nodes.InsertStatement) string { return "insert" }
func (sv StubVisitor) VisitUpdate(n *nodes.UpdateStatement) string { return "update" }
func (sv StubVisitor) VisitDelete(n *nodes.DeleteStatement) string { return "delete" }

// StubParamVisitor implements nodes.Visitor and nodes.Parameterizer for testing.
type StubParamVisitor struct {
	StubVisitor
	params *nodes.Parameters
}

var _ nodes.Visitor = (*StubParamVisitor)(nil)
var _ nodes.Parameterizer = (*StubParamVisitor)(nil)

func (sv *StubParamVisitor) Parameters() *nodes.Parameters { return sv.params }
func (sv *StubParamVisitor) Reset()                        { sv.params = nodes.NewParameters(StubDialect{}) }
func (sv *StubParamVisitor) Err() error                    { return nil }

// StubDialect quotes with brackets and renders named :token placeholders.
type StubDialect struct{}

func (StubDialect) QuoteIdent(name string) string              { return "[" + name + "]" }
func (StubDialect) Placeholder(token string, index int) string { return ":" + token }
func (StubDialect) Named() bool                                { return true }
