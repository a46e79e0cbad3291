// Package visitors provides SQL dialect generators that walk the tree.
package visitors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/internal/quoting"
	"github.com/EgbertW/WASP-sub001/nodes"
)

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithParams enables parameterized query mode, the default. Non-null
// constants are bound through Parameters and rendered as placeholders.
func WithParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = true
	}
}

// WithoutParams disables parameterized query mode.
//
// WARNING: constants are interpolated into the SQL text with basic
// escaping only. Use it for debugging output, never for queries built from
// untrusted input.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	// name is the dialect name used in error messages.
	name string

	// quoteIdent quotes a SQL identifier (table name, column name).
	quoteIdent func(string) string

	// escapeString escapes the contents of inlined string literals.
	escapeString func(string) string

	// placeholder returns the bind marker for a token and its 1-based index.
	placeholder func(token string, index int) string

	// named reports whether placeholders refer to tokens by name.
	named bool

	// parameterize enables bind-parameter mode.
	parameterize bool

	// returning reports whether the dialect supports RETURNING.
	returning bool

	// defaultValues follows INSERT INTO t when no column is given.
	defaultValues string

	// noLimit is written as LIMIT when only an OFFSET is given, for
	// dialects that cannot express OFFSET alone.
	noLimit string

	// ddl holds the CREATE TABLE differences of the dialect.
	ddl ddlDialect

	// params is the context of the current render.
	params *nodes.Parameters

	// err is the first error hit during the current render.
	err error

	// depth counts nested statements; bare counts contexts in which
	// fields render without a table qualifier.
	depth int
	bare  int
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// QuoteIdent implements nodes.Dialect.
func (b *baseVisitor) QuoteIdent(name string) string { return b.quoteIdent(name) }

// Placeholder implements nodes.Dialect.
func (b *baseVisitor) Placeholder(token string, index int) string {
	return b.placeholder(token, index)
}

// Named implements nodes.Dialect.
func (b *baseVisitor) Named() bool { return b.named }

// Parameters returns the context of the last render.
func (b *baseVisitor) Parameters() *nodes.Parameters {
	if b.params == nil {
		b.params = nodes.NewParameters(b)
	}
	return b.params
}

// Reset starts a new render with a fresh Parameters context.
func (b *baseVisitor) Reset() {
	b.params = nodes.NewParameters(b)
	b.err = nil
	b.depth = 0
	b.bare = 0
}

// Err returns the first error recorded during the last render.
func (b *baseVisitor) Err() error { return b.err }

// fail records err if it is the first error of the render.
func (b *baseVisitor) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *baseVisitor) VisitTable(n *nodes.TableClause) string {
	if n.Alias != "" {
		return b.quoteIdent(n.Name) + " AS " + b.quoteIdent(n.Alias)
	}
	return b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitSourceTable(n *nodes.SourceTableClause) string {
	if n.Table != nil {
		return n.Table.Accept(b.outer)
	}
	return "(" + n.Subquery.Accept(b.outer) + ") AS " + b.quoteIdent(n.Alias)
}

func (b *baseVisitor) VisitField(n *nodes.Field) string {
	if b.bare > 0 {
		return b.quoteIdent(n.Name)
	}
	table := n.Table
	if table == nil {
		table = b.Parameters().DefaultTable()
	}
	if table == nil {
		b.fail(fmt.Errorf("%w: %s", errs.ErrNoDefaultTable, n.Name))
		return b.quoteIdent(n.Name)
	}
	return quoting.Qualified(b.quoteIdent, table.Ref(), n.Name)
}

func (b *baseVisitor) VisitFieldAlias(n *nodes.FieldAlias) string {
	return b.operand(n.Expr) + " AS " + b.quoteIdent(n.Alias)
}

func (b *baseVisitor) VisitWildcard(n *nodes.Wildcard) string {
	if n.Table != nil {
		return b.quoteIdent(n.Table.Ref()) + ".*"
	}
	return "*"
}

func (b *baseVisitor) VisitConstant(n *nodes.Constant) string {
	return b.literalToSQL(n.Value)
}

func (b *baseVisitor) literalToSQL(val any) string {
	// nil always renders as NULL keyword, never parameterized.
	if val == nil {
		return "NULL"
	}

	// In parameterize mode, emit a placeholder and bind the value.
	if b.parameterize {
		return b.Parameters().Bind(val)
	}

	s, err := quoting.Literal(val, b.escapeString)
	if err != nil {
		b.fail(err)
		return "NULL"
	}
	return s
}

func (b *baseVisitor) VisitList(n *nodes.List) string {
	items := make([]string, len(n.Items))
	for i, item := range n.Items {
		items[i] = item.Accept(b.outer)
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// VisitSQLLiteral renders Raw verbatim, replacing each ? with the next
// bind value.
func (b *baseVisitor) VisitSQLLiteral(n *nodes.SQLLiteral) string {
	if len(n.Binds) == 0 {
		return n.Raw
	}
	var sb strings.Builder
	next := 0
	for _, r := range n.Raw {
		if r == '?' && next < len(n.Binds) {
			sb.WriteString(b.literalToSQL(n.Binds[next]))
			next++
			continue
		}
		sb.WriteRune(r)
	}
	if next != len(n.Binds) {
		b.fail(errs.Invalid("literal", "%d binds for %d placeholders in %q", len(n.Binds), next, n.Raw))
	}
	return sb.String()
}

func (b *baseVisitor) VisitComparison(n *nodes.Comparison) string {
	if list, ok := n.Right.(*nodes.List); ok && len(list.Items) == 0 {
		// x IN () is not valid SQL; an empty set matches nothing.
		if n.Op == nodes.OpNotIn {
			return "1 = 1"
		}
		return "1 = 0"
	}

	left := b.operand(n.Left)
	if n.IsNullCheck() {
		switch n.Op {
		case nodes.OpEq, nodes.OpIs:
			return left + " IS NULL"
		case nodes.OpNotEq, nodes.OpNotEqC, nodes.OpIsNot:
			return left + " IS NOT NULL"
		}
	}
	out := left + " " + n.Op + " " + b.operand(n.Right)
	if n.Escape != "" && (n.Op == nodes.OpLike || n.Op == nodes.OpNotLike) {
		out += " ESCAPE '" + b.escapeString(n.Escape) + "'"
	}
	return out
}

// operand renders n, wrapping subqueries in parentheses.
func (b *baseVisitor) operand(n nodes.Node) string {
	if _, ok := n.(*nodes.SelectStatement); ok {
		return "(" + n.Accept(b.outer) + ")"
	}
	return n.Accept(b.outer)
}

func (b *baseVisitor) VisitBoolean(n *nodes.Boolean) string {
	parts := make([]string, len(n.Operands))
	for i, o := range n.Operands {
		parts[i] = b.enclose(o, n.Op)
	}
	return strings.Join(parts, " "+n.Op+" ")
}

// enclose renders a boolean operand, parenthesising nested booleans whose
// operator differs from the parent's.
func (b *baseVisitor) enclose(n nodes.Node, parentOp string) string {
	if inner, ok := n.(*nodes.Boolean); ok && inner.Op != parentOp && len(inner.Operands) > 1 {
		return "(" + n.Accept(b.outer) + ")"
	}
	return b.operand(n)
}

func (b *baseVisitor) VisitNot(n *nodes.Not) string {
	return "NOT (" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitFunction(n *nodes.Function) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = b.operand(a)
	}
	distinct := ""
	if n.Distinct {
		distinct = "DISTINCT "
	}
	return n.Name + "(" + distinct + strings.Join(args, ", ") + ")"
}

func (b *baseVisitor) VisitJoin(n *nodes.JoinClause) string {
	var sb strings.Builder
	sb.WriteString(n.Type.String())
	sb.WriteString(" ")
	sb.WriteString(n.Target.Accept(b.outer))
	if n.Condition != nil {
		sb.WriteString(" ON ")
		sb.WriteString(n.Condition.Accept(b.outer))
	}
	return sb.String()
}

func (b *baseVisitor) VisitWhere(n *nodes.WhereClause) string {
	return "WHERE " + n.Condition.Accept(b.outer)
}

func (b *baseVisitor) VisitGroupBy(n *nodes.GroupByClause) string {
	exprs := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		exprs[i] = e.Accept(b.outer)
	}
	return "GROUP BY " + strings.Join(exprs, ", ")
}

func (b *baseVisitor) VisitHaving(n *nodes.HavingClause) string {
	return "HAVING " + n.Condition.Accept(b.outer)
}

func (b *baseVisitor) VisitOrder(n *nodes.OrderClause) string {
	terms := make([]string, len(n.Terms))
	for i, t := range n.Terms {
		terms[i] = t.Accept(b.outer)
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}

func (b *baseVisitor) VisitOrderTerm(n *nodes.OrderTerm) string {
	return n.Expr.Accept(b.outer) + " " + n.Direction.String()
}

// Limit and offset are validated non-negative ints and are written
// inline rather than bound.
func (b *baseVisitor) VisitLimit(n *nodes.LimitClause) string {
	return "LIMIT " + strconv.Itoa(n.Count)
}

func (b *baseVisitor) VisitOffset(n *nodes.OffsetClause) string {
	return "OFFSET " + strconv.Itoa(n.Offset)
}

func (b *baseVisitor) VisitAssignment(n *nodes.Assignment) string {
	b.bare++
	left := n.Field.Accept(b.outer)
	b.bare--
	return left + " = " + b.operand(n.Value)
}

// enterStatement registers the statement's tables, in a nested scope for
// subqueries. The returned func restores the previous state.
func (b *baseVisitor) enterStatement(n nodes.Node) func() {
	p := b.Parameters()
	nested := b.depth > 0
	if nested {
		p.EnterScope()
	}
	b.depth++
	// Fields of a subquery inside an assignment are still qualified.
	saved := b.bare
	b.bare = 0
	nodes.RegisterTables(n, p)
	return func() {
		b.bare = saved
		b.depth--
		if nested {
			p.LeaveScope()
		}
	}
}

func (b *baseVisitor) VisitSelect(n *nodes.SelectStatement) string {
	defer b.enterStatement(n)()

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	b.writeFields(&sb, n.Fields)
	b.writeFrom(&sb, n)
	for _, j := range n.Joins {
		sb.WriteString(" ")
		sb.WriteString(j.Accept(b.outer))
	}
	if n.Where != nil {
		b.writeClause(&sb, n.Where)
	}
	if n.GroupBy != nil {
		b.writeClause(&sb, n.GroupBy)
	}
	if n.Having != nil {
		b.writeClause(&sb, n.Having)
	}
	if n.Order != nil {
		b.writeClause(&sb, n.Order)
	}
	b.writeLimitOffset(&sb, n.Limit, n.Offset)
	return sb.String()
}

func (b *baseVisitor) writeFields(sb *strings.Builder, fields []nodes.Node) {
	if len(fields) == 0 {
		sb.WriteString("*")
		return
	}
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.operand(f))
	}
}

// writeFrom writes the explicit source, or else every table referenced by
// the query that is neither a join target nor a table of an enclosing
// query. The latter keeps correlated subqueries correlated.
func (b *baseVisitor) writeFrom(sb *strings.Builder, n *nodes.SelectStatement) {
	if n.Table != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(n.Table.Accept(b.outer))
		return
	}
	joined := make(map[string]bool, len(n.Joins))
	for _, j := range n.Joins {
		joined[j.Target.Relation().Ref()] = true
	}
	p := b.Parameters()
	var from []string
	for _, t := range p.Tables() {
		if !joined[t.Ref()] && !p.Enclosing(t) {
			from = append(from, t.Accept(b.outer))
		}
	}
	if len(from) > 0 {
		sb.WriteString(" FROM ")
		sb.WriteString(strings.Join(from, ", "))
	}
}

// writeClause writes a space followed by the clause.
func (b *baseVisitor) writeClause(sb *strings.Builder, n nodes.Node) {
	sb.WriteString(" ")
	sb.WriteString(n.Accept(b.outer))
}

func (b *baseVisitor) writeLimitOffset(sb *strings.Builder, limit *nodes.LimitClause, offset *nodes.OffsetClause) {
	if limit != nil {
		sb.WriteString(" ")
		sb.WriteString(limit.Accept(b.outer))
	} else if offset != nil && b.noLimit != "" {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.noLimit)
	}
	if offset != nil {
		sb.WriteString(" ")
		sb.WriteString(offset.Accept(b.outer))
	}
}

func (b *baseVisitor) VisitInsert(n *nodes.InsertStatement) string {
	defer b.enterStatement(n)()

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(n.Table.Accept(b.outer))

	if len(n.Values) == 0 {
		sb.WriteString(b.defaultValues)
	} else {
		cols := make([]string, len(n.Values))
		vals := make([]string, len(n.Values))
		for i, a := range n.Values {
			cols[i] = b.quoteIdent(a.Field.Name)
			vals[i] = b.operand(a.Value)
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(cols, ", "))
		sb.WriteString(") VALUES (")
		sb.WriteString(strings.Join(vals, ", "))
		sb.WriteString(")")
	}

	b.writeReturning(&sb, n.Returning)
	return sb.String()
}

func (b *baseVisitor) VisitUpdate(n *nodes.UpdateStatement) string {
	defer b.enterStatement(n)()

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(n.Table.Accept(b.outer))

	if len(n.Assignments) == 0 {
		b.fail(errs.Invalid("update", "no columns to set on %s", n.Table.Name))
	} else {
		sb.WriteString(" SET ")
		assigns := make([]string, len(n.Assignments))
		for i, a := range n.Assignments {
			assigns[i] = a.Accept(b.outer)
		}
		sb.WriteString(strings.Join(assigns, ", "))
	}

	if n.Where != nil {
		b.writeClause(&sb, n.Where)
	}
	b.writeReturning(&sb, n.Returning)
	return sb.String()
}

func (b *baseVisitor) VisitDelete(n *nodes.DeleteStatement) string {
	defer b.enterStatement(n)()

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(n.Table.Accept(b.outer))

	if n.Where != nil {
		b.writeClause(&sb, n.Where)
	}
	b.writeReturning(&sb, n.Returning)
	return sb.String()
}

func (b *baseVisitor) writeReturning(sb *strings.Builder, returning []nodes.Node) {
	if len(returning) == 0 {
		return
	}
	if !b.returning {
		b.fail(fmt.Errorf("%w: %s does not support RETURNING", errs.ErrUnsupported, b.name))
		return
	}
	sb.WriteString(" RETURNING ")
	rets := make([]string, len(returning))
	b.bare++
	for i, r := range returning {
		rets[i] = r.Accept(b.outer)
	}
	b.bare--
	sb.WriteString(strings.Join(rets, ", "))
}
