// Package q is the construction API of the query core: a set of named,
// stateless constructors that validate their arguments and return the
// matching expression, clause or statement.
//
// Strings on the left of a comparison name fields ("name" or
// "table.name"); values on the right are bound as parameters:
//
//	stmt, err := q.Select(
//		q.Table("users"),
//		"id", "name",
//		q.Must(q.Where(q.Must(q.Equals("active", true)))),
//		q.Must(q.Order("name", "created_at DESC")),
//		q.Must(q.Limit(10)),
//	)
//	sql, params, err := stmt.ToSQL(visitors.NewPostgresVisitor())
package q

import (
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/internal/quoting"
	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/nodes"
)

// Error values shared with the nodes and schema packages.
var (
	ErrInvalidArgument = errs.ErrInvalidArgument
	ErrInvalidOperator = errs.ErrInvalidOperator
	ErrNoDefaultTable  = errs.ErrNoDefaultTable
	ErrUnsupported     = errs.ErrUnsupported
)

// Must returns v, panicking when err is non-nil. It is meant for query
// definitions built from constants, where an error is a programming
// mistake.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Table references a table by name.
func Table(name string) *nodes.TableClause {
	return nodes.NewTable(name)
}

// Field parses "column" or "table.column" into a field reference. A
// field without a table resolves to the statement's default table when
// rendered.
func Field(name string) (*nodes.Field, error) {
	parts := strings.Split(name, ".")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return nodes.NewField(nil, parts[0]), nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return nodes.NewTable(parts[0]).Col(parts[1]), nil
	}
	return nil, errs.Invalid("field", "malformed field name %q", name)
}

// Star returns * or, given a table name, table.*.
func Star(table ...string) *nodes.Wildcard {
	if len(table) > 0 && table[0] != "" {
		return nodes.NewTable(table[0]).Star()
	}
	return nodes.Star()
}

// Alias names an expression in the field list. expr follows the rules of
// the left side of a comparison.
func Alias(expr any, alias string) (*nodes.FieldAlias, error) {
	n, err := operand(expr)
	if err != nil {
		return nil, err
	}
	if alias == "" {
		return nil, errs.Invalid("alias", "alias is empty")
	}
	return nodes.NewFieldAlias(n, alias), nil
}

// From makes a statement source from a table name, a table reference, an
// aliased subquery or a select manager aliased with As.
func From(table any) (*nodes.SourceTableClause, error) {
	switch t := table.(type) {
	case string:
		return nodes.AsSource(nodes.NewTable(t))
	case nodes.Node:
		return nodes.AsSource(t)
	}
	return nil, errs.Invalid("table", "Invalid table: %T", table)
}

// DefaultClause selects the table unqualified fields resolve to.
type DefaultClause struct {
	Table *nodes.TableClause
}

// With sets the default table of a SELECT. Without a FROM source the
// default table is also what the statement reads from.
func With(table any) (*DefaultClause, error) {
	var t *nodes.TableClause
	switch v := table.(type) {
	case string:
		t = nodes.NewTable(v)
	case *nodes.TableClause:
		t = v
	}
	if t == nil || t.Name == "" {
		return nil, errs.Invalid("table", "Invalid table: %T", table)
	}
	return &DefaultClause{Table: t}, nil
}

// Constant wraps a value to be bound as a parameter. nil renders NULL.
func Constant(val any) *nodes.Constant {
	return nodes.NewConstant(val)
}

// Literal is a raw SQL fragment; each ? in raw is replaced by the
// placeholder of the next bind.
func Literal(raw string, binds ...any) *nodes.SQLLiteral {
	return nodes.NewSQLLiteral(raw, binds...)
}

// Where joins the conditions with AND into a WHERE clause.
func Where(conds ...nodes.Node) (*nodes.WhereClause, error) {
	return nodes.NewWhere(conds...)
}

// Having joins the conditions with AND into a HAVING clause.
func Having(conds ...nodes.Node) (*nodes.HavingClause, error) {
	return nodes.NewHaving(conds...)
}

// Compare builds left op right. See Equals for the argument rules.
func Compare(left any, op string, right any) (*nodes.Comparison, error) {
	l, err := operand(left)
	if err != nil {
		return nil, err
	}
	return nodes.NewComparison(l, op, value(right))
}

// Equals builds left = right. A string left is a field name; right is
// bound as a value unless it is already a Node. A nil right renders as
// IS NULL.
func Equals(left, right any) (*nodes.Comparison, error) {
	return Compare(left, nodes.OpEq, right)
}

// IsNull builds left IS NULL.
func IsNull(left any) (*nodes.Comparison, error) {
	return Compare(left, nodes.OpIs, nil)
}

// Contains builds left LIKE '%s%'. The wildcards in s match literally.
func Contains(left any, s string) (*nodes.Comparison, error) {
	return likeEscaped(left, "%"+quoting.EscapeLikePattern(s)+"%")
}

// StartsWith builds left LIKE 's%'. The wildcards in s match literally.
func StartsWith(left any, s string) (*nodes.Comparison, error) {
	return likeEscaped(left, quoting.EscapeLikePattern(s)+"%")
}

// EndsWith builds left LIKE '%s'. The wildcards in s match literally.
func EndsWith(left any, s string) (*nodes.Comparison, error) {
	return likeEscaped(left, "%"+quoting.EscapeLikePattern(s))
}

func likeEscaped(left any, pattern string) (*nodes.Comparison, error) {
	c, err := Compare(left, nodes.OpLike, pattern)
	if err != nil {
		return nil, err
	}
	c.Escape = `\`
	return c, nil
}

// In builds left IN (values...). A single select statement or manager
// argument makes it left IN (subquery). An empty list matches nothing.
func In(left any, vals ...any) (*nodes.Comparison, error) {
	l, err := operand(left)
	if err != nil {
		return nil, err
	}
	if len(vals) == 1 {
		switch sub := vals[0].(type) {
		case *nodes.SelectStatement:
			return nodes.NewComparison(l, nodes.OpIn, sub)
		case *managers.SelectManager:
			return nodes.NewComparison(l, nodes.OpIn, sub.Statement)
		}
	}
	return nodes.NewComparison(l, nodes.OpIn, nodes.NewList(vals...))
}

// And combines conditions with AND. Nil conditions are skipped; at least
// one must remain.
func And(conds ...nodes.Node) (nodes.Node, error) {
	return combine(nodes.OpAnd, conds)
}

// Or combines conditions with OR. Nil conditions are skipped; at least
// one must remain.
func Or(conds ...nodes.Node) (nodes.Node, error) {
	return combine(nodes.OpOr, conds)
}

func combine(op string, conds []nodes.Node) (nodes.Node, error) {
	var n nodes.Node
	if op == nodes.OpAnd {
		n = nodes.And(conds...)
	} else {
		n = nodes.Or(conds...)
	}
	if n == nil {
		return nil, errs.Invalid("condition", "%s needs at least one condition", op)
	}
	return n, nil
}

// Not negates a condition.
func Not(cond nodes.Node) (*nodes.Not, error) {
	if cond == nil {
		return nil, errs.Invalid("condition", "NOT needs a condition")
	}
	return nodes.NewNot(cond), nil
}

// Join joins table on cond. The join type defaults to INNER JOIN; pass
// nodes.CrossJoin with a nil cond for a cross join.
func Join(table any, cond nodes.Node, typ ...nodes.JoinType) (*nodes.JoinClause, error) {
	src, err := From(table)
	if err != nil {
		return nil, err
	}
	jt := nodes.InnerJoin
	if len(typ) > 0 {
		jt = typ[0]
	}
	return nodes.NewJoin(jt, src, cond)
}

// On builds the usual join condition left = right where both sides are
// fields: On("users.id", "posts.user_id").
func On(left, right any) (*nodes.Comparison, error) {
	l, err := operand(left)
	if err != nil {
		return nil, err
	}
	r, err := operand(right)
	if err != nil {
		return nil, err
	}
	return nodes.NewComparison(l, nodes.OpEq, r)
}

// Asc sorts by expr ascending.
func Asc(expr any) (*nodes.OrderTerm, error) {
	return term(expr, nodes.Asc)
}

// Desc sorts by expr descending.
func Desc(expr any) (*nodes.OrderTerm, error) {
	return term(expr, nodes.Desc)
}

func term(expr any, dir nodes.Direction) (*nodes.OrderTerm, error) {
	n, err := operand(expr)
	if err != nil {
		return nil, err
	}
	return &nodes.OrderTerm{Expr: n, Direction: dir}, nil
}

// Order builds an ORDER BY clause. Each term is an order term, an
// expression (ascending) or a string "field [ASC|DESC]".
func Order(terms ...any) (*nodes.OrderClause, error) {
	list := make([]nodes.Node, 0, len(terms))
	for _, t := range terms {
		s, ok := t.(string)
		if !ok {
			n, err := operand(t)
			if err != nil {
				return nil, err
			}
			list = append(list, n)
			continue
		}
		name, dir, _ := strings.Cut(strings.TrimSpace(s), " ")
		d, err := nodes.ParseDirection(dir)
		if err != nil {
			return nil, err
		}
		ot, err := term(name, d)
		if err != nil {
			return nil, err
		}
		list = append(list, ot)
	}
	return nodes.NewOrder(list...)
}

// Group builds a GROUP BY clause.
func Group(exprs ...any) (*nodes.GroupByClause, error) {
	if len(exprs) == 0 {
		return nil, errs.Invalid("group", "no expressions given")
	}
	out := &nodes.GroupByClause{}
	for _, e := range exprs {
		n, err := operand(e)
		if err != nil {
			return nil, err
		}
		out.Exprs = append(out.Exprs, n)
	}
	return out, nil
}

// Limit builds a LIMIT clause; n must not be negative.
func Limit(n int) (*nodes.LimitClause, error) {
	return nodes.NewLimit(n)
}

// Offset builds an OFFSET clause; n must not be negative.
func Offset(n int) (*nodes.OffsetClause, error) {
	return nodes.NewOffset(n)
}

// Count builds COUNT(expr), or COUNT(*) when expr is nil.
func Count(expr any) (*nodes.Function, error) {
	if expr == nil {
		return nodes.Count(nil), nil
	}
	n, err := operand(expr)
	if err != nil {
		return nil, err
	}
	return nodes.Count(n), nil
}

// Func builds a call of the named SQL function. String arguments are
// field names.
func Func(name string, args ...any) (*nodes.Function, error) {
	list := make([]nodes.Node, len(args))
	for i, a := range args {
		n, err := operand(a)
		if err != nil {
			return nil, err
		}
		list[i] = n
	}
	return nodes.NewFunction(name, list...)
}

// Set pairs a column with a value for UPDATE and INSERT.
func Set(col any, val any) (*nodes.Assignment, error) {
	var f *nodes.Field
	switch c := col.(type) {
	case string:
		var err error
		if f, err = Field(c); err != nil {
			return nil, err
		}
	case *nodes.Field:
		f = c
	default:
		return nil, errs.Invalid("column", "%T is not a column", col)
	}
	return nodes.NewAssignment(f, value(val))
}

// ReturningClause lists the columns an INSERT, UPDATE or DELETE returns.
type ReturningClause struct {
	Fields []nodes.Node
}

// Returning builds a RETURNING list. Strings are field names.
func Returning(fields ...any) (*ReturningClause, error) {
	out := &ReturningClause{}
	for _, f := range fields {
		n, err := operand(f)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, n)
	}
	return out, nil
}

// DistinctClause marks a SELECT as SELECT DISTINCT.
type DistinctClause struct{}

// Distinct makes a SELECT return distinct rows.
func Distinct() DistinctClause { return DistinctClause{} }

// operand converts the left side of a comparison: strings are field
// names, select managers are subqueries and nodes are used as given.
func operand(v any) (nodes.Node, error) {
	switch x := v.(type) {
	case string:
		return Field(x)
	case *managers.SelectManager:
		if x == nil {
			break
		}
		return x.Statement, nil
	case nodes.Node:
		if x != nil {
			return x, nil
		}
	}
	return nil, errs.Invalid("expression", "expected a field name or expression, got %T", v)
}

// value converts the right side of a comparison: select managers are
// subqueries, everything else goes through nodes.Literal.
func value(v any) nodes.Node {
	if m, ok := v.(*managers.SelectManager); ok && m != nil {
		return m.Statement
	}
	return nodes.Literal(v)
}
