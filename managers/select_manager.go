package managers

import (
	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectStatement and applies transformer plugins before SQL
// generation. Invalid arguments are recorded and reported by Err and
// ToSQL; the chain itself never breaks.
type SelectManager struct {
	treeManager
	Statement *nodes.SelectStatement
}

// NewSelectManager creates a new SelectManager reading from the given
// table or aliased subquery. If from is nil, FROM is derived from the
// tables the query references.
func NewSelectManager(from nodes.Node) *SelectManager {
	m := &SelectManager{}
	s, err := nodes.NewSelectStatement(from)
	if err != nil {
		m.fail(err)
		s = &nodes.SelectStatement{}
	}
	m.Statement = s
	return m
}

// Select sets the field list, replacing any existing fields.
func (m *SelectManager) Select(fields ...nodes.Node) *SelectManager {
	m.Statement.Fields = fields
	return m
}

// Project is an alias for Select.
func (m *SelectManager) Project(fields ...nodes.Node) *SelectManager {
	return m.Select(fields...)
}

// Distinct enables or disables the DISTINCT modifier.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Statement.Distinct = len(on) == 0 || on[0]
	return m
}

// Where adds conditions to the WHERE clause, combined with AND.
func (m *SelectManager) Where(conditions ...nodes.Node) *SelectManager {
	if cond := nodes.And(conditions...); cond != nil {
		m.Statement.Where = m.Statement.Where.And(cond)
	}
	return m
}

// From sets or changes the FROM source.
func (m *SelectManager) From(table nodes.Node) *SelectManager {
	src, err := nodes.AsSource(table)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Table = src
	return m
}

// Default sets the table unqualified fields resolve to. When no FROM
// source is set it also becomes the first FROM table.
func (m *SelectManager) Default(table *nodes.TableClause) *SelectManager {
	if table == nil || table.Name == "" {
		m.fail(errs.Invalid("table", "Invalid table: empty default table"))
		return m
	}
	m.Statement.DefaultTable = table
	return m
}

// Join adds a join to the query and returns a JoinContext for specifying
// the ON condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table nodes.Node, joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	if jt == nodes.CrossJoin {
		m.CrossJoin(table)
		return &JoinContext{manager: m}
	}
	target, err := nodes.AsSource(table)
	if err != nil {
		m.fail(err)
		return &JoinContext{manager: m}
	}
	join := &nodes.JoinClause{Type: jt, Target: target}
	m.Statement.Joins = append(m.Statement.Joins, join)
	return &JoinContext{manager: m, join: join}
}

// OuterJoin is a convenience for Join with LeftJoin type.
func (m *SelectManager) OuterJoin(table nodes.Node) *JoinContext {
	return m.Join(table, nodes.LeftJoin)
}

// CrossJoin adds a cross join (no ON clause).
func (m *SelectManager) CrossJoin(table nodes.Node) *SelectManager {
	join, err := nodes.NewJoin(nodes.CrossJoin, table, nil)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Joins = append(m.Statement.Joins, join)
	return m
}

// Group appends expressions to the GROUP BY clause.
func (m *SelectManager) Group(exprs ...nodes.Node) *SelectManager {
	if len(exprs) == 0 {
		return m
	}
	if m.Statement.GroupBy == nil {
		m.Statement.GroupBy = &nodes.GroupByClause{}
	}
	m.Statement.GroupBy.Exprs = append(m.Statement.GroupBy.Exprs, exprs...)
	return m
}

// Having adds conditions to the HAVING clause, combined with AND.
func (m *SelectManager) Having(conditions ...nodes.Node) *SelectManager {
	cond := nodes.And(conditions...)
	if cond == nil {
		return m
	}
	if m.Statement.Having == nil {
		m.Statement.Having = &nodes.HavingClause{Condition: cond}
	} else {
		m.Statement.Having = &nodes.HavingClause{Condition: nodes.And(m.Statement.Having.Condition, cond)}
	}
	return m
}

// Order appends ORDER BY terms. Plain expressions sort ascending; pass
// field.Desc() for descending order.
func (m *SelectManager) Order(terms ...nodes.Node) *SelectManager {
	order, err := nodes.NewOrder(terms...)
	if err != nil {
		m.fail(err)
		return m
	}
	if m.Statement.Order == nil {
		m.Statement.Order = order
	} else {
		m.Statement.Order.Terms = append(m.Statement.Order.Terms, order.Terms...)
	}
	return m
}

// Limit sets the LIMIT value.
func (m *SelectManager) Limit(n int) *SelectManager {
	limit, err := nodes.NewLimit(n)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Limit = limit
	return m
}

// Take is an alias for Limit.
func (m *SelectManager) Take(n int) *SelectManager {
	return m.Limit(n)
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n int) *SelectManager {
	offset, err := nodes.NewOffset(n)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Offset = offset
	return m
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// toSQLCore applies all registered transformers to a copy of the
// statement, then generates SQL using the given visitor.
func (m *SelectManager) toSQLCore(v nodes.Visitor) (string, error) {
	stmt := m.Statement.Clone()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformSelect(stmt)
		if err != nil {
			return "", err
		}
	}
	for _, j := range stmt.Joins {
		if j.Type != nodes.CrossJoin && j.Condition == nil {
			return "", errs.Invalid("join", "%s %s has no ON condition", j.Type, j.Target.Relation().Ref())
		}
	}
	return stmt.Accept(v), nil
}

// ToSQL applies all registered transformers and renders the query.
// It returns the SQL, the bound parameters and the first build or render
// error.
func (m *SelectManager) ToSQL(v Visitor) (string, *nodes.Parameters, error) {
	return m.toSQLParams(v, m.toSQLCore)
}

// Accept implements the Node interface so that a SelectManager can be
// rendered as part of another statement. Transformers are not applied.
func (m *SelectManager) Accept(v nodes.Visitor) string {
	return m.Statement.Accept(v)
}

// As wraps the query as an aliased subquery usable in FROM or JOIN.
func (m *SelectManager) As(alias string) *nodes.SourceTableClause {
	src, err := nodes.NewSubquerySource(m.Statement, alias)
	if err != nil {
		m.fail(err)
		return &nodes.SourceTableClause{Subquery: m.Statement}
	}
	return src
}

// Clone returns an independent manager with the same statement,
// transformers and recorded error.
func (m *SelectManager) Clone() *SelectManager {
	out := &SelectManager{Statement: m.Statement.Clone()}
	out.transformers = append(out.transformers, m.transformers...)
	out.err = m.err
	return out
}
