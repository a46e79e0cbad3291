package managers

import (
	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// InsertManager provides a fluent API for building single-row INSERT
// statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
	columns   []*nodes.Field
}

// NewInsertManager creates a new InsertManager targeting the given table.
func NewInsertManager(into nodes.Node) *InsertManager {
	m := &InsertManager{}
	s, err := nodes.NewInsertStatement(into)
	if err != nil {
		m.fail(err)
		s = &nodes.InsertStatement{}
	}
	m.Statement = s
	return m
}

// Set adds or replaces the value of one column. Columns keep the order
// in which they were first set.
func (m *InsertManager) Set(col nodes.Node, val any) *InsertManager {
	field, err := asField(col)
	if err != nil {
		m.fail(err)
		return m
	}
	a, err := nodes.NewAssignment(field, val)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Set(a)
	return m
}

// Columns sets the column list used by the next Values call.
func (m *InsertManager) Columns(cols ...nodes.Node) *InsertManager {
	m.columns = m.columns[:0]
	for _, c := range cols {
		field, err := asField(c)
		if err != nil {
			m.fail(err)
			return m
		}
		m.columns = append(m.columns, field)
	}
	return m
}

// Values sets one value per column given to Columns. Pass raw Go values
// or Nodes.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	if len(vals) != len(m.columns) {
		m.fail(errs.Invalid("values", "%d values for %d columns", len(vals), len(m.columns)))
		return m
	}
	for i, v := range vals {
		m.Set(m.columns[i], v)
	}
	return m
}

// Returning sets the RETURNING clause columns.
func (m *InsertManager) Returning(cols ...nodes.Node) *InsertManager {
	m.Statement.Returning = cols
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

func (m *InsertManager) toSQLCore(v nodes.Visitor) (string, error) {
	stmt := m.Statement.Clone()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformInsert(stmt)
		if err != nil {
			return "", err
		}
	}
	return stmt.Accept(v), nil
}

// ToSQL applies transformers and renders the statement.
func (m *InsertManager) ToSQL(v Visitor) (string, *nodes.Parameters, error) {
	return m.toSQLParams(v, m.toSQLCore)
}
