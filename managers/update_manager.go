package managers

import (
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates a new UpdateManager targeting the given table.
func NewUpdateManager(table nodes.Node) *UpdateManager {
	m := &UpdateManager{}
	s, err := nodes.NewUpdateStatement(table)
	if err != nil {
		m.fail(err)
		s = &nodes.UpdateStatement{}
	}
	m.Statement = s
	return m
}

// Set adds a column assignment to the SET clause. col must be a field;
// val can be a raw Go value or a Node.
func (m *UpdateManager) Set(col nodes.Node, val any) *UpdateManager {
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
	m.Statement.Assignments = append(m.Statement.Assignments, a)
	return m
}

// Where adds conditions to the WHERE clause, combined with AND.
func (m *UpdateManager) Where(conditions ...nodes.Node) *UpdateManager {
	if cond := nodes.And(conditions...); cond != nil {
		m.Statement.Where = m.Statement.Where.And(cond)
	}
	return m
}

// Returning sets the RETURNING clause columns.
func (m *UpdateManager) Returning(cols ...nodes.Node) *UpdateManager {
	m.Statement.Returning = cols
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

func (m *UpdateManager) toSQLCore(v nodes.Visitor) (string, error) {
	stmt := m.Statement.Clone()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformUpdate(stmt)
		if err != nil {
			return "", err
		}
	}
	return stmt.Accept(v), nil
}

// ToSQL applies transformers and renders the statement.
func (m *UpdateManager) ToSQL(v Visitor) (string, *nodes.Parameters, error) {
	return m.toSQLParams(v, m.toSQLCore)
}
