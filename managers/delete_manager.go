package managers

import (
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from nodes.Node) *DeleteManager {
	m := &DeleteManager{}
	s, err := nodes.NewDeleteStatement(from)
	if err != nil {
		m.fail(err)
		s = &nodes.DeleteStatement{}
	}
	m.Statement = s
	return m
}

// Where adds conditions to the WHERE clause, combined with AND.
func (m *DeleteManager) Where(conditions ...nodes.Node) *DeleteManager {
	if cond := nodes.And(conditions...); cond != nil {
		m.Statement.Where = m.Statement.Where.And(cond)
	}
	return m
}

// Returning sets the RETURNING clause columns.
func (m *DeleteManager) Returning(cols ...nodes.Node) *DeleteManager {
	m.Statement.Returning = cols
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

func (m *DeleteManager) toSQLCore(v nodes.Visitor) (string, error) {
	stmt := m.Statement.Clone()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformDelete(stmt)
		if err != nil {
			return "", err
		}
	}
	return stmt.Accept(v), nil
}

// ToSQL applies transformers and renders the statement.
func (m *DeleteManager) ToSQL(v Visitor) (string, *nodes.Parameters, error) {
	return m.toSQLParams(v, m.toSQLCore)
}
