// Package managers provides high-level fluent APIs for building statements.
package managers

import (
	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// Visitor is a dialect visitor that owns a per-render Parameters context.
// All visitors in the visitors package satisfy it.
type Visitor interface {
	nodes.Visitor
	nodes.Parameterizer
}

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline and the first error hit while building.
type treeManager struct {
	transformers []plugins.Transformer
	err          error
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// Err returns the first error recorded while building the statement.
// ToSQL returns it as well.
func (tm *treeManager) Err() error { return tm.err }

func (tm *treeManager) fail(err error) {
	if tm.err == nil && err != nil {
		tm.err = err
	}
}

// toSQLParams resets v, calls generate and returns the SQL with the
// parameters of the render. A build error, a generate error or an error
// recorded by the visitor during the render is returned instead of SQL.
func (tm *treeManager) toSQLParams(v Visitor, generate func(nodes.Visitor) (string, error)) (string, *nodes.Parameters, error) {
	if tm.err != nil {
		return "", nil, tm.err
	}
	v.Reset()

	sql, err := generate(v)
	if err != nil {
		return "", nil, err
	}
	if err := v.Err(); err != nil {
		return "", nil, err
	}
	return sql, v.Parameters(), nil
}

// asField accepts the column argument of Set and Columns.
func asField(col nodes.Node) (*nodes.Field, error) {
	f, ok := col.(*nodes.Field)
	if !ok || f == nil {
		return nil, errs.Invalid("column", "%T is not a column", col)
	}
	return f, nil
}
