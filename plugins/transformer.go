// Package plugins defines the Transformer interface for statement middleware.
package plugins

import "github.com/EgbertW/WASP-sub001/nodes"

// Transformer is the interface that statement transformation plugins
// implement. Managers hand transformers a clone of their statement right
// before rendering, so a transformer may modify what it receives.
// Plugins embed BaseTransformer and override only the methods they need.
type Transformer interface {
	TransformSelect(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error)
	TransformInsert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}
