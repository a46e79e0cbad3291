package nodes

// Combinable provides logical chaining methods to types that embed it.
// The self field must be set to the embedding node.
type Combinable struct {
	self Node
}

// And creates an AND of self and other.
func (c Combinable) And(other Node) *Boolean {
	return newBoolean(OpAnd, []Node{c.self, other})
}

// Or creates an OR of self and other. Precedence is handled by the
// visitor, which parenthesises an OR nested inside an AND.
func (c Combinable) Or(other Node) *Boolean {
	return newBoolean(OpOr, []Node{c.self, other})
}

// Not negates self.
func (c Combinable) Not() *Not {
	return NewNot(c.self)
}
