package managers

import "github.com/EgbertW/WASP-sub001/nodes"

// JoinContext is returned by SelectManager.Join() and guides the caller
// to provide the join condition via On(). A join left without a
// condition makes ToSQL fail.
type JoinContext struct {
	manager *SelectManager
	join    *nodes.JoinClause
}

// On sets the join condition and returns the SelectManager for
// continued method chaining.
func (jc *JoinContext) On(condition nodes.Node) *SelectManager {
	if jc.join != nil {
		jc.join.Condition = condition
	}
	return jc.manager
}
