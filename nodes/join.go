package nodes

import "github.com/EgbertW/WASP-sub001/internal/errs"

// JoinType represents the type of SQL JOIN.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

// String returns the SQL keyword for this join type.
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER JOIN"
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullJoin:
		return "FULL JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

// JoinClause joins a source to the statement. Condition is the ON
// expression and is nil only for CROSS JOIN.
type JoinClause struct {
	Type      JoinType
	Target    *SourceTableClause
	Condition Node
}

// NewJoin validates the target and condition and builds a join.
func NewJoin(typ JoinType, target Node, condition Node) (*JoinClause, error) {
	if typ < InnerJoin || typ > CrossJoin {
		return nil, errs.Invalid("join", "unknown join type %d", int(typ))
	}
	src, err := AsSource(target)
	if err != nil {
		return nil, err
	}
	if typ != CrossJoin && condition == nil {
		return nil, errs.Invalid("join", "%s needs an ON condition", typ)
	}
	if typ == CrossJoin && condition != nil {
		return nil, errs.Invalid("join", "CROSS JOIN takes no ON condition")
	}
	return &JoinClause{Type: typ, Target: src, Condition: condition}, nil
}

func (n *JoinClause) Accept(v Visitor) string { return v.VisitJoin(n) }
