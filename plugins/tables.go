package plugins

import "github.com/EgbertW/WASP-sub001/nodes"

// TableRef holds a reference to a table relation and its underlying name.
// Relation is used to create column references (preserving aliases), and
// Name is the underlying table name for matching.
type TableRef struct {
	Relation *nodes.TableClause
	Name     string
}

// CollectTables returns the tables a SELECT reads from: the FROM table
// (or the default table when FROM is derived) followed by every JOIN
// target. Subquery sources are skipped.
func CollectTables(s *nodes.SelectStatement) []TableRef {
	var refs []TableRef
	seen := make(map[string]bool)
	add := func(t *nodes.TableClause) {
		if t == nil || seen[t.Ref()] {
			return
		}
		seen[t.Ref()] = true
		refs = append(refs, TableRef{Relation: t, Name: t.Name})
	}

	switch {
	case s.Table != nil:
		add(s.Table.Table)
	case s.DefaultTable != nil:
		add(s.DefaultTable)
	default:
		add(s.SourceTable())
	}
	for _, j := range s.Joins {
		add(j.Target.Table)
	}
	return refs
}
