package q

import (
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
)

// Select composes a SELECT from its parts, dispatched by type:
//
//   - *nodes.TableClause, *nodes.SourceTableClause: the FROM source
//   - *DefaultClause (With): the default table
//   - string: a field name, "*" or "table.*"
//   - fields, aliases, functions, wildcards, literals: the field list
//   - *nodes.JoinClause, *nodes.WhereClause, *nodes.GroupByClause,
//     *nodes.HavingClause, *nodes.OrderClause, *nodes.OrderTerm,
//     *nodes.LimitClause, *nodes.OffsetClause: the matching clause
//   - DistinctClause: SELECT DISTINCT
//   - plugins.Transformer: applied before rendering
//
// Several WHERE or HAVING parts are combined with AND. Any other part
// type fails with ErrInvalidArgument.
func Select(parts ...any) (*managers.SelectManager, error) {
	m := managers.NewSelectManager(nil)
	var fields []nodes.Node
	hasSource := false

	for i, p := range parts {
		switch v := p.(type) {
		case *nodes.TableClause:
			if hasSource {
				return nil, errs.Invalid("clause", "second FROM source %q", v.Name)
			}
			hasSource = true
			m.From(v)
		case *nodes.SourceTableClause:
			if hasSource {
				return nil, errs.Invalid("clause", "second FROM source")
			}
			hasSource = true
			m.From(v)
		case *DefaultClause:
			m.Default(v.Table)
		case string:
			f, err := selectField(v)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		case *nodes.Field, *nodes.FieldAlias, *nodes.Function, *nodes.Wildcard, *nodes.SQLLiteral, *nodes.Constant:
			fields = append(fields, p.(nodes.Node))
		case *nodes.JoinClause:
			m.Statement.Joins = append(m.Statement.Joins, v)
		case *nodes.WhereClause:
			m.Where(v.Condition)
		case *nodes.GroupByClause:
			m.Group(v.Exprs...)
		case *nodes.HavingClause:
			m.Having(v.Condition)
		case *nodes.OrderClause:
			terms := make([]nodes.Node, len(v.Terms))
			for j, t := range v.Terms {
				terms[j] = t
			}
			m.Order(terms...)
		case *nodes.OrderTerm:
			m.Order(v)
		case *nodes.LimitClause:
			m.Statement.Limit = v
		case *nodes.OffsetClause:
			m.Statement.Offset = v
		case DistinctClause:
			m.Distinct()
		case plugins.Transformer:
			m.Use(v)
		default:
			return nil, unknownPart("SELECT", i, p)
		}
	}
	if len(fields) > 0 {
		m.Select(fields...)
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func selectField(name string) (nodes.Node, error) {
	if name == "*" {
		return nodes.Star(), nil
	}
	if table, ok := strings.CutSuffix(name, ".*"); ok && table != "" {
		return nodes.NewTable(table).Star(), nil
	}
	return Field(name)
}

// Delete composes a DELETE from table, given as a name or a table
// reference, and its parts: *nodes.WhereClause, *ReturningClause and
// plugins.Transformer.
func Delete(table any, parts ...any) (*managers.DeleteManager, error) {
	t, err := target(table)
	if err != nil {
		return nil, err
	}
	m := managers.NewDeleteManager(t)
	for i, p := range parts {
		switch v := p.(type) {
		case *nodes.WhereClause:
			m.Where(v.Condition)
		case *ReturningClause:
			m.Returning(v.Fields...)
		case plugins.Transformer:
			m.Use(v)
		default:
			return nil, unknownPart("DELETE", i, p)
		}
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Update composes an UPDATE of table from its parts: *nodes.Assignment
// (Set), *nodes.WhereClause, *ReturningClause and plugins.Transformer.
func Update(table any, parts ...any) (*managers.UpdateManager, error) {
	t, err := target(table)
	if err != nil {
		return nil, err
	}
	m := managers.NewUpdateManager(t)
	for i, p := range parts {
		switch v := p.(type) {
		case *nodes.Assignment:
			m.Statement.Assignments = append(m.Statement.Assignments, v)
		case *nodes.WhereClause:
			m.Where(v.Condition)
		case *ReturningClause:
			m.Returning(v.Fields...)
		case plugins.Transformer:
			m.Use(v)
		default:
			return nil, unknownPart("UPDATE", i, p)
		}
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Insert composes a single-row INSERT into table from its parts:
// *nodes.Assignment (Set), *ReturningClause and plugins.Transformer.
// Columns keep the order of their first assignment.
func Insert(table any, parts ...any) (*managers.InsertManager, error) {
	t, err := target(table)
	if err != nil {
		return nil, err
	}
	m := managers.NewInsertManager(t)
	for i, p := range parts {
		switch v := p.(type) {
		case *nodes.Assignment:
			m.Statement.Set(v)
		case *ReturningClause:
			m.Returning(v.Fields...)
		case plugins.Transformer:
			m.Use(v)
		default:
			return nil, unknownPart("INSERT", i, p)
		}
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// target accepts the table of a DELETE, UPDATE or INSERT.
func target(table any) (nodes.Node, error) {
	switch t := table.(type) {
	case string:
		return nodes.NewTable(t), nil
	case nodes.Node:
		return t, nil
	}
	return nil, errs.Invalid("table", "Invalid table: %T", table)
}

func unknownPart(stmt string, i int, p any) error {
	return errs.Invalid("clause", "unsupported %s part %d: %T", stmt, i, p)
}
