package nodes

// RegisterTables informs p of every table the statement n references.
// The statement's own table is registered first so it becomes the
// default table; an explicit DefaultTable on a SELECT wins over it.
// Nested SELECTs are not walked: they are registered in their own scope
// when rendered.
func RegisterTables(n Node, p *Parameters) {
	switch s := n.(type) {
	case *SelectStatement:
		if s.DefaultTable != nil {
			p.RegisterTable(s.DefaultTable)
			p.SetDefaultTable(s.DefaultTable)
		}
		if s.Table != nil {
			p.RegisterTable(s.Table.Relation())
		}
		for _, f := range s.Fields {
			registerExpr(f, p)
		}
		for _, j := range s.Joins {
			registerExpr(j, p)
		}
		if s.Where != nil {
			registerExpr(s.Where.Condition, p)
		}
		if s.GroupBy != nil {
			for _, e := range s.GroupBy.Exprs {
				registerExpr(e, p)
			}
		}
		if s.Having != nil {
			registerExpr(s.Having.Condition, p)
		}
		if s.Order != nil {
			for _, t := range s.Order.Terms {
				registerExpr(t.Expr, p)
			}
		}
	case *DeleteStatement:
		p.RegisterTable(s.Table)
		if s.Where != nil {
			registerExpr(s.Where.Condition, p)
		}
		registerAll(s.Returning, p)
	case *UpdateStatement:
		p.RegisterTable(s.Table)
		for _, a := range s.Assignments {
			registerExpr(a, p)
		}
		if s.Where != nil {
			registerExpr(s.Where.Condition, p)
		}
		registerAll(s.Returning, p)
	case *InsertStatement:
		p.RegisterTable(s.Table)
		for _, a := range s.Values {
			registerExpr(a, p)
		}
		registerAll(s.Returning, p)
	default:
		registerExpr(n, p)
	}
}

func registerAll(list []Node, p *Parameters) {
	for _, n := range list {
		registerExpr(n, p)
	}
}

func registerExpr(n Node, p *Parameters) {
	switch e := n.(type) {
	case *Field:
		p.RegisterTable(e.Table)
	case *FieldAlias:
		registerExpr(e.Expr, p)
	case *Wildcard:
		p.RegisterTable(e.Table)
	case *Comparison:
		registerExpr(e.Left, p)
		registerExpr(e.Right, p)
	case *Boolean:
		registerAll(e.Operands, p)
	case *Not:
		registerExpr(e.Expr, p)
	case *Function:
		registerAll(e.Args, p)
	case *List:
		registerAll(e.Items, p)
	case *JoinClause:
		p.RegisterTable(e.Target.Relation())
		if e.Condition != nil {
			registerExpr(e.Condition, p)
		}
	case *WhereClause:
		registerExpr(e.Condition, p)
	case *HavingClause:
		registerExpr(e.Condition, p)
	case *OrderTerm:
		registerExpr(e.Expr, p)
	case *Assignment:
		registerExpr(e.Value, p)
	case *TableClause:
		p.RegisterTable(e)
	case *SourceTableClause:
		p.RegisterTable(e.Relation())
	}
}
