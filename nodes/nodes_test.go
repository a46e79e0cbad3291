package nodes

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
)

type bracketDialect struct{}

func (bracketDialect) QuoteIdent(name string) string              { return "[" + name + "]" }
func (bracketDialect) Placeholder(token string, index int) string { return ":" + token }
func (bracketDialect) Named() bool                                { return true }

// --- Table / Field creation ---

func TestTableCreatesFields(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	col := users.Col("id")

	if col.Name != "id" {
		t.Errorf("expected col name %q, got %q", "id", col.Name)
	}
	if col.Table != users {
		t.Error("expected field table to be the users table")
	}
}

func TestTableAliasRef(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	u := users.As("u")

	if u.Ref() != "u" {
		t.Errorf("expected ref %q, got %q", "u", u.Ref())
	}
	if users.Ref() != "users" {
		t.Errorf("expected original ref to stay %q, got %q", "users", users.Ref())
	}
}

func TestTableStar(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	if users.Star().Table != users {
		t.Error("expected qualified star to reference the table")
	}
	if Star().Table != nil {
		t.Error("expected unqualified star to have nil table")
	}
}

// --- Literal wrapping ---

func TestLiteralWrapsRawValues(t *testing.T) {
	t.Parallel()
	c, ok := Literal(42).(*Constant)
	if !ok {
		t.Fatalf("expected *Constant, got %T", Literal(42))
	}
	if c.Value != 42 {
		t.Errorf("expected value 42, got %v", c.Value)
	}
}

func TestLiteralPassesThroughNodes(t *testing.T) {
	t.Parallel()
	f := NewField(nil, "id")
	if Literal(f) != Node(f) {
		t.Error("expected Literal to return the node unchanged")
	}
}

func TestConstantNull(t *testing.T) {
	t.Parallel()
	if !NewConstant(nil).IsNull() {
		t.Error("expected nil constant to be null")
	}
	if NewConstant(0).IsNull() {
		t.Error("expected zero constant not to be null")
	}
}

// --- Parameters ---

func TestParametersAssignAllocatesFreshTokens(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	a := p.Assign("x")
	b := p.Assign("x")

	if a == b {
		t.Fatalf("expected distinct tokens, both were %q", a)
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 bound values, got %d", p.Len())
	}
	for _, tok := range []string{a, b} {
		if v, ok := p.Value(tok); !ok || v != "x" {
			t.Errorf("expected %q bound to %q, got %v", tok, "x", v)
		}
	}
}

func TestParametersTokensAreStable(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	p.Assign(1)
	p.Assign(2)
	got := strings.Join(p.Tokens(), ",")
	if got != "p0,p1" {
		t.Errorf("expected tokens p0,p1, got %s", got)
	}
}

func TestParametersBindUsesDialect(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	if got := p.Bind(7); got != ":p0" {
		t.Errorf("expected :p0, got %q", got)
	}
}

func TestParametersArgsNamed(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	p.Assign("a")
	args := p.Args()
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	named, ok := args[0].(sql.NamedArg)
	if !ok {
		t.Fatalf("expected sql.NamedArg, got %T", args[0])
	}
	if named.Name != "p0" || named.Value != "a" {
		t.Errorf("expected p0=a, got %s=%v", named.Name, named.Value)
	}
}

func TestParametersValuesIsCopy(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	tok := p.Assign(1)
	vals := p.Values()
	vals[tok] = 99
	if v, _ := p.Value(tok); v != 1 {
		t.Errorf("expected bound value to stay 1, got %v", v)
	}
}

func TestParametersDefaultTableIsFirstRegistered(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	t1 := NewTable("t1")
	p.RegisterTable(t1)
	p.RegisterTable(NewTable("t2"))
	p.RegisterTable(NewTable("t1"))

	if p.DefaultTable() != t1 {
		t.Errorf("expected default table t1, got %v", p.DefaultTable())
	}
	if len(p.Tables()) != 2 {
		t.Errorf("expected 2 distinct tables, got %d", len(p.Tables()))
	}
}

func TestParametersEnclosing(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	p.RegisterTable(NewTable("users"))
	if p.Enclosing(NewTable("users")) {
		t.Error("root scope tables are not enclosing")
	}
	p.EnterScope()
	p.RegisterTable(NewTable("users"))
	p.RegisterTable(NewTable("orders"))
	if !p.Enclosing(NewTable("users")) {
		t.Error("expected users to be found in the enclosing scope")
	}
	if p.Enclosing(NewTable("orders")) {
		t.Error("expected orders to be local to the subquery")
	}
}

func TestParametersScopes(t *testing.T) {
	t.Parallel()
	p := NewParameters(bracketDialect{})
	outer := NewTable("outer")
	p.RegisterTable(outer)

	p.EnterScope()
	if p.DefaultTable() != outer {
		t.Error("expected inner scope to fall back to outer default table")
	}
	inner := NewTable("inner")
	p.RegisterTable(inner)
	if p.DefaultTable() != inner {
		t.Error("expected inner table to be the default in the inner scope")
	}
	p.LeaveScope()

	if p.DefaultTable() != outer {
		t.Error("expected outer default table after leaving scope")
	}
	if len(p.Tables()) != 1 {
		t.Errorf("expected inner tables not to leak, got %d tables", len(p.Tables()))
	}
	p.LeaveScope()
	if p.DefaultTable() != outer {
		t.Error("expected root scope to survive an extra LeaveScope")
	}
}

// --- Comparisons ---

func TestNewComparisonNormalizesOperator(t *testing.T) {
	t.Parallel()
	c, err := NewComparison(NewField(nil, "name"), " not   like ", NewConstant("a%"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Op != OpNotLike {
		t.Errorf("expected %q, got %q", OpNotLike, c.Op)
	}
}

func TestNewComparisonRejectsUnknownOperator(t *testing.T) {
	t.Parallel()
	for _, op := range []string{"", "==", "; DROP TABLE x", "BETWEEN"} {
		_, err := NewComparison(NewField(nil, "id"), op, NewConstant(1))
		if !errors.Is(err, ErrInvalidOperator) {
			t.Errorf("op %q: expected ErrInvalidOperator, got %v", op, err)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("op %q: expected error to also match ErrInvalidArgument", op)
		}
	}
}

func TestNewComparisonInNeedsList(t *testing.T) {
	t.Parallel()
	_, err := NewComparison(NewField(nil, "id"), "IN", NewConstant(1))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	_, err = NewComparison(NewField(nil, "id"), "in", NewList(1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewComparisonNilRightIsNull(t *testing.T) {
	t.Parallel()
	c, err := NewComparison(NewField(nil, "deleted_at"), "=", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsNullCheck() {
		t.Error("expected comparison against nil to be a null check")
	}
}

func TestPredicationsUseSelf(t *testing.T) {
	t.Parallel()
	f := NewTable("users").Col("age")
	cases := []struct {
		name string
		cmp  *Comparison
		op   string
	}{
		{"Eq", f.Eq(1), OpEq},
		{"NotEq", f.NotEq(1), OpNotEq},
		{"Gt", f.Gt(1), OpGt},
		{"GtEq", f.GtEq(1), OpGtEq},
		{"Lt", f.Lt(1), OpLt},
		{"LtEq", f.LtEq(1), OpLtEq},
		{"Like", f.Like("a"), OpLike},
		{"NotLike", f.NotLike("a"), OpNotLike},
		{"In", f.In(1, 2), OpIn},
		{"NotIn", f.NotIn(1, 2), OpNotIn},
		{"IsNull", f.IsNull(), OpIs},
		{"IsNotNull", f.IsNotNull(), OpIsNot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.cmp.Left != Node(f) {
				t.Error("expected left side to be the field")
			}
			if tc.cmp.Op != tc.op {
				t.Errorf("expected op %q, got %q", tc.op, tc.cmp.Op)
			}
		})
	}
}

// --- Boolean composition ---

func TestCombinableChains(t *testing.T) {
	t.Parallel()
	f := NewField(nil, "a")
	b := f.Eq(1).And(f.Eq(2)).Or(f.Eq(3))

	if b.Op != OpOr {
		t.Fatalf("expected outer OR, got %s", b.Op)
	}
	inner, ok := b.Operands[0].(*Boolean)
	if !ok || inner.Op != OpAnd {
		t.Fatalf("expected inner AND, got %T", b.Operands[0])
	}
}

func TestAndSkipsNilAndUnwrapsSingle(t *testing.T) {
	t.Parallel()
	c := NewField(nil, "a").Eq(1)
	if And(nil, c, nil) != Node(c) {
		t.Error("expected And with one condition to return it unchanged")
	}
	if And() != nil {
		t.Error("expected And of nothing to be nil")
	}
}

func TestNewBooleanValidates(t *testing.T) {
	t.Parallel()
	_, err := NewBoolean("XOR", NewConstant(1))
	if !errors.Is(err, ErrInvalidOperator) {
		t.Errorf("expected ErrInvalidOperator, got %v", err)
	}
	_, err = NewBoolean("and")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

// --- Functions ---

func TestNewFunctionValidatesName(t *testing.T) {
	t.Parallel()
	fn, err := NewFunction("lower", NewField(nil, "name"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Name != "LOWER" {
		t.Errorf("expected LOWER, got %s", fn.Name)
	}
	if _, err := NewFunction("x(); DROP", NewConstant(1)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestCountDefaultsToStar(t *testing.T) {
	t.Parallel()
	fn := Count(nil)
	if _, ok := fn.Args[0].(*Wildcard); !ok {
		t.Errorf("expected wildcard argument, got %T", fn.Args[0])
	}
}

// --- Clauses ---

func TestLimitOffsetRejectNegative(t *testing.T) {
	t.Parallel()
	if _, err := NewLimit(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected invalid limit, got %v", err)
	}
	if _, err := NewOffset(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected invalid offset, got %v", err)
	}
	if l, err := NewLimit(0); err != nil || l.Count != 0 {
		t.Errorf("expected limit 0 to be accepted, got %v %v", l, err)
	}
}

func TestNewOrderWrapsPlainExpressions(t *testing.T) {
	t.Parallel()
	f := NewField(nil, "name")
	o, err := NewOrder(f, f.Desc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(o.Terms))
	}
	if o.Terms[0].Direction != Asc || o.Terms[1].Direction != Desc {
		t.Errorf("expected ASC then DESC, got %s %s", o.Terms[0].Direction, o.Terms[1].Direction)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()
	if d, err := ParseDirection(" desc "); err != nil || d != Desc {
		t.Errorf("expected DESC, got %v %v", d, err)
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestNewJoinValidates(t *testing.T) {
	t.Parallel()
	cond := NewTable("a").Col("id").Eq(NewTable("b").Col("a_id"))

	if _, err := NewJoin(InnerJoin, NewTable("b"), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected missing ON to fail, got %v", err)
	}
	if _, err := NewJoin(CrossJoin, NewTable("b"), cond); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected CROSS JOIN with ON to fail, got %v", err)
	}
	if _, err := NewJoin(InnerJoin, NewConstant("b"), cond); err == nil || !strings.Contains(err.Error(), "Invalid table") {
		t.Errorf("expected Invalid table error, got %v", err)
	}
	j, err := NewJoin(LeftJoin, NewTable("b"), cond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Target.Table.Name != "b" {
		t.Errorf("expected target b, got %s", j.Target.Table.Name)
	}
}

// --- Statements ---

func TestSelectStatementComposition(t *testing.T) {
	t.Parallel()
	t1 := NewTable("t1")
	t2 := NewTable("t2")

	s, err := NewSelectStatement(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.DefaultTable = t1
	s.Fields = []Node{NewField(nil, "id"), NewField(nil, "name").As("n")}
	s.Where, _ = NewWhere(NewField(nil, "id").Gt(3))
	join, err := NewJoin(InnerJoin, t2, t1.Col("id").Eq(t2.Col("t1_id")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Joins = append(s.Joins, join)
	s.Order, _ = NewOrder(NewField(nil, "name"))
	s.Limit, _ = NewLimit(10)
	s.Offset, _ = NewOffset(5)

	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
	if a, ok := s.Fields[1].(*FieldAlias); !ok || a.Alias != "n" {
		t.Errorf("expected second field aliased as n, got %#v", s.Fields[1])
	}
	if len(s.Joins) != 1 {
		t.Errorf("expected 1 join, got %d", len(s.Joins))
	}
	if s.Where == nil || s.Limit == nil || s.Offset == nil || s.Order == nil {
		t.Error("expected where, limit, offset and order to be set")
	}
	if s.Limit.Count != 10 || s.Offset.Offset != 5 {
		t.Errorf("expected limit 10 offset 5, got %d %d", s.Limit.Count, s.Offset.Offset)
	}
	if s.SourceTable() != t1 {
		t.Errorf("expected source table t1, got %v", s.SourceTable())
	}
}

func TestSelectSourceTableFallsBackToFields(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	s, _ := NewSelectStatement(nil)
	s.Fields = []Node{users.Col("id").As("uid")}
	if s.SourceTable() != users {
		t.Errorf("expected users, got %v", s.SourceTable())
	}
}

func TestDeleteStatementKeepsTableAndOperator(t *testing.T) {
	t.Parallel()
	d, err := NewDeleteStatement(NewTable("foo_table"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Where, _ = NewWhere(NewField(nil, "foo").Eq("bar"))

	if d.Table.Name != "foo_table" {
		t.Errorf("expected table foo_table, got %s", d.Table.Name)
	}
	cmp, ok := d.Where.Condition.(*Comparison)
	if !ok {
		t.Fatalf("expected comparison, got %T", d.Where.Condition)
	}
	if cmp.Op != "=" {
		t.Errorf("expected operator =, got %s", cmp.Op)
	}
}

func TestStatementsRejectNonTables(t *testing.T) {
	t.Parallel()
	sub, _ := NewSelectStatement(NewTable("x"))
	subSrc, _ := NewSubquerySource(sub, "s")
	bad := []Node{NewField(nil, "id"), NewConstant("users"), subSrc}

	for _, arg := range bad {
		if _, err := NewDeleteStatement(arg); err == nil || !strings.Contains(err.Error(), "Invalid table") {
			t.Errorf("delete %T: expected Invalid table error, got %v", arg, err)
		} else if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("delete %T: expected invalid argument, got %v", arg, err)
		}
		if _, err := NewUpdateStatement(arg); err == nil {
			t.Errorf("update %T: expected error", arg)
		}
		if _, err := NewInsertStatement(arg); err == nil {
			t.Errorf("insert %T: expected error", arg)
		}
	}
	if _, err := NewSelectStatement(NewField(nil, "id")); err == nil {
		t.Error("select: expected error for field as table")
	}
	if _, err := NewSelectStatement(subSrc); err != nil {
		t.Errorf("select: expected subquery source to be accepted, got %v", err)
	}
}

func TestInsertSetKeepsColumnOrder(t *testing.T) {
	t.Parallel()
	ins, _ := NewInsertStatement(NewTable("users"))
	a, _ := NewAssignment(NewField(nil, "name"), "a")
	b, _ := NewAssignment(NewField(nil, "email"), "b")
	c, _ := NewAssignment(NewField(nil, "name"), "c")
	ins.Set(a)
	ins.Set(b)
	ins.Set(c)

	if len(ins.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(ins.Values))
	}
	if ins.Values[0].Field.Name != "name" || ins.Values[0].Value.(*Constant).Value != "c" {
		t.Errorf("expected name=c first, got %s", ins.Values[0].Field.Name)
	}
}

func TestSelectCloneIsIndependent(t *testing.T) {
	t.Parallel()
	s, _ := NewSelectStatement(NewTable("users"))
	s.Fields = []Node{NewField(nil, "id")}
	c := s.Clone()
	c.Fields = append(c.Fields, NewField(nil, "name"))
	c.Where, _ = NewWhere(NewField(nil, "id").Eq(1))

	if len(s.Fields) != 1 || s.Where != nil {
		t.Error("expected original statement to be unchanged")
	}
}

// --- Table registration ---

func TestRegisterTablesSelect(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	posts := NewTable("posts")
	s, _ := NewSelectStatement(users)
	join, _ := NewJoin(InnerJoin, posts, users.Col("id").Eq(posts.Col("user_id")))
	s.Joins = []*JoinClause{join}

	p := NewParameters(bracketDialect{})
	RegisterTables(s, p)

	if p.DefaultTable() != users {
		t.Errorf("expected default users, got %v", p.DefaultTable())
	}
	if len(p.Tables()) != 2 {
		t.Errorf("expected 2 tables, got %d", len(p.Tables()))
	}
}

func TestRegisterTablesExplicitDefault(t *testing.T) {
	t.Parallel()
	t1 := NewTable("t1")
	s, _ := NewSelectStatement(NewTable("other"))
	s.DefaultTable = t1

	p := NewParameters(bracketDialect{})
	RegisterTables(s, p)
	if p.DefaultTable() != t1 {
		t.Errorf("expected default t1, got %v", p.DefaultTable())
	}
}

func TestRegisterTablesSkipsSubqueries(t *testing.T) {
	t.Parallel()
	inner, _ := NewSelectStatement(NewTable("inner"))
	s, _ := NewSelectStatement(NewTable("outer"))
	s.Where, _ = NewWhere(NewField(nil, "id").InQuery(inner))

	p := NewParameters(bracketDialect{})
	RegisterTables(s, p)
	for _, tbl := range p.Tables() {
		if tbl.Name == "inner" {
			t.Error("expected subquery table not to be registered in the outer scope")
		}
	}
}
