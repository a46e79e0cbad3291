package softdelete

import (
	"testing"

	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
	"github.com/EgbertW/WASP-sub001/visitors"
)

func toSQL(t *testing.T, s *nodes.SelectStatement) string {
	t.Helper()
	v := visitors.NewPostgresVisitor()
	got := s.Accept(v)
	if err := v.Err(); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	return got
}

func selectFrom(t *testing.T, table nodes.Node) *nodes.SelectStatement {
	t.Helper()
	s, err := nodes.NewSelectStatement(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func usersJoinPosts(t *testing.T) *nodes.SelectStatement {
	t.Helper()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	s := selectFrom(t, users)
	j, err := nodes.NewJoin(nodes.InnerJoin, posts, users.Col("id").Eq(posts.Col("user_id")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Joins = []*nodes.JoinClause{j}
	return s
}

func transform(t *testing.T, sd *SoftDelete, s *nodes.SelectStatement) *nodes.SelectStatement {
	t.Helper()
	result, err := sd.TransformSelect(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func assertSQL(t *testing.T, got, expected string) {
	t.Helper()
	if got != expected {
		t.Errorf("expected:\n  %s\ngot:\n  %s", expected, got)
	}
}

// --- Default behaviour ---

func TestDefaultColumnDeletedAt(t *testing.T) {
	t.Parallel()
	result := transform(t, New(), selectFrom(t, nodes.NewTable("users")))
	assertSQL(t, toSQL(t, result), `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`)
}

func TestCustomColumnName(t *testing.T) {
	t.Parallel()
	result := transform(t, New(WithColumn("removed_at")), selectFrom(t, nodes.NewTable("users")))
	assertSQL(t, toSQL(t, result), `SELECT * FROM "users" WHERE "users"."removed_at" IS NULL`)
}

func TestPreservesExistingWhere(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	s := selectFrom(t, users)
	w, err := nodes.NewWhere(users.Col("active").Eq(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Where = w

	result := transform(t, New(), s)
	assertSQL(t, toSQL(t, result), `SELECT * FROM "users" WHERE "users"."active" = $1 AND "users"."deleted_at" IS NULL`)
}

func TestAppliedToJoinedTables(t *testing.T) {
	t.Parallel()
	result := transform(t, New(), usersJoinPosts(t))
	assertSQL(t, toSQL(t, result),
		`SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id" `+
			`WHERE "users"."deleted_at" IS NULL AND "posts"."deleted_at" IS NULL`)
}

func TestWithTablesFiltersToSpecifiedTables(t *testing.T) {
	t.Parallel()
	result := transform(t, New(WithTables("users")), usersJoinPosts(t))
	assertSQL(t, toSQL(t, result),
		`SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id" WHERE "users"."deleted_at" IS NULL`)
}

func TestAppliedToTableAlias(t *testing.T) {
	t.Parallel()
	result := transform(t, New(), selectFrom(t, nodes.NewTable("users").As("u")))
	assertSQL(t, toSQL(t, result), `SELECT * FROM "users" AS "u" WHERE "u"."deleted_at" IS NULL`)
}

func TestWithTablesMatchesByUnderlyingName(t *testing.T) {
	t.Parallel()
	result := transform(t, New(WithTables("users")), selectFrom(t, nodes.NewTable("users").As("u")))
	if result.Where == nil {
		t.Error("expected a where clause for the aliased users table")
	}
}

func TestNoTablesIsNoOp(t *testing.T) {
	t.Parallel()
	result := transform(t, New(), selectFrom(t, nil))
	if result.Where != nil {
		t.Errorf("expected no where clause, got %v", result.Where)
	}
}

func TestDerivedFromUsesDefaultTable(t *testing.T) {
	t.Parallel()
	s := selectFrom(t, nil)
	s.DefaultTable = nodes.NewTable("accounts")
	s.Fields = []nodes.Node{nodes.NewField(nil, "id")}

	result := transform(t, New(), s)
	assertSQL(t, toSQL(t, result), `SELECT "accounts"."id" FROM "accounts" WHERE "accounts"."deleted_at" IS NULL`)
}

// --- Per-table column overrides ---

func TestWithTableColumn(t *testing.T) {
	t.Parallel()
	result := transform(t, New(WithTableColumn("users", "removed_at")), selectFrom(t, nodes.NewTable("users")))
	assertSQL(t, toSQL(t, result), `SELECT * FROM "users" WHERE "users"."removed_at" IS NULL`)
}

func TestWithTableColumnMultiple(t *testing.T) {
	t.Parallel()
	sd := New(
		WithTableColumn("users", "deleted_at"),
		WithTableColumn("posts", "removed_at"),
	)
	result := transform(t, sd, usersJoinPosts(t))
	assertSQL(t, toSQL(t, result),
		`SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id" `+
			`WHERE "users"."deleted_at" IS NULL AND "posts"."removed_at" IS NULL`)
}

func TestWithTableColumnFallsBackToDefault(t *testing.T) {
	t.Parallel()
	sd := New(
		WithTableColumn("posts", "removed_at"),
		WithTables("users", "posts"),
	)
	result := transform(t, sd, usersJoinPosts(t))
	assertSQL(t, toSQL(t, result),
		`SELECT * FROM "users" INNER JOIN "posts" ON "users"."id" = "posts"."user_id" `+
			`WHERE "users"."deleted_at" IS NULL AND "posts"."removed_at" IS NULL`)
	if got := len(sd.Tables()); got != 2 {
		t.Errorf("expected 2 whitelisted tables, got %d", got)
	}
}

func TestImplementsTransformer(t *testing.T) {
	t.Parallel()
	var _ plugins.Transformer = New()
}
