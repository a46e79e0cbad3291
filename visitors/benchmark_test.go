package visitors

import (
	"testing"

	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins/softdelete"
	"github.com/EgbertW/WASP-sub001/schema"
)

// BenchmarkSimpleSelect benchmarks a basic single-table SELECT query.
func BenchmarkSimpleSelect(b *testing.B) {
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).
		Select(users.Col("id"), users.Col("name"), users.Col("email")).
		Where(users.Col("active").Eq(true)).
		Order(users.Col("name").Asc()).
		Limit(10)
	v := NewPostgresVisitor()

	b.ResetTimer()
	for b.Loop() {
		_, _, _ = m.ToSQL(v)
	}
}

// BenchmarkComplexJoinQuery benchmarks a multi-join query with grouping.
func BenchmarkComplexJoinQuery(b *testing.B) {
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	comments := nodes.NewTable("comments")

	m := managers.NewSelectManager(users)
	m.Select(
		users.Col("name"),
		nodes.Count(posts.Col("id")).As("post_count"),
		nodes.Count(comments.Col("id")).As("comment_count"),
	)
	m.Join(posts).On(users.Col("id").Eq(posts.Col("user_id")))
	m.Join(comments, nodes.LeftJoin).On(posts.Col("id").Eq(comments.Col("post_id")))
	m.Where(users.Col("active").Eq(true))
	m.Where(posts.Col("published").Eq(true))
	m.Group(users.Col("name"))
	m.Having(nodes.Count(posts.Col("id")).Gt(5))
	m.Order(users.Col("name").Asc())
	m.Limit(20)
	m.Offset(10)
	v := NewPostgresVisitor()

	b.ResetTimer()
	for b.Loop() {
		_, _, _ = m.ToSQL(v)
	}
}

// BenchmarkInlineLiterals benchmarks rendering without bind parameters.
func BenchmarkInlineLiterals(b *testing.B) {
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Where(users.Col("age").Gt(18)).
		Where(users.Col("role").In("admin", "editor")).
		Order(users.Col("name").Asc()).
		Limit(10)
	v := NewPostgresVisitor(WithoutParams())

	b.ResetTimer()
	for b.Loop() {
		_, _, _ = m.ToSQL(v)
	}
}

// BenchmarkClone benchmarks the cost of cloning a SelectStatement.
func BenchmarkClone(b *testing.B) {
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")

	m := managers.NewSelectManager(users)
	m.Select(users.Col("id"), users.Col("name"), users.Col("email"))
	m.Join(posts).On(users.Col("id").Eq(posts.Col("user_id")))
	m.Where(users.Col("active").Eq(true))
	m.Where(posts.Col("published").Eq(true))
	m.Order(users.Col("name").Asc())

	b.ResetTimer()
	for b.Loop() {
		_ = m.Statement.Clone()
	}
}

// BenchmarkWithTransformers benchmarks query generation with the
// soft-delete plugin.
func BenchmarkWithTransformers(b *testing.B) {
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Use(softdelete.New())
	v := NewPostgresVisitor()

	b.ResetTimer()
	for b.Loop() {
		_, _, _ = m.ToSQL(v)
	}
}

// BenchmarkMySQL benchmarks the MySQL visitor.
func BenchmarkMySQL(b *testing.B) {
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Order(users.Col("name").Asc()).
		Limit(10)
	v := NewMySQLVisitor()

	b.ResetTimer()
	for b.Loop() {
		_, _, _ = m.ToSQL(v)
	}
}

// BenchmarkCreateTable benchmarks DDL generation.
func BenchmarkCreateTable(b *testing.B) {
	tbl := schema.NewTable("orders").
		AddColumn(
			schema.NewColumn("id", schema.BigInt, schema.AutoIncrement()),
			schema.NewColumn("reference", schema.Varchar, schema.Size(32)),
			schema.NewColumn("total", schema.Decimal, schema.Precision(10, 2)),
		).
		AddIndex(schema.NewIndex(schema.Primary, "id"), schema.NewIndex(schema.Unique, "reference"))
	v := NewSQLiteVisitor()

	b.ResetTimer()
	for b.Loop() {
		_, _ = v.CreateTable(tbl)
	}
}
