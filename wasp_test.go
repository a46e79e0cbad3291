package wasp_test

import (
	"context"
	"errors"
	"testing"

	wasp "github.com/EgbertW/WASP-sub001"
	"github.com/EgbertW/WASP-sub001/q"
	"github.com/EgbertW/WASP-sub001/schema"
)

func TestSelectAcrossDialects(t *testing.T) {
	t.Parallel()
	stmt, err := wasp.Select(
		q.Table("users"),
		"id", "name",
		q.Must(q.Where(q.Must(q.Equals("active", true)))),
		q.Must(q.Order("name")),
		q.Must(q.Limit(10)),
	)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	tests := []struct {
		name string
		sql  func() (string, error)
		want string
	}{
		{"postgres", func() (string, error) {
			s, _, err := stmt.ToSQL(wasp.NewPostgresVisitor())
			return s, err
		}, `SELECT "users"."id", "users"."name" FROM "users" WHERE "users"."active" = $1 ORDER BY "users"."name" ASC LIMIT 10`},
		{"mysql", func() (string, error) {
			s, _, err := stmt.ToSQL(wasp.NewMySQLVisitor())
			return s, err
		}, "SELECT `users`.`id`, `users`.`name` FROM `users` WHERE `users`.`active` = ? ORDER BY `users`.`name` ASC LIMIT 10"},
		{"sqlite inline", func() (string, error) {
			s, _, err := stmt.ToSQL(wasp.NewSQLiteVisitor(wasp.WithoutParams()))
			return s, err
		}, `SELECT "users"."id", "users"."name" FROM "users" WHERE "users"."active" = TRUE ORDER BY "users"."name" ASC LIMIT 10`},
	}
	for _, tt := range tests {
		got, err := tt.sql()
		if err != nil {
			t.Fatalf("%s: ToSQL failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s:\nexpected:\n  %s\ngot:\n  %s", tt.name, tt.want, got)
		}
	}
}

func TestDMLConstructors(t *testing.T) {
	t.Parallel()
	ins, err := wasp.Insert("users", q.Must(q.Set("name", "Alice")))
	if err != nil {
		t.Fatal(err)
	}
	upd, err := wasp.Update("users", q.Must(q.Set("name", "Bob")), q.Must(q.Where(q.Must(q.Equals("id", 1)))))
	if err != nil {
		t.Fatal(err)
	}
	del, err := wasp.Delete("users", q.Must(q.Where(q.Must(q.Equals("id", 1)))))
	if err != nil {
		t.Fatal(err)
	}

	v := wasp.NewPostgresVisitor()
	if s, _, err := ins.ToSQL(v); err != nil || s != `INSERT INTO "users" ("name") VALUES ($1)` {
		t.Errorf("insert: %q, %v", s, err)
	}
	if s, _, err := upd.ToSQL(v); err != nil || s != `UPDATE "users" SET "name" = $1 WHERE "users"."id" = $2` {
		t.Errorf("update: %q, %v", s, err)
	}
	if s, _, err := del.ToSQL(v); err != nil || s != `DELETE FROM "users" WHERE "users"."id" = $1` {
		t.Errorf("delete: %q, %v", s, err)
	}
}

func TestErrorsAreShared(t *testing.T) {
	t.Parallel()
	_, err := wasp.Delete(42)
	if !errors.Is(err, wasp.ErrInvalidArgument) || !errors.Is(err, q.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	var argErr *wasp.ArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("expected *ArgumentError, got %T", err)
	}

	_, err = q.Compare("id", "===", 1)
	if !errors.Is(err, wasp.ErrInvalidOperator) {
		t.Errorf("expected invalid operator, got %v", err)
	}

	stmt, err := wasp.Update("users", q.Must(q.Set("name", "x")), q.Must(q.Returning("id")))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = stmt.ToSQL(wasp.NewMySQLVisitor())
	if !errors.Is(err, wasp.ErrUnsupported) {
		t.Errorf("expected unsupported RETURNING on MySQL, got %v", err)
	}
}

func TestOpenAndMigrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	conn, err := wasp.Open(ctx, wasp.Config{Engine: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	tbl := wasp.NewTable("notes").AddColumn(
		schema.NewColumn("id", schema.Integer, schema.AutoIncrement()),
		schema.NewColumn("body", schema.Text),
	).AddIndex(schema.NewIndex(schema.Primary, "id"))
	if err := conn.Migrate(ctx, tbl); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	ins, err := wasp.Insert("notes", q.Must(q.Set("body", "hello")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(ctx, ins); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	sel, err := wasp.Select(q.Table("notes"), q.Must(q.Count(nil)))
	if err != nil {
		t.Fatal(err)
	}
	rows, err := conn.Query(ctx, sel)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer func() { _ = rows.Close() }()
	var n int
	if !rows.Next() {
		t.Fatal("expected a row")
	}
	if err := rows.Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 note, got %d", n)
	}
}
