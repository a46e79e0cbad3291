package main

import (
	"reflect"
	"testing"

	"github.com/EgbertW/WASP-sub001/internal/testutil"
	"github.com/EgbertW/WASP-sub001/visitors"
)

// --- Tokenizer ---

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  []string
	}{
		{"users.age > 18", []string{"users.age", ">", "18"}},
		{"name = 'O''Brien'", []string{"name", "=", "'O''Brien'"}},
		{"a<>b", []string{"a", "<>", "b"}},
		{"a != b", []string{"a", "!=", "b"}},
		{"a>=1 and b<=2", []string{"a", ">=", "1", "and", "b", "<=", "2"}},
		{"id in (1, 2)", []string{"id", "in", "(", "1", ",", "2", ")"}},
		{"name = 'a b, c'", []string{"name", "=", "'a b, c'"}},
		{"count(*)", []string{"count", "(", "*", ")"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// --- Values ---

func TestParseValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		token string
		want  any
	}{
		{"'hello'", "hello"},
		{"'it''s'", "it's"},
		{"42", 42},
		{"-3", -3},
		{"2.5", 2.5},
		{"TRUE", true},
		{"false", false},
		{"null", nil},
	}
	for _, tt := range tests {
		got, err := parseValue(tt.token)
		testutil.AssertNoError(t, err)
		if got != tt.want {
			t.Errorf("parseValue(%q) = %#v, want %#v", tt.token, got, tt.want)
		}
	}

	_, err := parseValue("bare")
	testutil.AssertErrorContains(t, err, "cannot parse value")
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()
	for _, ok := range []string{"id", "users.id", "_x1"} {
		if !isIdentifier(ok) {
			t.Errorf("expected %q to be an identifier", ok)
		}
	}
	for _, bad := range []string{"", "1a", "'x'", "a.b.c", "null", "true", "a-b"} {
		if isIdentifier(bad) {
			t.Errorf("expected %q not to be an identifier", bad)
		}
	}
}

// --- Conditions ---

func TestParseCondition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"users.id = 1", `"users"."id" = 1`},
		{"users.name <> 'bob'", `"users"."name" <> 'bob'`},
		{"users.name like 'a%'", `"users"."name" LIKE 'a%'`},
		{"users.name not like 'a%'", `"users"."name" NOT LIKE 'a%'`},
		{"users.id in (1, 2, 3)", `"users"."id" IN (1, 2, 3)`},
		{"users.id not in (4)", `"users"."id" NOT IN (4)`},
		{"users.id in ()", "1 = 0"},
		{"users.email is null", `"users"."email" IS NULL`},
		{"users.email is not null", `"users"."email" IS NOT NULL`},
		{"users.id = posts.user_id", `"users"."id" = "posts"."user_id"`},
		{"users.a = 1 and users.b = 2", `"users"."a" = 1 AND "users"."b" = 2`},
		{"users.a = 1 or users.b = 2 and users.c = 3", `"users"."a" = 1 OR ("users"."b" = 2 AND "users"."c" = 3)`},
		{"users.a = 1 and (users.b = 2 or users.c = 3)", `"users"."a" = 1 AND ("users"."b" = 2 OR "users"."c" = 3)`},
		{"not users.active = true", `NOT ("users"."active" = TRUE)`},
		{"count(*) > 1", "COUNT(*) > 1"},
		{"max(orders.total) >= 10", `MAX("orders"."total") >= 10`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			cond, err := parseCondition(tt.input)
			testutil.AssertNoError(t, err)
			testutil.AssertSQL(t, visitors.NewPostgresVisitor(visitors.WithoutParams()), cond, tt.want)
		})
	}
}

func TestParseConditionErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"", "empty condition"},
		{"users.id", "expected: <column> <operator> <value>"},
		{"users.id = 1 and", "expected a condition after AND"},
		{"users.id ~ 1", "unknown operator"},
		{"users.id is maybe", "expected NULL or NOT NULL"},
		{"users.id not between 1", "expected IN or LIKE after NOT"},
		{"users.id = 1 2", "expected one value"},
		{"42 = users.id", "expected a column"},
		{"count(users.id > 1", "missing )"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			_, err := parseCondition(tt.input)
			testutil.AssertErrorContains(t, err, tt.want)
		})
	}
}

// --- Fields and assignments ---

func TestParseFields(t *testing.T) {
	t.Parallel()
	fields, err := parseFields("*, users.*, users.name, count(*) as n, lower(users.email) AS e")
	testutil.AssertNoError(t, err)
	want := []string{`*`, `"users".*`, `"users"."name"`, `COUNT(*) AS "n"`, `LOWER("users"."email") AS "e"`}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(fields))
	}
	for i, f := range fields {
		testutil.AssertSQL(t, visitors.NewPostgresVisitor(), f, want[i])
	}
}

func TestParseFieldErrors(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"a.b.*", "users.name as", "users.name users", "'x'"} {
		if _, err := parseField(input); err == nil {
			t.Errorf("parseField(%q): expected an error", input)
		}
	}
	_, err := parseFields(" , ")
	testutil.AssertErrorContains(t, err, "no fields given")
}

func TestSplitTopLevelCommas(t *testing.T) {
	t.Parallel()
	got := splitTopLevelCommas("a, coalesce(b, c), 'x, y'")
	want := []string{"a", " coalesce(b, c)", " 'x, y'"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseAssignment(t *testing.T) {
	t.Parallel()
	a, err := parseAssignment("name = 'Bob'")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, a.Field.Name, "name")
	testutil.AssertSQL(t, visitors.NewPostgresVisitor(visitors.WithoutParams()), a.Value, "'Bob'")

	a, err = parseAssignment("total = users.subtotal")
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, visitors.NewPostgresVisitor(), a.Value, `"users"."subtotal"`)

	_, err = parseAssignment("name 'Bob'")
	testutil.AssertErrorContains(t, err, "expected: <column> = <value>")
}
