package main

import (
	"reflect"
	"strings"
	"testing"
)

func newTestCompleter(tables ...string) *replCompleter {
	sess := NewSession("postgres", nil)
	sess.tables = tables
	return &replCompleter{sess: sess}
}

// --- Context detection ---

func TestParseContext(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line       string
		wantCtx    completionContext
		wantPrefix string
	}{
		{"", contextCommand, ""},
		{"sel", contextCommand, "sel"},
		{"from ", contextTableName, ""},
		{"from us", contextTableName, "us"},
		{"join po", contextTableName, "po"},
		{"left join po", contextTableName, "po"},
		{"insert into us", contextTableName, "us"},
		{"join posts on users.", contextColumnRef, "users."},
		{"where ", contextColumnRef, ""},
		{"where users.na", contextColumnRef, "users.na"},
		{"where users.name ", contextOperator, ""},
		{"select users.id, users.n", contextColumnRef, "users.n"},
		{"order users.name ", contextOrderDir, ""},
		{"order users.name desc, ", contextColumnRef, ""},
		{"engine my", contextEngine, "my"},
		{"plugin so", contextPlugin, "so"},
		{"plugin off so", contextPluginOff, "so"},
		{"plugin softdelete deleted_at", contextNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			c := newTestCompleter()
			ctx, prefix := c.parseContext(tt.line)
			if ctx != tt.wantCtx || prefix != tt.wantPrefix {
				t.Errorf("parseContext(%q) = (%d, %q), want (%d, %q)", tt.line, ctx, prefix, tt.wantCtx, tt.wantPrefix)
			}
		})
	}
}

// --- Candidates ---

func TestCompleteTableNames(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users", "posts", "comments", "users")
	if got := c.completeTableNames("u"); !reflect.DeepEqual(got, []string{"users"}) {
		t.Errorf("expected [users], got %v", got)
	}
	if got := c.completeTableNames(""); !reflect.DeepEqual(got, []string{"comments", "posts", "users"}) {
		t.Errorf("expected sorted unique tables, got %v", got)
	}
}

func TestCompleteColumnRefWithoutConnection(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	got := c.completeColumnRef("users.")
	if !reflect.DeepEqual(got, []string{"users.*"}) {
		t.Errorf("expected [users.*], got %v", got)
	}
	got = c.completeColumnRef("co")
	if !reflect.DeepEqual(got, []string{"COALESCE(", "COUNT("}) {
		t.Errorf("expected function names, got %v", got)
	}
}

func TestDoReturnsSuffixes(t *testing.T) {
	t.Parallel()
	c := newTestCompleter("users")
	line := []rune("from u")
	newLine, length := c.Do(line, len(line))
	if length != 1 {
		t.Errorf("expected length 1, got %d", length)
	}
	if len(newLine) != 1 || string(newLine[0]) != "sers " {
		t.Errorf("expected [\"sers \"], got %q", newLine)
	}

	line = []rune("select cou")
	newLine, _ = c.Do(line, len(line))
	if len(newLine) != 1 || string(newLine[0]) != "NT(" {
		t.Errorf("expected function suffix without trailing space, got %q", newLine)
	}
}

func TestDoEmptyLineListsCommands(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	newLine, length := c.Do(nil, 0)
	if length != 0 {
		t.Errorf("expected length 0, got %d", length)
	}
	if len(newLine) != len(c.sess.commandNames()) {
		t.Errorf("expected %d commands, got %d", len(c.sess.commandNames()), len(newLine))
	}
}

func TestCommandNamesSkipHidden(t *testing.T) {
	t.Parallel()
	names := strings.Join(newTestCompleter().sess.commandNames(), " ")
	for _, want := range []string{"from", "left join", "insert into", "exit", "plugin"} {
		if !strings.Contains(names, want) {
			t.Errorf("expected %q in %s", want, names)
		}
	}
	for _, hidden := range []string{"tosql", "take", "outer join", "parameterize"} {
		if strings.Contains(names, hidden) {
			t.Errorf("hidden command %q listed in %s", hidden, names)
		}
	}
}

func TestCompletePluginOffNames(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	c.sess.out = &strings.Builder{}
	if err := c.sess.Execute("plugin softdelete"); err != nil {
		t.Fatal(err)
	}
	line := []rune("plugin off ")
	newLine, _ := c.Do(line, len(line))
	if len(newLine) != 1 || string(newLine[0]) != "softdelete " {
		t.Errorf("expected softdelete, got %q", newLine)
	}
}

func TestFilterPrefixCaseInsensitive(t *testing.T) {
	t.Parallel()
	got := filterPrefix([]string{"Users", "posts", "uploads"}, "U")
	if !reflect.DeepEqual(got, []string{"Users", "uploads"}) {
		t.Errorf("got %v", got)
	}
}

func TestLastToken(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"a, b":        "b",
		"count(users": "users",
		"users.id":    "users.id",
		"x ":          "",
	} {
		if got := lastToken(in); got != want {
			t.Errorf("lastToken(%q) = %q, want %q", in, got, want)
		}
	}
}
