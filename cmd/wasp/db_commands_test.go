package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/EgbertW/WASP-sub001/internal/testutil"
)

// connectedSession returns a sqlite session connected to a fresh
// in-memory database holding a users table.
func connectedSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	sess, buf := newBufferedSession("sqlite")
	testutil.AssertNoError(t, sess.Execute("connect :memory:"))
	t.Cleanup(func() {
		if sess.conn != nil {
			_ = sess.conn.Close()
		}
	})
	_, err := sess.conn.SQL().Exec("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT)")
	testutil.AssertNoError(t, err)
	buf.Reset()
	return sess, buf
}

func runCommands(t *testing.T, sess *Session, commands ...string) {
	t.Helper()
	for _, cmd := range commands {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("command %q failed: %v", cmd, err)
		}
	}
}

func TestConnectDisconnect(t *testing.T) {
	t.Parallel()
	sess, buf := newBufferedSession("sqlite")
	runCommands(t, sess, "connect :memory:")
	if !strings.Contains(buf.String(), "Connected to :memory: (sqlite)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	testutil.AssertErrorContains(t, sess.Execute("connect :memory:"), "already connected")

	runCommands(t, sess, "disconnect")
	if sess.conn != nil {
		t.Error("expected connection to be closed")
	}
	testutil.AssertErrorContains(t, sess.Execute("disconnect"), "not connected")

	// connect without a DSN reuses the last one.
	runCommands(t, sess, "connect")
	testutil.AssertNoError(t, sess.conn.Close())
}

func TestConnectRequiresDSN(t *testing.T) {
	t.Parallel()
	sess, _ := newBufferedSession("sqlite")
	testutil.AssertErrorContains(t, sess.Execute("connect"), "usage: connect <dsn>")
}

func TestExecWithoutConnection(t *testing.T) {
	t.Parallel()
	sess, _ := newBufferedSession("sqlite")
	runCommands(t, sess, "from users")
	testutil.AssertErrorContains(t, sess.Execute("exec"), "not connected")
}

func TestExecWithoutQuery(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	testutil.AssertErrorIs(t, sess.Execute("exec"), errNoQuery)
}

func TestExecRoundTrip(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)

	runCommands(t, sess, "insert into users", "columns name, email", "values 'Alice', 'alice@example.com'", "exec")
	runCommands(t, sess, "insert into users", "set name = 'Bob'", "exec")
	if got := strings.Count(buf.String(), "1 row(s) affected"); got != 2 {
		t.Errorf("expected two inserts, got:\n%s", buf.String())
	}

	buf.Reset()
	runCommands(t, sess, "update users", "set email = 'bob@example.com'", "where name = 'Bob'", "run")
	if !strings.Contains(buf.String(), "1 row(s) affected") {
		t.Errorf("expected one updated row, got:\n%s", buf.String())
	}

	buf.Reset()
	runCommands(t, sess, "from users", "select id, name, email", "order id", "exec")
	want := "" +
		"+----+-------+-------------------+\n" +
		"| id | name  | email             |\n" +
		"+----+-------+-------------------+\n" +
		"| 1  | Alice | alice@example.com |\n" +
		"| 2  | Bob   | bob@example.com   |\n" +
		"+----+-------+-------------------+\n" +
		"(2 rows)\n"
	testutil.AssertEqual(t, buf.String(), want)
}

func TestExecNullDisplayAndReturning(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess, "insert into users", "set name = 'Carol'", "returning id, email", "exec")
	if !strings.Contains(buf.String(), "| 1  | NULL  |") {
		t.Errorf("expected returned row with NULL email, got:\n%s", buf.String())
	}
}

func TestExecBindsValuesEvenWhenInlined(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess, "insert into users", "set name = 'O''Brien'", "exec")

	buf.Reset()
	runCommands(t, sess, "from users", "select name", "where name = 'O''Brien'", "exec")
	if !strings.Contains(buf.String(), "O'Brien") || !strings.Contains(buf.String(), "(1 row)") {
		t.Errorf("expected one matching row, got:\n%s", buf.String())
	}
}

func TestExecReportsQueryErrors(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	runCommands(t, sess, "from missing")
	testutil.AssertErrorContains(t, sess.Execute("exec"), "no such table")
}

func TestExecEngineMismatchWarning(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess, "engine postgres", "from users")
	_ = sess.Execute("exec")
	if !strings.Contains(buf.String(), "Warning: connected to sqlite but engine is set to postgres") {
		t.Errorf("expected mismatch warning, got:\n%s", buf.String())
	}
}

func TestTablesAndDescribe(t *testing.T) {
	t.Parallel()
	sess, buf := connectedSession(t)
	runCommands(t, sess, "tables")
	testutil.AssertEqual(t, buf.String(), "  users\n")

	buf.Reset()
	runCommands(t, sess, "describe users")
	testutil.AssertEqual(t, buf.String(), "  id\n  name\n  email\n")

	testutil.AssertErrorContains(t, sess.Execute("describe nope"), `table "nope" not found`)
}

func TestCompletionUsesConnectedSchema(t *testing.T) {
	t.Parallel()
	sess, _ := connectedSession(t)
	runCommands(t, sess, "tables")
	c := &replCompleter{sess: sess}

	got := c.completeColumnRef("users.e")
	if len(got) != 1 || got[0] != "users.email" {
		t.Errorf("expected [users.email], got %v", got)
	}
	if _, ok := sess.columns["users"]; !ok {
		t.Error("expected columns to be cached")
	}
}
