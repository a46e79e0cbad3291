package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/EgbertW/WASP-sub001/db"
	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
	"github.com/EgbertW/WASP-sub001/q"
	"github.com/EgbertW/WASP-sub001/visitors"
)

var errNoQuery = errors.New("no query defined (use 'from <table>' first)")

// dmlMode tracks which kind of statement the console is building.
type dmlMode int

const (
	modeSelect dmlMode = iota
	modeInsert
	modeUpdate
	modeDelete
)

// Session holds the console state: the statement being built, the engine,
// enabled plugins and the database connection.
type Session struct {
	engine       string
	parameterize bool
	mode         dmlMode
	query        *managers.SelectManager
	insertQuery  *managers.InsertManager
	insertCols   []nodes.Node
	updateQuery  *managers.UpdateManager
	deleteQuery  *managers.DeleteManager
	plugins      pluginRegistry
	configurers  []pluginConfigurer
	commands     []commandEntry
	conn         *db.DB
	lastDSN      string
	tables       []string            // table names of the connected database, for completion
	columns      map[string][]string // per-table column cache, for completion
	logger       hclog.Logger
	out          io.Writer
}

// NewSession creates a session for the given engine.
func NewSession(engine string, logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Session{
		engine: engine,
		logger: logger,
		out:    os.Stdout,
	}
	s.configurers = []pluginConfigurer{
		{name: "softdelete", configure: configureSoftdelete},
	}
	if !isValidEngine(engine) {
		s.engine = db.EnginePostgres
	}
	s.initCommands()
	return s
}

func isValidEngine(engine string) bool {
	for _, e := range db.Engines() {
		if e == engine {
			return true
		}
	}
	return false
}

// pluginNames returns the names of all known plugins.
func (s *Session) pluginNames() []string {
	names := make([]string, len(s.configurers))
	for i, c := range s.configurers {
		names[i] = c.name
	}
	return names
}

// visitor returns a fresh visitor for the engine, rendering values inline
// unless parameterized output is enabled.
func (s *Session) visitor() managers.Visitor {
	var opts []visitors.Option
	if !s.parameterize {
		opts = append(opts, visitors.WithoutParams())
	}
	v, err := db.NewVisitor(s.engine, opts...)
	if err != nil {
		v, _ = db.NewVisitor(db.EnginePostgres, opts...)
	}
	return v
}

// current returns the statement being built.
func (s *Session) current() (db.Renderer, error) {
	switch s.mode {
	case modeInsert:
		if s.insertQuery != nil {
			return s.insertQuery, nil
		}
		return nil, errors.New("no INSERT query defined")
	case modeUpdate:
		if s.updateQuery != nil {
			return s.updateQuery, nil
		}
		return nil, errors.New("no UPDATE query defined")
	case modeDelete:
		if s.deleteQuery != nil {
			return s.deleteQuery, nil
		}
		return nil, errors.New("no DELETE query defined")
	}
	if s.query == nil {
		return nil, errNoQuery
	}
	return s.query, nil
}

// GenerateSQL renders the current statement.
func (s *Session) GenerateSQL() (string, *nodes.Parameters, error) {
	stmt, err := s.current()
	if err != nil {
		return "", nil, err
	}
	return stmt.ToSQL(s.visitor())
}

// Execute parses and runs a single console command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

func (s *Session) setMode(mode dmlMode) {
	s.mode = mode
	s.query = nil
	s.insertQuery = nil
	s.insertCols = nil
	s.updateQuery = nil
	s.deleteQuery = nil
}

// rebuildWithPlugins replaces the transformers of the current statement
// with fresh instances of the enabled plugins.
func (s *Session) rebuildWithPlugins() {
	use := s.plugins.applyTo
	switch {
	case s.query != nil:
		m := managers.NewSelectManager(nil)
		m.Statement = s.query.Statement
		use(func(t plugins.Transformer) { m.Use(t) })
		s.query = m
	case s.insertQuery != nil:
		m := managers.NewInsertManager(s.insertQuery.Statement.Table)
		m.Statement = s.insertQuery.Statement
		use(func(t plugins.Transformer) { m.Use(t) })
		s.insertQuery = m
	case s.updateQuery != nil:
		m := managers.NewUpdateManager(s.updateQuery.Statement.Table)
		m.Statement = s.updateQuery.Statement
		use(func(t plugins.Transformer) { m.Use(t) })
		s.updateQuery = m
	case s.deleteQuery != nil:
		m := managers.NewDeleteManager(s.deleteQuery.Statement.Table)
		m.Statement = s.deleteQuery.Statement
		use(func(t plugins.Transformer) { m.Use(t) })
		s.deleteQuery = m
	}
}

// --- Query building ---

func (s *Session) cmdFrom(args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: from <table>")
	}
	src, err := q.From(name)
	if err != nil {
		return err
	}
	s.setMode(modeSelect)
	s.query = managers.NewSelectManager(src)
	s.plugins.applyTo(func(t plugins.Transformer) { s.query.Use(t) })
	_, _ = fmt.Fprintf(s.out, "  Query FROM %q\n", name)
	return nil
}

func (s *Session) cmdDefault(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	d, err := q.With(strings.TrimSpace(args))
	if err != nil {
		return err
	}
	s.query.Default(d.Table)
	_, _ = fmt.Fprintf(s.out, "  Default table set to %q\n", d.Table.Name)
	return nil
}

func (s *Session) cmdSelect(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	fields, err := parseFields(args)
	if err != nil {
		return err
	}
	s.query.Select(fields...)
	_, _ = fmt.Fprintf(s.out, "  Fields set (%d columns)\n", len(fields))
	return nil
}

func (s *Session) cmdDistinct() error {
	if s.query == nil {
		return errNoQuery
	}
	s.query.Distinct()
	_, _ = fmt.Fprintln(s.out, "  DISTINCT enabled")
	return nil
}

func (s *Session) cmdWhere(args string) error {
	cond, err := parseCondition(args)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	switch s.mode {
	case modeUpdate:
		if s.updateQuery == nil {
			return errors.New("no UPDATE query defined")
		}
		s.updateQuery.Where(cond)
	case modeDelete:
		if s.deleteQuery == nil {
			return errors.New("no DELETE query defined")
		}
		s.deleteQuery.Where(cond)
	case modeInsert:
		return errors.New("INSERT takes no WHERE condition")
	default:
		if s.query == nil {
			return errNoQuery
		}
		s.query.Where(cond)
	}
	_, _ = fmt.Fprintln(s.out, "  WHERE condition added")
	return nil
}

func (s *Session) cmdGroup(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var exprs []any
	for _, p := range splitTopLevelCommas(args) {
		if p = strings.TrimSpace(p); p != "" {
			exprs = append(exprs, p)
		}
	}
	g, err := q.Group(exprs...)
	if err != nil {
		return err
	}
	s.query.Group(g.Exprs...)
	_, _ = fmt.Fprintf(s.out, "  GROUP BY set (%d columns)\n", len(g.Exprs))
	return nil
}

func (s *Session) cmdHaving(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	cond, err := parseCondition(args)
	if err != nil {
		return fmt.Errorf("having: %w", err)
	}
	s.query.Having(cond)
	_, _ = fmt.Fprintln(s.out, "  HAVING condition added")
	return nil
}

func (s *Session) cmdOrder(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var terms []any
	for _, p := range strings.Split(args, ",") {
		if p = strings.TrimSpace(p); p != "" {
			terms = append(terms, p)
		}
	}
	o, err := q.Order(terms...)
	if err != nil {
		return err
	}
	list := make([]nodes.Node, len(o.Terms))
	for i, t := range o.Terms {
		list[i] = t
	}
	s.query.Order(list...)
	_, _ = fmt.Fprintf(s.out, "  ORDER BY set (%d columns)\n", len(list))
	return nil
}

func (s *Session) cmdLimit(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("limit requires an integer, got %q", args)
	}
	if _, err := q.Limit(n); err != nil {
		return err
	}
	s.query.Limit(n)
	_, _ = fmt.Fprintf(s.out, "  LIMIT set to %d\n", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("offset requires an integer, got %q", args)
	}
	if _, err := q.Offset(n); err != nil {
		return err
	}
	s.query.Offset(n)
	_, _ = fmt.Fprintf(s.out, "  OFFSET set to %d\n", n)
	return nil
}

func (s *Session) cmdJoin(args string, joinType nodes.JoinType) error {
	if s.query == nil {
		return errNoQuery
	}
	lower := strings.ToLower(args)
	onIdx := strings.Index(lower, " on ")
	if onIdx < 0 {
		return errors.New("expected: <table> on <condition>")
	}
	tableName := strings.TrimSpace(args[:onIdx])
	cond, err := parseCondition(args[onIdx+4:])
	if err != nil {
		return fmt.Errorf("join condition: %w", err)
	}
	j, err := q.Join(tableName, cond, joinType)
	if err != nil {
		return err
	}
	s.query.Join(j.Target, joinType).On(j.Condition)
	_, _ = fmt.Fprintf(s.out, "  %s %q added\n", joinType, tableName)
	return nil
}

func (s *Session) cmdCrossJoin(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	name := strings.TrimSpace(args)
	src, err := q.From(name)
	if err != nil {
		return err
	}
	s.query.CrossJoin(src)
	_, _ = fmt.Fprintf(s.out, "  CROSS JOIN %q added\n", name)
	return nil
}

// --- Output ---

func (s *Session) cmdSQL() error {
	sql, params, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", sql)
	s.printParams(params)
	return nil
}

func (s *Session) printParams(params *nodes.Parameters) {
	if params == nil || params.Len() == 0 {
		return
	}
	parts := make([]string, 0, params.Len())
	for _, token := range params.Tokens() {
		v, _ := params.Value(token)
		parts = append(parts, fmt.Sprintf("%s=%#v", token, v))
	}
	_, _ = fmt.Fprintf(s.out, "  Params: %s\n", strings.Join(parts, ", "))
}

func (s *Session) cmdEngine(args string) error {
	name := strings.TrimSpace(strings.ToLower(args))
	if !isValidEngine(name) {
		return fmt.Errorf("unknown engine %q (choose: %s)", name, strings.Join(db.Engines(), ", "))
	}
	s.engine = name
	_, _ = fmt.Fprintf(s.out, "  Engine set to %s\n", s.engine)
	return nil
}

func (s *Session) cmdParameterize() error {
	s.parameterize = !s.parameterize
	if s.parameterize {
		_, _ = fmt.Fprintln(s.out, "  Parameterized queries enabled")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Parameterized queries disabled")
	}
	return nil
}

func (s *Session) cmdReset() error {
	s.setMode(modeSelect)
	_, _ = fmt.Fprintln(s.out, "  Query cleared")
	return nil
}

// --- Plugins ---

// cmdPlugin enables a plugin by name, or dispatches to cmdPluginOff.
func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(strings.TrimSpace(args))
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(parts[0])
	if name == "off" {
		return s.cmdPluginOff(parts[1:])
	}
	for _, c := range s.configurers {
		if c.name == name {
			if err := c.configure(s, strings.TrimSpace(strings.TrimSpace(args)[len(parts[0]):])); err != nil {
				return err
			}
			s.rebuildWithPlugins()
			return nil
		}
	}
	return fmt.Errorf("unknown plugin: %s", name)
}

func (s *Session) cmdPluginOff(parts []string) error {
	if len(parts) == 0 {
		s.plugins.deregisterAll()
		_, _ = fmt.Fprintln(s.out, "  All plugins disabled")
	} else {
		name := strings.ToLower(parts[0])
		if !s.plugins.deregister(name) {
			return fmt.Errorf("plugin %q is not enabled", name)
		}
		_, _ = fmt.Fprintf(s.out, "  %s disabled\n", name)
	}
	s.rebuildWithPlugins()
	return nil
}

func (s *Session) cmdPlugins() {
	_, _ = fmt.Fprintln(s.out, "  Available plugins:")
	for _, c := range s.configurers {
		if entry, ok := s.plugins.get(c.name); ok {
			_, _ = fmt.Fprintf(s.out, "    %-14s on   (%s)\n", c.name, entry.status())
		} else {
			_, _ = fmt.Fprintf(s.out, "    %-14s off\n", c.name)
		}
	}
}

// --- Database ---

func (s *Session) cmdConnect(args string) error {
	if s.conn != nil {
		return errors.New("already connected (use 'disconnect' first)")
	}
	dsn := strings.TrimSpace(args)
	if dsn == "" {
		dsn = s.lastDSN
	}
	if dsn == "" {
		return errors.New("usage: connect <dsn>")
	}
	cfg := db.Config{Engine: s.engine, DSN: dsn}
	conn, err := db.Open(context.Background(), cfg, db.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	s.refreshTables()
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", cfg.Redacted(), s.engine)
	return nil
}

// refreshTables reloads the table names used for completion. Failures
// are logged, not reported: introspection is best-effort.
func (s *Session) refreshTables() {
	if s.conn == nil {
		s.tables = nil
		return
	}
	s.columns = nil
	tables, err := s.conn.Tables(context.Background())
	if err != nil {
		s.logger.Warn("schema introspection failed", "error", err)
		return
	}
	s.tables = tables
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	s.tables = nil
	s.columns = nil
	_, _ = fmt.Fprintln(s.out, "  Disconnected")
	return nil
}

// cmdExec runs the current statement against the connected database.
// Values are always bound as parameters.
func (s *Session) cmdExec() error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	if s.conn.Engine() != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: connected to %s but engine is set to %s\n", s.conn.Engine(), s.engine)
	}
	stmt, err := s.current()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if s.returnsRows() {
		rows, err := s.conn.Query(ctx, stmt)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()
		out, err := formatRows(rows)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(s.out, out)
		return nil
	}

	res, err := s.conn.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		_, _ = fmt.Fprintln(s.out, "  OK")
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "  %d row(s) affected\n", n)
	return nil
}

// returnsRows reports whether the current statement produces a result set.
func (s *Session) returnsRows() bool {
	switch s.mode {
	case modeInsert:
		return s.insertQuery != nil && len(s.insertQuery.Statement.Returning) > 0
	case modeUpdate:
		return s.updateQuery != nil && len(s.updateQuery.Statement.Returning) > 0
	case modeDelete:
		return s.deleteQuery != nil && len(s.deleteQuery.Statement.Returning) > 0
	}
	return true
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	s.refreshTables()
	if len(s.tables) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No tables")
		return nil
	}
	sorted := append([]string(nil), s.tables...)
	sort.Strings(sorted)
	for _, name := range sorted {
		_, _ = fmt.Fprintf(s.out, "  %s\n", name)
	}
	return nil
}

func (s *Session) cmdDescribe(args string) error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	name := strings.TrimSpace(args)
	cols, err := s.conn.Columns(context.Background(), name)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q not found", name)
	}
	for _, c := range cols {
		_, _ = fmt.Fprintf(s.out, "  %s\n", c)
	}
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Query Building:
    from <table>              Start a new query (sets FROM)
    default <table>           Table unqualified columns resolve to
    select <cols>             Set fields (col, table.col, *, table.*, count(*), col as alias)
    distinct                  Enable DISTINCT
    where <condition>         Add a WHERE condition (AND-ed with earlier ones)
    group <cols>              Add GROUP BY (comma-separated)
    having <condition>        Add a HAVING condition
    order <col> [asc|desc]    Add ORDER BY (comma-separated)
    limit <n>                 Set LIMIT
    offset <n>                Set OFFSET
    join <table> on <cond>    Add an INNER JOIN
    left join <table> on ...  Add a LEFT JOIN (also: right join, full join)
    cross join <table>        Add a CROSS JOIN

  Conditions:
    col = 1, col <> 'x', col like 'a%', col in (1, 2), col not in (3),
    col is null, col is not null, a.id = b.a_id; combine with and, or, not, ()

  Data Modification:
    insert into <table>       Start an INSERT
    columns <cols>            Set INSERT columns
    values <vals>             Set INSERT values (one per column)
    update <table>            Start an UPDATE
    set <col> = <val>         Add an assignment (INSERT or UPDATE)
    delete from <table>       Start a DELETE
    returning <cols>          Set RETURNING (PostgreSQL, SQLite)

  Output:
    sql                       Show the generated SQL
    params                    Toggle parameterized output
    engine <name>             Switch dialect (postgres, mysql, sqlite)
    reset                     Clear the current statement

  Plugins:
    plugin softdelete [col]                 Soft-delete filter (default deleted_at)
    plugin softdelete <col> on <t1> [t2]    Only for the given tables
    plugin softdelete <t1.col>, <t2.col>    Per-table columns
    plugin off [name]                       Disable one or all plugins
    plugins                                 List plugins

  Database:
    connect <dsn>             Connect using the current engine
    disconnect                Close the connection
    exec | run                Execute the current statement
    tables                    List tables
    describe <table>          List the columns of a table

    exit | quit               Leave the console`)
}
