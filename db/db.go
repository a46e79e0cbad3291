// Package db runs statements built with the query core against a
// database/sql pool. A DB pairs the pool with the engine's dialect, so
// managers render with the right quoting and placeholders and their
// parameters reach the driver in the form it expects.
//
//	d, err := db.Open(ctx, db.ConfigFromEnv(), db.WithLogger(logger))
//	...
//	rows, err := d.Query(ctx, q.Must(q.Select(q.Table("users"), "id", "name")))
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-hclog"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/EgbertW/WASP-sub001/internal/errs"
	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/schema"
	"github.com/EgbertW/WASP-sub001/visitors"
)

// Renderer is anything that renders itself to SQL with a visitor. The
// statement managers implement it.
type Renderer interface {
	ToSQL(v managers.Visitor) (string, *nodes.Parameters, error)
}

// dialect is a visitor that also renders DDL.
type dialect interface {
	managers.Visitor
	CreateTable(t *schema.Table, opts ...visitors.DDLOption) ([]string, error)
	DropTable(name string, ifExists bool) string
}

// NewVisitor returns the visitor of an engine.
func NewVisitor(engine string, opts ...visitors.Option) (managers.Visitor, error) {
	return newDialect(engine, opts...)
}

func newDialect(engine string, opts ...visitors.Option) (dialect, error) {
	switch engine {
	case EnginePostgres:
		return visitors.NewPostgresVisitor(opts...), nil
	case EngineMySQL:
		return visitors.NewMySQLVisitor(opts...), nil
	case EngineSQLite:
		return visitors.NewSQLiteVisitor(opts...), nil
	}
	return nil, errs.Invalid("engine", "unsupported engine %q", engine)
}

// DB executes rendered statements. It is safe for concurrent use: every
// call renders with its own visitor.
type DB struct {
	db     *sql.DB
	engine string
	logger hclog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger. Statements are logged at debug level,
// failures at error level and migrations at info level.
func WithLogger(l hclog.Logger) Option {
	return func(d *DB) {
		if l != nil {
			d.logger = l
		}
	}
}

// Open validates cfg, opens the pool and pings the database.
func Open(ctx context.Context, cfg Config, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := sql.Open(driverName[cfg.Engine], cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if cfg.InMemory() {
		// Every connection to :memory: opens a new, empty database.
		pool.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Redacted(), err)
	}

	d, err := New(pool, cfg.Engine, opts...)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	d.logger.Info("connected", "engine", cfg.Engine, "dsn", cfg.Redacted())
	return d, nil
}

// New wraps an open pool. engine selects the SQL dialect.
func New(pool *sql.DB, engine string, opts ...Option) (*DB, error) {
	if pool == nil {
		return nil, errs.Invalid("db", "nil *sql.DB")
	}
	if _, ok := driverName[engine]; !ok {
		return nil, errs.Invalid("engine", "unsupported engine %q", engine)
	}
	d := &DB{db: pool, engine: engine, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Engine returns the engine name.
func (d *DB) Engine() string { return d.engine }

// SQL returns the underlying pool.
func (d *DB) SQL() *sql.DB { return d.db }

// Visitor returns a fresh visitor for the engine.
func (d *DB) Visitor() managers.Visitor {
	return d.ddl()
}

// Render renders r with a fresh visitor and returns the SQL and the
// driver arguments.
func (d *DB) Render(r Renderer) (string, []any, error) {
	query, params, err := r.ToSQL(d.Visitor())
	if err != nil {
		return "", nil, err
	}
	return query, params.Args(), nil
}

// Query renders r and runs it as a query. The caller closes the rows.
func (d *DB) Query(ctx context.Context, r Renderer) (*sql.Rows, error) {
	query, args, err := d.Render(r)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("query", "sql", query, "args", len(args))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, d.queryError(err, query, args, "query")
	}
	return rows, nil
}

// Exec renders r and executes it.
func (d *DB) Exec(ctx context.Context, r Renderer) (sql.Result, error) {
	query, args, err := d.Render(r)
	if err != nil {
		return nil, err
	}
	return d.exec(ctx, d.db, query, args)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (d *DB) exec(ctx context.Context, e execer, query string, args []any) (sql.Result, error) {
	d.logger.Debug("exec", "sql", query, "args", len(args))
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, d.queryError(err, query, args, "exec")
	}
	return res, nil
}

func (d *DB) queryError(err error, query string, args []any, op string) error {
	d.logger.Error(op+" failed", "sql", query, "error", err)
	return NewQueryError(err, query, args, op)
}

// CreateTable creates t and its indexes.
func (d *DB) CreateTable(ctx context.Context, t *schema.Table) error {
	stmts, err := d.ddl().CreateTable(t)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := d.exec(ctx, d.db, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

// DropTable drops the named table.
func (d *DB) DropTable(ctx context.Context, name string, ifExists bool) error {
	_, err := d.exec(ctx, d.db, d.ddl().DropTable(name, ifExists), nil)
	return err
}

// Migrate creates the tables that do not exist yet, in order, inside one
// transaction. Tables are validated before anything is executed. MySQL
// commits DDL implicitly, so there a failure can leave earlier tables in
// place.
func (d *DB) Migrate(ctx context.Context, tables ...*schema.Table) error {
	dl := d.ddl()
	var plan [][]string
	for _, t := range tables {
		stmts, err := dl.CreateTable(t, visitors.IfNotExists())
		if err != nil {
			return err
		}
		plan = append(plan, stmts)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for i, stmts := range plan {
		for _, stmt := range stmts {
			if _, err := d.exec(ctx, tx, stmt, nil); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		d.logger.Info("migrated table", "table", tables[i].Name())
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (d *DB) ddl() dialect {
	v, _ := newDialect(d.engine)
	return v
}

// Tables lists the tables of the connected database, sorted by name.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	var query string
	switch d.engine {
	case EnginePostgres:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case EngineMySQL:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	case EngineSQLite:
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	}
	return d.queryStringColumn(ctx, query)
}

// Columns lists the columns of a table in declaration order.
func (d *DB) Columns(ctx context.Context, table string) ([]string, error) {
	var query string
	switch d.engine {
	case EnginePostgres:
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position"
	case EngineMySQL:
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
	case EngineSQLite:
		query = "SELECT name FROM pragma_table_info(?) ORDER BY cid"
	}
	return d.queryStringColumn(ctx, query, table)
}

func (d *DB) queryStringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, d.queryError(err, query, args, "query")
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Close closes the pool.
func (d *DB) Close() error {
	return d.db.Close()
}
