package db

import (
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

// Supported engines.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"
)

// driverName maps an engine to the database/sql driver registered for it.
var driverName = map[string]string{
	EnginePostgres: "pgx",
	EngineMySQL:    "mysql",
	EngineSQLite:   "sqlite",
}

// Engines lists the supported engine names.
func Engines() []string {
	return []string{EnginePostgres, EngineMySQL, EngineSQLite}
}

// Config describes a database connection and its pool.
type Config struct {
	Engine          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFromEnv reads WASP_ENGINE, DATABASE_URL and the optional pool
// settings WASP_MAX_OPEN_CONNS, WASP_MAX_IDLE_CONNS and
// WASP_CONN_MAX_LIFETIME (a duration such as "5m"). Malformed pool values
// are ignored.
func ConfigFromEnv() Config {
	cfg := Config{
		Engine: strings.ToLower(os.Getenv("WASP_ENGINE")),
		DSN:    os.Getenv("DATABASE_URL"),
	}
	if n, err := strconv.Atoi(os.Getenv("WASP_MAX_OPEN_CONNS")); err == nil {
		cfg.MaxOpenConns = n
	}
	if n, err := strconv.Atoi(os.Getenv("WASP_MAX_IDLE_CONNS")); err == nil {
		cfg.MaxIdleConns = n
	}
	if d, err := time.ParseDuration(os.Getenv("WASP_CONN_MAX_LIFETIME")); err == nil {
		cfg.ConnMaxLifetime = d
	}
	return cfg
}

// Validate checks the engine and, for MySQL and PostgreSQL, that the DSN
// parses with the driver's own parser.
func (c Config) Validate() error {
	if _, ok := driverName[c.Engine]; !ok {
		return errs.Invalid("engine", "unsupported engine %q (want one of %s)", c.Engine, strings.Join(Engines(), ", "))
	}
	if c.DSN == "" {
		return errs.Invalid("dsn", "DSN is empty")
	}
	switch c.Engine {
	case EngineMySQL:
		if _, err := mysql.ParseDSN(c.DSN); err != nil {
			return errs.Invalid("dsn", "%v", err)
		}
	case EnginePostgres:
		if _, err := pgx.ParseConfig(c.DSN); err != nil {
			return errs.Invalid("dsn", "%v", err)
		}
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 || c.ConnMaxLifetime < 0 {
		return errs.Invalid("pool", "pool settings must not be negative")
	}
	return nil
}

// InMemory reports whether c names a private in-memory SQLite database.
// Open keeps such a pool to a single connection.
func (c Config) InMemory() bool {
	if c.Engine != EngineSQLite {
		return false
	}
	return strings.HasPrefix(strings.TrimPrefix(c.DSN, "file:"), ":memory:") ||
		strings.Contains(c.DSN, "mode=memory")
}

// Redacted returns the DSN with its password masked, for logs and prompts.
func (c Config) Redacted() string {
	if c.Engine == EngineMySQL {
		mc, err := mysql.ParseDSN(c.DSN)
		if err != nil || mc.Passwd == "" {
			return c.DSN
		}
		mc.Passwd = "****"
		return mc.FormatDSN()
	}

	masked := c.DSN
	u, err := url.Parse(c.DSN)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuilt by hand so the mask is not percent-encoded.
			masked = u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
		}
	}
	return keywordPassword.ReplaceAllString(masked, "${1}****")
}

// keywordPassword matches a password given as a keyword, as in
// "host=db password='a b' user=app" or a URL query "?password=x&...".
var keywordPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|[^\s'&][^\s&]*)`)
