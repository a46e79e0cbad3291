package nodes

import (
	"database/sql"
	"strconv"
)

// Dialect is the SQL-flavour seam Parameters renders through.
type Dialect interface {
	// QuoteIdent quotes a single identifier, escaping embedded quotes.
	QuoteIdent(name string) string
	// Placeholder renders the bind marker for a token. index is 1-based
	// and follows assignment order.
	Placeholder(token string, index int) string
	// Named reports whether placeholders refer to tokens by name.
	Named() bool
}

// tableScope holds the tables referenced by one statement. Subqueries get
// their own scope so their tables do not leak into the outer FROM clause.
type tableScope struct {
	defaultTable *TableClause
	tables       []*TableClause
}

// Parameters is the per-render context. It accumulates bound values,
// tracks the tables a statement references and exposes the dialect's
// identifier quoting. A Parameters value belongs to exactly one render.
type Parameters struct {
	dialect Dialect
	tokens  []string
	values  map[string]any
	scopes  []tableScope
}

// NewParameters creates an empty context for the given dialect.
func NewParameters(d Dialect) *Parameters {
	return &Parameters{
		dialect: d,
		values:  make(map[string]any),
		scopes:  []tableScope{{}},
	}
}

// Assign registers val and returns a fresh token for it. Every call
// allocates a new token; equal values are never merged.
func (p *Parameters) Assign(val any) string {
	token := "p" + strconv.Itoa(len(p.tokens))
	p.tokens = append(p.tokens, token)
	p.values[token] = val
	return token
}

// Bind assigns val and returns the dialect placeholder that refers to it.
func (p *Parameters) Bind(val any) string {
	token := p.Assign(val)
	return p.dialect.Placeholder(token, len(p.tokens))
}

// Value returns the value bound to token.
func (p *Parameters) Value(token string) (any, bool) {
	v, ok := p.values[token]
	return v, ok
}

// Values returns a copy of the token → value mapping.
func (p *Parameters) Values() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Tokens returns the tokens in assignment order.
func (p *Parameters) Tokens() []string {
	out := make([]string, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// Len returns the number of bound values.
func (p *Parameters) Len() int { return len(p.tokens) }

// Args returns the bound values in the form database/sql expects: named
// arguments for dialects with named placeholders, positional values
// otherwise.
func (p *Parameters) Args() []any {
	args := make([]any, len(p.tokens))
	for i, token := range p.tokens {
		if p.dialect.Named() {
			args[i] = sql.Named(token, p.values[token])
		} else {
			args[i] = p.values[token]
		}
	}
	return args
}

// QuoteIdent quotes an identifier using the dialect.
func (p *Parameters) QuoteIdent(name string) string {
	return p.dialect.QuoteIdent(name)
}

// EnterScope starts a nested table scope for a subquery.
func (p *Parameters) EnterScope() {
	p.scopes = append(p.scopes, tableScope{})
}

// LeaveScope discards the innermost table scope. The root scope is never
// removed.
func (p *Parameters) LeaveScope() {
	if len(p.scopes) > 1 {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
}

func (p *Parameters) scope() *tableScope {
	return &p.scopes[len(p.scopes)-1]
}

// SetDefaultTable sets the table unqualified fields resolve to in the
// current scope.
func (p *Parameters) SetDefaultTable(t *TableClause) {
	p.scope().defaultTable = t
}

// DefaultTable returns the default table of the innermost scope that has
// one, or nil.
func (p *Parameters) DefaultTable() *TableClause {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if t := p.scopes[i].defaultTable; t != nil {
			return t
		}
	}
	return nil
}

// RegisterTable records a referenced table in the current scope. The
// first table registered becomes the default table unless one was set.
// Tables are deduplicated by their reference name.
func (p *Parameters) RegisterTable(t *TableClause) {
	if t == nil {
		return
	}
	s := p.scope()
	for _, existing := range s.tables {
		if existing.Ref() == t.Ref() {
			return
		}
	}
	s.tables = append(s.tables, t)
	if s.defaultTable == nil {
		s.defaultTable = t
	}
}

// Enclosing reports whether a table with the reference name of t is
// registered in a scope around the current one.
func (p *Parameters) Enclosing(t *TableClause) bool {
	for i := len(p.scopes) - 2; i >= 0; i-- {
		for _, existing := range p.scopes[i].tables {
			if existing.Ref() == t.Ref() {
				return true
			}
		}
	}
	return false
}

// Tables returns the tables registered in the current scope.
func (p *Parameters) Tables() []*TableClause {
	s := p.scope()
	out := make([]*TableClause, len(s.tables))
	copy(out, s.tables)
	return out
}
