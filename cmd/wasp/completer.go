package main

import (
	"context"
	"sort"
	"strings"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextTableName                          // after from/join/insert into/...
	contextColumnRef                          // after select/where/having/group/...
	contextEngine                             // after engine
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
	contextOrderDir                           // after a column in order
	contextOperator                           // after a column in a condition
	contextNone                               // nothing to offer
)

var orderDirs = []string{"asc", "desc"}

var operators = []string{
	"!=", "<", "<=", "<>", "=", ">", ">=",
	"in", "is", "like", "not",
}

var functionNames = []string{"AVG(", "COALESCE(", "COUNT(", "LOWER(", "MAX(", "MIN(", "SUM(", "UPPER("}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of runes before pos that form the prefix being
// completed; newLine holds the suffix to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextEngine:
		candidates = filterPrefix(engineNames(), prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.names(), prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		if strings.HasSuffix(cand, "(") {
			newLine = append(newLine, []rune(suffix))
		} else {
			newLine = append(newLine, []rune(suffix+" "))
		}
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to the cursor and determines what
// kind of completion is needed and the prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") || cmd.completer == nil {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

// completeTableNames returns the connected database's tables matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	names := dedup(c.sess.tables)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// completeColumnRef completes table names before a dot and the table's
// columns after it.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	table, colPrefix, ok := strings.Cut(prefix, ".")
	if !ok {
		return append(c.completeTableNames(prefix), filterPrefix(functionNames, prefix)...)
	}
	candidates := []string{table + ".*"}
	for _, col := range c.sess.schemaColumns(table) {
		candidates = append(candidates, table+"."+col)
	}
	if colPrefix == "*" {
		return candidates[:1]
	}
	return filterPrefix(candidates, prefix)
}

// schemaColumns returns the cached columns of a table, loading them from
// the connected database on first use.
func (s *Session) schemaColumns(table string) []string {
	if s.conn == nil {
		return nil
	}
	if cols, ok := s.columns[table]; ok {
		return cols
	}
	cols, err := s.conn.Columns(context.Background(), table)
	if err != nil {
		s.logger.Debug("column introspection failed", "table", table, "error", err)
		return nil
	}
	if s.columns == nil {
		s.columns = make(map[string][]string)
	}
	s.columns[table] = cols
	return cols
}

func engineNames() []string {
	names := []string{"mysql", "postgres", "sqlite"}
	return names
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last token, splitting on whitespace and commas.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " ,\t("); i >= 0 {
		return s[i+1:]
	}
	return s
}
