package main

import (
	"sort"
	"strings"

	"github.com/EgbertW/WASP-sub001/nodes"
)

// commandEntry maps a console prefix to its handler and optional completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- display ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "tosql", handler: func(_ string) error { return s.cmdSQL() }, hidden: true},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- query building ---
		{prefix: "from ", handler: s.cmdFrom, completer: completeTableArgs},
		{prefix: "default ", handler: s.cmdDefault, completer: completeTableArgs},
		{prefix: "select ", handler: s.cmdSelect, completer: completeColumnArgs},
		{prefix: "distinct", handler: func(_ string) error { return s.cmdDistinct() }},
		{prefix: "where ", handler: s.cmdWhere, completer: completeColumnArgs},
		{prefix: "group ", handler: s.cmdGroup, completer: completeColumnArgs},
		{prefix: "having ", handler: s.cmdHaving, completer: completeColumnArgs},
		{prefix: "order ", handler: s.cmdOrder, completer: completeOrderArgs},
		{prefix: "limit ", handler: s.cmdLimit},
		{prefix: "take ", handler: s.cmdLimit, hidden: true},
		{prefix: "offset ", handler: s.cmdOffset},

		// --- joins (multi-word prefixes) ---
		{prefix: "join ", handler: func(a string) error { return s.cmdJoin(a, nodes.InnerJoin) }, completer: completeTableArgs},
		{prefix: "left join ", handler: func(a string) error { return s.cmdJoin(a, nodes.LeftJoin) }, completer: completeTableArgs},
		{prefix: "outer join ", handler: func(a string) error { return s.cmdJoin(a, nodes.LeftJoin) }, completer: completeTableArgs, hidden: true},
		{prefix: "right join ", handler: func(a string) error { return s.cmdJoin(a, nodes.RightJoin) }, completer: completeTableArgs},
		{prefix: "full join ", handler: func(a string) error { return s.cmdJoin(a, nodes.FullJoin) }, completer: completeTableArgs},
		{prefix: "cross join ", handler: s.cmdCrossJoin, completer: completeTableArgs},

		// --- DML builders ---
		{prefix: "insert into ", handler: s.cmdInsertInto, completer: completeTableArgs},
		{prefix: "columns ", handler: s.cmdColumns, completer: completeColumnArgs},
		{prefix: "values ", handler: s.cmdValues},
		{prefix: "update ", handler: s.cmdUpdate, completer: completeTableArgs},
		{prefix: "set ", handler: s.cmdSet, completer: completeColumnArgs},
		{prefix: "delete from ", handler: s.cmdDeleteFrom, completer: completeTableArgs},
		{prefix: "returning ", handler: s.cmdReturning, completer: completeColumnArgs},

		// --- database connectivity ---
		{prefix: "connect ", handler: s.cmdConnect},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "describe ", handler: s.cmdDescribe, completer: completeTableArgs},

		// --- engine / params / plugins ---
		{prefix: "engine ", handler: s.cmdEngine, completer: completeEngineArgs},
		{prefix: "params", handler: func(_ string) error { return s.cmdParameterize() }},
		{prefix: "parameterize", handler: func(_ string) error { return s.cmdParameterize() }, hidden: true},
		{prefix: "plugin ", handler: s.cmdPlugin, completer: completePluginArgs},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	// Longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the read loop, not Execute().
	names = append(names, "exit", "quit")
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeTableArgs completes a table name, then columns and operators of
// a join condition.
func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextTableName, arg
	}
	if strings.HasSuffix(args, " ") {
		parts := strings.Fields(arg)
		if strings.Contains(parts[len(parts)-1], ".") {
			return contextOperator, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeColumnArgs completes column refs, and operators after a
// table-qualified column.
func completeColumnArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		prev := strings.Fields(args)
		if len(prev) > 0 && strings.Contains(prev[len(prev)-1], ".") {
			return contextOperator, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeOrderArgs completes column refs, then a direction.
func completeOrderArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		parts := strings.Fields(args)
		if len(parts) > 0 && !strings.HasSuffix(parts[len(parts)-1], ",") {
			return contextOrderDir, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completePluginArgs completes plugin names, or enabled plugins after "off".
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[4:])
	}
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextPlugin, arg
	}
	return contextNone, ""
}
