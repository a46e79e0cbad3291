package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/q"
)

// tokenize splits input into tokens, respecting single-quoted strings
// and recognising the two-character comparison operators.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '!' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, "!=")
			i++
		case ch == '<' && i+1 < len(input) && (input[i+1] == '>' || input[i+1] == '='):
			flush()
			tokens = append(tokens, input[i:i+2])
			i++
		case ch == '>' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, ">=")
			i++
		case ch == '=' || ch == '>' || ch == '<':
			flush()
			tokens = append(tokens, string(ch))
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a literal token to a Go value.
func parseValue(token string) (any, error) {
	lower := strings.ToLower(token)
	if lower == "true" {
		return true, nil
	}
	if lower == "false" {
		return false, nil
	}
	if lower == "null" {
		return nil, nil
	}
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		return strings.ReplaceAll(inner, "''", "'"), nil
	}
	if i, err := strconv.Atoi(token); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

// isIdentifier reports whether token names a column: a letter or
// underscore followed by letters, digits, underscores and at most one dot.
func isIdentifier(token string) bool {
	if token == "" {
		return false
	}
	switch strings.ToLower(token) {
	case "true", "false", "null":
		return false
	}
	for i, r := range token {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9' && i > 0:
		case r == '.' && i > 0:
		default:
			return false
		}
	}
	return strings.Count(token, ".") <= 1
}

// parseTerm parses a column reference or a function call such as
// count(*) or max(orders.total) starting at pos.
func parseTerm(tokens []string, pos int) (nodes.Node, int, error) {
	if pos >= len(tokens) {
		return nil, pos, errors.New("expected a column")
	}
	name := tokens[pos]
	if !isIdentifier(name) {
		return nil, pos, fmt.Errorf("expected a column, got %q", name)
	}
	if pos+1 >= len(tokens) || tokens[pos+1] != "(" {
		f, err := q.Field(name)
		return f, pos + 1, err
	}

	var args []any
	i := pos + 2
	for ; i < len(tokens) && tokens[i] != ")"; i++ {
		switch tok := tokens[i]; {
		case tok == ",":
		case tok == "*" && strings.EqualFold(name, "count"):
			args = append(args, nil)
		default:
			args = append(args, tok)
		}
	}
	if i >= len(tokens) {
		return nil, i, fmt.Errorf("missing ) after %s(", name)
	}
	if strings.EqualFold(name, "count") && len(args) <= 1 {
		var arg any
		if len(args) == 1 {
			arg = args[0]
		}
		fn, err := q.Count(arg)
		return fn, i + 1, err
	}
	fn, err := q.Func(name, args...)
	return fn, i + 1, err
}

// parseOperand parses the right side of a comparison: a literal value or
// a column reference.
func parseOperand(token string) (any, error) {
	if isIdentifier(token) {
		return q.Field(token)
	}
	return parseValue(token)
}

// exprPart holds a segment of tokens forming a single condition, plus the
// combinator keyword ("and" or "or") that follows it.
type exprPart struct {
	tokens     []string
	combinator string
}

// splitExpressionParts splits tokens on top-level AND/OR keywords,
// respecting parenthesised groups.
func splitExpressionParts(tokens []string) []exprPart {
	var parts []exprPart
	var cur []string
	depth := 0
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		switch {
		case tok == "(":
			depth++
		case tok == ")":
			depth--
		case depth == 0 && (lower == "and" || lower == "or"):
			parts = append(parts, exprPart{tokens: cur, combinator: lower})
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		parts = append(parts, exprPart{tokens: cur})
	}
	return parts
}

// parseCondition parses "users.age > 18 and (name like 'a%' or id in (1, 2))".
// AND binds tighter than OR.
func parseCondition(input string) (nodes.Node, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty condition")
	}
	return parseConditionTokens(tokenize(input))
}

func parseConditionTokens(tokens []string) (nodes.Node, error) {
	parts := splitExpressionParts(tokens)
	if len(parts) == 0 {
		return nil, errors.New("empty condition")
	}

	var ors, ands []nodes.Node
	for _, p := range parts {
		cond, err := parseSingleCondition(p.tokens)
		if err != nil {
			return nil, err
		}
		ands = append(ands, cond)
		if p.combinator != "and" {
			and, err := q.And(ands...)
			if err != nil {
				return nil, err
			}
			ors = append(ors, and)
			ands = nil
		}
	}
	if len(ands) > 0 {
		return nil, errors.New("expected a condition after AND")
	}
	return q.Or(ors...)
}

// parseSingleCondition handles a NOT prefix and parenthesised groups,
// then delegates to parseComparison.
func parseSingleCondition(tokens []string) (nodes.Node, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty condition")
	}
	if strings.EqualFold(tokens[0], "not") {
		inner, err := parseSingleCondition(tokens[1:])
		if err != nil {
			return nil, err
		}
		return q.Not(inner)
	}
	if tokens[0] == "(" && tokens[len(tokens)-1] == ")" && closes(tokens) {
		return parseConditionTokens(tokens[1 : len(tokens)-1])
	}
	return parseComparison(tokens)
}

// closes reports whether the opening parenthesis at tokens[0] is closed
// by the last token.
func closes(tokens []string) bool {
	depth := 0
	for i, tok := range tokens {
		switch tok {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i == len(tokens)-1
			}
		}
	}
	return false
}

func parseComparison(tokens []string) (nodes.Node, error) {
	left, pos, err := parseTerm(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos >= len(tokens) {
		return nil, errors.New("expected: <column> <operator> <value>")
	}
	op := strings.ToLower(tokens[pos])
	rest := tokens[pos+1:]

	switch op {
	case "=", "!=", "<>", "<", "<=", ">", ">=", "like":
		if len(rest) != 1 {
			return nil, fmt.Errorf("expected one value after %s", op)
		}
		right, err := parseOperand(rest[0])
		if err != nil {
			return nil, err
		}
		return q.Compare(left, op, right)
	case "in":
		vals, err := parseList(rest)
		if err != nil {
			return nil, err
		}
		return q.In(left, vals...)
	case "is":
		return parseIs(left, rest)
	case "not":
		if len(rest) == 0 {
			return nil, errors.New("expected IN or LIKE after NOT")
		}
		switch strings.ToLower(rest[0]) {
		case "in":
			vals, err := parseList(rest[1:])
			if err != nil {
				return nil, err
			}
			return nodes.NewComparison(left, nodes.OpNotIn, nodes.NewList(vals...))
		case "like":
			if len(rest) != 2 {
				return nil, errors.New("expected one value after NOT LIKE")
			}
			val, err := parseValue(rest[1])
			if err != nil {
				return nil, err
			}
			return q.Compare(left, nodes.OpNotLike, val)
		}
		return nil, fmt.Errorf("expected IN or LIKE after NOT, got %s", rest[0])
	}
	return nil, fmt.Errorf("unknown operator: %s", op)
}

func parseIs(left nodes.Node, tokens []string) (nodes.Node, error) {
	switch strings.ToLower(strings.Join(tokens, " ")) {
	case "null":
		return q.IsNull(left)
	case "not null":
		return q.Compare(left, nodes.OpIsNot, nil)
	}
	return nil, errors.New("expected NULL or NOT NULL after IS")
}

// parseList parses "(1, 'a', 3)" into values.
func parseList(tokens []string) ([]any, error) {
	var vals []any
	for _, t := range tokens {
		if t == "(" || t == ")" || t == "," {
			continue
		}
		val, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	return vals, nil
}

// splitTopLevelCommas splits on commas outside parentheses and quotes, so
// count(a, b) and 'x, y' stay whole.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			cur.WriteByte(ch)
		case inQuote:
			cur.WriteByte(ch)
		case ch == '(':
			depth++
			cur.WriteByte(ch)
		case ch == ')':
			depth--
			cur.WriteByte(ch)
		case ch == ',' && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// parseField parses one entry of a select list: *, table.*, a column or
// function call, optionally followed by AS alias.
func parseField(input string) (nodes.Node, error) {
	input = strings.TrimSpace(input)
	if input == "*" {
		return q.Star(), nil
	}
	if table, ok := strings.CutSuffix(input, ".*"); ok {
		if !isIdentifier(table) || strings.Contains(table, ".") {
			return nil, fmt.Errorf("invalid table in %q", input)
		}
		return q.Star(table), nil
	}
	tokens := tokenize(input)
	node, pos, err := parseTerm(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos < len(tokens) && strings.EqualFold(tokens[pos], "as") {
		if pos+2 != len(tokens) {
			return nil, errors.New("expected alias name after AS")
		}
		return q.Alias(node, tokens[pos+1])
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("unexpected token %q in field", tokens[pos])
	}
	return node, nil
}

// parseFields parses a comma-separated select list.
func parseFields(input string) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, p := range splitTopLevelCommas(input) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		n, err := parseField(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("no fields given")
	}
	return out, nil
}

// parseAssignment parses "column = value".
func parseAssignment(input string) (*nodes.Assignment, error) {
	tokens := tokenize(input)
	if len(tokens) != 3 || tokens[1] != "=" {
		return nil, fmt.Errorf("expected: <column> = <value>, got %q", strings.TrimSpace(input))
	}
	val, err := parseOperand(tokens[2])
	if err != nil {
		return nil, err
	}
	return q.Set(tokens[0], val)
}
