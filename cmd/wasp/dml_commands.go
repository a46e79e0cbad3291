package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EgbertW/WASP-sub001/managers"
	"github.com/EgbertW/WASP-sub001/nodes"
	"github.com/EgbertW/WASP-sub001/plugins"
	"github.com/EgbertW/WASP-sub001/q"
)

// --- DML command handlers ---

// target validates a table name for INSERT, UPDATE and DELETE.
func target(args, usage string) (*nodes.TableClause, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return nil, errors.New(usage)
	}
	if !isIdentifier(name) || strings.Contains(name, ".") {
		return nil, fmt.Errorf("invalid table name %q", name)
	}
	return q.Table(name), nil
}

func (s *Session) cmdInsertInto(args string) error {
	table, err := target(args, "usage: insert into <table>")
	if err != nil {
		return err
	}
	s.setMode(modeInsert)
	s.insertQuery = managers.NewInsertManager(table)
	s.plugins.applyTo(func(t plugins.Transformer) { s.insertQuery.Use(t) })
	_, _ = fmt.Fprintf(s.out, "  INSERT INTO %q\n", table.Name)
	return nil
}

func (s *Session) cmdColumns(args string) error {
	if s.mode != modeInsert || s.insertQuery == nil {
		return errors.New("columns command requires an active INSERT (use 'insert into <table>' first)")
	}
	var cols []nodes.Node
	for _, p := range splitTopLevelCommas(args) {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		f, err := q.Field(p)
		if err != nil {
			return err
		}
		cols = append(cols, f)
	}
	if len(cols) == 0 {
		return errors.New("usage: columns <col1, col2, ...>")
	}
	s.insertCols = cols
	_, _ = fmt.Fprintf(s.out, "  Columns set (%d)\n", len(cols))
	return nil
}

func (s *Session) cmdValues(args string) error {
	if s.mode != modeInsert || s.insertQuery == nil {
		return errors.New("values command requires an active INSERT (use 'insert into <table>' first)")
	}
	if len(s.insertCols) == 0 {
		return errors.New("no columns set (use 'columns <cols>' first)")
	}
	var vals []any
	for _, p := range splitTopLevelCommas(args) {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		v, err := parseValue(p)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}
	if len(vals) != len(s.insertCols) {
		return fmt.Errorf("%d values for %d columns", len(vals), len(s.insertCols))
	}
	s.insertQuery.Columns(s.insertCols...).Values(vals...)
	_, _ = fmt.Fprintf(s.out, "  Values set (%d)\n", len(vals))
	return nil
}

func (s *Session) cmdUpdate(args string) error {
	table, err := target(args, "usage: update <table>")
	if err != nil {
		return err
	}
	s.setMode(modeUpdate)
	s.updateQuery = managers.NewUpdateManager(table)
	s.plugins.applyTo(func(t plugins.Transformer) { s.updateQuery.Use(t) })
	_, _ = fmt.Fprintf(s.out, "  UPDATE %q\n", table.Name)
	return nil
}

// cmdSet adds assignments to the current UPDATE or INSERT:
// set name = 'x', visits = 0
func (s *Session) cmdSet(args string) error {
	var list []*nodes.Assignment
	for _, p := range splitTopLevelCommas(args) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		a, err := parseAssignment(p)
		if err != nil {
			return err
		}
		list = append(list, a)
	}
	if len(list) == 0 {
		return errors.New("usage: set <col> = <value>[, ...]")
	}
	switch {
	case s.mode == modeUpdate && s.updateQuery != nil:
		for _, a := range list {
			s.updateQuery.Set(a.Field, a.Value)
		}
	case s.mode == modeInsert && s.insertQuery != nil:
		for _, a := range list {
			s.insertQuery.Set(a.Field, a.Value)
		}
	default:
		return errors.New("set requires an active UPDATE or INSERT")
	}
	_, _ = fmt.Fprintf(s.out, "  %d assignment(s) added\n", len(list))
	return nil
}

func (s *Session) cmdDeleteFrom(args string) error {
	table, err := target(args, "usage: delete from <table>")
	if err != nil {
		return err
	}
	s.setMode(modeDelete)
	s.deleteQuery = managers.NewDeleteManager(table)
	s.plugins.applyTo(func(t plugins.Transformer) { s.deleteQuery.Use(t) })
	_, _ = fmt.Fprintf(s.out, "  DELETE FROM %q\n", table.Name)
	return nil
}

func (s *Session) cmdReturning(args string) error {
	var cols []any
	for _, p := range splitTopLevelCommas(args) {
		if p = strings.TrimSpace(p); p != "" {
			cols = append(cols, p)
		}
	}
	r, err := q.Returning(cols...)
	if err != nil {
		return err
	}
	if len(r.Fields) == 0 {
		return errors.New("usage: returning <cols>")
	}
	switch s.mode {
	case modeInsert:
		if s.insertQuery == nil {
			return errors.New("no INSERT query defined")
		}
		s.insertQuery.Returning(r.Fields...)
	case modeUpdate:
		if s.updateQuery == nil {
			return errors.New("no UPDATE query defined")
		}
		s.updateQuery.Returning(r.Fields...)
	case modeDelete:
		if s.deleteQuery == nil {
			return errors.New("no DELETE query defined")
		}
		s.deleteQuery.Returning(r.Fields...)
	default:
		return errors.New("returning requires an INSERT, UPDATE or DELETE")
	}
	_, _ = fmt.Fprintf(s.out, "  RETURNING set (%d columns)\n", len(r.Fields))
	return nil
}
