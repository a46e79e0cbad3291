// Console for interactively building, rendering and executing SQL
// statements.
//
// Configuration (flags, falling back to env vars):
//
//	-e, --engine     WASP_ENGINE=postgres|mysql|sqlite  (default postgres)
//	-d, --dsn        DATABASE_URL=<dsn>                  (auto-connects if set)
//	--log-level      WASP_LOG_LEVEL=trace|debug|info|warn|error
//
// Usage:
//
//	go run ./cmd/wasp -e sqlite -d :memory:
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/hashicorp/go-hclog"
	"github.com/mkideal/cli"
)

type argT struct {
	cli.Helper
	Engine   string `cli:"e,engine" usage:"SQL dialect (postgres, mysql or sqlite)" dft:"$WASP_ENGINE"`
	DSN      string `cli:"d,dsn" usage:"database to connect to on startup" dft:"$DATABASE_URL"`
	LogLevel string `cli:"log-level" usage:"log level for connection and statement logging" dft:"$WASP_LOG_LEVEL"`
}

func main() {
	os.Exit(cli.Run(new(argT), func(ctx *cli.Context) error {
		argv := ctx.Argv().(*argT)
		if argv.Help {
			ctx.WriteUsage()
			return nil
		}
		return run(argv)
	}))
}

func run(argv *argT) error {
	level := hclog.LevelFromString(argv.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "wasp",
		Level:  level,
		Output: os.Stderr,
	})

	engine := strings.TrimSpace(strings.ToLower(argv.Engine))
	if engine != "" && !isValidEngine(engine) {
		logger.Warn("unknown engine, using postgres", "engine", engine)
	}
	sess := NewSession(engine, logger)

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "wasp> ",
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("Engine: %s\n", sess.engine)
	if argv.DSN != "" {
		if err := sess.Execute("connect " + argv.DSN); err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
		}
	}
	fmt.Println("Type 'help' for commands, 'exit' to quit")

	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error("read failed", "error", err)
			}
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	if sess.conn != nil {
		_ = sess.conn.Close()
	}
	fmt.Println()
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wasp_history")
}
