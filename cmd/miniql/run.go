package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miniql/miniql/internal/audit"
	"github.com/miniql/miniql/internal/engine"
	"github.com/miniql/miniql/internal/executor"
	"github.com/miniql/miniql/internal/persistence"
	"github.com/miniql/miniql/internal/txn"
)

var saveOnExit bool

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a file of statements against the database",
	Long: `run reads <file>, splits it on ';' into individual statements
(respecting quoted strings and parenthesized lists, so a semicolon inside
a VALUES list or a string literal never splits early), and executes each
one in order, printing its Result as one line of JSON.

This is a batch driver, not an interactive shell.`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	runCmd.Flags().BoolVar(&saveOnExit, "save", false, "write the snapshot back out after running")
	rootCmd.AddCommand(runCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var cat *engine.Catalog
	if cfg.Database.AutoLoad {
		cat, err = persistence.Load(cfg.Database.SnapshotPath)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	} else {
		cat = engine.NewCatalog()
	}

	var sink executor.AuditSink
	if cfg.Audit.Enabled {
		sink = audit.NewFileSink(cfg.Audit.Path)
	}

	ex := executor.New(cat, txn.NewManager(), sink)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	ctx := context.Background()
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, stmt := range splitStatements(string(data)) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		result := ex.Execute(ctx, stmt)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	if saveOnExit {
		if err := persistence.Save(cfg.Database.SnapshotPath, cat); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	return nil
}

// splitStatements splits a batch of statements on ';', tracking quote and
// paren state so a semicolon inside a string literal or a parenthesized
// column/value list never splits a statement early. Mirrors the same
// quote/paren tracking sqlparser's splitParenList and splitQuoted apply
// within a single statement, generalized here across a whole file.
func splitStatements(src string) []string {
	var stmts []string
	var curr strings.Builder
	depth := 0
	var quote rune

	for _, c := range src {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ';' && depth == 0:
			stmts = append(stmts, curr.String())
			curr.Reset()
			continue
		}
		curr.WriteRune(c)
	}
	if strings.TrimSpace(curr.String()) != "" {
		stmts = append(stmts, curr.String())
	}
	return stmts
}
