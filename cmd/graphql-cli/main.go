// Command graphql-cli is the interactive client for the graph-cypher query
// engine, grounded on the teacher's cmd/cli/main.go (a bufio.Scanner REPL
// managing a map of named in-memory graphs) reimplemented as a
// github.com/spf13/cobra command tree per SPEC_FULL's ambient CLI section:
// the REPL's command set (new/use/load/unload/list/help/exit) survives
// unchanged, but `load` now means "run a file of Cypher statements against
// a fresh graph" rather than deserializing a JSON-encoded one, since this
// engine has no on-disk graph format (see DESIGN.md / graphcypher.go).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	graphcypher "github.com/ritamzico/graphcypher"
	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/metrics"
	"github.com/ritamzico/graphcypher/internal/plan"
	"github.com/ritamzico/graphcypher/internal/planlog"
	"github.com/ritamzico/graphcypher/internal/resultset"
)

const helpText = `graphql-cli interactive REPL

Commands:
  new <name>           Create a new empty graph
  load <name> <file>   Create a graph and run a Cypher script file against it
  unload <name>        Remove a loaded graph
  list                 List all loaded graphs
  use <name>           Set the active graph for queries
  help                 Show this help message
  exit / quit          Exit the REPL

Any other input is treated as a Cypher statement against the active graph.
`

func main() {
	root := &cobra.Command{
		Use:   "graphql-cli",
		Short: "Interactive client for the graph-cypher query engine",
	}
	root.AddCommand(newReplCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newExplainCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *planlog.Logger {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	return planlog.New(z)
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL managing named in-memory graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl()
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "query [cypher]",
		Short: "Run one Cypher statement (or --file of statements) against a fresh graph and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := graphcypher.New(newLogger(), metrics.New(prometheus.NewRegistry()))
			if file != "" {
				return runScript(db, file)
			}
			if len(args) == 0 {
				return fmt.Errorf("provide a query argument or --file")
			}
			rs, err := db.Query(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printResult(rs, db)
			return nil
		},
	}
	c.Flags().StringVar(&file, "file", "", "path to a file of semicolon-separated Cypher statements")
	return c
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [cypher]",
		Short: "Print the compiled operator tree for a Cypher statement without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("provide a query argument")
			}
			db := graphcypher.New(newLogger(), metrics.New(prometheus.NewRegistry()))
			stmt, err := cypher.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			p, err := plan.Build(stmt, db.Engine.Store, db.Engine.Schema, nil, db.Engine.Procs)
			if err != nil {
				return err
			}
			if p.Index != nil {
				fmt.Println("IndexOp (no operator tree)")
				return nil
			}
			plan.Explain(os.Stdout, p.Root)
			return nil
		},
	}
}

func runRepl() {
	graphs := make(map[string]*graphcypher.DB)
	var active string
	log := newLogger()
	m := metrics.New(prometheus.NewRegistry())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("graphql-cli — property graph query engine")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		if active != "" {
			fmt.Printf("[%s]> ", active)
		} else {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			fmt.Print(helpText)

		case "list":
			if len(graphs) == 0 {
				fmt.Println("(no graphs loaded)")
			} else {
				for name := range graphs {
					marker := " "
					if name == active {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, name)
				}
			}

		case "new":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: new <name>")
				continue
			}
			name := parts[1]
			graphs[name] = graphcypher.New(log, m)
			if active == "" {
				active = name
			}
			fmt.Printf("created empty graph %q\n", name)

		case "use":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: use <name>")
				continue
			}
			name := parts[1]
			if _, ok := graphs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no graph named %q\n", name)
				continue
			}
			active = name
			fmt.Printf("active graph set to %q\n", name)

		case "load":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: load <name> <file>")
				continue
			}
			name, path := parts[1], parts[2]
			db := graphcypher.New(log, m)
			if err := runScript(db, path); err != nil {
				fmt.Fprintf(os.Stderr, "error loading %q: %v\n", path, err)
				continue
			}
			graphs[name] = db
			if active == "" {
				active = name
			}
			fmt.Printf("loaded %q\n", name)

		case "unload":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: unload <name>")
				continue
			}
			name := parts[1]
			if _, ok := graphs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no graph named %q\n", name)
				continue
			}
			delete(graphs, name)
			if active == name {
				active = ""
			}
			fmt.Printf("unloaded %q\n", name)

		default:
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active graph — use 'new' or 'load' first")
				continue
			}
			rs, err := graphs[active].Query(context.Background(), line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "query error: %v\n", err)
				continue
			}
			printResult(rs, graphs[active])
		}
	}
}

// runScript runs every ";"-separated non-empty statement in path against
// db, in order, stopping at the first error.
func runScript(db *graphcypher.DB, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(string(b), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Query(context.Background(), stmt); err != nil {
			return fmt.Errorf("statement %q: %w", stmt, err)
		}
	}
	return nil
}

// printResult renders a query's header + rows as a comma-separated table,
// the REPL-friendly form of §6's row serialization.
func printResult(rs *graphcypher.ResultSet, db *graphcypher.DB) {
	if len(rs.Header) == 0 && len(rs.Rows) == 0 {
		fmt.Printf("OK (%d ms)\n", int(rs.Stats.ExecutionTimeMs))
		return
	}
	fmt.Println(strings.Join(rs.Header, ", "))
	resolver := resultset.StoreResolver{Store: db.Engine.Store}
	for _, rec := range rs.Rows {
		fmt.Println(resultset.SerializeRow(rec, resolver))
	}
}
