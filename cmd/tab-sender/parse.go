package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"tab-sender/internal/extract"
	"tab-sender/internal/models"
	"tab-sender/internal/watcher"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the tables found in a file",
	Long: `Parse a text export and print the values of each stage table, one per line,
exactly as they would be typed.

With --watch the tables are printed again every time the file changes,
until interrupted.

Examples:
  tab-sender parse export.txt
  tab-sender parse export.txt --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]
		parser := extract.NewFileParser(cfg.ReadAttempts, cfg.ReadDelay, log)
		out := cmd.OutOrStdout()

		var mu sync.Mutex
		parseAndPrint := func(ctx context.Context) error {
			tables, err := parser.Parse(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				return err
			}
			printTables(out, tables)
			return nil
		}

		if err := parseAndPrint(ctx); err != nil {
			return err
		}
		if !cfg.Watch {
			return nil
		}

		fw, err := watcher.New(path, watcher.DefaultDebounce, func(string) {
			if err := parseAndPrint(ctx); err != nil {
				log.Error("parse", "reload failed", err, map[string]interface{}{"path": path})
			}
		}, log)
		if err != nil {
			return err
		}
		defer fw.Shutdown()

		<-ctx.Done()
		return nil
	},
}

func printTables(w io.Writer, tables models.Tables) {
	av := tables.Evaluate()
	fmt.Fprintln(w, av.Summary())
	fmt.Fprintln(w, tables.SizeLine())

	for _, stage := range models.Stages {
		seq, _ := tables.Select(stage)
		if seq.IsEmpty() {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", stage.Label())
		for _, value := range seq.Values() {
			fmt.Fprintln(w, models.FormatValue(value))
		}
	}
}
