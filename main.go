package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"library-tracker/library"
)

func main() {
	var dbPath string

	root := &cobra.Command{
		Use:   "library-tracker",
		Short: "Track a small library's catalog and borrow/return activity",
		Long: "An interactive console for a single-user library: register and log in,\n" +
			"then display, borrow, return, add, and delete books. State lives in a\n" +
			"local SQLite database.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := library.NewManager(dbPath, buildLogger())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer mgr.Close()

			runConsole(mgr)
			return nil
		},
	}
	root.Flags().StringVar(&dbPath, "db", defaultDBPath(), "path to the SQLite database file")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// defaultDBPath prefers LIBRARY_DB so the flag stays optional.
func defaultDBPath() string {
	if p := strings.TrimSpace(os.Getenv("LIBRARY_DB")); p != "" {
		return p
	}
	return "library.db"
}

// buildLogger sends diagnostics to stderr; level via LOG_LEVEL. User-facing
// output stays on stdout, printed by the console handlers.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
