package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervue/internal/diag"
	"github.com/abhisek/intervue/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "intervue",
	Short: "AI mock-interview practice",
	Long:  "Intervue generates role-specific interview questions, scores your answers, and summarizes each practice session.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite diagnostics database (overrides INTERVUE_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then INTERVUE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, diag.EnsureDir(p)
	}
	return diag.DefaultDBPath()
}

// openPipeline builds the provider stack with the diagnostics store as its
// event sink. Both parts are optional: without a store, events are dropped;
// without a configured provider, everything runs offline on templates.
func openPipeline(cmd *cobra.Command) (llm.Provider, *diag.Store) {
	var sink llm.EventSink = llm.NopSink{}
	var st *diag.Store

	if dbPath, err := resolveDBPath(cmd); err != nil {
		fmt.Fprintln(os.Stderr, "diagnostics store unavailable:", err)
	} else if st, err = diag.Open(dbPath); err != nil {
		fmt.Fprintln(os.Stderr, "diagnostics store unavailable:", err)
		st = nil
	} else {
		sink = st
	}

	provider, err := llm.NewProviderFromEnv(cmd.Context(), sink, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Questions will come from offline templates.")
		return nil, st
	}
	return provider, st
}
