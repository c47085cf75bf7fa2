package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervue/internal/qgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for a role",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		asJSON, _ := cmd.Flags().GetBool("json")

		if count < 1 {
			return fmt.Errorf("count must be at least 1")
		}
		if difficulty < 1 || difficulty > 5 {
			return fmt.Errorf("difficulty must be between 1 and 5")
		}

		provider, st := openPipeline(cmd)
		if st != nil {
			defer st.Close()
		}

		gen := qgen.New(provider, qgen.DefaultConfig())
		res := gen.Generate(cmd.Context(), qgen.Request{Role: role, Count: count, Difficulty: difficulty})

		if res.Degraded {
			fmt.Fprintf(os.Stderr, "Note: only %d of %d unique questions could be generated.\n",
				len(res.Questions), res.Requested)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Questions)
		}

		for i, q := range res.Questions {
			fmt.Printf("%2d. [%s, difficulty %d, %s] %s\n", i+1, q.Type, q.Difficulty, q.Source, q.Text)
			if q.Keywords != "" {
				fmt.Printf("    keywords: %s\n", q.Keywords)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("role", "r", "tech", "Role key (tech, hr, apt, beh)")
	generateCmd.Flags().IntP("count", "n", 5, "Number of questions")
	generateCmd.Flags().IntP("difficulty", "d", 3, "Difficulty level 1-5")
	generateCmd.Flags().Bool("json", false, "Print questions as JSON")
}
