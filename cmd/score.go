package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervue/internal/qgen"
	"github.com/abhisek/intervue/internal/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one answer against a question",
	Long:  "Scores an answer for keyword coverage, length, and filler words. The answer is read from --answer or from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		questionText, _ := cmd.Flags().GetString("question")
		keywords, _ := cmd.Flags().GetString("keywords")
		answer, _ := cmd.Flags().GetString("answer")
		asJSON, _ := cmd.Flags().GetBool("json")

		if answer == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read answer from stdin: %w", err)
			}
			answer = strings.TrimSpace(string(data))
		}

		provider, st := openPipeline(cmd)
		if st != nil {
			defer st.Close()
		}

		var question *qgen.Question
		if questionText != "" || keywords != "" {
			question = &qgen.Question{Text: questionText, Keywords: keywords}
		}

		scorer := score.New(provider, score.DefaultConfig())
		ev := scorer.Evaluate(cmd.Context(), answer, question)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ev)
		}

		fmt.Printf("Score: %d/100\n", ev.Score)
		fmt.Println(ev.Feedback)
		if len(ev.ImprovementTips) > 0 {
			fmt.Println("\nImprovement tips:")
			for _, tip := range ev.ImprovementTips {
				fmt.Println("  -", tip)
			}
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringP("question", "q", "", "Question text the answer addresses")
	scoreCmd.Flags().StringP("keywords", "k", "", "Comma-separated keywords a strong answer should include")
	scoreCmd.Flags().StringP("answer", "a", "", "Answer text (reads stdin when omitted)")
	scoreCmd.Flags().Bool("json", false, "Print the evaluation as JSON")
}
