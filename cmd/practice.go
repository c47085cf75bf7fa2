package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervue/internal/insights"
	"github.com/abhisek/intervue/internal/qgen"
	"github.com/abhisek/intervue/internal/score"
	"github.com/abhisek/intervue/internal/session"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive mock-interview session",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetInt("difficulty")

		provider, st := openPipeline(cmd)
		if st != nil {
			defer st.Close()
		}

		runner := session.New(
			qgen.New(provider, qgen.DefaultConfig()),
			score.New(provider, score.DefaultConfig()),
			insights.New(provider, insights.DefaultConfig()),
			session.Config{},
		)

		s := runner.Start(cmd.Context(), role, count, difficulty)
		if len(s.Questions) == 0 {
			return fmt.Errorf("no questions could be generated for role %q", role)
		}
		if s.Degraded {
			fmt.Fprintf(os.Stderr, "Note: only %d of %d unique questions are available.\n",
				len(s.Questions), count)
		}

		fmt.Printf("Session %s: %d questions for role %q. Press Enter on an empty line to skip, type /quit to end early.\n",
			s.ID, len(s.Questions), role)

		in := bufio.NewScanner(os.Stdin)
		in.Buffer(make([]byte, 64*1024), 64*1024)

	loop:
		for q := s.Current(); q != nil; q = s.Current() {
			fmt.Printf("\nQuestion %d/%d: %s\n> ", len(s.Answers)+1, len(s.Questions), q.Text)
			if !in.Scan() {
				break
			}
			switch line := strings.TrimSpace(in.Text()); line {
			case "/quit":
				break loop
			case "":
				runner.Skip(s)
				fmt.Println("Skipped.")
			default:
				ev, _ := runner.Submit(cmd.Context(), s, line)
				fmt.Printf("\nScore: %d/100\n%s\n", ev.Score, ev.Feedback)
				for _, tip := range ev.ImprovementTips {
					fmt.Println("  -", tip)
				}
			}
		}

		printSummary(runner.End(cmd.Context(), s))
		return nil
	},
}

func printSummary(sum *session.Summary) {
	sep := strings.Repeat("─", 60)
	fmt.Println("\n" + sep)
	fmt.Println("SESSION SUMMARY")
	fmt.Println(sep)
	fmt.Printf("Answered:  %d of %d (%d skipped)\n", sum.Answered, sum.Questions, sum.Skipped)
	if sum.Answered > 0 {
		fmt.Printf("Average:   %.1f/100\n", sum.AverageScore)
	}

	if sum.Insights.OverallTip == "" {
		return
	}
	if len(sum.Insights.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, s := range sum.Insights.Strengths {
			fmt.Println("  +", s)
		}
	}
	if len(sum.Insights.Improvements) > 0 {
		fmt.Println("\nWork on:")
		for _, s := range sum.Insights.Improvements {
			fmt.Println("  -", s)
		}
	}
	fmt.Println("\nTip:", sum.Insights.OverallTip)
	if len(sum.Insights.Resources) > 0 {
		fmt.Println("\nResources:")
		for _, r := range sum.Insights.Resources {
			fmt.Println("  *", r)
		}
	}
}

func init() {
	practiceCmd.Flags().StringP("role", "r", "tech", "Role key (tech, hr, apt, beh)")
	practiceCmd.Flags().IntP("count", "n", 5, "Number of questions")
	practiceCmd.Flags().IntP("difficulty", "d", 3, "Difficulty level 1-5")
}
