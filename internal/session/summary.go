package session

import (
	"context"
	"time"

	"github.com/abhisek/intervue/internal/insights"
)

// Summary holds the end-of-session results.
type Summary struct {
	SessionID string
	Role      string
	Duration  time.Duration

	Questions int
	Answered  int
	Skipped   int

	// AverageScore is the mean over scored answers; 0 when none were
	// answered (check Answered to tell the cases apart).
	AverageScore float64

	// Degraded reports that the session held fewer questions than requested.
	Degraded bool

	Answers  []Answer
	Insights insights.Insights
}

func (r *Runner) buildSummary(ctx context.Context, s *State) *Summary {
	sum := &Summary{
		SessionID: s.ID,
		Role:      s.Role,
		Duration:  time.Since(s.StartedAt),
		Questions: len(s.Questions),
		Degraded:  s.Degraded,
		Answers:   s.Answers,
	}

	total := 0
	var records []insights.AnswerRecord
	for _, a := range s.Answers {
		if a.Skipped {
			sum.Skipped++
			continue
		}
		sum.Answered++
		total += a.Evaluation.Score
		records = append(records, insights.AnswerRecord{
			QuestionText: a.Question.Text,
			AnswerText:   a.AnswerText,
			Score:        a.Evaluation.Score,
			Feedback:     a.Evaluation.Feedback,
		})
	}
	if sum.Answered > 0 {
		sum.AverageScore = float64(total) / float64(sum.Answered)
	}

	if len(records) > 0 && r.synth != nil {
		sum.Insights = r.synth.Synthesize(ctx, records)
	}
	return sum
}
