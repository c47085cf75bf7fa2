// Package session drives one mock interview end to end: a question batch is
// generated up front, served one at a time, each submitted answer is scored,
// and ending the session produces a summary with synthesized advice.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/intervue/internal/insights"
	"github.com/abhisek/intervue/internal/qgen"
	"github.com/abhisek/intervue/internal/score"
)

// Config controls session behavior.
type Config struct {
	// SignatureSeen reports whether a question signature already exists
	// outside this session, typically via a persistence-layer uniqueness
	// check. Matching questions are dropped before the session starts.
	// Nil disables cross-session deduplication.
	SignatureSeen func(signature string) bool

	// Logger defaults to logrus.StandardLogger.
	Logger *logrus.Logger
}

// Runner creates and advances interview sessions.
type Runner struct {
	gen    *qgen.Generator
	scorer *score.Scorer
	synth  *insights.Synthesizer
	cfg    Config
	log    *logrus.Logger
}

// New creates a Runner from the three pipeline stages.
func New(gen *qgen.Generator, scorer *score.Scorer, synth *insights.Synthesizer, cfg Config) *Runner {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{gen: gen, scorer: scorer, synth: synth, cfg: cfg, log: log}
}

// Start generates the question batch and opens a session. The session may
// hold fewer than count questions; State.Degraded reports that.
func (r *Runner) Start(ctx context.Context, role string, count, difficulty int) *State {
	res := r.gen.Generate(ctx, qgen.Request{Role: role, Count: count, Difficulty: difficulty})

	questions := res.Questions
	if r.cfg.SignatureSeen != nil {
		kept := questions[:0]
		for _, q := range questions {
			if r.cfg.SignatureSeen(q.Signature) {
				r.log.WithField("signature", q.Signature).Debug("dropping already-known question")
				continue
			}
			kept = append(kept, q)
		}
		questions = kept
	}

	return &State{
		ID:         uuid.NewString(),
		Role:       role,
		Difficulty: difficulty,
		StartedAt:  time.Now(),
		Questions:  questions,
		Degraded:   res.Degraded || len(questions) < count,
		Phase:      PhaseActive,
	}
}

// Submit scores the answer to the current question and advances the session.
// It returns false when no question is waiting.
func (r *Runner) Submit(ctx context.Context, s *State, answerText string) (score.Evaluation, bool) {
	q := s.Current()
	if q == nil {
		return score.Evaluation{}, false
	}

	ev := r.scorer.Evaluate(ctx, answerText, q)
	s.Answers = append(s.Answers, Answer{
		Index:      s.next + 1,
		Question:   *q,
		AnswerText: answerText,
		Evaluation: ev,
		Answered:   true,
	})
	s.next++
	return ev, true
}

// Skip records the current question as passed over and advances the session.
// It returns false when no question is waiting.
func (r *Runner) Skip(s *State) bool {
	q := s.Current()
	if q == nil {
		return false
	}
	s.Answers = append(s.Answers, Answer{
		Index:    s.next + 1,
		Question: *q,
		Skipped:  true,
	})
	s.next++
	return true
}

// End closes the session and builds its summary, including synthesized
// session insights when at least one answer was scored.
func (r *Runner) End(ctx context.Context, s *State) *Summary {
	s.Phase = PhaseDone
	return r.buildSummary(ctx, s)
}
