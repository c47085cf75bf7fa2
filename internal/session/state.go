package session

import (
	"time"

	"github.com/abhisek/intervue/internal/qgen"
	"github.com/abhisek/intervue/internal/score"
)

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseActive Phase = iota // Serving questions
	PhaseDone                // Ended, summary available
)

// Answer records one served question and what happened to it.
type Answer struct {
	// Index is the 1-based position of the question in the session.
	Index int

	Question   qgen.Question
	AnswerText string
	Evaluation score.Evaluation

	// Answered is true when an answer was submitted and scored; Skipped is
	// true when the candidate moved past the question without answering.
	Answered bool
	Skipped  bool
}

// State tracks the runtime state of one interview session. It is owned by a
// single caller; concurrent sessions each get their own State.
type State struct {
	// ID is the UUID for this session.
	ID string

	Role       string
	Difficulty int
	StartedAt  time.Time

	// Questions is the fixed batch served during this session.
	Questions []qgen.Question

	// Answers accumulates one record per served question, in order.
	Answers []Answer

	// next indexes the question to serve; len(Questions) means exhausted.
	next int

	// Degraded is set when generation produced fewer unique questions than
	// requested.
	Degraded bool

	Phase Phase
}

// Current returns the question waiting for an answer, or nil when the
// session has no more questions or has ended.
func (s *State) Current() *qgen.Question {
	if s.Phase != PhaseActive || s.next >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.next]
}

// Remaining returns how many questions have not been served yet.
func (s *State) Remaining() int {
	return len(s.Questions) - s.next
}
