// Package insights turns a session's scored answers into end-of-session
// advice. Synthesize is a total function: when the model call fails or
// returns an unusable shape, a local heuristic built from the scores takes
// over, so the caller always gets a fully populated result.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/intervue/internal/llm"
)

// AnswerRecord is one scored answer supplied to the synthesizer.
type AnswerRecord struct {
	QuestionText string `json:"question"`
	AnswerText   string `json:"answer"`
	Score        int    `json:"score"`
	Feedback     string `json:"feedback"`
}

// Insights is the session-level advice block. Callers may rely on every
// field being populated: slices are never nil and OverallTip is never empty.
type Insights struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	OverallTip   string   `json:"overall_tip"`
	Resources    []string `json:"resources"`
}

// Per-field truncation bounds the prompt; the serialized array is
// additionally capped as a whole.
const (
	maxQuestionChars = 600
	maxAnswerChars   = 1000
	maxFeedbackChars = 300
	maxPayloadChars  = 22000

	maxStrengths    = 4
	maxImprovements = 6
	maxResources    = 6
)

// Config controls insight synthesis.
type Config struct {
	MaxTokens   int
	Temperature float64
	Logger      *logrus.Logger
}

// DefaultConfig returns the production synthesis configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   700,
		Temperature: 0.3,
	}
}

// Synthesizer builds session insights. A nil provider always uses the local
// heuristic.
type Synthesizer struct {
	provider llm.Provider
	cfg      Config
	log      *logrus.Logger
}

// New creates a Synthesizer.
func New(provider llm.Provider, cfg Config) *Synthesizer {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Synthesizer{provider: provider, cfg: cfg, log: log}
}

const insightsSystem = "You are an experienced interview coach reviewing a full mock-interview session."

// Synthesize produces session advice from the scored answers. It makes at
// most one model call.
func (s *Synthesizer) Synthesize(ctx context.Context, answers []AnswerRecord) (res Insights) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("insight synthesis failed")
			res = fallback(answers)
		}
	}()

	if s.provider == nil {
		return fallback(answers)
	}
	ctx = llm.WithPurpose(ctx, "session-insights")

	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      insightsSystem,
		Prompt:      buildInsightsPrompt(answers),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.log.WithError(err).Warn("insight call failed")
		return fallback(answers)
	}

	parsed, err := parseInsights(resp.Text)
	if err != nil {
		s.log.WithError(err).Warn("insight response unparsable")
		return fallback(answers)
	}
	return parsed
}

// buildInsightsPrompt serializes the answers to a compact JSON array with
// per-field truncation and a hard cap on the array as a whole.
func buildInsightsPrompt(answers []AnswerRecord) string {
	trimmed := make([]AnswerRecord, len(answers))
	for i, a := range answers {
		trimmed[i] = AnswerRecord{
			QuestionText: truncate(a.QuestionText, maxQuestionChars),
			AnswerText:   truncate(a.AnswerText, maxAnswerChars),
			Score:        a.Score,
			Feedback:     truncate(a.Feedback, maxFeedbackChars),
		}
	}
	payload, err := json.Marshal(trimmed)
	if err != nil {
		payload = []byte("[]")
	}
	body := truncate(string(payload), maxPayloadChars)

	var b strings.Builder
	b.WriteString("Below is a JSON array of scored answers from one mock-interview session.\n")
	b.WriteString("Each element has keys: question, answer, score (0-100), feedback.\n\n")
	b.WriteString(body)
	b.WriteString("\n\nTASK:\n")
	b.WriteString("Summarize the candidate's performance across the whole session.\n\n")
	b.WriteString("Return ONLY a JSON object with exactly these four keys:\n")
	b.WriteString(`- "strengths": array of short strings, what the candidate did well` + "\n")
	b.WriteString(`- "improvements": array of short strings, what to work on next` + "\n")
	b.WriteString(`- "overall_tip": one sentence of overall advice` + "\n")
	b.WriteString(`- "resources": array of short strings naming topics or materials to study` + "\n")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// parseInsights extracts the first top-level object from the response,
// validates its shape, and normalizes the lists.
func parseInsights(text string) (Insights, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return Insights{}, fmt.Errorf("no JSON object in response")
	}
	raw := []byte(text[start : end+1])

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Insights{}, fmt.Errorf("decode insights object: %w", err)
	}
	schema, err := compiledInsightsSchema()
	if err != nil {
		return Insights{}, fmt.Errorf("compile insights schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return Insights{}, fmt.Errorf("insights object rejected: %w", err)
	}

	var wire Insights
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Insights{}, fmt.Errorf("decode insights object: %w", err)
	}

	res := Insights{
		Strengths:    cleanList(wire.Strengths, maxStrengths),
		Improvements: cleanList(wire.Improvements, maxImprovements),
		OverallTip:   strings.TrimSpace(wire.OverallTip),
		Resources:    cleanList(wire.Resources, maxResources),
	}
	if res.OverallTip == "" {
		return Insights{}, fmt.Errorf("empty overall_tip")
	}
	return res, nil
}

// cleanList trims entries, drops empties, caps the list, and never returns
// nil.
func cleanList(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// fallback derives insights locally from the scores: the highest-scoring
// questions are strengths, the lowest are improvement areas.
func fallback(answers []AnswerRecord) Insights {
	ranked := make([]AnswerRecord, len(answers))
	copy(ranked, answers)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	strengths := make([]string, 0, 3)
	for _, a := range ranked[:min(3, len(ranked))] {
		if t := strings.TrimSpace(truncate(a.QuestionText, 120)); t != "" {
			strengths = append(strengths, t)
		}
	}

	improvements := make([]string, 0, 5)
	for i := len(ranked) - 1; i >= 0 && len(improvements) < 5; i-- {
		if t := strings.TrimSpace(truncate(ranked[i].QuestionText, 120)); t != "" {
			improvements = append(improvements, t)
		}
	}

	return Insights{
		Strengths:    strengths,
		Improvements: improvements,
		OverallTip:   "Practice answering aloud: define the concept, explain why it matters, and finish with one concrete example.",
		Resources: []string{
			"Review the core concepts behind the questions you scored lowest on",
			"Rehearse answers with the STAR structure (situation, task, action, result)",
			"Record yourself answering and listen for filler words",
		},
	}
}
