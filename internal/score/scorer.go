// Package score analyzes submitted interview answers and produces a bounded
// score, readable feedback, and improvement tips. Evaluate is a total
// function: every internal failure, including a broken tip service, degrades
// to a usable local result so that answer submission always yields something
// storable.
package score

import (
	"context"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/qgen"
)

// Evaluation is the result of scoring one answer. Score is always in [0,100].
type Evaluation struct {
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	ImprovementTips []string `json:"improvement_tips"`
}

const noAnswerFeedback = "You did not provide an answer to this question."

func noAnswerEvaluation() Evaluation {
	return Evaluation{
		Score:    0,
		Feedback: noAnswerFeedback,
		ImprovementTips: []string{
			"Answer the question in your own words",
			"Explain the main idea clearly",
			"Add an example to support your explanation",
		},
	}
}

// Config controls answer scoring.
type Config struct {
	// MaxTokens and Temperature apply to the improvement-tip call.
	MaxTokens   int
	Temperature float64

	// Logger defaults to logrus.StandardLogger.
	Logger *logrus.Logger
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.4,
	}
}

// Scorer evaluates answers. The provider is optional: with a nil provider the
// AI tip pass is skipped and rule-based tips are always used.
type Scorer struct {
	provider llm.Provider
	cfg      Config
	log      *logrus.Logger
}

// New creates a Scorer.
func New(provider llm.Provider, cfg Config) *Scorer {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scorer{provider: provider, cfg: cfg, log: log}
}

// fillerTokens are counted per token; the "you know" bigram is counted as an
// adjacent token pair.
var fillerTokens = map[string]bool{
	"um":   true,
	"uh":   true,
	"like": true,
	"hmm":  true,
}

// Evaluate scores answer against question. A nil question means no keyword
// context; keyword scoring then uses a flat baseline.
func (s *Scorer) Evaluate(ctx context.Context, answer string, question *qgen.Question) (ev Evaluation) {
	// Submission must always produce a storable result, so an analysis
	// panic degrades to the no-answer path instead of propagating.
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("answer analysis failed")
			ev = noAnswerEvaluation()
		}
	}()

	if strings.TrimSpace(answer) == "" {
		return noAnswerEvaluation()
	}

	lower := strings.ToLower(answer)
	wordCount := len(strings.Fields(answer))
	fillers := countFillers(tokenize(answer))

	var keywords []string
	matched := 0
	if question != nil {
		keywords = splitKeywords(question.Keywords)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				matched++
			}
		}
	}

	keywordScore := 20
	if len(keywords) > 0 {
		keywordScore = int(math.Round(float64(matched) / float64(len(keywords)) * 40))
	}
	lengthScore := min(20, max(5, wordCount))
	grammarScore := 25 - min(10, fillers*2)
	fillerPenalty := min(15, fillers*3)
	total := max(0, keywordScore+lengthScore+grammarScore-fillerPenalty)

	tips := ruleTips(wordCount, len(keywords), matched)
	if ai := s.aiTips(ctx, answer, question, total); len(ai) > 0 {
		tips = ai
	}

	return Evaluation{
		Score:           total,
		Feedback:        buildFeedback(wordCount, len(keywords), matched, fillers),
		ImprovementTips: tips,
	}
}

// tokenize lowercases and splits the text, trimming surrounding punctuation
// from each token.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, ".,!?;:\"'()"); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func countFillers(tokens []string) int {
	n := 0
	for i, t := range tokens {
		if fillerTokens[t] {
			n++
		}
		if t == "you" && i+1 < len(tokens) && tokens[i+1] == "know" {
			n++
		}
	}
	return n
}

func splitKeywords(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// buildFeedback composes one sentence per rule branch; the branches are
// independent, not mutually exclusive.
func buildFeedback(wordCount, keywordCount, matched, fillers int) string {
	var parts []string
	switch {
	case wordCount < 12:
		parts = append(parts, "Your answer is very short and does not fully explain the concept.")
	case wordCount < 25:
		parts = append(parts, "Your answer explains the idea briefly, but it needs more depth.")
	default:
		parts = append(parts, "You have explained the concept reasonably well.")
	}

	if keywordCount > 0 && matched == 0 {
		parts = append(parts, "Important points related to the question are missing.")
	} else if keywordCount > 0 && matched < keywordCount {
		parts = append(parts, "Some important aspects of the topic are missing from your explanation.")
	}

	if fillers > 0 {
		parts = append(parts, "Try to reduce filler words to make your answer clearer and more confident.")
	}

	return strings.Join(parts, " ")
}

func ruleTips(wordCount, keywordCount, matched int) []string {
	var tips []string
	if wordCount < 25 {
		tips = append(tips, "Explain the concept in 2-3 clear sentences")
	}
	if keywordCount > 0 && matched < keywordCount {
		tips = append(tips, "Include definition, purpose, and usage")
	}
	return append(tips, "Add a simple real-world or technical example")
}
