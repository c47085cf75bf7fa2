package score

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/qgen"
)

// newScorer returns a Scorer with no tip provider, so tests exercise the
// pure scoring path.
func newScorer() *Scorer {
	return New(nil, DefaultConfig())
}

// nWords builds an answer of exactly n filler-free words, with the given
// prefix words first.
func nWords(n int, prefix ...string) string {
	words := append([]string{}, prefix...)
	for len(words) < n {
		words = append(words, "w")
	}
	return strings.Join(words, " ")
}

func TestEvaluateEmptyAnswer(t *testing.T) {
	s := newScorer()
	q := &qgen.Question{Text: "What is REST?", Keywords: "api,rest,crud"}

	for _, answer := range []string{"", "   ", "\n\t"} {
		ev := s.Evaluate(context.Background(), answer, q)

		if ev.Score != 0 {
			t.Errorf("Evaluate(%q) score = %d, want 0", answer, ev.Score)
		}
		if ev.Feedback != "You did not provide an answer to this question." {
			t.Errorf("Evaluate(%q) feedback = %q", answer, ev.Feedback)
		}
		want := []string{
			"Answer the question in your own words",
			"Explain the main idea clearly",
			"Add an example to support your explanation",
		}
		if len(ev.ImprovementTips) != len(want) {
			t.Fatalf("Evaluate(%q) tips = %v, want %v", answer, ev.ImprovementTips, want)
		}
		for i, tip := range want {
			if ev.ImprovementTips[i] != tip {
				t.Errorf("tip[%d] = %q, want %q", i, ev.ImprovementTips[i], tip)
			}
		}
	}
}

func TestEvaluateFullFormula(t *testing.T) {
	s := newScorer()
	q := &qgen.Question{Text: "Explain REST APIs", Keywords: "rest,api"}

	// 30 words, zero fillers, both keywords matched:
	// keyword 40 + length 20 + grammar 25 - penalty 0 = 85.
	answer := nWords(30, "rest", "api")
	ev := s.Evaluate(context.Background(), answer, q)

	if ev.Score != 85 {
		t.Fatalf("score = %d, want 85", ev.Score)
	}
	if ev.Feedback != "You have explained the concept reasonably well." {
		t.Errorf("feedback = %q", ev.Feedback)
	}
}

func TestEvaluateNoQuestion(t *testing.T) {
	s := newScorer()

	// Flat keyword baseline 20 + length 20 + grammar 25 = 65.
	ev := s.Evaluate(context.Background(), nWords(30), nil)
	if ev.Score != 65 {
		t.Errorf("score = %d, want 65", ev.Score)
	}
}

func TestEvaluateKeywordMonotonicity(t *testing.T) {
	s := newScorer()
	answer := nWords(30, "rest", "api")

	cases := []string{
		"zzz,qqq",  // 0 of 2 matched
		"rest,qqq", // 1 of 2 matched
		"rest,api", // 2 of 2 matched
	}
	prev := -1
	for _, kw := range cases {
		ev := s.Evaluate(context.Background(), answer, &qgen.Question{Keywords: kw})
		if ev.Score < prev {
			t.Errorf("keywords %q: score %d dropped below %d with higher coverage", kw, ev.Score, prev)
		}
		prev = ev.Score
	}
}

func TestEvaluateScoreBounds(t *testing.T) {
	s := newScorer()
	questions := []*qgen.Question{
		nil,
		{Keywords: ""},
		{Keywords: "rest,api,crud,http,json"},
	}
	answers := []string{
		"yes",
		"um uh like hmm um uh like hmm you know you know",
		nWords(500),
		strings.Repeat("rest api crud http json ", 40),
	}

	for _, q := range questions {
		for _, a := range answers {
			ev := s.Evaluate(context.Background(), a, q)
			if ev.Score < 0 || ev.Score > 100 {
				t.Errorf("score %d out of [0,100] for answer %.30q", ev.Score, a)
			}
		}
	}
}

func TestEvaluateFillerCounting(t *testing.T) {
	s := newScorer()

	// 3 fillers: "um", "like", and the "you know" pair. Punctuation must
	// not hide a filler.
	answer := nWords(30, "um,", "like", "you", "know")
	ev := s.Evaluate(context.Background(), answer, nil)

	// keyword 20 + length 20 + grammar (25-6) - penalty 9 = 50.
	if ev.Score != 50 {
		t.Errorf("score = %d, want 50", ev.Score)
	}
	if !strings.Contains(ev.Feedback, "reduce filler words") {
		t.Errorf("feedback missing filler advice: %q", ev.Feedback)
	}
}

func TestEvaluateFeedbackTiers(t *testing.T) {
	s := newScorer()
	cases := []struct {
		words int
		want  string
	}{
		{5, "very short"},
		{15, "briefly"},
		{30, "reasonably well"},
	}
	for _, tc := range cases {
		ev := s.Evaluate(context.Background(), nWords(tc.words), nil)
		if !strings.Contains(ev.Feedback, tc.want) {
			t.Errorf("%d words: feedback %q, want substring %q", tc.words, ev.Feedback, tc.want)
		}
	}
}

func TestEvaluateFeedbackKeywordBranches(t *testing.T) {
	s := newScorer()

	ev := s.Evaluate(context.Background(), nWords(30), &qgen.Question{Keywords: "zzz,qqq"})
	if !strings.Contains(ev.Feedback, "Important points related to the question are missing.") {
		t.Errorf("zero matched: feedback = %q", ev.Feedback)
	}

	ev = s.Evaluate(context.Background(), nWords(30, "rest"), &qgen.Question{Keywords: "rest,qqq"})
	if !strings.Contains(ev.Feedback, "Some important aspects of the topic are missing") {
		t.Errorf("partial matched: feedback = %q", ev.Feedback)
	}
}

func TestEvaluateRuleTips(t *testing.T) {
	s := newScorer()

	// Short answer with incomplete keyword coverage hits every rule tip.
	ev := s.Evaluate(context.Background(), "rest is an architectural style", &qgen.Question{Keywords: "rest,api"})
	want := []string{
		"Explain the concept in 2-3 clear sentences",
		"Include definition, purpose, and usage",
		"Add a simple real-world or technical example",
	}
	if len(ev.ImprovementTips) != len(want) {
		t.Fatalf("tips = %v, want %v", ev.ImprovementTips, want)
	}
	for i, tip := range want {
		if ev.ImprovementTips[i] != tip {
			t.Errorf("tip[%d] = %q, want %q", i, ev.ImprovementTips[i], tip)
		}
	}

	// A long, fully-covered answer still gets the example tip.
	ev = s.Evaluate(context.Background(), nWords(30, "rest", "api"), &qgen.Question{Keywords: "rest,api"})
	if len(ev.ImprovementTips) != 1 || ev.ImprovementTips[0] != "Add a simple real-world or technical example" {
		t.Errorf("tips = %v, want only the example tip", ev.ImprovementTips)
	}
}

func TestAITipsReplaceRuleTips(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "Here you go:\n[\"Structure the answer\", \"Define the term first\", \"Give one example\"]\nGood luck!",
	})
	s := New(mock, DefaultConfig())

	ev := s.Evaluate(context.Background(), "rest is an architectural style", &qgen.Question{Text: "What is REST?", Keywords: "rest,api"})

	want := []string{"Structure the answer", "Define the term first", "Give one example"}
	if len(ev.ImprovementTips) != len(want) {
		t.Fatalf("tips = %v, want %v", ev.ImprovementTips, want)
	}
	for i, tip := range want {
		if ev.ImprovementTips[i] != tip {
			t.Errorf("tip[%d] = %q, want %q", i, ev.ImprovementTips[i], tip)
		}
	}

	if mock.CallCount() != 1 {
		t.Fatalf("CallCount = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if !strings.Contains(req.Prompt, "What is REST?") || !strings.Contains(req.Prompt, "/100") {
		t.Errorf("tip prompt missing question or score: %q", req.Prompt)
	}
}

func TestAITipsCappedAtFive(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `["a","b","c","d","e","f","g"]`,
	})
	s := New(mock, DefaultConfig())

	ev := s.Evaluate(context.Background(), nWords(30), nil)
	if len(ev.ImprovementTips) != 5 {
		t.Errorf("tips = %v, want 5 entries", ev.ImprovementTips)
	}
}

func TestAITipsFallbackOnFailure(t *testing.T) {
	cases := []struct {
		name string
		mock *llm.MockProvider
	}{
		{"provider error", llm.NewMockProvider()},
		{"no array", llm.NewMockProvider(llm.MockResponse{Text: "I cannot help with that."})},
		{"invalid json", llm.NewMockProvider(llm.MockResponse{Text: `["unterminated`})},
		{"non-string items", llm.NewMockProvider(llm.MockResponse{Text: `[1, 2, 3]`})},
		{"empty array", llm.NewMockProvider(llm.MockResponse{Text: `[]`})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(tc.mock, DefaultConfig())
			ev := s.Evaluate(context.Background(), "rest is a style", &qgen.Question{Keywords: "rest,api"})
			if len(ev.ImprovementTips) != 3 {
				t.Errorf("tips = %v, want the 3 rule tips", ev.ImprovementTips)
			}
		})
	}
}

func TestParseTips(t *testing.T) {
	got, err := parseTips(`prefix ["one", "  two  ", "three"] suffix`)
	if err != nil {
		t.Fatalf("parseTips: %v", err)
	}
	if len(got) != 3 || got[1] != "two" {
		t.Errorf("parseTips = %v", got)
	}

	if _, err := parseTips("no brackets here"); err == nil {
		t.Error("parseTips accepted text without an array")
	}
	if _, err := parseTips(`[""]`); err == nil {
		t.Error("parseTips accepted an empty-string tip")
	}
}
