package qgen

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// StubQuestion is the payload produced by the template stub. It carries no
// type; the classifier infers one when the payload enters a batch.
type StubQuestion struct {
	Text       string
	Keywords   string
	Difficulty int
}

// TemplateStub is the deterministic, offline fallback question generator.
// It fills role-keyed templates from fixed vocabularies. No network access;
// the template tables are a programming invariant, not a runtime input.
type TemplateStub struct {
	rng *rand.Rand
}

// NewTemplateStub creates a stub generator. A nil rng gets a freshly seeded
// source; tests pass a seeded one for reproducibility.
func NewTemplateStub(rng *rand.Rand) *TemplateStub {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &TemplateStub{rng: rng}
}

var stubTechTerms = []string{
	"process",
	"thread",
	"database indexing",
	"REST API",
	"authentication",
	"caching",
	"load balancing",
	"microservices",
	"HTTP protocol",
	"Docker container",
}

var stubScenarios = []string{
	"a production outage",
	"a conflicting requirement",
	"a tight deadline",
	"scaling the system to 10x",
	"optimizing slow database queries",
	"managing teamwork conflicts",
	"debugging a critical bug",
	"handling unexpected edge cases",
}

var stubTemplates = map[string][]string{
	"tech": {
		"Explain how {a} works and give an example.",
		"Describe the difference between {a} and {b} with a real-life example.",
		"How would you troubleshoot issues related to {a}?",
		"Design a small system using {a} and explain the flow.",
		"What are common mistakes developers make with {a}?",
	},
	"hr": {
		"Tell me about a situation where you handled {scenario}.",
		"Describe your strengths and weaknesses in a real situation.",
		"How do you deal with conflicts inside a team?",
		"Why do you think you are a good fit for this role?",
		"Describe your biggest achievement and how you reached it.",
	},
	"apt": {
		"If {n} people share {m} items, how many items per person? Explain reasoning.",
		"Solve a real-life problem using ratios or percentages.",
		"Explain how to break a complex problem into smaller steps.",
		"Given a series: 2, 6, 18... find the next term and justify.",
		"How do you approach solving optimization problems?",
	},
	"beh": {
		"Tell me about a moment you had to make a quick decision under pressure.",
		"Describe a failure you experienced and what you learned.",
		"How do you motivate yourself during repetitive tasks?",
		"Explain a situation where you took leadership voluntarily.",
		"Describe how you handle criticism or negative feedback.",
	},
}

// Stub produces one template-filled question payload for the role.
// Unknown roles fall back to the technical category.
func (s *TemplateStub) Stub(role string, difficulty int) StubQuestion {
	templates, ok := stubTemplates[role]
	if !ok {
		templates = stubTemplates["tech"]
	}
	template := templates[s.rng.IntN(len(templates))]

	a := stubTechTerms[s.rng.IntN(len(stubTechTerms))]
	b := a
	for b == a {
		b = stubTechTerms[s.rng.IntN(len(stubTechTerms))]
	}
	scenario := stubScenarios[s.rng.IntN(len(stubScenarios))]
	n := 2 + s.rng.IntN(19)  // 2..20
	m := 5 + s.rng.IntN(96)  // 5..100

	text := strings.NewReplacer(
		"{a}", a,
		"{b}", b,
		"{scenario}", scenario,
		"{n}", strconv.Itoa(n),
		"{m}", strconv.Itoa(m),
	).Replace(template)

	var keywords []string
	for _, kw := range []string{a, b, strings.Fields(scenario)[0], "explain"} {
		if kw != "" && len(keywords) < 4 {
			keywords = append(keywords, strings.ToLower(kw))
		}
	}

	return StubQuestion{
		Text:       strings.TrimSpace(text),
		Keywords:   strings.Join(keywords, ","),
		Difficulty: difficulty,
	}
}
