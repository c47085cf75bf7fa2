package qgen

// QuestionType classifies a question as quantitative or not.
type QuestionType string

const (
	TypeMath      QuestionType = "math"
	TypeReasoning QuestionType = "reasoning"
)

// Source records which generator produced a question.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceTemplate Source = "template"
)

// Question is a validated, deduplicated interview question ready to persist.
// Immutable once created.
type Question struct {
	// Text is the question prompt shown to the candidate. Non-empty,
	// at most 300 characters.
	Text string `json:"text"`

	// Keywords is a comma-separated list of terms a strong answer should
	// touch. May be empty.
	Keywords string `json:"keywords"`

	// Difficulty is in [1,5].
	Difficulty int `json:"difficulty"`

	// Type is "math" or "reasoning".
	Type QuestionType `json:"type"`

	// Signature is the sha256 of the normalized text. Two questions with
	// equal signatures are duplicates; only one is retained per batch.
	Signature string `json:"signature"`

	// Source is "llm" or "template".
	Source Source `json:"source"`
}

// Request describes one generation call. Not persisted.
type Request struct {
	Role       string
	Count      int
	Difficulty int
}

// Result is an ordered batch of questions, at most Count long, each unique
// by signature and type-compliant with the role profile. Constructed fresh
// per request and not retained by the generator.
type Result struct {
	Questions []Question

	// Requested echoes the requested count.
	Requested int

	// FromLLM and FromStub count questions by source.
	FromLLM  int
	FromStub int

	// Degraded is set when fewer unique questions than requested could be
	// produced. It is the only user-visible degradation signal.
	Degraded bool
}
