package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/qgen"
)

const tipsSystem = "You are an expert interview coach."

const maxAITips = 5

// tipsSchemaJSON describes the expected tip payload: a bare JSON array of
// non-empty strings.
const tipsSchemaJSON = `{
	"type": "array",
	"items": {"type": "string", "minLength": 1},
	"minItems": 1
}`

var (
	tipsSchemaOnce sync.Once
	tipsSchema     *jsonschema.Schema
	tipsSchemaErr  error
)

func compiledTipsSchema() (*jsonschema.Schema, error) {
	tipsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(tipsSchemaJSON))
		if err != nil {
			tipsSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://improvement_tips.json"
		if err := c.AddResource(url, doc); err != nil {
			tipsSchemaErr = err
			return
		}
		tipsSchema, tipsSchemaErr = c.Compile(url)
	})
	return tipsSchema, tipsSchemaErr
}

// aiTips asks the model for 3-5 tips tailored to the answer. Any failure
// returns nil; the caller keeps the rule-based tips.
func (s *Scorer) aiTips(ctx context.Context, answer string, question *qgen.Question, score int) []string {
	if s.provider == nil {
		return nil
	}
	ctx = llm.WithPurpose(ctx, "improvement-tips")

	questionText := ""
	if question != nil {
		questionText = question.Text
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      tipsSystem,
		Prompt:      buildTipsPrompt(questionText, answer, score),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.log.WithError(err).Warn("improvement tip call failed")
		return nil
	}

	tips, err := parseTips(resp.Text)
	if err != nil {
		s.log.WithError(err).Warn("improvement tip response unparsable")
		return nil
	}
	return tips
}

func buildTipsPrompt(questionText, answer string, score int) string {
	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(questionText)
	b.WriteString("\n\nCandidate Answer:\n")
	b.WriteString(answer)
	fmt.Fprintf(&b, "\n\nScore: %d/100\n\n", score)
	b.WriteString("TASK:\n")
	b.WriteString("Generate 3-5 concise, actionable improvement tips to help the candidate improve.\n")
	b.WriteString("Tips should be:\n")
	b.WriteString("- Specific to the answer\n")
	b.WriteString("- Practical and short\n")
	b.WriteString("- Focused on clarity, structure, depth, and correctness\n\n")
	b.WriteString("Return ONLY a JSON array of strings.\n")
	b.WriteString(`Example:
[
  "Explain the concept step by step",
  "Add a real-world example",
  "Mention trade-offs clearly"
]
`)
	return b.String()
}

// parseTips extracts the first bracketed span from the response, validates it
// against the tip schema, and caps the list at five entries.
func parseTips(text string) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON array in response")
	}

	var parsed any
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decode tip array: %w", err)
	}

	schema, err := compiledTipsSchema()
	if err != nil {
		return nil, fmt.Errorf("compile tip schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("tip array rejected: %w", err)
	}

	items := parsed.([]any)
	tips := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it.(string)); t != "" {
			tips = append(tips, t)
		}
	}
	if len(tips) == 0 {
		return nil, errors.New("empty tip list")
	}
	if len(tips) > maxAITips {
		tips = tips[:maxAITips]
	}
	return tips, nil
}
