package qgen

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an interview question generator."

// buildPrompt constructs the generation prompt for one batch. It states the
// exact item count, the exact math sub-quota for this batch, and the
// required JSON shape.
func buildPrompt(role string, n, mathQuota, difficulty int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d unique interview questions for role = %q with difficulty level %d.\n", n, role, difficulty)

	if mathQuota == 0 {
		b.WriteString("Include zero math/quantitative questions: every question must have type \"reasoning\".\n")
	} else {
		fmt.Fprintf(&b, "Exactly %d of the %d questions must be math/quantitative (type \"math\"); the rest must have type \"reasoning\".\n", mathQuota, n)
	}

	b.WriteString(`Return only a JSON array (and nothing else). Each array item must be an object with keys:
- "text": string - the question text (short, clear, <=250 chars)
- "keywords": string - comma-separated keywords the candidate should ideally include
- "difficulty": integer 1-5
- "type": "math" or "reasoning"

Rules:
1) Return ONLY a JSON array (no commentary).
2) Avoid PII, names, or confidential info.
3) Ensure each question is unique.
4) Keep questions practical and answerable in 1-2 minutes.
5) Math questions must contain concrete numbers.

Example:
[
  {"text":"Explain the difference between process and thread with an example.","keywords":"process,thread,concurrency,context-switch","difficulty":3,"type":"reasoning"},
  {"text":"A service handles 1200 requests per minute. How many per second on average?","keywords":"rate,throughput,division","difficulty":2,"type":"math"}
]`)

	return b.String()
}

// buildReplacementPrompt requests targeted replacements of a single type,
// used when policy enforcement removed items from a batch.
func buildReplacementPrompt(role string, n, difficulty int, want QuestionType) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d unique interview questions for role = %q with difficulty level %d.\n", n, role, difficulty)
	fmt.Fprintf(&b, "Every question must have type %q. Do not include any other type.\n", string(want))
	b.WriteString(`Return only a JSON array (and nothing else). Each array item must be an object with keys "text", "keywords", "difficulty", "type".`)

	return b.String()
}
