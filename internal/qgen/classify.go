package qgen

import (
	"regexp"
	"strings"
)

// numericRe matches numerals and currency/percent symbols, the cheap signal
// that a question has quantitative content.
var numericRe = regexp.MustCompile(`[0-9]|[$€£₹%]`)

// digitRe matches plain numerals only, used by the enrichment check.
var digitRe = regexp.MustCompile(`[0-9]`)

// mathVocabRe matches the fixed math keyword list on word boundaries, so
// "sum" does not fire on "summary" or "mode" on "model".
var mathVocabRe = regexp.MustCompile(`\b(calculate|compute|probability|percent|ratio|sum|difference|distance|speed|time|how many|series|mean|median|mode)\b`)

// Classify resolves a question's type. An explicitly valid declared type
// wins; anything else is inferred from the text.
func Classify(declared, text string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case string(TypeMath):
		return TypeMath
	case string(TypeReasoning):
		return TypeReasoning
	}
	return inferType(text)
}

// inferType detects math questions by numeric content or math vocabulary.
func inferType(text string) QuestionType {
	if numericRe.MatchString(text) {
		return TypeMath
	}
	if mathVocabRe.MatchString(strings.ToLower(text)) {
		return TypeMath
	}
	return TypeReasoning
}

// numericExample is the canned span appended to math questions that lack
// numeric content.
const numericExample = "Use concrete numbers in your answer, for example 12 and 48."

// ensureNumericContent enforces the invariant that math questions contain at
// least one numeral: it appends a short canned numeric example to the text
// and "numbers" to the keywords. Returns true if the question was changed
// (the caller must recompute the signature).
func ensureNumericContent(q *Question) bool {
	if digitRe.MatchString(q.Text) {
		return false
	}
	q.Text = strings.TrimSpace(q.Text) + " " + numericExample
	if q.Keywords == "" {
		q.Keywords = "numbers"
	} else {
		q.Keywords += ",numbers"
	}
	return true
}
