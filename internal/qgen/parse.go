package qgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseError indicates the service response did not contain the expected
// JSON array. Caught at the attempt boundary; never surfaced to callers.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse model output: %s: %v", e.Msg, e.Err)
	}
	return "parse model output: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// extractArray locates the first top-level JSON array in text (first "[" to
// last "]") and parses it into raw elements.
func extractArray(text string) ([]json.RawMessage, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, &ParseError{Msg: "no JSON array found in model output"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, &ParseError{Msg: "bracketed span is not a JSON list", Err: err}
	}
	return items, nil
}

// rawItem is one unvalidated element of the wire array. Field types are
// deliberately loose: models return keywords as a string or a list, and
// difficulty as a number or a numeric string.
type rawItem struct {
	Text       any `json:"text"`
	Keywords   any `json:"keywords"`
	Difficulty any `json:"difficulty"`
	Type       any `json:"type"`
}

// validItem is a coerced, field-validated item, prior to classification
// and deduplication.
type validItem struct {
	Text         string
	Keywords     string
	Difficulty   int
	DeclaredType string
}

// validateItem coerces and validates one wire element. Returns false when
// the item must be discarded (item-level validation is never fatal to the
// batch).
func validateItem(raw json.RawMessage, maxTextLen int) (validItem, bool) {
	var it rawItem
	if err := json.Unmarshal(raw, &it); err != nil {
		return validItem{}, false
	}

	text, ok := it.Text.(string)
	if !ok {
		return validItem{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxTextLen {
		return validItem{}, false
	}

	declared, _ := it.Type.(string)

	return validItem{
		Text:         text,
		Keywords:     coerceKeywords(it.Keywords),
		Difficulty:   coerceDifficulty(it.Difficulty),
		DeclaredType: declared,
	}, true
}

// coerceDifficulty accepts a number or numeric string, clamps to [1,5],
// and defaults to 3 when coercion fails.
func coerceDifficulty(v any) int {
	switch d := v.(type) {
	case float64:
		return clampDifficulty(int(d))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil {
			return 3
		}
		return clampDifficulty(n)
	default:
		return 3
	}
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

// coerceKeywords accepts a comma-separated string or a list and returns a
// trimmed comma-joined string.
func coerceKeywords(v any) string {
	switch kw := v.(type) {
	case string:
		return strings.TrimSpace(kw)
	case []any:
		var parts []string
		for _, k := range kw {
			if k == nil {
				continue
			}
			s := strings.TrimSpace(fmt.Sprint(k))
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(kw))
	}
}
