package insights

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// insightsSchemaJSON describes the suggestions wire format: an object with
// exactly the four advice keys.
const insightsSchemaJSON = `{
	"type": "object",
	"required": ["strengths", "improvements", "overall_tip", "resources"],
	"properties": {
		"strengths":    {"type": "array", "items": {"type": "string"}},
		"improvements": {"type": "array", "items": {"type": "string"}},
		"overall_tip":  {"type": "string", "minLength": 1},
		"resources":    {"type": "array", "items": {"type": "string"}}
	}
}`

var (
	insightsSchemaOnce sync.Once
	insightsSchema     *jsonschema.Schema
	insightsSchemaErr  error
)

func compiledInsightsSchema() (*jsonschema.Schema, error) {
	insightsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(insightsSchemaJSON))
		if err != nil {
			insightsSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://session_insights.json"
		if err := c.AddResource(url, doc); err != nil {
			insightsSchemaErr = err
			return
		}
		insightsSchema, insightsSchemaErr = c.Compile(url)
	})
	return insightsSchema, insightsSchemaErr
}
