package questiongen

import "github.com/abhisek/solarquiz/internal/llm"

// QuestionSchema defines the JSON schema for generated question batches.
var QuestionSchema = &llm.Schema{
	Name:        "planet-questions",
	Description: "A batch of multiple-choice quiz questions about one planet",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the player, one short sentence",
						},
						"options": map[string]any{
							"type":        "array",
							"minItems":    2,
							"maxItems":    4,
							"items":       map[string]any{"type": "string"},
							"description": "Answer choices in display order; exactly one is correct",
						},
						"correct_option": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct entry in options",
						},
					},
					"required":             []any{"prompt", "options", "correct_option"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
