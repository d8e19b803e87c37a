package generator

import "github.com/abhisek/gedquiz/internal/llm"

// QuestionSchema defines the JSON schema for question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "ged-question",
	Description: "One multiple-choice GED math question with four options",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The math problem statement.",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"minItems":    OptionCount,
				"maxItems":    OptionCount,
				"description": "An array of exactly 4 possible answers.",
			},
			"correctAnswerIndex": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     OptionCount - 1,
				"description": "The 0-based index of the correct answer in the options array.",
			},
		},
		"required":             []any{"question", "options", "correctAnswerIndex"},
		"additionalProperties": false,
	},
}
