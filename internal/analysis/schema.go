package analysis

import (
	"github.com/abhisek/smartstudy/internal/llm"
	"github.com/abhisek/smartstudy/internal/study"
)

// StudyPackageSchema is the JSON schema a normalized response must satisfy.
var StudyPackageSchema = &llm.Schema{
	Name:        "study-package",
	Description: "Summary, glossary and multiple-choice quiz for a study text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"keyConcepts": map[string]any{
				"type":     "array",
				"minItems": study.MinConcepts,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"term":       map[string]any{"type": "string", "minLength": 1},
						"definition": map[string]any{"type": "string", "minLength": 1},
						"example":    map[string]any{"type": "string"},
					},
					"required": []any{"term", "definition"},
				},
			},
			"quiz": map[string]any{
				"type":     "array",
				"minItems": study.QuizLength,
				"maxItems": study.QuizLength,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":   map[string]any{"type": "string", "minLength": 1},
						"bloomLevel": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"minItems": study.OptionCount,
							"maxItems": study.OptionCount,
							"items":    map[string]any{"type": "string"},
						},
						"correctAnswer": map[string]any{
							"type":    "integer",
							"minimum": 0,
							"maximum": study.OptionCount - 1,
						},
						"explanation": map[string]any{"type": "string"},
					},
					"required": []any{"question", "options", "correctAnswer", "explanation"},
				},
			},
		},
		"required": []any{"summary", "keyConcepts", "quiz"},
	},
}
