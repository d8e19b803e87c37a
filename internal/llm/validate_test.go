package llm_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
)

func TestQuestionSchema_Accepts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"first option", `{"question":"What is 3 + 4?","options":["7","8","9","10"],"correctAnswerIndex":0}`},
		{"last option", `{"question":"Solve 2x = 10.","options":["2","4","8","5"],"correctAnswerIndex":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, generator.QuestionSchema.Validate(json.RawMessage(tt.raw)))
		})
	}
}

func TestQuestionSchema_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"three options", `{"question":"Q?","options":["1","2","3"],"correctAnswerIndex":0}`},
		{"five options", `{"question":"Q?","options":["1","2","3","4","5"],"correctAnswerIndex":0}`},
		{"index four", `{"question":"Q?","options":["1","2","3","4"],"correctAnswerIndex":4}`},
		{"negative index", `{"question":"Q?","options":["1","2","3","4"],"correctAnswerIndex":-1}`},
		{"fractional index", `{"question":"Q?","options":["1","2","3","4"],"correctAnswerIndex":1.5}`},
		{"missing index", `{"question":"Q?","options":["1","2","3","4"]}`},
		{"missing question", `{"options":["1","2","3","4"],"correctAnswerIndex":0}`},
		{"empty question", `{"question":"","options":["1","2","3","4"],"correctAnswerIndex":0}`},
		{"numeric option", `{"question":"Q?","options":["1",2,"3","4"],"correctAnswerIndex":0}`},
		{"extra property", `{"question":"Q?","options":["1","2","3","4"],"correctAnswerIndex":0,"answer":"1"}`},
		{"not an object", `["Q?"]`},
		{"prose", `Here is your question: what is 2+2?`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := generator.QuestionSchema.Validate(json.RawMessage(tt.raw))
			require.Error(t, err)

			var invalid *llm.ErrInvalidResponse
			require.True(t, errors.As(err, &invalid), "got %T", err)
			assert.Equal(t, tt.raw, string(invalid.Content))
			assert.Contains(t, err.Error(), "ged-question")
		})
	}
}

func TestSchemaValidate_NilAcceptsAnything(t *testing.T) {
	var schema *llm.Schema
	assert.NoError(t, schema.Validate(json.RawMessage("free text explanation")))
}

func TestSchemaValidate_BadDefinition(t *testing.T) {
	schema := &llm.Schema{
		Name:       "broken-definition",
		Definition: map[string]any{"type": "no-such-type"},
	}
	err := schema.Validate(json.RawMessage(`{}`))
	var invalid *llm.ErrInvalidResponse
	require.True(t, errors.As(err, &invalid), "got %T (%v)", err, err)
}
