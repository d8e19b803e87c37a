package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
)

func TestGenerationError_UserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain description", errors.New("quota exhausted"), "quota exhausted"},
		{"empty description", errors.New("  "), "An unknown error occurred."},
		{"nil cause", nil, "An unknown error occurred."},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), "The question service took too long to respond. Please try again."},
		{"rejected key", &llm.ErrAuth{Err: errors.New("401")}, "The question service rejected the API key. Check your gedquiz configuration."},
		{"rate limited", &llm.ErrRateLimit{Err: errors.New("burst")}, "Too many requests to the question service. Wait a moment and try again."},
		{"malformed", &generator.ValidationError{Validator: "structural", Message: "options: must have 4 items"}, "The generated question was malformed (options: must have 4 items). Please try again."},
		{"unreadable", &llm.ErrInvalidResponse{Err: errors.New("eof")}, "The question service returned an unreadable response. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &GenerationError{Err: tt.err}
			assert.Equal(t, tt.want, e.UserMessage())
		})
	}
}

func TestExplanationError_Fallback(t *testing.T) {
	assert.Equal(t, "Could not fetch explanation.", (&ExplanationError{Err: errors.New("")}).UserMessage())
	assert.Equal(t, "upstream 502", (&ExplanationError{Err: errors.New("upstream 502")}).UserMessage())
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, &GenerationError{Err: cause}, cause)
	assert.ErrorIs(t, &ExplanationError{Err: cause}, cause)

	var gerr *GenerationError
	assert.False(t, errors.As(&ExplanationError{Err: cause}, &gerr))
}
