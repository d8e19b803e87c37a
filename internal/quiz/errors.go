package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
)

// Fallback messages shown when a failure carries no usable description.
const (
	genericGenerationMessage  = "An unknown error occurred."
	genericExplanationMessage = "Could not fetch explanation."
)

var errNoQuestion = errors.New("generator returned no question")

// GenerationError reports that a question could not be produced. It ends
// the round: no question is shown and the learner is offered a retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate question: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the learner.
func (e *GenerationError) UserMessage() string {
	return describe(e.Err, genericGenerationMessage)
}

// ExplanationError reports that an explanation could not be produced. The
// answered question, its score and the next action are unaffected.
type ExplanationError struct {
	Err error
}

func (e *ExplanationError) Error() string {
	return fmt.Sprintf("generate explanation: %v", e.Err)
}

func (e *ExplanationError) Unwrap() error { return e.Err }

// UserMessage returns the text shown in place of the explanation.
func (e *ExplanationError) UserMessage() string {
	return describe(e.Err, genericExplanationMessage)
}

// describe turns a failure into one readable line, falling back to
// fallback when the error has nothing useful to say.
func describe(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var (
		auth *llm.ErrAuth
		rl   *llm.ErrRateLimit
		verr *generator.ValidationError
		inv  *llm.ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The question service took too long to respond. Please try again."
	case errors.As(err, &auth):
		return "The question service rejected the API key. Check your gedquiz configuration."
	case errors.As(err, &rl):
		return "Too many requests to the question service. Wait a moment and try again."
	case errors.As(err, &verr):
		return fmt.Sprintf("The generated question was malformed (%s). Please try again.", verr.Message)
	case errors.As(err, &inv):
		return "The question service returned an unreadable response. Please try again."
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
