package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/gedquiz/internal/llm"
)

// Purpose labels recorded with every LLM call.
const (
	PurposeQuestion    = "question-gen"
	PurposeExplanation = "explanation"
)

// questionPayload is the wire shape of a question response.
type questionPayload struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctAnswerIndex"`
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// GenerateQuestion produces a single question at the requested difficulty.
func (g *LLMGenerator) GenerateQuestion(ctx context.Context, input QuestionInput) (*Question, error) {
	if !input.Difficulty.Valid() {
		return nil, fmt.Errorf("generate question: unknown difficulty %q", input.Difficulty)
	}
	ctx = llm.WithPurpose(ctx, PurposeQuestion)

	req := llm.Request{
		System: questionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionMessage(input, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var payload questionPayload
	if err := json.Unmarshal(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	// A missing index would otherwise decode as 0 and pass as option A.
	if payload.CorrectIndex == nil {
		return nil, &ValidationError{
			Validator: "structural",
			Message:   "correctAnswerIndex is a required field",
		}
	}

	q := Question{
		Text:         strings.TrimSpace(payload.Text),
		Options:      payload.Options,
		CorrectIndex: *payload.CorrectIndex,
		Difficulty:   input.Difficulty,
	}
	for i := range q.Options {
		q.Options[i] = strings.TrimSpace(q.Options[i])
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&q, input); verr != nil {
			return nil, verr
		}
	}

	return &q, nil
}

// GenerateExplanation asks the model to explain a missed question.
func (g *LLMGenerator) GenerateExplanation(ctx context.Context, input ExplanationInput) (string, error) {
	ctx = llm.WithPurpose(ctx, PurposeExplanation)

	userMsg, err := buildExplanationMessage(input)
	if err != nil {
		return "", fmt.Errorf("build explanation prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: explanationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   g.config.ExplanationMaxTokens,
		Temperature: g.config.ExplanationTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM explanation failed: %w", err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", errors.New("model returned an empty explanation")
	}
	return text, nil
}
