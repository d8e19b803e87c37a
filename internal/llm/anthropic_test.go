package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
)

// anthropicReply writes a Messages API reply with the given text blocks.
func anthropicReply(stopReason string, texts ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blocks := make([]map[string]any, 0, len(texts))
		for _, t := range texts {
			blocks = append(blocks, map[string]any{"type": "text", "text": t})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     blocks,
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
		})
	}
}

func anthropicError(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func newAnthropic(t *testing.T, handler http.HandlerFunc) *llm.AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := llm.NewAnthropicProvider(
		llm.AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func questionRequest() llm.Request {
	return llm.Request{
		System:    "You write GED math questions.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "One medium question."}},
		Schema:    generator.QuestionSchema,
		MaxTokens: 512,
	}
}

func TestAnthropic_Question(t *testing.T) {
	var body map[string]any
	p := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		anthropicReply("end_turn", `{"question":"What is 15% of 80?","options":["8","12","15","20"],"correctAnswerIndex":1}`)(w, r)
	})

	resp, err := p.Generate(context.Background(), questionRequest())
	require.NoError(t, err)

	assert.JSONEq(t, `{"question":"What is 15% of 80?","options":["8","12","15","20"],"correctAnswerIndex":1}`, string(resp.Content))
	assert.Equal(t, 160, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	assert.Equal(t, "claude-haiku-4-5-20251001", body["model"])
	assert.EqualValues(t, 512, body["max_tokens"])
	assert.Contains(t, body, "output_config")
}

func TestAnthropic_ExplanationJoinsBlocks(t *testing.T) {
	var body map[string]any
	p := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		anthropicReply("end_turn", "15% is 0.15.", "0.15 x 80 = 12.")(w, r)
	})

	resp, err := p.Generate(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "Explain."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "15% is 0.15.\n0.15 x 80 = 12.", string(resp.Content))
	assert.NotContains(t, body, "output_config")
	assert.EqualValues(t, 1024, body["max_tokens"], "unset MaxTokens falls back to the default")
}

func TestAnthropic_InvalidReplies(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"missing index", anthropicReply("end_turn", `{"question":"Q?","options":["1","2","3","4"]}`)},
		{"three options", anthropicReply("end_turn", `{"question":"Q?","options":["1","2","3"],"correctAnswerIndex":0}`)},
		{"not json", anthropicReply("end_turn", "Sure! Here is a question.")},
		{"truncated", anthropicReply("max_tokens", `{"question":"Q?","options":["1",`)},
		{"refused", anthropicReply("refusal", "I can't help with that.")},
		{"no text", anthropicReply("end_turn")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAnthropic(t, tt.handler).Generate(context.Background(), questionRequest())
			var invalid *llm.ErrInvalidResponse
			require.True(t, errors.As(err, &invalid), "got %T (%v)", err, err)
		})
	}
}

func TestAnthropic_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, "authentication_error", func(err error) bool {
			var e *llm.ErrAuth
			return errors.As(err, &e)
		}},
		{"rate limited", http.StatusTooManyRequests, "rate_limit_error", func(err error) bool {
			var e *llm.ErrRateLimit
			return errors.As(err, &e)
		}},
		{"overloaded", http.StatusInternalServerError, "api_error", func(err error) bool {
			var e *llm.ErrProviderUnavailable
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAnthropic(t, anthropicError(tt.status, tt.kind)).Generate(context.Background(), questionRequest())
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %T (%v)", err, err)
		})
	}
}

func TestAnthropic_RequiresKey(t *testing.T) {
	_, err := llm.NewAnthropicProvider(llm.AnthropicConfig{})
	assert.Error(t, err)
}
