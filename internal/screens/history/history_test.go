package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/router"
	"github.com/abhisek/gedquiz/internal/store"
)

// usageRepo implements store.EventRepo with canned usage.
type usageRepo struct {
	usage []store.PurposeUsage
	err   error
}

func (r *usageRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }
func (r *usageRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}
func (r *usageRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) {
	return nil, nil
}
func (r *usageRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return r.usage, r.err
}
func (r *usageRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) { return nil, nil }

func snapshotOf(s quiz.State) func() quiz.State {
	return func() quiz.State { return s }
}

func TestView_ListsNewestFirst(t *testing.T) {
	state := quiz.State{
		Difficulty:        generator.Hard,
		Score:             2,
		QuestionsAnswered: 3,
		RecentHistory:     []string{"First question", "Second question", "Third question"},
	}
	h := New(snapshotOf(state), nil)
	h.Init()

	view := h.View(100, 30)
	first := strings.Index(view, "Third question")
	last := strings.Index(view, "First question")
	if first < 0 || last < 0 || first > last {
		t.Errorf("expected newest question first, got:\n%s", view)
	}
	if !strings.Contains(view, "Recent hard questions") {
		t.Error("expected difficulty in title")
	}
	if !strings.Contains(view, "Score: 2 / 3") {
		t.Error("expected score line")
	}
}

func TestView_Empty(t *testing.T) {
	h := New(snapshotOf(quiz.State{Difficulty: generator.Medium}), nil)
	if !strings.Contains(h.View(100, 30), "No questions yet.") {
		t.Error("expected empty message")
	}
}

func TestUsageLoaded(t *testing.T) {
	repo := &usageRepo{usage: []store.PurposeUsage{
		{Purpose: "question-gen", Calls: 4, Failures: 1, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 900},
	}}
	h := New(snapshotOf(quiz.State{Difficulty: generator.Medium}), repo)

	cmd := h.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	h.Update(cmd())

	view := h.View(100, 30)
	if !strings.Contains(view, "question-gen") || !strings.Contains(view, "600 tokens") {
		t.Errorf("expected usage row, got:\n%s", view)
	}
}

func TestUsageError(t *testing.T) {
	repo := &usageRepo{err: errors.New("database is locked")}
	h := New(snapshotOf(quiz.State{Difficulty: generator.Medium}), repo)
	h.Update(h.Init()())

	if !strings.Contains(h.View(100, 30), "database is locked") {
		t.Error("expected error message")
	}
}

func TestEscPops(t *testing.T) {
	h := New(snapshotOf(quiz.State{}), nil)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abcde…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}
