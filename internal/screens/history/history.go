package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/router"
	"github.com/abhisek/gedquiz/internal/screen"
	"github.com/abhisek/gedquiz/internal/store"
	"github.com/abhisek/gedquiz/internal/ui/layout"
	"github.com/abhisek/gedquiz/internal/ui/theme"
)

type usageLoadedMsg struct {
	Usage []store.PurposeUsage
	Err   error
}

// HistoryScreen lists the questions recently asked in this session and,
// when an audit store is available, how many model calls they took.
type HistoryScreen struct {
	snapshot  func() quiz.State
	eventRepo store.EventRepo

	usage    []store.PurposeUsage
	loaded   bool
	errMsg   string
	selected int
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. eventRepo may be nil.
func New(snapshot func() quiz.State, eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		snapshot:  snapshot,
		eventRepo: eventRepo,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.eventRepo == nil {
		s.loaded = true
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		usage, err := repo.LLMUsageByPurpose(context.Background())
		return usageLoadedMsg{Usage: usage, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case usageLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.usage = msg.Usage
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "H", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.snapshot().RecentHistory)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	state := s.snapshot()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Title.Render(fmt.Sprintf("Recent %s questions", strings.ToLower(state.Difficulty.Title())))))
	b.WriteString("\n\n")

	if len(state.RecentHistory) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("No questions yet.")))
		b.WriteString("\n")
	}

	// Newest first.
	for i := len(state.RecentHistory) - 1; i >= 0; i-- {
		row := len(state.RecentHistory) - 1 - i
		prefix := "  "
		style := theme.Unselected
		if row == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%d. %s", prefix, row+1, truncate(state.RecentHistory[i], width-12))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Body.Render("Score: "+layout.FormatScore(state.Score, state.QuestionsAnswered))))
	b.WriteString("\n\n")

	b.WriteString(s.renderUsage(width))
	return b.String()
}

func (s *HistoryScreen) renderUsage(width int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) + "\n"
	}

	switch {
	case s.eventRepo == nil:
		return ""
	case s.errMsg != "":
		return center(theme.Incorrect.Render("Usage unavailable: " + s.errMsg))
	case !s.loaded:
		return center(theme.Hint.Render("Loading usage..."))
	case len(s.usage) == 0:
		return center(theme.Hint.Render("No model calls recorded."))
	}

	var b strings.Builder
	b.WriteString(center(theme.Subtitle.Render("Model calls (all sessions)")))
	for _, u := range s.usage {
		line := fmt.Sprintf("%-14s %4d calls  %3d failed  %6d tokens  ~%dms",
			u.Purpose, u.Calls, u.Failures, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		b.WriteString(center(theme.Muted.Render(line)))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
