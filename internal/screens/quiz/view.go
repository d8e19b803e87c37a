package quiz

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/gedquiz/internal/generator"
	qz "github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/ui/components"
	"github.com/abhisek/gedquiz/internal/ui/layout"
	"github.com/abhisek/gedquiz/internal/ui/theme"
)

// warnThreshold is the remaining time at which the countdown turns red.
const warnThreshold = 10

func (s *QuizScreen) View(width, height int) string {
	inner := contentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(width, s.renderTabs()))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.renderStatus(inner)))
	b.WriteString("\n\n")

	var body string
	switch s.state.Phase {
	case qz.PhaseIdle, qz.PhaseLoading:
		body = s.spinner.View() + " " + theme.Muted.Render("Generating a new question...")
	case qz.PhaseError:
		body = s.renderError(inner)
	default:
		body = s.renderQuestion(inner)
	}
	b.WriteString(center(width, body))
	return b.String()
}

func (s *QuizScreen) renderTabs() string {
	tabs := make([]components.Tab, 0, len(generator.Difficulties))
	for _, d := range generator.Difficulties {
		tabs = append(tabs, components.Tab{
			Label:  d.Title(),
			Key:    string(d)[:1],
			Active: d == s.state.Difficulty,
		})
	}
	return components.NewTabs(tabs).View()
}

// renderStatus shows the score and the countdown bar.
func (s *QuizScreen) renderStatus(width int) string {
	score := theme.Body.Render("Score: " + layout.FormatScore(s.state.Score, s.state.QuestionsAnswered))

	percent := 0.0
	if s.state.TimeLimit > 0 {
		percent = float64(s.state.TimeLeft) / float64(s.state.TimeLimit)
	}
	warn := s.state.Phase == qz.PhaseReady && s.state.TimeLeft <= warnThreshold
	barWidth := width - lipgloss.Width(score) - 4
	bar := components.NewProgressBar(layout.FormatClock(s.state.TimeLeft), percent, warn, barWidth).View()

	return score + "    " + bar
}

func (s *QuizScreen) renderQuestion(width int) string {
	var b strings.Builder
	b.WriteString(theme.Card.Width(width).Render(s.choice.View(width - 6)))
	b.WriteString("\n")

	if !s.state.IsAnswered {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(s.renderVerdict())
	b.WriteString("\n")

	if panel := s.renderExplanation(width); panel != "" {
		b.WriteString("\n")
		b.WriteString(panel)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(components.NewButton("Next Question", "n", true).View())
	return b.String()
}

func (s *QuizScreen) renderVerdict() string {
	switch {
	case s.state.AnsweredCorrectly():
		return theme.Correct.Render("Correct!")
	case s.state.TimedOut():
		return theme.Incorrect.Render("Time's up!")
	default:
		return theme.Incorrect.Render("Not quite.")
	}
}

func (s *QuizScreen) renderExplanation(width int) string {
	switch {
	case s.state.ExplanationLoading:
		return s.spinner.View() + " " + theme.Muted.Render("Getting an explanation...")
	case s.state.ExplanationError != "":
		return theme.Incorrect.Render(s.state.ExplanationError)
	case s.state.Explanation != "":
		text := theme.Selected.Render("Let's break it down:") + "\n\n" +
			strings.Join(explanationLines(s.state.Explanation), "\n")
		return theme.ExplanationCard.Width(width).Render(text)
	}
	return ""
}

func (s *QuizScreen) renderError(width int) string {
	msg := s.state.Error
	if msg == "" {
		msg = "An unknown error occurred."
	}
	card := theme.ErrorCard.Width(width).Render("Couldn't load a question.\n\n" + msg)
	return card + "\n\n" + components.NewButton("Try Again", "r", true).View()
}

// explanationLines splits an explanation into lines, dropping blank ones.
func explanationLines(text string) []string {
	lines := lo.Map(strings.Split(text, "\n"), func(l string, _ int) string {
		return strings.TrimRight(l, " \t\r")
	})
	return lo.Filter(lines, func(l string, _ int) bool {
		return strings.TrimSpace(l) != ""
	})
}

func contentWidth(width int) int {
	w := width - 8
	if w > 80 {
		w = 80
	}
	if w < 30 {
		w = 30
	}
	return w
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
