// Package quiz is the interactive question screen.
package quiz

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gedquiz/internal/generator"
	qz "github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/router"
	"github.com/abhisek/gedquiz/internal/screen"
	"github.com/abhisek/gedquiz/internal/ui/components"
	"github.com/abhisek/gedquiz/internal/ui/layout"
	"github.com/abhisek/gedquiz/internal/ui/theme"
)

// Session is the controller surface the screen drives.
type Session interface {
	Snapshot() qz.State
	Changes() <-chan struct{}
	Done() <-chan struct{}
	Start()
	SwitchDifficulty(level generator.Difficulty) error
	FetchNextQuestion()
	Retry() bool
	SelectAnswer(index int) bool
}

// QuizScreen shows one question at a time with its countdown, the result
// and any explanation.
type QuizScreen struct {
	session    Session
	newHistory func() screen.Screen

	state   qz.State
	choice  components.MultiChoice
	round   uint64
	spinner spinner.Model
	closed  bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackgroundReceiver = (*QuizScreen)(nil)
var _ screen.HeaderProvider = (*QuizScreen)(nil)

// New creates the quiz screen. newHistory builds the screen opened with
// "H"; it may be nil.
func New(session Session, newHistory func() screen.Screen) *QuizScreen {
	return &QuizScreen{
		session:    session,
		newHistory: newHistory,
		state:      session.Snapshot(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected),
		),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.session.Start()
	s.sync()
	return tea.Batch(waitForChange(s.session), s.spinner.Tick)
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) HeaderInfo() layout.HeaderInfo {
	return layout.HeaderInfo{
		Difficulty: s.state.Difficulty.Title(),
		Score:      s.state.Score,
		Answered:   s.state.QuestionsAnswered,
	}
}

// WantsBackground keeps state updates and spinner frames flowing while the
// history screen is open.
func (s *QuizScreen) WantsBackground(msg tea.Msg) bool {
	switch msg.(type) {
	case stateChangedMsg, sessionClosedMsg, spinner.TickMsg:
		return true
	}
	return false
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "e/m/h", Description: "Difficulty"}}
	switch s.state.Phase {
	case qz.PhaseReady:
		hints = append(hints,
			layout.KeyHint{Key: "1-4", Description: "Answer"},
			layout.KeyHint{Key: "↑↓ Enter", Description: "Select"},
		)
	case qz.PhaseAnswered:
		hints = append(hints, layout.KeyHint{Key: "n", Description: "Next question"})
	case qz.PhaseError:
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Try again"})
	}
	if s.newHistory != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		s.sync()
		return s, waitForChange(s.session)

	case sessionClosedMsg:
		s.closed = true
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// sync pulls the latest snapshot and rebuilds the option list when a new
// question arrives.
func (s *QuizScreen) sync() {
	s.state = s.session.Snapshot()
	q := s.state.Question
	if q == nil {
		s.choice = components.MultiChoice{}
		s.round = s.state.Round
		return
	}
	if s.round != s.state.Round || s.choice.Question == "" {
		s.choice = components.NewMultiChoice(q.Text, q.Options)
		s.round = s.state.Round
	}
	if s.state.IsAnswered && !s.choice.Revealed() {
		selected := qz.TimedOut
		if s.state.SelectedIndex != nil {
			selected = *s.state.SelectedIndex
		}
		s.choice = s.choice.Reveal(q.CorrectIndex, selected)
	}
}

var answerKeys = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 3,
	"a": 0, "b": 1, "c": 2, "d": 3,
}

var difficultyKeys = map[string]generator.Difficulty{
	"e": generator.Easy,
	"m": generator.Medium,
	"h": generator.Hard,
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.closed {
		return s, nil
	}
	key := msg.String()

	if level, ok := difficultyKeys[key]; ok {
		_ = s.session.SwitchDifficulty(level)
		s.sync()
		return s, nil
	}
	if key == "H" && s.newHistory != nil {
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: s.newHistory()} }
	}

	switch s.state.Phase {
	case qz.PhaseReady:
		if idx, ok := answerKeys[key]; ok {
			s.session.SelectAnswer(idx)
			s.sync()
			return s, nil
		}
		if key == "enter" {
			s.session.SelectAnswer(s.choice.Cursor)
			s.sync()
			return s, nil
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd

	case qz.PhaseAnswered:
		if key == "n" || key == "enter" {
			s.session.FetchNextQuestion()
			s.sync()
		}

	case qz.PhaseError:
		if key == "r" {
			s.session.Retry()
			s.sync()
		}
	}
	return s, nil
}
