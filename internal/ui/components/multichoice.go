package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gedquiz/internal/ui/theme"
)

// OptionLabels are the letters shown beside answer options.
var OptionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders a question with lettered options. It tracks the
// highlighted option; the answer itself is owned by the caller and passed
// back in through Reveal.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	revealed     bool
	correctIndex int
	chosenIndex  int
}

// NewMultiChoice creates a multiple-choice component with the cursor on the
// first option.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:    question,
		Options:     options,
		chosenIndex: -1,
	}
}

// Reveal marks the correct option and the learner's choice. chosen may be
// -1 when no option was picked.
func (m MultiChoice) Reveal(correct, chosen int) MultiChoice {
	m.revealed = true
	m.correctIndex = correct
	m.chosenIndex = chosen
	return m
}

// Revealed reports whether the answer has been shown.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// Update moves the cursor. It ignores input once revealed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	}
	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := "?"
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case m.revealed && i == m.correctIndex:
			style = theme.Correct
			line += "  ✓"
		case m.revealed && i == m.chosenIndex:
			style = theme.Incorrect
			line += "  ✗"
		case m.revealed:
			style = theme.Muted
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
