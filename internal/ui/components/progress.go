package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gedquiz/internal/ui/theme"
)

// ProgressBar displays a horizontal bar, used for the question countdown.
type ProgressBar struct {
	Label   string
	Percent float64
	Warn    bool
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, warn bool, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Warn:    warn,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		labelStyle := theme.Body
		if p.Warn {
			labelStyle = theme.Warning
		}
		result += labelStyle.Render(p.Label) + "  "
	}

	barWidth := p.Width - lipgloss.Width(result)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	fill := theme.ProgressFilled
	if p.Warn {
		fill = theme.ProgressWarning
	}

	result += fill.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	return result
}
