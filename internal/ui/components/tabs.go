package components

import (
	"strings"

	"github.com/abhisek/gedquiz/internal/ui/theme"
)

// Tab is one entry in a horizontal tab bar.
type Tab struct {
	Label  string
	Key    string
	Active bool
}

// Tabs renders a row of tabs, e.g. the difficulty selector.
type Tabs struct {
	Items []Tab
}

// NewTabs creates a tab bar.
func NewTabs(items []Tab) Tabs {
	return Tabs{Items: items}
}

// View renders the tabs on one line.
func (t Tabs) View() string {
	parts := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		label := item.Label
		if item.Key != "" {
			label += " [" + item.Key + "]"
		}
		if item.Active {
			parts = append(parts, theme.TabActive.Render(label))
		} else {
			parts = append(parts, theme.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
