package quiz

import (
	tea "charm.land/bubbletea/v2"
)

// stateChangedMsg is sent when the session reports a state change.
type stateChangedMsg struct{}

// sessionClosedMsg is sent once the session has been torn down.
type sessionClosedMsg struct{}

// waitForChange blocks until the session signals a change or closes.
func waitForChange(s Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.Changes():
			return stateChangedMsg{}
		case <-s.Done():
			return sessionClosedMsg{}
		}
	}
}
