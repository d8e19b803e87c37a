package quiz

import (
	"github.com/abhisek/gedquiz/internal/generator"
)

// TimedOut is the selection recorded when the countdown expires.
const TimedOut = -1

// Phase is the controller's position in the question lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseAnswered
	PhaseError
)

var phaseNames = [...]string{"idle", "loading", "ready", "answered", "error"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is an immutable copy of the session. Front-ends render it and
// never write to the controller's own copy.
type State struct {
	SessionID string `json:"sessionId"`
	Round     uint64 `json:"round"`
	Phase     Phase  `json:"phase"`

	Difficulty        generator.Difficulty `json:"difficulty"`
	Score             int                  `json:"score"`
	QuestionsAnswered int                  `json:"questionsAnswered"`
	TimeLeft          int                  `json:"timeLeft"`
	TimeLimit         int                  `json:"timeLimit"`
	RecentHistory     []string             `json:"recentHistory"`

	Question      *generator.Question `json:"currentQuestion"`
	SelectedIndex *int                `json:"selectedIndex"`
	IsAnswered    bool                `json:"isAnswered"`

	Explanation        string `json:"explanation"`
	ExplanationLoading bool   `json:"explanationLoading"`
	ExplanationError   string `json:"explanationError,omitempty"`

	// Error is the user-facing message for a failed question fetch.
	Error string `json:"error,omitempty"`

	// Err is the underlying failure behind Error or ExplanationError.
	Err error `json:"-"`
}

// TimedOut reports whether the current question expired unanswered.
func (s State) TimedOut() bool {
	return s.IsAnswered && s.SelectedIndex != nil && *s.SelectedIndex == TimedOut
}

// AnsweredCorrectly reports whether the current question was answered
// with its correct option.
func (s State) AnsweredCorrectly() bool {
	return s.IsAnswered && s.Question != nil && s.SelectedIndex != nil &&
		s.Question.IsCorrect(*s.SelectedIndex)
}

// CanAdvance reports whether a "next question" action makes sense.
func (s State) CanAdvance() bool {
	return s.Phase == PhaseAnswered
}

// CanRetry reports whether the failed fetch can be retried.
func (s State) CanRetry() bool {
	return s.Phase == PhaseError
}

// clone deep-copies the parts of s that the controller may mutate later.
func (s State) clone() State {
	out := s
	out.RecentHistory = append([]string(nil), s.RecentHistory...)
	if s.Question != nil {
		q := *s.Question
		q.Options = append([]string(nil), s.Question.Options...)
		out.Question = &q
	}
	if s.SelectedIndex != nil {
		i := *s.SelectedIndex
		out.SelectedIndex = &i
	}
	return out
}
