package quiz

import (
	"reflect"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gedquiz/internal/generator"
	qz "github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/router"
	"github.com/abhisek/gedquiz/internal/screen"
)

// fakeSession records the actions the screen issues.
type fakeSession struct {
	state    qz.State
	changes  chan struct{}
	done     chan struct{}
	started  int
	switched []generator.Difficulty
	selected []int
	nexts    int
	retries  int
}

func newFakeSession(state qz.State) *fakeSession {
	return &fakeSession{
		state:   state,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (f *fakeSession) Snapshot() qz.State         { return f.state }
func (f *fakeSession) Changes() <-chan struct{}   { return f.changes }
func (f *fakeSession) Done() <-chan struct{}      { return f.done }
func (f *fakeSession) Start()                     { f.started++ }
func (f *fakeSession) FetchNextQuestion()         { f.nexts++ }
func (f *fakeSession) Retry() bool                { f.retries++; return true }
func (f *fakeSession) SelectAnswer(index int) bool { f.selected = append(f.selected, index); return true }
func (f *fakeSession) SwitchDifficulty(level generator.Difficulty) error {
	f.switched = append(f.switched, level)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func question() *generator.Question {
	return &generator.Question{
		Text:         "What is 15% of 80?",
		Options:      []string{"8", "12", "15", "20"},
		CorrectIndex: 1,
	}
}

func readyState() qz.State {
	return qz.State{
		Round:      1,
		Phase:      qz.PhaseReady,
		Difficulty: generator.Medium,
		TimeLeft:   60,
		TimeLimit:  60,
		Question:   question(),
	}
}

func answered(selected int) qz.State {
	s := readyState()
	s.Phase = qz.PhaseAnswered
	s.IsAnswered = true
	s.SelectedIndex = &selected
	s.QuestionsAnswered = 1
	if selected == 1 {
		s.Score = 1
	}
	return s
}

func TestInit_StartsSession(t *testing.T) {
	fs := newFakeSession(qz.State{Phase: qz.PhaseIdle, Difficulty: generator.Medium})
	s := New(fs, nil)

	if cmd := s.Init(); cmd == nil {
		t.Fatal("expected Init to return a command")
	}
	if fs.started != 1 {
		t.Errorf("expected Start to be called once, got %d", fs.started)
	}
}

func TestAnswerKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyPressMsg
		want int
	}{
		{keyPress('1'), 0},
		{keyPress('4'), 3},
		{keyPress('b'), 1},
		{keyPress('d'), 3},
	}
	for _, tt := range tests {
		fs := newFakeSession(readyState())
		s := New(fs, nil)
		s.sync()

		s.Update(tt.key)
		if !reflect.DeepEqual(fs.selected, []int{tt.want}) {
			t.Errorf("key %q: expected selection [%d], got %v", tt.key.String(), tt.want, fs.selected)
		}
	}
}

func TestArrowsAndEnter(t *testing.T) {
	fs := newFakeSession(readyState())
	s := New(fs, nil)
	s.sync()

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyEnter))

	if !reflect.DeepEqual(fs.selected, []int{1}) {
		t.Errorf("expected selection [1], got %v", fs.selected)
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	fs := newFakeSession(qz.State{Phase: qz.PhaseLoading, Difficulty: generator.Medium})
	s := New(fs, nil)

	s.Update(keyPress('1'))
	s.Update(keyPress('n'))
	s.Update(keyPress('r'))

	if len(fs.selected) != 0 || fs.nexts != 0 || fs.retries != 0 {
		t.Errorf("expected no actions while loading, got select=%v next=%d retry=%d",
			fs.selected, fs.nexts, fs.retries)
	}
}

func TestNextAfterAnswer(t *testing.T) {
	fs := newFakeSession(answered(0))
	s := New(fs, nil)
	s.sync()

	s.Update(keyPress('1'))
	s.Update(keyPress('n'))

	if len(fs.selected) != 0 {
		t.Errorf("answer keys must be ignored once answered, got %v", fs.selected)
	}
	if fs.nexts != 1 {
		t.Errorf("expected one next request, got %d", fs.nexts)
	}
}

func TestRetryOnError(t *testing.T) {
	fs := newFakeSession(qz.State{Phase: qz.PhaseError, Difficulty: generator.Medium, Error: "quota exhausted"})
	s := New(fs, nil)

	s.Update(keyPress('n'))
	s.Update(keyPress('r'))

	if fs.nexts != 0 {
		t.Errorf("next must not fire from the error state")
	}
	if fs.retries != 1 {
		t.Errorf("expected one retry, got %d", fs.retries)
	}
}

func TestDifficultyKeys(t *testing.T) {
	fs := newFakeSession(readyState())
	s := New(fs, nil)

	s.Update(keyPress('e'))
	s.Update(keyPress('h'))
	s.Update(keyPress('m'))

	want := []generator.Difficulty{generator.Easy, generator.Hard, generator.Medium}
	if !reflect.DeepEqual(fs.switched, want) {
		t.Errorf("expected %v, got %v", want, fs.switched)
	}
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "history" }
func (s *stubScreen) Title() string                           { return "History" }

func TestHistoryKey(t *testing.T) {
	fs := newFakeSession(readyState())
	s := New(fs, func() screen.Screen { return &stubScreen{} })

	_, cmd := s.Update(keyPress('H'))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected PushScreenMsg")
	}
}

func TestStateChangedResyncs(t *testing.T) {
	fs := newFakeSession(qz.State{Phase: qz.PhaseLoading, Difficulty: generator.Medium})
	s := New(fs, nil)

	fs.state = readyState()
	_, cmd := s.Update(stateChangedMsg{})
	if cmd == nil {
		t.Error("expected the screen to keep listening for changes")
	}
	if s.choice.Question != "What is 15% of 80?" {
		t.Errorf("expected question to be loaded, got %q", s.choice.Question)
	}

	fs.state = answered(3)
	s.Update(stateChangedMsg{})
	if !s.choice.Revealed() {
		t.Error("expected options to be revealed after answering")
	}
}

func TestSessionClosedStopsInput(t *testing.T) {
	fs := newFakeSession(readyState())
	s := New(fs, nil)

	s.Update(sessionClosedMsg{})
	s.Update(keyPress('1'))
	if len(fs.selected) != 0 {
		t.Errorf("expected no input after close, got %v", fs.selected)
	}
}

func TestWaitForChange(t *testing.T) {
	fs := newFakeSession(readyState())
	fs.changes <- struct{}{}
	if _, ok := waitForChange(fs)().(stateChangedMsg); !ok {
		t.Error("expected stateChangedMsg")
	}

	close(fs.done)
	if _, ok := waitForChange(fs)().(sessionClosedMsg); !ok {
		t.Error("expected sessionClosedMsg")
	}
}

func TestWantsBackground(t *testing.T) {
	s := New(newFakeSession(readyState()), nil)
	if !s.WantsBackground(stateChangedMsg{}) || !s.WantsBackground(spinner.TickMsg{}) {
		t.Error("expected session and spinner messages in the background")
	}
	if s.WantsBackground(keyPress('1')) {
		t.Error("key presses belong to the active screen")
	}
}

func TestView_Ready(t *testing.T) {
	st := readyState()
	st.TimeLeft = 9
	st.Score = 2
	st.QuestionsAnswered = 3
	fs := newFakeSession(st)
	s := New(fs, nil)
	s.sync()

	view := s.View(100, 30)
	for _, want := range []string{"What is 15% of 80?", "A)  8", "D)  20", "Score: 2 / 3", "00:09", "Medium"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Next Question") {
		t.Error("next button must not show before answering")
	}
}

func TestView_Explanation(t *testing.T) {
	st := answered(0)
	st.Explanation = "Step 1: 10% of 80 is 8.\n\n\nStep 2: 5% is 4, so 15% is 12."
	fs := newFakeSession(st)
	s := New(fs, nil)
	s.sync()

	view := s.View(100, 40)
	for _, want := range []string{"Not quite.", "Let's break it down:", "Step 1: 10% of 80 is 8.", "Next Question"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_TimedOut(t *testing.T) {
	st := answered(qz.TimedOut)
	st.ExplanationLoading = true
	fs := newFakeSession(st)
	s := New(fs, nil)
	s.sync()

	view := s.View(100, 40)
	if !strings.Contains(view, "Time's up!") {
		t.Error("expected timeout verdict")
	}
	if !strings.Contains(view, "Getting an explanation...") {
		t.Error("expected explanation spinner")
	}
}

func TestView_ExplanationError(t *testing.T) {
	st := answered(2)
	st.ExplanationError = "Could not fetch explanation."
	s := New(newFakeSession(st), nil)
	s.sync()

	view := s.View(100, 40)
	if !strings.Contains(view, "Could not fetch explanation.") || !strings.Contains(view, "Next Question") {
		t.Error("explanation failures are shown inline and keep the next action")
	}
}

func TestView_Error(t *testing.T) {
	s := New(newFakeSession(qz.State{Phase: qz.PhaseError, Difficulty: generator.Hard, Error: "quota exhausted"}), nil)

	view := s.View(100, 30)
	if !strings.Contains(view, "quota exhausted") || !strings.Contains(view, "Try Again") {
		t.Errorf("expected error message and retry button, got:\n%s", view)
	}
}

func TestExplanationLines(t *testing.T) {
	got := explanationLines("First.\n\n  \nSecond.  \r\n\nThird.")
	want := []string{"First.", "Second.", "Third."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
