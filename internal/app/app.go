package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/gedquiz/internal/quiz"
	"github.com/abhisek/gedquiz/internal/router"
	"github.com/abhisek/gedquiz/internal/screen"
	"github.com/abhisek/gedquiz/internal/screens/history"
	quizscreen "github.com/abhisek/gedquiz/internal/screens/quiz"
	"github.com/abhisek/gedquiz/internal/store"
	"github.com/abhisek/gedquiz/internal/ui/layout"
)

// Options holds dependencies for the TUI.
type Options struct {
	Session   *quiz.Controller
	EventRepo store.EventRepo // may be nil
	Log       logrus.FieldLogger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *quiz.Controller
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	newHistory := func() screen.Screen {
		return history.New(opts.Session.Snapshot, opts.EventRepo)
	}
	return AppModel{
		router:  router.New(quizscreen.New(opts.Session, newHistory)),
		session: opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.session.Close()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render lays out header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	var info layout.HeaderInfo
	if hp, ok := m.router.Root().(screen.HeaderProvider); ok {
		info = hp.HeaderInfo()
	}
	header := layout.RenderHeader(title, info, m.width)

	hints := m.router.KeyHints()
	if hints == nil {
		hints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled. The session is closed on return.
func Run(ctx context.Context, opts Options) error {
	defer opts.Session.Close()

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if opts.Log != nil {
			opts.Log.WithError(err).Error("tui exited with error")
		}
		return err
	}
	return nil
}
