// Package app is the root Bubble Tea model: it owns the screen stack, the
// header and footer, and the quiz countdown.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/router"
	"github.com/hachiman-oct/cbtkit/internal/screen"
	"github.com/hachiman-oct/cbtkit/internal/screens/home"
	"github.com/hachiman-oct/cbtkit/internal/screens/quiz"
	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/textsaver"
	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
)

// Options holds the services the TUI runs on.
type Options struct {
	Session        *session.Session
	Saver          *textsaver.Saver
	OutputDir      string
	Logger         *zap.Logger
	AudioAvailable bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sess   *session.Session
	log    *zap.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	homeScreen := home.New(home.Deps{
		Session:        opts.Session,
		Saver:          opts.Saver,
		OutputDir:      opts.OutputDir,
		Logger:         opts.Logger,
		AudioAvailable: opts.AudioAvailable,
	})
	return AppModel{
		router: router.New(homeScreen),
		sess:   opts.Session,
		log:    opts.Logger,
	}
}

// Init resumes a countdown restored from the store.
func (m AppModel) Init() tea.Cmd {
	return quiz.ResumeTimer(m.sess)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case quiz.TickMsg:
		// The countdown runs whichever screen is showing.
		next := quiz.HandleTick(m.sess, msg)
		return m, tea.Batch(next, m.router.Update(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.log.Debug("quit requested")
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.CapturesEscape() {
				break
			}
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

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, quiz.StatusLine(m.sess), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	} else if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Enter", Description: "Select"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
