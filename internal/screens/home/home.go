// Package home is the landing screen linking the three tools.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/router"
	"github.com/hachiman-oct/cbtkit/internal/screen"
	audioscreen "github.com/hachiman-oct/cbtkit/internal/screens/audio"
	"github.com/hachiman-oct/cbtkit/internal/screens/placeholder"
	"github.com/hachiman-oct/cbtkit/internal/screens/quiz"
	textscreen "github.com/hachiman-oct/cbtkit/internal/screens/textsaver"
	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/textsaver"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
)

// Deps are the services the tools run on.
type Deps struct {
	Session        *session.Session
	Saver          *textsaver.Saver
	OutputDir      string
	Logger         *zap.Logger
	AudioAvailable bool
}

const (
	itemQuiz = iota
	itemText
	itemAudio
	itemExit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		{Label: "CBT Practice", Action: func() tea.Cmd {
			return push(quiz.New(deps.Session, deps.Logger))
		}},
		{Label: "Text Saver", Action: func() tea.Cmd {
			return push(textscreen.New(deps.Saver, deps.OutputDir, deps.Logger))
		}},
		{Label: "Audio Speed", Action: func() tea.Cmd {
			if !deps.AudioAvailable {
				return push(placeholder.New("Audio Speed",
					"ffmpeg and ffprobe were not found on PATH.\nInstall ffmpeg to change playback speed."))
			}
			return push(audioscreen.New(deps.OutputDir, deps.Logger))
		}},
		{Label: "Exit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// Init refreshes the menu descriptions; it runs again whenever the user
// comes back from a tool.
func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) refresh() {
	h.menu.Items[itemQuiz].Description = quizStatus(h.deps.Session)
	h.menu.Items[itemText].Description = draftStatus(h.deps.Saver)
	if h.deps.AudioAvailable {
		h.menu.Items[itemAudio].Description = "Speed up lectures with ffmpeg"
	} else {
		h.menu.Items[itemAudio].Description = "ffmpeg not found"
	}
	h.menu.Items[itemExit].Description = ""
}

func quizStatus(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	switch sess.Mode() {
	case session.ModeAnswer:
		cfg, _ := sess.Config()
		answered := cfg.QuestionCount - sess.UnansweredCount()
		status := fmt.Sprintf("In progress: %d/%d answered", answered, cfg.QuestionCount)
		if sess.TimerRunning() {
			status += ", " + session.FormatClock(sess.State().RemainingSeconds) + " left"
		}
		return status
	case session.ModeGrading:
		if _, ok := sess.Result(); ok {
			return "Results ready"
		}
		return "Grading"
	default:
		return "Answer-sheet practice with timer"
	}
}

func draftStatus(s *textsaver.Saver) string {
	if s == nil || !s.HasContent() {
		return "Save text as .txt or .md"
	}
	d := s.Draft()
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "untitled"
	}
	return fmt.Sprintf("Draft: %s.%s", title, d.Format)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}
