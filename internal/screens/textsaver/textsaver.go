// Package textsaver is the text-to-file screen.
package textsaver

import (
	"errors"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/screen"
	saver "github.com/hachiman-oct/cbtkit/internal/textsaver"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
)

const (
	focusTitle = iota
	focusContent
)

// savedMsg reports the outcome of a save.
type savedMsg struct {
	Path string
	Err  error
}

// TextSaverScreen edits a draft and writes it into the output directory.
type TextSaverScreen struct {
	drafts    *saver.Saver
	outputDir string
	log       *zap.Logger
	now       func() time.Time

	title   components.TextInput
	content textarea.Model
	focus   int

	confirm    components.Confirm
	confirming bool
	notice     string
	errMsg     string
}

var (
	_ screen.Screen          = (*TextSaverScreen)(nil)
	_ screen.KeyHintProvider = (*TextSaverScreen)(nil)
	_ screen.EscapeHandler   = (*TextSaverScreen)(nil)
)

// New creates the screen around drafts, whose draft should already be
// loaded.
func New(drafts *saver.Saver, outputDir string, log *zap.Logger) *TextSaverScreen {
	if log == nil {
		log = zap.NewNop()
	}

	title := components.NewTextInput("Title (blank for memo_YYYYMMDD_HHMMSS)", false, 120)
	content := textarea.New()
	content.Placeholder = "Type or paste text here..."
	content.ShowLineNumbers = false
	content.CharLimit = 0

	s := &TextSaverScreen{
		drafts:    drafts,
		outputDir: outputDir,
		log:       log,
		now:       time.Now,
		title:     title,
		content:   content,
		focus:     focusContent,
	}
	s.loadDraft()
	return s
}

func (s *TextSaverScreen) loadDraft() {
	d := s.drafts.Draft()
	s.title.SetValue(d.Title)
	s.content.SetValue(d.Content)
}

func (s *TextSaverScreen) Init() tea.Cmd {
	return s.applyFocus()
}

func (s *TextSaverScreen) Title() string {
	return "Text Saver"
}

func (s *TextSaverScreen) CapturesEscape() bool {
	return s.confirming
}

func (s *TextSaverScreen) applyFocus() tea.Cmd {
	if s.focus == focusTitle {
		s.content.Blur()
		return s.title.Focus()
	}
	s.title.Blur()
	return s.content.Focus()
}

func (s *TextSaverScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.Err != nil {
			s.notice = ""
			if errors.Is(msg.Err, saver.ErrEmptyContent) {
				s.errMsg = "Please enter some content."
			} else {
				s.errMsg = "Failed to save file: " + msg.Err.Error()
				s.log.Warn("text save failed", zap.Error(msg.Err))
			}
			return s, nil
		}
		s.errMsg = ""
		s.notice = "Saved " + msg.Path
		return s, nil

	case tea.KeyMsg:
		if s.confirming {
			return s.handleConfirm(msg)
		}
		switch msg.String() {
		case "ctrl+s":
			return s, s.save()
		case "ctrl+t":
			if err := s.drafts.SetFormat(s.drafts.Draft().Format.Next()); err != nil {
				s.errMsg = err.Error()
			}
			return s, nil
		case "ctrl+r":
			if s.drafts.HasContent() {
				s.confirm = components.NewConfirm("Clear the title and all content?", "Clear", "Keep")
				s.confirming = true
				return s, nil
			}
			return s, s.clear()
		case "tab", "shift+tab":
			s.focus = 1 - s.focus
			return s, s.applyFocus()
		case "enter":
			if s.focus == focusTitle {
				s.focus = focusContent
				return s, s.applyFocus()
			}
		}
	}

	var cmd tea.Cmd
	if s.focus == focusTitle {
		s.title, cmd = s.title.Update(msg)
		s.drafts.SetTitle(s.title.Value())
	} else {
		s.content, cmd = s.content.Update(msg)
		s.drafts.SetContent(s.content.Value())
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		s.notice = ""
	}
	return s, cmd
}

func (s *TextSaverScreen) handleConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.confirm, _ = s.confirm.Update(msg)
	if !s.confirm.Answered {
		return s, nil
	}
	s.confirming = false
	if !s.confirm.Accepted {
		return s, nil
	}
	return s, s.clear()
}

func (s *TextSaverScreen) clear() tea.Cmd {
	s.drafts.Clear()
	s.loadDraft()
	s.errMsg = ""
	s.notice = "Cleared"
	s.focus = focusContent
	return s.applyFocus()
}

// save writes the draft off the update loop.
func (s *TextSaverScreen) save() tea.Cmd {
	dir, d, now := s.outputDir, s.drafts.Draft(), s.now()
	return func() tea.Msg {
		path, err := saver.WriteFile(dir, d, now)
		return savedMsg{Path: path, Err: err}
	}
}

func (s *TextSaverScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Title/Text"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Ctrl+T", Description: "txt/md"},
		{Key: "Ctrl+R", Description: "Clear"},
		{Key: "Esc", Description: "Home"},
	}
}
