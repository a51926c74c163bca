package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
)

// Screen is one page of the TUI. Screens render content only; the app
// draws the header and footer around them.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens that want their own footer
// key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that use Esc themselves, e.g.
// to close a dialog or leave a text field. While CapturesEscape reports
// true the app forwards Esc to the screen instead of going back.
type EscapeHandler interface {
	CapturesEscape() bool
}
