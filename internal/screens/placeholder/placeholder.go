// Package placeholder shows a message in place of a tool that cannot run.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/screen"
	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

// PlaceholderScreen displays a fixed message under a title.
type PlaceholderScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a PlaceholderScreen with the given title and message.
func New(title, message string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, message: message}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	body := theme.Title.Render("╌╌ "+p.title+" unavailable ╌╌") + "\n\n" +
		theme.Body.Render(p.message) + "\n\n" +
		theme.Hint.Render("Press Esc to go back")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
