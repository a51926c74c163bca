package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

// Confirm is a yes/no dialog. It starts on No; the parent reads Answered
// and Accepted after each Update.
type Confirm struct {
	Prompt   string
	YesLabel string
	NoLabel  string
	Answered bool
	Accepted bool
	onYes    bool
}

// NewConfirm creates a dialog with the given prompt.
func NewConfirm(prompt, yesLabel, noLabel string) Confirm {
	if yesLabel == "" {
		yesLabel = "Yes"
	}
	if noLabel == "" {
		noLabel = "No"
	}
	return Confirm{Prompt: prompt, YesLabel: yesLabel, NoLabel: noLabel}
}

// Update handles y/n, arrow keys and enter. Esc answers no.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	if c.Answered {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "y", "Y":
		c.Answered, c.Accepted = true, true
	case "n", "N", "esc":
		c.Answered, c.Accepted = true, false
	case "left", "h", "right", "l", "tab":
		c.onYes = !c.onYes
	case "enter":
		c.Answered, c.Accepted = true, c.onYes
	}
	return c, nil
}

// View renders the dialog box.
func (c Confirm) View() string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		NewButton(c.YesLabel+" (y)", c.onYes).View(),
		"  ",
		NewButton(c.NoLabel+" (n)", !c.onYes).View(),
	)
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Body.Bold(true).Render(c.Prompt),
		"",
		buttons,
	)
	return theme.Dialog.Render(body)
}
