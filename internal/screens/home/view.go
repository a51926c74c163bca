package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

const titleFull = `┏━╸┏┓ ╺┳╸╻┏ ╻╺┳╸
┃  ┣┻┓ ┃ ┣┻┓┃ ┃
┗━╸┗━┛ ╹ ╹ ╹╹ ╹ `

const titleCompact = "C · B · T · K · I · T"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderMenu(h, cw, compact),
	}
	if !compact {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(theme.Hint.Render("Progress is saved automatically")))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// renderMenu draws each item as a button with its description underneath.
func renderMenu(h *HomeScreen, cw int, compact bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Padding(0, 1)
	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Padding(0, 1)
	if !compact {
		selectedBtn = selectedBtn.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Primary)
		normalBtn = normalBtn.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)
	}

	var blocks []string
	for i, item := range h.menu.Items {
		var btn string
		if i == h.menu.Selected {
			btn = selectedBtn.Render("▸ " + item.Label)
		} else {
			btn = normalBtn.Render(item.Label)
		}
		if item.Description != "" && (!compact || i == h.menu.Selected) {
			btn = lipgloss.JoinVertical(lipgloss.Center, btn, theme.Hint.Render(item.Description))
		}
		blocks = append(blocks, btn)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, blocks...))
}
