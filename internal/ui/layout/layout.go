// Package layout draws the frame around screens: header, footer and the
// too-small fallback.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20
)

const (
	appName     = "cbtkit"
	hintSpacing = "   "
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small\n\nResize to at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// Centered places content in the middle of a width x height area, e.g. a
// dialog over a screen.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// RenderHeader renders the top bar: app name on the left, the screen title
// in the middle and status, such as a running countdown, on the right.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + appName)
	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)
	right := status
	if right != "" {
		right += " "
	}

	inner := max(width-2, 0)
	leftW, centerW, rightW := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	// Center the title on the bar, then let the status take what is left.
	leftGap := max((inner-centerW)/2-leftW, 1)
	rightGap := max(inner-leftW-leftGap-centerW-rightW, 1)

	return barStyle(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter renders the key hints. Hints that do not fit the width are
// dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	room := width - 4
	content := " "
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if i > 0 {
			part = hintSpacing + part
		}
		if lipgloss.Width(content)+lipgloss.Width(part) > room {
			break
		}
		content += part
	}

	return barStyle(width).Render(content)
}

func barStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the height between them.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
