package textsaver

import (
	"strings"

	"charm.land/lipgloss/v2"

	saver "github.com/hachiman-oct/cbtkit/internal/textsaver"
	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

func (s *TextSaverScreen) View(width, height int) string {
	if s.confirming {
		return layout.Centered(s.confirm.View(), width, height)
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString("  " + theme.Label.Render("Title") + "  " + s.title.View())
	b.WriteString("\n")
	b.WriteString("  " + theme.Label.Render("Format") + " " + renderFormats(s.drafts.Draft().Format))
	b.WriteString(theme.Hint.Render("   → " + saver.Filename(s.drafts.Draft(), s.now())))
	b.WriteString("\n\n")

	areaHeight := height - 8
	if areaHeight < 3 {
		areaHeight = 3
	}
	s.content.SetWidth(inner)
	s.content.SetHeight(areaHeight)

	border := theme.Border
	if s.focus == focusContent {
		border = theme.Primary
	}
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		MarginLeft(1).
		Render(s.content.View()))
	b.WriteString("\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.Problem.Render("  " + s.errMsg))
	case s.notice != "":
		b.WriteString(theme.Notice.Render("  " + s.notice))
	default:
		b.WriteString(theme.Hint.Render("  Saves into " + s.outputDir))
	}
	return b.String()
}

func renderFormats(current saver.Format) string {
	var parts []string
	for _, f := range saver.Formats {
		label := "." + string(f)
		if f == current {
			parts = append(parts, theme.ChoiceActive.Render(label))
		} else {
			parts = append(parts, theme.ChoiceInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
