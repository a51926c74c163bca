package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

// Pick is a choice made on the sheet.
type Pick struct {
	Question int
	Choice   int
}

// AnswerSheet is a scrollable bubble sheet: one row per question, one
// column per choice label. Answers holds the selected choice per question,
// negative for none. After Update the parent calls TakePick to learn
// whether a choice was made.
type AnswerSheet struct {
	Labels  []string
	Answers []int
	Cursor  int
	Column  int

	offset int
	picked *Pick
}

// NewAnswerSheet creates a sheet with the cursor on the first question.
func NewAnswerSheet(labels []string, answers []int) AnswerSheet {
	return AnswerSheet{Labels: labels, Answers: answers}
}

// TakePick returns and clears the pending pick.
func (a *AnswerSheet) TakePick() (Pick, bool) {
	if a.picked == nil {
		return Pick{}, false
	}
	p := *a.picked
	a.picked = nil
	return p, true
}

// Update handles navigation and selection. Number keys pick a choice for
// the current question directly and advance to the next one; 0 stands for
// the tenth choice.
func (a AnswerSheet) Update(msg tea.Msg) (AnswerSheet, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(a.Answers) == 0 {
		return a, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		a.move(-1)
	case "down", "j":
		a.move(1)
	case "pgup":
		a.move(-10)
	case "pgdown":
		a.move(10)
	case "home", "g":
		a.Cursor = 0
	case "end", "G":
		a.Cursor = len(a.Answers) - 1
	case "left", "h":
		if a.Column > 0 {
			a.Column--
		}
	case "right", "l":
		if a.Column < len(a.Labels)-1 {
			a.Column++
		}
	case "enter", "space", " ":
		a.pick(a.Column, false)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if key[0] == '0' {
				idx = 9
			}
			if idx < len(a.Labels) {
				a.Column = idx
				a.pick(idx, true)
			}
		}
	}
	return a, nil
}

func (a *AnswerSheet) move(delta int) {
	a.Cursor += delta
	if a.Cursor < 0 {
		a.Cursor = 0
	}
	if a.Cursor >= len(a.Answers) {
		a.Cursor = len(a.Answers) - 1
	}
}

func (a *AnswerSheet) pick(choice int, advance bool) {
	a.picked = &Pick{Question: a.Cursor, Choice: choice}
	a.Answers[a.Cursor] = choice
	if advance {
		a.move(1)
	}
}

// View renders up to height rows around the cursor.
func (a *AnswerSheet) View(height int) string {
	if height < 1 {
		height = 1
	}
	if a.Cursor < a.offset {
		a.offset = a.Cursor
	}
	if a.Cursor >= a.offset+height {
		a.offset = a.Cursor - height + 1
	}

	end := a.offset + height
	if end > len(a.Answers) {
		end = len(a.Answers)
	}

	numWidth := len(fmt.Sprint(len(a.Answers)))
	var b strings.Builder
	for q := a.offset; q < end; q++ {
		prefix := "  "
		numStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if q == a.Cursor {
			prefix = "▸ "
			numStyle = theme.Selected
		}
		b.WriteString(numStyle.Render(fmt.Sprintf("%s%*d", prefix, numWidth, q+1)))
		b.WriteString("  ")

		for c, label := range a.Labels {
			style := theme.ChoiceInactive
			if a.Answers[q] == c {
				style = theme.ChoiceActive
			}
			cell := style.Render(label)
			if q == a.Cursor && c == a.Column {
				cell = lipgloss.NewStyle().Underline(true).Render(cell)
			}
			b.WriteString(cell)
			b.WriteString(" ")
		}
		if q < end-1 {
			b.WriteString("\n")
		}
	}

	if len(a.Answers) > height {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d–%d of %d", a.offset+1, end, len(a.Answers))))
	}
	return b.String()
}
