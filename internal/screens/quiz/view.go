package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

func clockStyle(remaining int) lipgloss.Style {
	switch session.UrgencyFor(remaining) {
	case session.UrgencyDanger:
		return theme.TimerDanger
	case session.UrgencyWarning:
		return theme.TimerWarning
	}
	return theme.TimerNormal
}

func (s *QuizScreen) View(width, height int) string {
	if s.confirmKind != confirmNone {
		return layout.Centered(s.confirm.View(), width, height)
	}

	var body string
	switch s.sess.Mode() {
	case session.ModeAnswer:
		body = s.renderAnswer(width, height)
	case session.ModeGrading:
		if res, ok := s.sess.Result(); ok {
			body = s.renderResults(res, width, height)
		} else {
			body = s.renderGrading(width, height)
		}
	default:
		body = s.renderSetup(width)
	}
	return body
}

func (s *QuizScreen) messages() string {
	var lines []string
	if s.notice != "" {
		lines = append(lines, theme.Notice.Render("  "+s.notice))
	}
	if s.errMsg != "" {
		lines = append(lines, theme.Problem.Render("  "+s.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("New practice quiz"))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, name := range fieldNames {
		if w := lipgloss.Width(name); w > labelWidth {
			labelWidth = w
		}
	}

	var rows []string
	for i, in := range s.form.inputs {
		label := theme.Label.Width(labelWidth + 2).Render(fieldNames[i])
		if i == s.form.focus {
			label = theme.Selected.Width(labelWidth + 2).Render(fieldNames[i])
		}
		rows = append(rows, label+in.View())
	}
	card := theme.Card.Render(strings.Join(rows, "\n\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render("Choice names are comma separated. Ctrl+L restores A, B, C…")))
	if m := s.messages(); m != "" {
		b.WriteString("\n\n")
		b.WriteString(m)
	}
	return b.String()
}

func (s *QuizScreen) renderAnswer(width, height int) string {
	cfg, _ := s.sess.Config()
	st := s.sess.State()
	answered := cfg.QuestionCount - s.sess.UnansweredCount()

	var top strings.Builder
	barWidth := width - 4
	clock := ""
	if cfg.Timed() {
		clock = clockStyle(st.RemainingSeconds).Render("  ⏱ " + session.FormatClock(st.RemainingSeconds))
		barWidth -= lipgloss.Width(clock)
	}
	top.WriteString("  ")
	top.WriteString(components.NewProgressBar("Answered", answered, cfg.QuestionCount, barWidth).View())
	top.WriteString(clock)

	return s.withSheet(top.String(), width, height)
}

func (s *QuizScreen) renderGrading(width, height int) string {
	cfg, _ := s.sess.Config()
	st := s.sess.State()
	entered := cfg.QuestionCount - s.sess.MissingCorrectCount()

	var top strings.Builder
	top.WriteString("  ")
	top.WriteString(components.NewProgressBar("Answer key", entered, cfg.QuestionCount, width-4).View())
	top.WriteString("\n")

	yours := "—"
	if q := s.sheet.Cursor; q < len(st.UserAnswers) && st.UserAnswers[q].Present() {
		yours = cfg.ChoiceLabels[st.UserAnswers[q]]
	}
	top.WriteString(theme.Hint.Render(fmt.Sprintf("  Q%d  your answer: %s", s.sheet.Cursor+1, yours)))

	return s.withSheet(top.String(), width, height)
}

func (s *QuizScreen) withSheet(top string, width, height int) string {
	msgs := s.messages()
	rows := height - lipgloss.Height(top) - 3
	if msgs != "" {
		rows -= lipgloss.Height(msgs) + 1
	}
	if rows < 3 {
		rows = 3
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n\n")
	b.WriteString(s.sheet.View(rows))
	if msgs != "" {
		b.WriteString("\n\n")
		b.WriteString(msgs)
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func (s *QuizScreen) renderResults(res session.Result, width, height int) string {
	cfg, _ := s.sess.Config()

	var b strings.Builder
	score := theme.Title.Width(width).Render(fmt.Sprintf("Score %d / %d", res.Score, res.QuestionCount))
	acc := theme.Subtitle.Width(width).Render(fmt.Sprintf("Accuracy %s%%", res.AccuracyText()))
	b.WriteString(score + "\n" + acc + "\n\n")

	rows := height - 6
	if rows < 3 {
		rows = 3
	}
	end := s.resultOffset + rows
	if end > len(res.Questions) {
		end = len(res.Questions)
	}

	label := func(a session.Answer) string {
		if !a.Present() || int(a) >= len(cfg.ChoiceLabels) {
			return "—"
		}
		return cfg.ChoiceLabels[a]
	}

	numWidth := len(fmt.Sprint(len(res.Questions)))
	for _, q := range res.Questions[s.resultOffset:end] {
		mark := theme.Correct.Render("✓")
		style := theme.Body
		if !q.IsRight {
			mark = theme.Incorrect.Render("✗")
			style = theme.Incorrect.Bold(false)
		}
		line := fmt.Sprintf("  %*d  %s  you %s key %s", numWidth, q.Index+1, mark,
			style.Render(fmt.Sprintf("%-6s", label(q.User))), label(q.Correct))
		b.WriteString(line + "\n")
	}
	if len(res.Questions) > rows {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d–%d of %d", s.resultOffset+1, end, len(res.Questions))))
	}
	return b.String()
}
