// Package quiz is the CBT practice screen: setup form, answer sheet,
// grading sheet and results, driven by a shared session.Session.
package quiz

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/screen"
	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
)

// QuizScreen implements screen.Screen for the practice quiz.
type QuizScreen struct {
	sess *session.Session
	log  *zap.Logger

	form     setupForm
	sheet    components.AnswerSheet
	sheetKey string
	lastMode session.Mode

	confirm     components.Confirm
	confirmKind confirmKind

	resultOffset int
	notice       string
	errMsg       string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.EscapeHandler   = (*QuizScreen)(nil)
)

// New creates the quiz screen over sess.
func New(sess *session.Session, log *zap.Logger) *QuizScreen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &QuizScreen{sess: sess, log: log}
	s.form = newSetupForm(sess.SetupDefaults())
	s.lastMode = sess.Mode()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	s.sync()
	if s.sess.Mode() == session.ModeSetup {
		return s.form.focusCmd()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	switch s.sess.Mode() {
	case session.ModeAnswer:
		return "CBT Practice · Answering"
	case session.ModeGrading:
		if _, ok := s.sess.Result(); ok {
			return "CBT Practice · Results"
		}
		return "CBT Practice · Grading"
	}
	return "CBT Practice · Setup"
}

// CapturesEscape keeps Esc inside the screen while a dialog is open.
func (s *QuizScreen) CapturesEscape() bool {
	return s.confirmKind != confirmNone
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.sync()

	switch msg := msg.(type) {
	case TickMsg:
		// The app already applied the tick; sync picked up any expiry.
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.sess.Mode() == session.ModeSetup {
		return s, s.form.update(msg)
	}
	return s, nil
}

// sync rebuilds the sheet when the session moved on underneath the screen,
// e.g. the countdown expired or a reset happened elsewhere.
func (s *QuizScreen) sync() {
	mode := s.sess.Mode()
	if mode != s.lastMode {
		if s.lastMode == session.ModeAnswer && mode == session.ModeGrading && s.confirmKind == confirmSubmit {
			s.closeConfirm()
		}
		if s.lastMode == session.ModeAnswer && mode == session.ModeGrading && s.sess.State().RemainingSeconds == 0 {
			if cfg, ok := s.sess.Config(); ok && cfg.Timed() {
				s.notice = "Time is up. Your answers were submitted."
			}
		}
		if mode == session.ModeSetup {
			s.form = newSetupForm(s.sess.SetupDefaults())
		}
		s.lastMode = mode
	}

	key := fmt.Sprintf("%s/%s", s.sess.ID(), mode)
	if key == s.sheetKey {
		return
	}
	s.sheetKey = key
	s.resultOffset = 0

	cfg, ok := s.sess.Config()
	if !ok {
		return
	}
	st := s.sess.State()
	answers := st.UserAnswers
	if mode == session.ModeGrading {
		answers = st.CorrectAnswers
	}
	s.sheet = components.NewAnswerSheet(cfg.ChoiceLabels, toInts(answers))
}

// restoreSheet drops marks the session did not record.
func (s *QuizScreen) restoreSheet() {
	st := s.sess.State()
	answers := st.UserAnswers
	if st.Mode == session.ModeGrading {
		answers = st.CorrectAnswers
	}
	s.sheet.Answers = toInts(answers)
}

func toInts(answers []session.Answer) []int {
	out := make([]int, len(answers))
	for i, a := range answers {
		out[i] = int(a)
	}
	return out
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.confirmKind != confirmNone {
		return s.handleConfirm(msg)
	}

	key := msg.String()
	if key == "ctrl+r" || (key == "R" && s.sess.Mode() != session.ModeSetup) {
		s.openConfirm(confirmReset, "Erase this quiz and all saved progress?", "Erase", "Keep")
		return s, nil
	}

	switch s.sess.Mode() {
	case session.ModeSetup:
		return s.handleSetupKey(msg)
	case session.ModeAnswer:
		return s.handleAnswerKey(msg)
	case session.ModeGrading:
		if _, revealed := s.sess.Result(); revealed {
			return s.handleResultsKey(msg)
		}
		return s.handleGradingKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleSetupKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.form.moveFocus(1)
	case "shift+tab", "up":
		return s, s.form.moveFocus(-1)
	case "+", "=":
		if s.form.focus != fieldLabels {
			s.form.step(1)
			return s, nil
		}
	case "-", "_":
		if s.form.focus != fieldLabels {
			s.form.step(-1)
			return s, nil
		}
	case "ctrl+l":
		s.form.resetLabels()
		return s, nil
	case "ctrl+s":
		return s.start()
	case "enter":
		if s.form.onLastField() {
			return s.start()
		}
		return s, s.form.moveFocus(1)
	}
	return s, s.form.update(msg)
}

func (s *QuizScreen) start() (screen.Screen, tea.Cmd) {
	s.notice = ""
	cfg, err := s.form.configuration()
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if err := s.sess.StartSession(cfg); err != nil {
		if ve, ok := session.IsValidation(err); ok {
			s.form.markValidation(ve)
		}
		s.errMsg = err.Error()
		return s, nil
	}

	s.errMsg = ""
	s.sync()
	if s.sess.TimerRunning() {
		return s, TickCmd(s.sess.TimerGeneration())
	}
	return s, nil
}

func (s *QuizScreen) handleAnswerKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "s", "ctrl+s":
		return s.submit(false)
	case "b":
		return s.backToSetup()
	}

	s.sheet, _ = s.sheet.Update(msg)
	if p, ok := s.sheet.TakePick(); ok {
		if err := s.sess.SelectAnswer(p.Question, p.Choice); err != nil {
			s.fail(err)
			s.restoreSheet()
		} else {
			s.errMsg = ""
		}
	}
	return s, nil
}

func (s *QuizScreen) submit(proceed bool) (screen.Screen, tea.Cmd) {
	err := s.sess.SubmitAnswers(proceed)
	if errors.Is(err, session.ErrConfirmationRequired) {
		n := s.sess.UnansweredCount()
		s.openConfirm(confirmSubmit,
			fmt.Sprintf("%d question%s unanswered. Submit anyway?", n, plural(n)),
			"Submit", "Keep answering")
		return s, nil
	}
	if err != nil {
		s.fail(err)
		return s, nil
	}
	s.notice = "Answers submitted. Enter the correct answers to grade."
	s.errMsg = ""
	s.sync()
	return s, nil
}

func (s *QuizScreen) handleGradingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "r", "ctrl+s":
		return s.reveal()
	case "b":
		return s.backToSetup()
	}

	s.sheet, _ = s.sheet.Update(msg)
	if p, ok := s.sheet.TakePick(); ok {
		if err := s.sess.SelectCorrectAnswer(p.Question, p.Choice); err != nil {
			s.fail(err)
			s.restoreSheet()
		} else {
			s.errMsg = ""
		}
	}
	return s, nil
}

func (s *QuizScreen) reveal() (screen.Screen, tea.Cmd) {
	_, err := s.sess.RevealResults()
	if ve, ok := session.IsValidation(err); ok {
		s.notice = ""
		s.errMsg = fmt.Sprintf("%d correct answer%s still missing.", ve.Count, plural(ve.Count))
		return s, nil
	}
	if err != nil {
		s.fail(err)
		return s, nil
	}
	s.notice = ""
	s.errMsg = ""
	s.resultOffset = 0
	return s, nil
}

func (s *QuizScreen) handleResultsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.resultOffset > 0 {
			s.resultOffset--
		}
	case "down", "j":
		if cfg, ok := s.sess.Config(); ok && s.resultOffset < cfg.QuestionCount-1 {
			s.resultOffset++
		}
	case "b", "n", "enter":
		return s.backToSetup()
	}
	return s, nil
}

func (s *QuizScreen) backToSetup() (screen.Screen, tea.Cmd) {
	if err := s.sess.BackToSetup(); err != nil {
		s.fail(err)
		return s, nil
	}
	s.notice = ""
	s.errMsg = ""
	s.sync()
	return s, s.form.focusCmd()
}

func (s *QuizScreen) openConfirm(kind confirmKind, prompt, yes, no string) {
	s.confirm = components.NewConfirm(prompt, yes, no)
	s.confirmKind = kind
}

func (s *QuizScreen) closeConfirm() {
	s.confirmKind = confirmNone
}

func (s *QuizScreen) handleConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.confirm, _ = s.confirm.Update(msg)
	if !s.confirm.Answered {
		return s, nil
	}
	kind := s.confirmKind
	s.closeConfirm()
	if !s.confirm.Accepted {
		return s, nil
	}

	switch kind {
	case confirmSubmit:
		return s.submit(true)
	case confirmReset:
		if err := s.sess.Reset(true); err != nil {
			s.fail(err)
		} else {
			s.notice = "Quiz erased."
			s.errMsg = ""
		}
		s.sync()
		s.form = newSetupForm(s.sess.SetupDefaults())
		return s, s.form.focusCmd()
	}
	return s, nil
}

func (s *QuizScreen) fail(err error) {
	s.log.Warn("quiz action failed", zap.Error(err))
	s.errMsg = err.Error()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmKind != confirmNone {
		return []layout.KeyHint{
			{Key: "Y", Description: s.confirm.YesLabel},
			{Key: "N", Description: s.confirm.NoLabel},
		}
	}
	switch s.sess.Mode() {
	case session.ModeAnswer:
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓←→", Description: "Move"},
			{Key: "S", Description: "Submit"},
			{Key: "B", Description: "Setup"},
			{Key: "Esc", Description: "Home"},
		}
	case session.ModeGrading:
		if _, ok := s.sess.Result(); ok {
			return []layout.KeyHint{
				{Key: "↑↓", Description: "Scroll"},
				{Key: "Enter", Description: "New quiz"},
				{Key: "Shift+R", Description: "Erase"},
				{Key: "Esc", Description: "Home"},
			}
		}
		return []layout.KeyHint{
			{Key: "1-9", Description: "Correct answer"},
			{Key: "R", Description: "Reveal"},
			{Key: "B", Description: "Setup"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "+/-", Description: "Adjust"},
		{Key: "Ctrl+S", Description: "Start"},
		{Key: "Ctrl+R", Description: "Erase"},
		{Key: "Esc", Description: "Home"},
	}
}

// StatusLine renders the countdown for the app header, or "" when no
// timed quiz is being answered.
func StatusLine(sess *session.Session) string {
	if sess.Mode() != session.ModeAnswer || !sess.TimerRunning() {
		return ""
	}
	return clockStyle(sess.State().RemainingSeconds).Render("⏱ " + session.FormatClock(sess.State().RemainingSeconds))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
