package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/hachiman-oct/cbtkit/internal/router"
	"github.com/hachiman-oct/cbtkit/internal/screens/quiz"
	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/store"
	"github.com/hachiman-oct/cbtkit/internal/textsaver"
)

func testModel(t *testing.T) (AppModel, *session.Session) {
	t.Helper()
	kv := store.NewMemKV()
	sess := session.New(kv)
	m := newAppModel(Options{
		Session:   sess,
		Saver:     textsaver.New(kv, nil),
		OutputDir: t.TempDir(),
	})
	return m, sess
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

// drain runs cmd and feeds navigation messages back into the model.
func drain(m AppModel, cmd tea.Cmd) AppModel {
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case router.PushScreenMsg, router.PopScreenMsg:
		m, _ = update(m, msg)
	}
	return m
}

func startTimedQuiz(t *testing.T, sess *session.Session) {
	t.Helper()
	cfg := session.DefaultConfiguration()
	cfg.QuestionCount = 2
	cfg.TimeLimitMinutes = 1
	if err := sess.StartSession(cfg); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestInitWithoutTimer(t *testing.T) {
	m, _ := testModel(t)
	if cmd := m.Init(); cmd != nil {
		t.Error("expected no command without a running countdown")
	}
}

func TestInitResumesRestoredTimer(t *testing.T) {
	kv := store.NewMemKV()
	first := session.New(kv)
	startTimedQuiz(t, first)

	sess := session.New(kv)
	if err := sess.RestoreOnLaunch(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	m := newAppModel(Options{Session: sess, Saver: textsaver.New(kv, nil)})

	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected a tick command for the restored countdown")
	}
	if !sess.TimerRunning() {
		t.Error("timer should be running after restore")
	}
}

func TestTickCountsOnAnyScreen(t *testing.T) {
	m, sess := testModel(t)
	startTimedQuiz(t, sess)

	// Still on the home screen.
	before := sess.State().RemainingSeconds
	m, cmd := update(m, quiz.TickMsg{Gen: sess.TimerGeneration()})

	if got := sess.State().RemainingSeconds; got != before-1 {
		t.Errorf("remaining = %d, want %d", got, before-1)
	}
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestEscPopsScreen(t *testing.T) {
	m, _ := testModel(t)

	m, cmd := update(m, tea.KeyPressMsg{Code: '2', Text: "2"})
	m = drain(m, cmd)
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2 after opening text saver", m.router.Depth())
	}

	m, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = drain(m, cmd)
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1 after esc", m.router.Depth())
	}
}

func TestEscGoesToCapturingScreen(t *testing.T) {
	m, sess := testModel(t)
	startTimedQuiz(t, sess)

	m, cmd := update(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	m = drain(m, cmd)

	// Open the submit dialog; Esc must close it rather than leave.
	m, _ = update(m, tea.KeyPressMsg{Code: 's', Text: "s"})
	m, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = drain(m, cmd)

	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2 while the dialog consumed esc", m.router.Depth())
	}
	if sess.Mode() != session.ModeAnswer {
		t.Errorf("mode = %v, want answerMode", sess.Mode())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := testModel(t)
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewShowsCountdownInHeader(t *testing.T) {
	m, sess := testModel(t)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if strings.Contains(m.render(), "⏱") {
		t.Error("no countdown expected before a quiz starts")
	}

	startTimedQuiz(t, sess)
	out := m.render()
	if !strings.Contains(out, "⏱ 1:00") {
		t.Error("header should show the countdown")
	}
	if !strings.Contains(out, "Ctrl+C") {
		t.Error("footer should show the quit hint")
	}
}

func TestViewTooSmall(t *testing.T) {
	m, _ := testModel(t)
	m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 10})
	if m.render() == "" {
		t.Error("expected a min-size message")
	}
}
