package quiz

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hachiman-oct/cbtkit/internal/session"
)

// TickMsg is one countdown second for the timer generation Gen.
type TickMsg struct {
	Gen uint64
}

// TickCmd schedules the next countdown tick.
func TickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second*session.TickInterval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// HandleTick applies a tick to the session and schedules the next one
// while the countdown keeps running. The app calls it for every TickMsg
// so the clock runs whichever screen is open.
func HandleTick(s *session.Session, msg TickMsg) tea.Cmd {
	if s.Tick(msg.Gen) == session.TickCounted {
		return TickCmd(msg.Gen)
	}
	return nil
}

// ResumeTimer restarts tick delivery for a countdown restored from the
// store. Ticks scheduled before the call are invalidated.
func ResumeTimer(s *session.Session) tea.Cmd {
	gen, ok := s.RearmTimer()
	if !ok {
		return nil
	}
	return TickCmd(gen)
}

// confirmKind identifies which question the dialog is asking.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSubmit
	confirmReset
)
