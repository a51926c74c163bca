package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/store"
)

// Session is the quiz state machine: Setup → Answer → Grading → results.
//
// It renders nothing. A presentation layer reads snapshots through
// Config/State/Result and drives it through the operations below. All
// calls must come from one goroutine (the UI update loop); the countdown is
// driven by the caller delivering Tick with the current timer generation.
type Session struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time

	id     string
	config *Configuration // nil while in ModeSetup
	last   *Configuration // most recent persisted configuration
	state  SessionState

	timerGen     uint64
	timerRunning bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for persistence warnings and transitions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Session in ModeSetup backed by kv. Call RestoreOnLaunch to
// pick up a previously persisted quiz.
func New(kv store.KV, opts ...Option) *Session {
	s := &Session{
		kv:  kv,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the UUID of the live quiz, or "" in setup.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the current phase.
func (s *Session) Mode() Mode {
	return s.state.Mode
}

// Config returns the live configuration. ok is false in setup.
func (s *Session) Config() (cfg Configuration, ok bool) {
	if s.config == nil {
		return Configuration{}, false
	}
	return s.config.clone(), true
}

// SetupDefaults returns the configuration to pre-fill the setup form with:
// the last persisted one, or the built-in defaults.
func (s *Session) SetupDefaults() Configuration {
	if s.last != nil {
		return s.last.clone()
	}
	return DefaultConfiguration()
}

// State returns a copy of the session state.
func (s *Session) State() SessionState {
	return s.state.clone()
}

// UnansweredCount returns how many questions have no user answer.
func (s *Session) UnansweredCount() int {
	return countMissing(s.state.UserAnswers)
}

// MissingCorrectCount returns how many questions have no correct answer yet.
func (s *Session) MissingCorrectCount() int {
	return countMissing(s.state.CorrectAnswers)
}

// Result returns the graded result once results have been revealed.
func (s *Session) Result() (Result, bool) {
	if s.state.Mode != ModeGrading || !s.state.ResultsRevealed {
		return Result{}, false
	}
	return BuildResult(s.state.UserAnswers, s.state.CorrectAnswers), true
}

// TimerRunning reports whether a countdown is live.
func (s *Session) TimerRunning() bool {
	return s.timerRunning
}

// TimerGeneration identifies the live countdown. Ticks carrying any other
// generation are ignored.
func (s *Session) TimerGeneration() uint64 {
	return s.timerGen
}

// RearmTimer invalidates every tick scheduled so far and returns the new
// generation. Callers use it when they (re)start delivering ticks, so at
// most one tick chain is ever honoured.
func (s *Session) RearmTimer() (gen uint64, ok bool) {
	if !s.timerRunning {
		return s.timerGen, false
	}
	s.timerGen++
	return s.timerGen, true
}

// StartSession validates cfg and begins a new quiz in ModeAnswer, replacing
// any quiz in progress. On a validation error nothing changes.
func (s *Session) StartSession(cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.stopTimer()

	live := cfg.clone()
	last := cfg.clone()
	s.id = uuid.NewString()
	s.config = &live
	s.last = &last
	s.state = SessionState{
		UserAnswers:      newAnswers(cfg.QuestionCount),
		CorrectAnswers:   newAnswers(cfg.QuestionCount),
		RemainingSeconds: cfg.TimeLimitSeconds(),
		Mode:             ModeAnswer,
	}
	if cfg.Timed() {
		s.startTimer()
	}

	s.persistConfig()
	s.persistState()

	s.log.Info("quiz started",
		zap.String("session_id", s.id),
		zap.Int("questions", cfg.QuestionCount),
		zap.Int("choices", cfg.ChoiceCount),
		zap.Int("time_limit_min", cfg.TimeLimitMinutes),
	)
	return nil
}

// SelectAnswer records the learner's choice for a question, replacing any
// previous choice. The state is persisted after every call.
func (s *Session) SelectAnswer(question, choice int) error {
	const op = "select answer"
	if err := s.require(op, ModeAnswer); err != nil {
		return err
	}
	if err := s.checkIndex(op, question, choice); err != nil {
		return err
	}
	s.state.UserAnswers[question] = Choice(choice)
	s.persistState()
	return nil
}

// SubmitAnswers ends the answering phase. With unanswered questions the
// caller must pass proceed=true, otherwise ErrConfirmationRequired is
// returned and nothing changes.
func (s *Session) SubmitAnswers(proceed bool) error {
	if err := s.require("submit answers", ModeAnswer); err != nil {
		return err
	}
	if s.UnansweredCount() > 0 && !proceed {
		return ErrConfirmationRequired
	}
	s.finalizeAnswers(false)
	return nil
}

// Tick takes one second off the clock. Ticks with a stale generation, or
// outside a timed answering phase, are ignored. When the clock reaches
// zero the answers are submitted without confirmation.
func (s *Session) Tick(gen uint64) TickOutcome {
	if !s.timerRunning || gen != s.timerGen {
		return TickIgnored
	}
	if s.state.Mode != ModeAnswer || s.config == nil || !s.config.Timed() {
		return TickIgnored
	}

	if s.state.RemainingSeconds > 0 {
		s.state.RemainingSeconds--
	}
	if s.state.RemainingSeconds == 0 {
		s.finalizeAnswers(true)
		return TickExpired
	}

	s.persistState()
	return TickCounted
}

// SelectCorrectAnswer records the answer key for a question during grading.
func (s *Session) SelectCorrectAnswer(question, choice int) error {
	const op = "select correct answer"
	if err := s.require(op, ModeGrading); err != nil {
		return err
	}
	if s.state.ResultsRevealed {
		return &PreconditionError{Op: op, Reason: "results already revealed"}
	}
	if err := s.checkIndex(op, question, choice); err != nil {
		return err
	}
	s.state.CorrectAnswers[question] = Choice(choice)
	s.persistState()
	return nil
}

// RevealResults grades the quiz. Every correct answer must be entered;
// otherwise a ValidationError carrying the missing count is returned and
// nothing changes.
func (s *Session) RevealResults() (Result, error) {
	const op = "reveal results"
	if err := s.require(op, ModeGrading); err != nil {
		return Result{}, err
	}
	if s.state.ResultsRevealed {
		return Result{}, &PreconditionError{Op: op, Reason: "results already revealed"}
	}
	if n := s.MissingCorrectCount(); n > 0 {
		return Result{}, &ValidationError{
			Field:   "correctAnswers",
			Message: fmt.Sprintf("%d correct answers not entered", n),
			Count:   n,
		}
	}

	s.state.ResultsRevealed = true
	res := BuildResult(s.state.UserAnswers, s.state.CorrectAnswers)

	s.log.Info("results revealed",
		zap.String("session_id", s.id),
		zap.Int("score", res.Score),
		zap.Int("questions", res.QuestionCount),
		zap.String("accuracy", res.AccuracyText()),
	)
	return res, nil
}

// BackToSetup abandons the live quiz without confirmation. The timer is
// cancelled and the persisted mode becomes setup; the configuration record
// is kept so the form is pre-filled.
func (s *Session) BackToSetup() error {
	if s.state.Mode == ModeSetup {
		return &PreconditionError{Op: "back to setup", Reason: "already in setupMode"}
	}
	s.stopTimer()
	s.log.Info("quiz abandoned", zap.String("session_id", s.id))
	s.clearLive()
	s.persistState()
	return nil
}

// Reset wipes the quiz and every persisted record. It is destructive, so
// confirm must be true; otherwise ErrConfirmationRequired is returned.
func (s *Session) Reset(confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	s.stopTimer()
	id := s.id
	s.clearLive()
	s.last = nil

	ctx := context.Background()
	var errs []error
	for _, key := range []string{StateKey, ConfigKey} {
		if err := s.kv.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.log.Warn("reset: failed to clear store", zap.Error(err))
		return err
	}

	s.log.Info("quiz reset", zap.String("session_id", id))
	return nil
}

// RestoreOnLaunch loads the persisted quiz. A timed quiz in the answering
// phase resumes its countdown from the saved remaining seconds; elapsed
// wall-clock time while the app was closed is not subtracted. A quiz in
// grading comes back unrevealed with any correct answers entered so far.
// Corrupt or inconsistent records are logged and ignored.
func (s *Session) RestoreOnLaunch(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if s.state.Mode == ModeAnswer && s.config.Timed() {
		if s.state.RemainingSeconds > 0 {
			s.startTimer()
		} else {
			s.finalizeAnswers(true)
		}
	}
	return nil
}

// Load reads the persisted quiz without starting the countdown or writing
// anything back. An answering quiz whose time ran out stays in answerMode
// with zero seconds left.
func (s *Session) Load(ctx context.Context) error {
	s.stopTimer()
	s.clearLive()
	s.last = nil

	rawCfg, ok, err := s.kv.Get(ctx, ConfigKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", ConfigKey, err)
	}
	if !ok {
		return nil
	}
	cfg, err := decodeConfig([]byte(rawCfg))
	if err != nil {
		s.log.Warn("ignoring saved configuration", zap.Error(err))
		return nil
	}
	last := cfg.clone()
	s.last = &last

	rawState, ok, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", StateKey, err)
	}
	if !ok {
		return nil
	}
	saved, err := decodeState([]byte(rawState))
	if err != nil {
		s.log.Warn("ignoring saved session", zap.Error(err))
		return nil
	}
	if saved.State.Mode == ModeSetup {
		return nil
	}
	if err := saved.State.fits(cfg); err != nil {
		s.log.Warn("ignoring saved session", zap.Error(err))
		return nil
	}

	s.id = saved.SessionID
	if s.id == "" {
		s.id = uuid.NewString()
	}
	live := cfg.clone()
	s.config = &live
	s.state = saved.State
	s.state.ResultsRevealed = false
	if !cfg.Timed() {
		s.state.RemainingSeconds = 0
	}

	s.log.Info("quiz restored",
		zap.String("session_id", s.id),
		zap.Stringer("mode", s.state.Mode),
		zap.Int("remaining_seconds", s.state.RemainingSeconds),
		zap.Time("saved_at", saved.SavedAt),
	)
	return nil
}

// finalizeAnswers moves from answering to grading. Both the explicit submit
// and the countdown expiry end up here; forced marks the latter.
func (s *Session) finalizeAnswers(forced bool) {
	s.stopTimer()
	if forced {
		s.state.RemainingSeconds = 0
	}
	s.state.Mode = ModeGrading
	s.state.ResultsRevealed = false
	s.persistState()

	s.log.Info("answers submitted",
		zap.String("session_id", s.id),
		zap.Bool("time_up", forced),
		zap.Int("unanswered", s.UnansweredCount()),
	)
}

func (s *Session) startTimer() {
	s.timerGen++
	s.timerRunning = true
}

func (s *Session) stopTimer() {
	if !s.timerRunning {
		return
	}
	s.timerGen++
	s.timerRunning = false
}

// clearLive drops the live quiz, leaving the session in setup.
func (s *Session) clearLive() {
	s.id = ""
	s.config = nil
	s.state = SessionState{Mode: ModeSetup}
}

func (s *Session) require(op string, mode Mode) error {
	if s.state.Mode != mode {
		return &PreconditionError{
			Op:     op,
			Reason: fmt.Sprintf("not allowed in %s", s.state.Mode),
		}
	}
	return nil
}

func (s *Session) checkIndex(op string, question, choice int) error {
	if question < 0 || question >= s.config.QuestionCount {
		return &PreconditionError{
			Op:     op,
			Reason: fmt.Sprintf("question %d out of range [0, %d)", question, s.config.QuestionCount),
		}
	}
	if choice < 0 || choice >= s.config.ChoiceCount {
		return &PreconditionError{
			Op:     op,
			Reason: fmt.Sprintf("choice %d out of range [0, %d)", choice, s.config.ChoiceCount),
		}
	}
	return nil
}

func (s *Session) persistConfig() {
	if s.config == nil {
		return
	}
	raw, err := encodeConfig(*s.config)
	if err != nil {
		s.log.Warn("encode configuration", zap.Error(err))
		return
	}
	if err := s.kv.Set(context.Background(), ConfigKey, string(raw)); err != nil {
		s.log.Warn("persist configuration", zap.Error(err))
	}
}

func (s *Session) persistState() {
	raw, err := encodeState(s.state, s.id, s.now())
	if err != nil {
		s.log.Warn("encode session state", zap.Error(err))
		return
	}
	if err := s.kv.Set(context.Background(), StateKey, string(raw)); err != nil {
		s.log.Warn("persist session state", zap.Error(err))
	}
}
