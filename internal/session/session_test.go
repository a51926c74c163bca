package session

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachiman-oct/cbtkit/internal/store"
)

func testConfig(questions int, limit int) Configuration {
	return Configuration{
		QuestionCount:    questions,
		ChoiceCount:      4,
		ChoiceLabels:     []string{"A", "B", "C", "D"},
		TimeLimitMinutes: limit,
	}
}

func newTestSession(t *testing.T) (*Session, *store.MemKV) {
	t.Helper()
	kv := store.NewMemKV()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return New(kv, WithClock(func() time.Time { return fixed })), kv
}

func startedSession(t *testing.T, cfg Configuration) (*Session, *store.MemKV) {
	t.Helper()
	s, kv := newTestSession(t)
	require.NoError(t, s.StartSession(cfg))
	return s, kv
}

// answerAll sets the given answers; NoAnswer entries are skipped.
func answerAll(t *testing.T, s *Session, answers []Answer, correct bool) {
	t.Helper()
	for i, a := range answers {
		if !a.Present() {
			continue
		}
		if correct {
			require.NoError(t, s.SelectCorrectAnswer(i, int(a)))
		} else {
			require.NoError(t, s.SelectAnswer(i, int(a)))
		}
	}
}

func TestStartSession_AllAnswersAbsent(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
	}{
		{"single question", testConfig(1, 0)},
		{"twenty timed", testConfig(20, 60)},
		{"max questions", testConfig(MaxQuestions, 0)},
		{"ten choices", Configuration{QuestionCount: 3, ChoiceCount: 10, ChoiceLabels: DefaultLabels(10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := startedSession(t, tt.cfg)
			st := s.State()

			require.Len(t, st.UserAnswers, tt.cfg.QuestionCount)
			require.Len(t, st.CorrectAnswers, tt.cfg.QuestionCount)
			for i := range st.UserAnswers {
				assert.False(t, st.UserAnswers[i].Present(), "user answer %d", i)
				assert.False(t, st.CorrectAnswers[i].Present(), "correct answer %d", i)
			}
			assert.Equal(t, ModeAnswer, st.Mode)
			assert.Equal(t, tt.cfg.TimeLimitMinutes*60, st.RemainingSeconds)
			assert.Equal(t, tt.cfg.Timed(), s.TimerRunning())
			assert.NotEmpty(t, s.ID())
		})
	}
}

func TestStartSession_LabelMismatchRejected(t *testing.T) {
	s, kv := newTestSession(t)
	cfg := Configuration{
		QuestionCount: 5,
		ChoiceCount:   5,
		ChoiceLabels:  []string{"A", "B", "C"},
	}

	err := s.StartSession(cfg)
	ve, ok := IsValidation(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, "choiceLabels", ve.Field)
	assert.Equal(t, 2, ve.Count)

	assert.Equal(t, ModeSetup, s.Mode())
	_, live := s.Config()
	assert.False(t, live)
	assert.Equal(t, 0, kv.Len(), "nothing should be persisted")
}

func TestStartSession_RangeChecks(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Configuration
		field string
	}{
		{"zero questions", Configuration{QuestionCount: 0, ChoiceCount: 2, ChoiceLabels: DefaultLabels(2)}, "questionCount"},
		{"too many questions", Configuration{QuestionCount: 201, ChoiceCount: 2, ChoiceLabels: DefaultLabels(2)}, "questionCount"},
		{"one choice", Configuration{QuestionCount: 5, ChoiceCount: 1, ChoiceLabels: DefaultLabels(1)}, "choiceCount"},
		{"eleven choices", Configuration{QuestionCount: 5, ChoiceCount: 11, ChoiceLabels: DefaultLabels(11)}, "choiceCount"},
		{"blank label", Configuration{QuestionCount: 5, ChoiceCount: 2, ChoiceLabels: []string{"A", "  "}}, "choiceLabels"},
		{"negative limit", Configuration{QuestionCount: 5, ChoiceCount: 2, ChoiceLabels: DefaultLabels(2), TimeLimitMinutes: -1}, "timeLimitMinutes"},
		{"limit over maximum", Configuration{QuestionCount: 5, ChoiceCount: 2, ChoiceLabels: DefaultLabels(2), TimeLimitMinutes: MaxTimeLimitMinutes + 1}, "timeLimitMinutes"},
		{"limit overflows seconds", Configuration{QuestionCount: 5, ChoiceCount: 2, ChoiceLabels: DefaultLabels(2), TimeLimitMinutes: math.MaxInt / 30}, "timeLimitMinutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			ve, ok := IsValidation(s.StartSession(tt.cfg))
			require.True(t, ok)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, ModeSetup, s.Mode())
		})
	}
}

func TestSelectAnswer_OverwritesNotToggles(t *testing.T) {
	s, _ := startedSession(t, testConfig(3, 0))

	require.NoError(t, s.SelectAnswer(1, 2))
	require.NoError(t, s.SelectAnswer(1, 3))
	assert.Equal(t, Choice(3), s.State().UserAnswers[1])

	// Repeating the same selection keeps it selected.
	require.NoError(t, s.SelectAnswer(1, 3))
	require.NoError(t, s.SelectAnswer(1, 3))
	assert.Equal(t, Choice(3), s.State().UserAnswers[1])
	assert.Equal(t, 2, s.UnansweredCount())
}

func TestSelectAnswer_PersistsEveryCall(t *testing.T) {
	s, kv := startedSession(t, testConfig(3, 0))
	require.NoError(t, s.SelectAnswer(0, 1))

	restored := New(kv)
	require.NoError(t, restored.RestoreOnLaunch(context.Background()))
	assert.Equal(t, Choice(1), restored.State().UserAnswers[0])
	assert.Equal(t, s.ID(), restored.ID())
}

func TestSelectAnswer_Preconditions(t *testing.T) {
	s, _ := startedSession(t, testConfig(3, 0))

	var pe *PreconditionError
	assert.ErrorAs(t, s.SelectAnswer(3, 0), &pe, "question out of range")
	assert.ErrorAs(t, s.SelectAnswer(-1, 0), &pe, "negative question")
	assert.ErrorAs(t, s.SelectAnswer(0, 4), &pe, "choice out of range")
	assert.ErrorAs(t, s.SelectCorrectAnswer(0, 0), &pe, "grading op in answer mode")
	_, err := s.RevealResults()
	assert.ErrorAs(t, err, &pe, "reveal in answer mode")

	assert.Equal(t, 3, s.UnansweredCount(), "failed calls must not change state")

	fresh, _ := newTestSession(t)
	assert.ErrorAs(t, fresh.SelectAnswer(0, 0), &pe, "select in setup")
	assert.ErrorAs(t, fresh.SubmitAnswers(true), &pe, "submit in setup")
	assert.ErrorAs(t, fresh.BackToSetup(), &pe, "back in setup")
}

func TestSubmitAnswers_RequiresConfirmation(t *testing.T) {
	s, _ := startedSession(t, testConfig(3, 10))
	require.NoError(t, s.SelectAnswer(0, 0))

	err := s.SubmitAnswers(false)
	assert.True(t, errors.Is(err, ErrConfirmationRequired))
	assert.Equal(t, 2, s.UnansweredCount())
	assert.Equal(t, ModeAnswer, s.Mode())
	assert.True(t, s.TimerRunning())

	require.NoError(t, s.SubmitAnswers(true))
	assert.Equal(t, ModeGrading, s.Mode())
	assert.False(t, s.State().ResultsRevealed)
	assert.False(t, s.TimerRunning())
}

func TestSubmitAnswers_AllAnsweredNeedsNoConfirmation(t *testing.T) {
	s, _ := startedSession(t, testConfig(2, 0))
	require.NoError(t, s.SelectAnswer(0, 0))
	require.NoError(t, s.SelectAnswer(1, 1))

	require.NoError(t, s.SubmitAnswers(false))
	assert.Equal(t, ModeGrading, s.Mode())
}

func TestTimer_ExpiresAfterLimitAndAutoSubmits(t *testing.T) {
	s, _ := startedSession(t, testConfig(5, 1))
	require.NoError(t, s.SelectAnswer(0, 1))
	gen := s.TimerGeneration()

	for i := 0; i < 59; i++ {
		require.Equal(t, TickCounted, s.Tick(gen), "tick %d", i+1)
	}
	assert.Equal(t, 1, s.State().RemainingSeconds)
	assert.Equal(t, ModeAnswer, s.Mode())

	assert.Equal(t, TickExpired, s.Tick(gen))
	st := s.State()
	assert.Equal(t, 0, st.RemainingSeconds)
	assert.Equal(t, ModeGrading, st.Mode)
	assert.False(t, st.ResultsRevealed)
	assert.False(t, s.TimerRunning())
	assert.Equal(t, 4, s.UnansweredCount(), "unanswered questions stay absent")

	// Further ticks are ignored and never go negative.
	assert.Equal(t, TickIgnored, s.Tick(gen))
	assert.Equal(t, TickIgnored, s.Tick(s.TimerGeneration()))
	assert.Equal(t, 0, s.State().RemainingSeconds)
}

func TestTick_StaleGenerationIgnored(t *testing.T) {
	s, _ := startedSession(t, testConfig(2, 1))
	old := s.TimerGeneration()

	gen, ok := s.RearmTimer()
	require.True(t, ok)
	require.NotEqual(t, old, gen)

	assert.Equal(t, TickIgnored, s.Tick(old))
	assert.Equal(t, 60, s.State().RemainingSeconds)
	assert.Equal(t, TickCounted, s.Tick(gen))
	assert.Equal(t, 59, s.State().RemainingSeconds)
}

func TestTick_UntimedIgnored(t *testing.T) {
	s, _ := startedSession(t, testConfig(2, 0))
	assert.False(t, s.TimerRunning())
	assert.Equal(t, TickIgnored, s.Tick(s.TimerGeneration()))
	_, ok := s.RearmTimer()
	assert.False(t, ok)
}

func TestTimer_StoppedOnEveryExitFromAnswer(t *testing.T) {
	t.Run("submit", func(t *testing.T) {
		s, _ := startedSession(t, testConfig(2, 5))
		gen := s.TimerGeneration()
		require.NoError(t, s.SubmitAnswers(true))
		assert.Equal(t, TickIgnored, s.Tick(gen))
	})
	t.Run("back to setup", func(t *testing.T) {
		s, _ := startedSession(t, testConfig(2, 5))
		gen := s.TimerGeneration()
		require.NoError(t, s.BackToSetup())
		assert.False(t, s.TimerRunning())
		assert.Equal(t, TickIgnored, s.Tick(gen))
	})
	t.Run("new setup", func(t *testing.T) {
		s, _ := startedSession(t, testConfig(2, 5))
		gen := s.TimerGeneration()
		require.NoError(t, s.StartSession(testConfig(3, 5)))
		assert.Equal(t, TickIgnored, s.Tick(gen))
		assert.Equal(t, TickCounted, s.Tick(s.TimerGeneration()))
	})
}

func TestRevealResults_ReportsMissingCount(t *testing.T) {
	s, _ := startedSession(t, testConfig(5, 0))
	require.NoError(t, s.SubmitAnswers(true))
	answerAll(t, s, []Answer{0, 1, NoAnswer, 2, NoAnswer}, true)

	_, err := s.RevealResults()
	ve, ok := IsValidation(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, 2, ve.Count)
	assert.False(t, s.State().ResultsRevealed)

	_, revealed := s.Result()
	assert.False(t, revealed)
}

func TestRevealResults_Score(t *testing.T) {
	cfg := Configuration{QuestionCount: 5, ChoiceCount: 3, ChoiceLabels: DefaultLabels(3)}
	s, _ := startedSession(t, cfg)
	answerAll(t, s, []Answer{0, 1, 2, NoAnswer, 1}, false)
	require.NoError(t, s.SubmitAnswers(true))
	answerAll(t, s, []Answer{0, 1, 1, 2, 1}, true)

	res, err := s.RevealResults()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 5, res.QuestionCount)
	assert.Equal(t, "60.0", res.AccuracyText())
	assert.True(t, s.State().ResultsRevealed)
	assert.False(t, res.Questions[3].IsRight, "unanswered is incorrect")

	// Revealed is final: the key can no longer change.
	var pe *PreconditionError
	assert.ErrorAs(t, s.SelectCorrectAnswer(2, 2), &pe)
	_, err = s.RevealResults()
	assert.ErrorAs(t, err, &pe)

	again, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, res.Score, again.Score)
}

func TestReset_RequiresConfirmation(t *testing.T) {
	s, kv := startedSession(t, testConfig(3, 0))

	assert.True(t, errors.Is(s.Reset(false), ErrConfirmationRequired))
	assert.Equal(t, ModeAnswer, s.Mode())
	assert.Equal(t, 2, kv.Len())
}

func TestReset_ClearsStoreFromEveryMode(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, s *Session)
	}{
		{"setup", func(t *testing.T, s *Session) {}},
		{"answer", func(t *testing.T, s *Session) {
			require.NoError(t, s.StartSession(testConfig(3, 5)))
		}},
		{"grading", func(t *testing.T, s *Session) {
			require.NoError(t, s.StartSession(testConfig(3, 0)))
			require.NoError(t, s.SubmitAnswers(true))
			require.NoError(t, s.SelectCorrectAnswer(0, 1))
		}},
		{"revealed", func(t *testing.T, s *Session) {
			require.NoError(t, s.StartSession(testConfig(1, 0)))
			require.NoError(t, s.SubmitAnswers(true))
			require.NoError(t, s.SelectCorrectAnswer(0, 1))
			_, err := s.RevealResults()
			require.NoError(t, err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestSession(t)
			tt.setup(t, s)

			require.NoError(t, s.Reset(true))
			assert.Equal(t, ModeSetup, s.Mode())
			assert.False(t, s.TimerRunning())
			assert.Equal(t, 0, kv.Len())

			restored := New(kv)
			require.NoError(t, restored.RestoreOnLaunch(context.Background()))
			assert.Equal(t, ModeSetup, restored.Mode())
			assert.Equal(t, DefaultConfiguration(), restored.SetupDefaults())
		})
	}
}

func TestBackToSetup_KeepsConfigurationForForm(t *testing.T) {
	cfg := testConfig(7, 15)
	s, kv := startedSession(t, cfg)
	require.NoError(t, s.SelectAnswer(0, 0))

	require.NoError(t, s.BackToSetup())
	assert.Equal(t, ModeSetup, s.Mode())
	assert.Empty(t, s.ID())
	assert.Equal(t, cfg, s.SetupDefaults())

	restored := New(kv)
	require.NoError(t, restored.RestoreOnLaunch(context.Background()))
	assert.Equal(t, ModeSetup, restored.Mode())
	assert.Equal(t, cfg, restored.SetupDefaults())
}

func TestRestoreOnLaunch_ResumesCountdownFromSavedValue(t *testing.T) {
	s, kv := startedSession(t, testConfig(4, 2))
	gen := s.TimerGeneration()
	for i := 0; i < 30; i++ {
		s.Tick(gen)
	}
	require.NoError(t, s.SelectAnswer(2, 3))

	restored := New(kv)
	require.NoError(t, restored.RestoreOnLaunch(context.Background()))
	assert.Equal(t, ModeAnswer, restored.Mode())
	assert.True(t, restored.TimerRunning())
	assert.Equal(t, 90, restored.State().RemainingSeconds)
	assert.Equal(t, Choice(3), restored.State().UserAnswers[2])

	assert.Equal(t, TickCounted, restored.Tick(restored.TimerGeneration()))
	assert.Equal(t, 89, restored.State().RemainingSeconds)
}

func TestRestoreOnLaunch_GradingComesBackUnrevealed(t *testing.T) {
	s, kv := startedSession(t, testConfig(3, 0))
	require.NoError(t, s.SubmitAnswers(true))
	require.NoError(t, s.SelectCorrectAnswer(0, 2))
	require.NoError(t, s.SelectCorrectAnswer(1, 1))
	require.NoError(t, s.SelectCorrectAnswer(2, 0))
	_, err := s.RevealResults()
	require.NoError(t, err)

	restored := New(kv)
	require.NoError(t, restored.RestoreOnLaunch(context.Background()))
	st := restored.State()
	assert.Equal(t, ModeGrading, st.Mode)
	assert.False(t, st.ResultsRevealed)
	assert.Equal(t, []Answer{2, 1, 0}, st.CorrectAnswers)
	assert.False(t, restored.TimerRunning())
}

func TestRestoreOnLaunch_ExpiredCountdownSubmits(t *testing.T) {
	kv := store.NewMemKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, ConfigKey, `{"questionCount":2,"choiceCount":2,"choiceNames":["A","B"],"timeLimit":1}`))
	require.NoError(t, kv.Set(ctx, StateKey, `{"answers":[null,1],"correctAnswers":[null,null],"remainingSeconds":0,"currentMode":"answerMode","timestamp":0}`))

	s := New(kv)
	require.NoError(t, s.RestoreOnLaunch(ctx))
	assert.Equal(t, ModeGrading, s.Mode())
	assert.False(t, s.TimerRunning())
	assert.NotEmpty(t, s.ID(), "records without an id get a fresh one")
}

func TestLoad_LeavesStoreUntouched(t *testing.T) {
	kv := store.NewMemKV()
	ctx := context.Background()
	rawState := `{"answers":[null,1],"correctAnswers":[null,null],"remainingSeconds":0,"currentMode":"answerMode","timestamp":0,"sessionId":"s-1"}`
	require.NoError(t, kv.Set(ctx, ConfigKey, `{"questionCount":2,"choiceCount":2,"choiceNames":["A","B"],"timeLimit":1}`))
	require.NoError(t, kv.Set(ctx, StateKey, rawState))

	s := New(kv)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, ModeAnswer, s.Mode())
	assert.Equal(t, 0, s.State().RemainingSeconds)
	assert.False(t, s.TimerRunning())
	assert.Equal(t, "s-1", s.ID())

	got, ok, err := kv.Get(ctx, StateKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rawState, got)
}

func TestRestoreOnLaunch_IgnoresBadRecords(t *testing.T) {
	validConfig := `{"questionCount":2,"choiceCount":2,"choiceNames":["A","B"],"timeLimit":null}`

	tests := []struct {
		name   string
		config string
		state  string
	}{
		{"config not json", `{oops`, ""},
		{"config out of range", `{"questionCount":0,"choiceCount":2,"choiceNames":["A","B"],"timeLimit":null}`, ""},
		{"labels mismatch", `{"questionCount":2,"choiceCount":3,"choiceNames":["A","B"],"timeLimit":null}`, ""},
		{"limit over maximum", `{"questionCount":2,"choiceCount":2,"choiceNames":["A","B"],"timeLimit":301}`, `{"answers":[null,null],"correctAnswers":[null,null],"remainingSeconds":60,"currentMode":"answerMode"}`},
		{"state unknown mode", validConfig, `{"answers":[null,null],"correctAnswers":[null,null],"remainingSeconds":0,"currentMode":"resultsMode"}`},
		{"state wrong length", validConfig, `{"answers":[null],"correctAnswers":[null,null],"remainingSeconds":0,"currentMode":"answerMode"}`},
		{"state choice out of range", validConfig, `{"answers":[5,null],"correctAnswers":[null,null],"remainingSeconds":0,"currentMode":"answerMode"}`},
		{"state negative choice", validConfig, `{"answers":[-2,null],"correctAnswers":[null,null],"remainingSeconds":0,"currentMode":"answerMode"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemKV()
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, ConfigKey, tt.config))
			if tt.state != "" {
				require.NoError(t, kv.Set(ctx, StateKey, tt.state))
			}

			s := New(kv)
			require.NoError(t, s.RestoreOnLaunch(ctx))
			assert.Equal(t, ModeSetup, s.Mode())
			assert.False(t, s.TimerRunning())
		})
	}
}

func TestStateRoundTrip(t *testing.T) {
	tests := []SessionState{
		{
			UserAnswers:      []Answer{0, 1, 2, NoAnswer, 1},
			CorrectAnswers:   []Answer{NoAnswer, NoAnswer, NoAnswer, NoAnswer, NoAnswer},
			RemainingSeconds: 1234,
			Mode:             ModeAnswer,
		},
		{
			UserAnswers:    []Answer{NoAnswer, 9},
			CorrectAnswers: []Answer{3, NoAnswer},
			Mode:           ModeGrading,
		},
		{
			UserAnswers:    []Answer{},
			CorrectAnswers: []Answer{},
			Mode:           ModeSetup,
		},
	}

	savedAt := time.UnixMilli(1_700_000_000_123)
	for _, st := range tests {
		t.Run(st.Mode.String(), func(t *testing.T) {
			raw, err := encodeState(st, "abc", savedAt)
			require.NoError(t, err)

			got, err := decodeState(raw)
			require.NoError(t, err)
			assert.Equal(t, st, got.State)
			assert.Equal(t, "abc", got.SessionID)
			assert.True(t, savedAt.Equal(got.SavedAt))
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	for _, cfg := range []Configuration{testConfig(10, 0), testConfig(200, 90)} {
		raw, err := encodeConfig(cfg)
		require.NoError(t, err)
		got, err := decodeConfig(raw)
		require.NoError(t, err)
		assert.Equal(t, cfg, got)
	}
}

func TestConfigRecord_UntimedIsNull(t *testing.T) {
	raw, err := encodeConfig(testConfig(3, 0))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timeLimit":null`)
	assert.Contains(t, string(raw), `"choiceNames":["A","B","C","D"]`)
}
