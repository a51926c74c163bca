package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Store keys for the persisted records.
const (
	ConfigKey = "cbt-config"
	StateKey  = "cbt-app-state"
)

// configRecord is the persisted form of a Configuration.
type configRecord struct {
	QuestionCount int      `json:"questionCount"`
	ChoiceCount   int      `json:"choiceCount"`
	ChoiceNames   []string `json:"choiceNames"`
	TimeLimit     *int     `json:"timeLimit"`
}

// stateRecord is the persisted form of a SessionState. ResultsRevealed is
// not stored, so a reload always lands on the ungraded board.
type stateRecord struct {
	Answers          []Answer `json:"answers"`
	CorrectAnswers   []Answer `json:"correctAnswers"`
	RemainingSeconds int      `json:"remainingSeconds"`
	CurrentMode      string   `json:"currentMode"`
	Timestamp        int64    `json:"timestamp"`
	SessionID        string   `json:"sessionId,omitempty"`
}

func encodeConfig(c Configuration) ([]byte, error) {
	rec := configRecord{
		QuestionCount: c.QuestionCount,
		ChoiceCount:   c.ChoiceCount,
		ChoiceNames:   c.ChoiceLabels,
	}
	if c.Timed() {
		limit := c.TimeLimitMinutes
		rec.TimeLimit = &limit
	}
	return json.Marshal(rec)
}

func decodeConfig(raw []byte) (Configuration, error) {
	if err := validateRecord("config", configSchema, raw); err != nil {
		return Configuration{}, err
	}
	var rec configRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Configuration{}, fmt.Errorf("decode config record: %w", err)
	}
	c := Configuration{
		QuestionCount: rec.QuestionCount,
		ChoiceCount:   rec.ChoiceCount,
		ChoiceLabels:  rec.ChoiceNames,
	}
	if rec.TimeLimit != nil {
		c.TimeLimitMinutes = *rec.TimeLimit
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// savedState is a decoded session record.
type savedState struct {
	State     SessionState
	SessionID string
	SavedAt   time.Time
}

func encodeState(st SessionState, sessionID string, savedAt time.Time) ([]byte, error) {
	rec := stateRecord{
		Answers:          st.UserAnswers,
		CorrectAnswers:   st.CorrectAnswers,
		RemainingSeconds: st.RemainingSeconds,
		CurrentMode:      st.Mode.String(),
		Timestamp:        savedAt.UnixMilli(),
		SessionID:        sessionID,
	}
	if rec.Answers == nil {
		rec.Answers = []Answer{}
	}
	if rec.CorrectAnswers == nil {
		rec.CorrectAnswers = []Answer{}
	}
	return json.Marshal(rec)
}

func decodeState(raw []byte) (savedState, error) {
	if err := validateRecord("state", stateSchema, raw); err != nil {
		return savedState{}, err
	}
	var rec stateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return savedState{}, fmt.Errorf("decode state record: %w", err)
	}
	mode, err := ParseMode(rec.CurrentMode)
	if err != nil {
		return savedState{}, err
	}
	return savedState{
		State: SessionState{
			UserAnswers:      rec.Answers,
			CorrectAnswers:   rec.CorrectAnswers,
			RemainingSeconds: rec.RemainingSeconds,
			Mode:             mode,
		},
		SessionID: rec.SessionID,
		SavedAt:   time.UnixMilli(rec.Timestamp),
	}, nil
}

// fits checks that a restored state matches the configuration's shape.
func (st SessionState) fits(c Configuration) error {
	if len(st.UserAnswers) != c.QuestionCount || len(st.CorrectAnswers) != c.QuestionCount {
		return fmt.Errorf("answer count %d/%d does not match %d questions",
			len(st.UserAnswers), len(st.CorrectAnswers), c.QuestionCount)
	}
	for _, list := range [][]Answer{st.UserAnswers, st.CorrectAnswers} {
		for i, a := range list {
			if a.Present() && int(a) >= c.ChoiceCount {
				return fmt.Errorf("question %d: choice %d out of range", i+1, a)
			}
		}
	}
	return nil
}
