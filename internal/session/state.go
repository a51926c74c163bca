package session

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Mode is the current phase of a quiz.
type Mode int

const (
	ModeSetup   Mode = iota // Configuring a new quiz
	ModeAnswer              // Learner is answering, countdown may run
	ModeGrading             // Entering correct answers / viewing results
)

// String returns the persisted name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAnswer:
		return "answerMode"
	case ModeGrading:
		return "gradingMode"
	default:
		return "setupMode"
	}
}

// ParseMode converts a persisted mode name back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "setupMode", "":
		return ModeSetup, nil
	case "answerMode":
		return ModeAnswer, nil
	case "gradingMode":
		return ModeGrading, nil
	}
	return ModeSetup, fmt.Errorf("unknown mode %q", s)
}

// Answer is a zero-based choice index, or NoAnswer when nothing is selected.
type Answer int

// NoAnswer marks a question without a selection. It never equals a choice index.
const NoAnswer Answer = -1

// Present reports whether a choice was selected.
func (a Answer) Present() bool {
	return a >= 0
}

// Choice wraps a choice index as an Answer.
func Choice(i int) Answer {
	return Answer(i)
}

// MarshalJSON encodes NoAnswer as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(int(a))
}

// UnmarshalJSON decodes null as NoAnswer.
func (a *Answer) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*a = NoAnswer
		return nil
	}
	var i int
	if err := json.Unmarshal(b, &i); err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("negative choice index %d", i)
	}
	*a = Answer(i)
	return nil
}

// SessionState is the mutable part of a quiz.
type SessionState struct {
	// UserAnswers holds the learner's selection per question.
	UserAnswers []Answer

	// CorrectAnswers holds the answer key, entered during grading.
	CorrectAnswers []Answer

	// RemainingSeconds is only meaningful for timed quizzes.
	RemainingSeconds int

	// Mode is the current phase.
	Mode Mode

	// ResultsRevealed is true once the score has been shown. Only valid in
	// ModeGrading and never persisted.
	ResultsRevealed bool
}

// newAnswers returns n answers, all NoAnswer.
func newAnswers(n int) []Answer {
	a := make([]Answer, n)
	for i := range a {
		a[i] = NoAnswer
	}
	return a
}

// countMissing returns how many answers are NoAnswer.
func countMissing(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if !a.Present() {
			n++
		}
	}
	return n
}

func (s SessionState) clone() SessionState {
	s.UserAnswers = append([]Answer(nil), s.UserAnswers...)
	s.CorrectAnswers = append([]Answer(nil), s.CorrectAnswers...)
	return s
}
