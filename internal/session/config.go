package session

import (
	"fmt"
	"strings"
)

// Setup limits.
const (
	MinQuestions = 1
	MaxQuestions = 200
	MinChoices   = 2
	MaxChoices   = 10

	MaxTimeLimitMinutes = 300
)

// Defaults used to pre-fill the setup form when nothing was saved.
const (
	DefaultQuestionCount    = 20
	DefaultChoiceCount      = 5
	DefaultTimeLimitMinutes = 60
)

// Configuration describes one quiz. It is immutable once a session starts.
type Configuration struct {
	QuestionCount int
	ChoiceCount   int
	ChoiceLabels  []string

	// TimeLimitMinutes is zero for an untimed quiz.
	TimeLimitMinutes int
}

// DefaultConfiguration returns the configuration shown on a fresh setup form.
func DefaultConfiguration() Configuration {
	return Configuration{
		QuestionCount:    DefaultQuestionCount,
		ChoiceCount:      DefaultChoiceCount,
		ChoiceLabels:     DefaultLabels(DefaultChoiceCount),
		TimeLimitMinutes: DefaultTimeLimitMinutes,
	}
}

// Timed reports whether the quiz has a countdown.
func (c Configuration) Timed() bool {
	return c.TimeLimitMinutes > 0
}

// TimeLimitSeconds returns the full countdown length, or 0 when untimed.
func (c Configuration) TimeLimitSeconds() int {
	if !c.Timed() {
		return 0
	}
	return c.TimeLimitMinutes * 60
}

// Validate checks the configuration before a session is started.
// A label count mismatch is reported with the size of the deficiency.
func (c Configuration) Validate() error {
	if c.QuestionCount < MinQuestions || c.QuestionCount > MaxQuestions {
		return &ValidationError{
			Field:   "questionCount",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinQuestions, MaxQuestions, c.QuestionCount),
		}
	}
	if c.ChoiceCount < MinChoices || c.ChoiceCount > MaxChoices {
		return &ValidationError{
			Field:   "choiceCount",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinChoices, MaxChoices, c.ChoiceCount),
		}
	}
	if len(c.ChoiceLabels) != c.ChoiceCount {
		diff := c.ChoiceCount - len(c.ChoiceLabels)
		if diff < 0 {
			diff = -diff
		}
		return &ValidationError{
			Field:   "choiceLabels",
			Message: fmt.Sprintf("need %d choice names, have %d", c.ChoiceCount, len(c.ChoiceLabels)),
			Count:   diff,
		}
	}
	for i, l := range c.ChoiceLabels {
		if strings.TrimSpace(l) == "" {
			return &ValidationError{
				Field:   "choiceLabels",
				Message: fmt.Sprintf("choice %d has an empty name", i+1),
				Count:   1,
			}
		}
	}
	if c.TimeLimitMinutes < 0 {
		return &ValidationError{
			Field:   "timeLimitMinutes",
			Message: fmt.Sprintf("must not be negative, got %d", c.TimeLimitMinutes),
		}
	}
	if c.TimeLimitMinutes > MaxTimeLimitMinutes {
		return &ValidationError{
			Field:   "timeLimitMinutes",
			Message: fmt.Sprintf("must be at most %d minutes, got %d", MaxTimeLimitMinutes, c.TimeLimitMinutes),
		}
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate the live labels.
func (c Configuration) clone() Configuration {
	c.ChoiceLabels = append([]string(nil), c.ChoiceLabels...)
	return c
}

// DefaultLabels returns n alphabetic labels: A, B, C, ...
func DefaultLabels(n int) []string {
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		labels = append(labels, string(rune('A'+i)))
	}
	return labels
}

// ParseLabels splits a comma-separated label list, trimming whitespace
// and dropping empty entries.
func ParseLabels(raw string) []string {
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// JoinLabels renders labels the way the setup form displays them.
func JoinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}
