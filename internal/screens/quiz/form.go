package quiz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
)

const (
	fieldQuestions = iota
	fieldChoices
	fieldLabels
	fieldTimeLimit
	fieldCount
)

var fieldNames = [fieldCount]string{
	"Questions",
	"Choices",
	"Choice names",
	"Time limit (min)",
}

// setupForm collects a Configuration. Choice names follow the choice
// count until the learner edits them by hand.
type setupForm struct {
	inputs        [fieldCount]components.TextInput
	focus         int
	labelsEdited  bool
	invalidFields map[int]bool
}

func newSetupForm(cfg session.Configuration) setupForm {
	f := setupForm{invalidFields: map[int]bool{}}
	f.inputs[fieldQuestions] = components.NewTextInput(fmt.Sprintf("%d–%d", session.MinQuestions, session.MaxQuestions), true, 3)
	f.inputs[fieldChoices] = components.NewTextInput(fmt.Sprintf("%d–%d", session.MinChoices, session.MaxChoices), true, 2)
	f.inputs[fieldLabels] = components.NewTextInput("A, B, C, D", false, 80)
	f.inputs[fieldTimeLimit] = components.NewTextInput("blank for no limit", true, 3)

	f.inputs[fieldQuestions].SetValue(strconv.Itoa(cfg.QuestionCount))
	f.inputs[fieldChoices].SetValue(strconv.Itoa(cfg.ChoiceCount))
	f.inputs[fieldLabels].SetValue(session.JoinLabels(cfg.ChoiceLabels))
	if cfg.Timed() {
		f.inputs[fieldTimeLimit].SetValue(strconv.Itoa(cfg.TimeLimitMinutes))
	}

	defaults := session.JoinLabels(session.DefaultLabels(cfg.ChoiceCount))
	f.labelsEdited = f.inputs[fieldLabels].Value() != defaults
	return f
}

func (f *setupForm) focusCmd() tea.Cmd {
	for i := range f.inputs {
		if i == f.focus {
			continue
		}
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *setupForm) moveFocus(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCmd()
}

func (f *setupForm) onLastField() bool {
	return f.focus == fieldTimeLimit
}

// step nudges the focused numeric field.
func (f *setupForm) step(delta int) {
	switch f.focus {
	case fieldQuestions:
		f.inputs[fieldQuestions].Step(delta, session.MinQuestions, session.MaxQuestions)
	case fieldChoices:
		f.inputs[fieldChoices].Step(delta, session.MinChoices, session.MaxChoices)
		f.syncLabels()
	case fieldTimeLimit:
		n, _ := f.inputs[fieldTimeLimit].NumericValue()
		n += delta * 5
		switch {
		case n <= 0:
			f.inputs[fieldTimeLimit].SetValue("")
		case n > session.MaxTimeLimitMinutes:
			f.inputs[fieldTimeLimit].SetValue(strconv.Itoa(session.MaxTimeLimitMinutes))
		default:
			f.inputs[fieldTimeLimit].SetValue(strconv.Itoa(n))
		}
	}
}

// update forwards a key to the focused input.
func (f *setupForm) update(msg tea.Msg) tea.Cmd {
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	changed := f.inputs[f.focus].Value() != before

	switch {
	case changed && f.focus == fieldLabels:
		f.labelsEdited = true
	case changed && f.focus == fieldChoices:
		f.syncLabels()
	}
	if changed {
		delete(f.invalidFields, f.focus)
		f.inputs[f.focus].SetInvalid(false)
	}
	return cmd
}

func (f *setupForm) syncLabels() {
	if f.labelsEdited {
		return
	}
	n, err := f.inputs[fieldChoices].NumericValue()
	if err != nil || n < session.MinChoices || n > session.MaxChoices {
		return
	}
	f.inputs[fieldLabels].SetValue(session.JoinLabels(session.DefaultLabels(n)))
}

// resetLabels regenerates default names for the current choice count.
func (f *setupForm) resetLabels() {
	f.labelsEdited = false
	f.syncLabels()
}

func (f *setupForm) markInvalid(field int) {
	f.invalidFields[field] = true
	f.inputs[field].SetInvalid(true)
}

func (f *setupForm) clearInvalid() {
	for i := range f.inputs {
		f.inputs[i].SetInvalid(false)
	}
	f.invalidFields = map[int]bool{}
}

// configuration reads the inputs. Parse failures mark the field.
func (f *setupForm) configuration() (session.Configuration, error) {
	f.clearInvalid()

	questions, err := f.inputs[fieldQuestions].NumericValue()
	if err != nil {
		f.markInvalid(fieldQuestions)
		return session.Configuration{}, errors.New("enter the number of questions")
	}
	choices, err := f.inputs[fieldChoices].NumericValue()
	if err != nil {
		f.markInvalid(fieldChoices)
		return session.Configuration{}, errors.New("enter the number of choices")
	}
	limit := 0
	if raw := strings.TrimSpace(f.inputs[fieldTimeLimit].Value()); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			f.markInvalid(fieldTimeLimit)
			return session.Configuration{}, errors.New("time limit must be a number of minutes")
		}
	}

	return session.Configuration{
		QuestionCount:    questions,
		ChoiceCount:      choices,
		ChoiceLabels:     session.ParseLabels(f.inputs[fieldLabels].Value()),
		TimeLimitMinutes: limit,
	}, nil
}

// markValidation highlights the field a ValidationError refers to.
func (f *setupForm) markValidation(ve *session.ValidationError) {
	switch ve.Field {
	case "questionCount":
		f.markInvalid(fieldQuestions)
	case "choiceCount":
		f.markInvalid(fieldChoices)
	case "choiceLabels":
		f.markInvalid(fieldLabels)
	case "timeLimitMinutes":
		f.markInvalid(fieldTimeLimit)
	}
}
