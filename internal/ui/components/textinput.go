package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with cbtkit styling and an optional
// digits-only filter.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	MaxWidth    int
	invalid     bool
}

// NewTextInput creates a new styled, unfocused text input.
func NewTextInput(placeholder string, numericOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:       ti,
		NumericOnly: numericOnly,
		MaxWidth:    maxWidth,
	}
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has keyboard focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages. Non-digit characters are dropped when the input
// is numeric.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 {
				if key[0] < '0' || key[0] > '9' {
					return t, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input, flagged when marked invalid.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Model.Value())
}

// Step adds delta to a numeric value, clamped to [lo, hi]. A blank or
// unparsable value starts from lo.
func (t *TextInput) Step(delta, lo, hi int) {
	n, err := t.NumericValue()
	if err != nil {
		n = lo - delta
	}
	n += delta
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	t.SetValue(strconv.Itoa(n))
}

// SetInvalid marks the input as failing validation.
func (t *TextInput) SetInvalid(invalid bool) {
	t.invalid = invalid
}
