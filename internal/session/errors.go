package session

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired is returned when an operation needs an explicit
// yes from the caller: submitting with unanswered questions, or a reset.
var ErrConfirmationRequired = errors.New("confirmation required")

// ValidationError reports bad user input. Count carries the size of the
// deficiency when one applies (missing labels, missing correct answers).
type ValidationError struct {
	Field   string
	Message string
	Count   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PreconditionError reports an operation invoked in the wrong mode or with
// an out-of-range index. The session is left untouched.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
