package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStage  = errors.New("workflow: unknown stage")
	ErrStageMismatch = errors.New("workflow: request is not waiting on this stage")
	ErrTerminal      = errors.New("workflow: request is already closed")
	ErrInvalidStep   = errors.New("workflow: step out of range")
	ErrBackwardStep  = errors.New("workflow: step cannot move backwards")
)

// ValidationError is returned when required fields are missing. The request
// is left exactly as it was.
type ValidationError struct {
	Stage   string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: please fill required fields: %s", e.Stage, strings.Join(e.Missing, ", "))
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
