package collaborator

import "errors"

// InputError marks failures caused by what the user supplied, such as
// a missing file or an unreachable URL, as opposed to model or
// infrastructure failures. Handlers turn these into guidance messages
// instead of apologies.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

// NewInputError wraps msg as a user-input failure.
func NewInputError(msg string) *InputError {
	return &InputError{msg: msg}
}

// IsInputError reports whether err is caused by bad user input.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
