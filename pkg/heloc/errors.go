package heloc

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a rejected calculation input. Field carries the
// parameter name as it appears in requests and config files so callers can
// surface it directly to the user.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var inv *InvalidInputError
	return errors.As(err, &inv)
}
