package core

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports a contract violation by the caller, such as a row
// that is not a key/value mapping. Data-quality problems never produce it.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputf wraps ErrInvalidInput with a formatted message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
