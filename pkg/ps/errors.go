package ps

import (
	"errors"
	"fmt"
)

// ErrEnumeration is matched by every error returned when the process
// query cannot run.
var ErrEnumeration = errors.New("process enumeration failed")

// EnumerationError describes a failed process query.
type EnumerationError struct {
	Args []string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("%s: ps %v: %v", ErrEnumeration, e.Args, e.Err)
}

func (e *EnumerationError) Unwrap() []error {
	return []error{ErrEnumeration, e.Err}
}
