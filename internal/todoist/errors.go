package todoist

import (
	"errors"
	"fmt"
)

// ErrNotFound matches (via errors.Is) any remote 404
var ErrNotFound = errors.New("not found")

// TransportError is a failed remote call: either the request never got a
// response (StatusCode 0) or the API answered with a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: API error %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: API error: %d", e.Op, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a remote 404
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
