package session

import (
	"errors"
	"fmt"
	"strings"
)

// -- Sentinels --

var (
	ErrInvalidConfig      = errors.New("invalid session config")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTimeout            = errors.New("request timed out")
	ErrInvalidModel       = errors.New("model not recognized by backend")
	ErrModelNotInstalled  = errors.New("model not installed")
	ErrStreamFailed       = errors.New("stream failed after partial output")
	ErrRequestInFlight    = errors.New("a request is already in flight")
)

// ModelNotInstalledError reports a model name that matched nothing on the
// backend, naming the closest installed alternatives when there are any.
type ModelNotInstalledError struct {
	Requested    string
	Alternatives []string
}

func (e *ModelNotInstalledError) Error() string {
	if len(e.Alternatives) == 0 {
		return fmt.Sprintf("model %q is not installed", e.Requested)
	}
	return fmt.Sprintf("model %q is not installed (closest: %s)",
		e.Requested, strings.Join(e.Alternatives, ", "))
}

func (e *ModelNotInstalledError) Unwrap() error { return ErrModelNotInstalled }
