package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is not in the registry.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCapacityExceeded is returned when creating a session would exceed
	// the admission ceiling. Callers should back off and retry.
	ErrCapacityExceeded = errors.New("session capacity exceeded")

	// ErrElementNotFound is returned when a target element never appeared.
	ErrElementNotFound = errors.New("element not found")
)

// InfrastructureError wraps failures of the browser runtime itself (launch
// failure, crashed process). Unlike tool-level failures it propagates past
// the tool catalog and terminates the affected session.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("browser infrastructure failure in %s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// IsInfrastructure reports whether err is (or wraps) an InfrastructureError.
func IsInfrastructure(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra)
}
