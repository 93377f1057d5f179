package chain

import (
	"errors"
	"fmt"
)

// Common node API errors.
var (
	// ErrNotFound is returned when a resource does not exist on the node.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest is returned when the node rejects the request shape.
	ErrBadRequest = errors.New("bad request")
	// ErrUnavailable is returned when the node is up but refusing work.
	ErrUnavailable = errors.New("node unavailable")
)

// CallError is returned when a read-only call executes but the node reports
// it as not okay (e.g. a contract runtime error).
type CallError struct {
	Function string
	Cause    string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("read-only call %s failed: %s", e.Function, e.Cause)
}
