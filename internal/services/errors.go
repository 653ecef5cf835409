package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAddress is returned when the start or end address is empty.
	ErrMissingAddress = errors.New("start and end addresses are required")

	// ErrNoRoutes is returned when the provider returns no routes or none can be costed.
	ErrNoRoutes = errors.New("no routes found")

	// ErrInfeasibleRoute is returned when a route lacks the data needed to cost it.
	ErrInfeasibleRoute = errors.New("route cannot be costed")
)

// ExternalError wraps a failure of the directions or places provider,
// including timeouts of the request context.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }
