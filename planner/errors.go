package planner

import (
	"errors"
	"fmt"
)

// RemoteServiceError is a non-success HTTP status from the planning
// endpoint, carrying the best-effort extracted message.
type RemoteServiceError struct {
	StatusCode int
	Message    string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("planner: %s", e.Message)
}

func (e *RemoteServiceError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

var (
	// ErrMalformedResponse means the body could not be parsed as JSON even
	// after bracket-balancing repair.
	ErrMalformedResponse = errors.New("AI response was malformed. Please try again.")
	// ErrInvalidResponse means the body parsed but lacked the required
	// success flag or plan object.
	ErrInvalidResponse = errors.New("planner: response missing success flag or plan")
)
