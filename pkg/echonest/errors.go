package echonest

import (
	"errors"
	"fmt"
)

// StatusError is a non-zero status code reported in an Echo Nest response.
type StatusError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("echonest: status %d: %s", e.Code, e.Message)
}

// Echo Nest response status codes.
const (
	StatusSuccess          = 0
	StatusInvalidAPIKey    = 1
	StatusNotAllowed       = 2
	StatusRateLimited      = 3
	StatusMissingParameter = 4
	StatusInvalidParameter = 5
)

// ErrNoMatch is returned when a song search finds nothing.
var ErrNoMatch = errors.New("echonest: no matching song")
