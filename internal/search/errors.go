package search

import (
	"errors"
	"fmt"
)

// errMissingMovies is wrapped by DecodeError when the body parses as JSON
// but has no "movies" key.
var errMissingMovies = errors.New(`response has no "movies" field`)

// NetworkError reports a request that could not be sent or whose response
// was not usable (transport failure, cancellation, non-2xx status).
type NetworkError struct {
	Op         string // "build", "do", "read", "status"
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search: %s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("search: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not JSON or lacks the
// expected { "movies": [...] } shape.
type DecodeError struct {
	Snippet string // leading bytes of the body, for diagnostics
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("search: decode response %q: %v", e.Snippet, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is (or wraps) a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsDecode reports whether err is (or wraps) a *DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func snippet(body []byte) string {
	const max = 64
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
