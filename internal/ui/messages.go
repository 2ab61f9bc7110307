// Package ui provides the Bubble Tea TUI for flicksearch.
package ui

import (
	"time"

	"github.com/abelbrown/flicksearch/internal/interact"
	"github.com/abelbrown/flicksearch/internal/movie"
)

// QuerySettled is sent by the debouncer once the input has been quiet for
// the configured delay.
type QuerySettled struct {
	Query string
}

// SearchResolved carries the outcome of one fetch. Request is echoed back
// so stale responses can be discarded.
type SearchResolved struct {
	Request interact.Request
	Movies  []movie.Movie
	Err     error
	Dur     time.Duration
}
