// Package location keeps the shareable session URL. The q parameter is the
// only state it carries; updates replace it in place.
package location

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultURL is the base used when no launch URL is given.
const DefaultURL = "http://localhost:5173/"

// Location is a mutable session URL.
type Location struct {
	u *url.URL
}

// Parse accepts a full URL ("http://host/?q=batman") or a bare query
// string ("?q=batman", "q=batman"). An empty string yields DefaultURL.
func Parse(raw string) (*Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultURL
	}

	if strings.HasPrefix(raw, "?") || !strings.Contains(raw, "://") {
		base, _ := url.Parse(DefaultURL)
		values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
		if err != nil {
			return nil, fmt.Errorf("parse location query %q: %w", raw, err)
		}
		base.RawQuery = values.Encode()
		return &Location{u: base}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse location %q: %w", raw, err)
	}
	return &Location{u: u}, nil
}

// MustParse is Parse for constants; it panics on error.
func MustParse(raw string) *Location {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

// Query returns the q parameter, or "" when absent.
func (l *Location) Query() string {
	return l.u.Query().Get("q")
}

// Replace sets q to query, removing it when query is empty. Other
// parameters are left alone.
func (l *Location) Replace(query string) {
	values := l.u.Query()
	if query == "" {
		values.Del("q")
	} else {
		values.Set("q", query)
	}
	l.u.RawQuery = values.Encode()
}

// String renders the URL.
func (l *Location) String() string {
	return l.u.String()
}
