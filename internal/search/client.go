// Package search provides the client for the remote movie search endpoint.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/abelbrown/flicksearch/internal/movie"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Searcher returns the ordered list of movies matching query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]movie.Movie, error)
}

// Client calls GET {baseURL}/search?q=... once per Search call.
// No retries: a failed attempt is reported and the caller moves on.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for baseURL. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

// SetRateLimit bounds outgoing requests to r per second with the given burst.
// rate.Inf (the default) disables limiting.
func (c *Client) SetRateLimit(r rate.Limit, burst int) {
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(r, burst)
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full request URL for query, with q percent-encoded.
func (c *Client) Endpoint(query string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u = u.JoinPath("search")
	u.RawQuery = url.Values{"q": {query}}.Encode()
	return u.String(), nil
}

// Search runs one request for query and decodes the movie list.
// Errors are *NetworkError or *DecodeError.
func (c *Client) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	endpoint, err := c.Endpoint(query)
	if err != nil {
		return nil, &NetworkError{Op: "build", URL: c.baseURL, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Op: "do", URL: endpoint, Err: fmt.Errorf("rate limiter wait failed: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{Op: "build", URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &NetworkError{Op: "do", URL: endpoint, Err: fmt.Errorf("request cancelled: %w", ctx.Err())}
		}
		return nil, &NetworkError{Op: "do", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Op: "read", URL: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			Op:         "status",
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response %q", snippet(body)),
		}
	}

	return decodeMovies(body)
}

// decodeMovies requires a JSON object with a "movies" key. A null list
// decodes as empty.
func decodeMovies(body []byte) ([]movie.Movie, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &DecodeError{Snippet: snippet(body), Err: err}
	}
	raw, ok := fields["movies"]
	if !ok {
		return nil, &DecodeError{Snippet: snippet(body), Err: errMissingMovies}
	}

	var movies []movie.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, &DecodeError{Snippet: snippet(body), Err: err}
	}
	if movies == nil {
		movies = []movie.Movie{}
	}
	return movies, nil
}

type requestIDKey struct{}

// WithRequestID attaches a correlation ID sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation ID attached by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
