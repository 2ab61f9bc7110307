// Package searchtest serves a canned movie catalogue over the same HTTP
// contract as the real search API. Used by unit tests, the e2e test and
// `flicksearch serve-fixture`.
package searchtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Catalogue is the default fixture data.
var Catalogue = []movie.Movie{
	{ID: "27205", Title: "Inception", Genre: "Action, Science Fiction, Adventure", OriginalLanguage: "en",
		Overview:   "Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets is offered a chance to regain his old life.",
		Popularity: "95.5", PosterURL: "https://image.tmdb.org/t/p/original/inception.jpg",
		ReleaseDate: "2010-07-15", VoteAverage: "8.4", VoteCount: "31546"},
	{ID: "268", Title: "Batman", Genre: "Fantasy, Action", OriginalLanguage: "en",
		Overview:   "Batman must face his most ruthless nemesis when a deformed madman calling himself the Joker seizes control of Gotham's criminal underworld.",
		Popularity: "40.1", PosterURL: "https://image.tmdb.org/t/p/original/batman.jpg",
		ReleaseDate: "1989-06-23", VoteAverage: "7.2", VoteCount: "7100"},
	{ID: "272", Title: "Batman Begins", Genre: "Action, Crime, Drama", OriginalLanguage: "en",
		Overview:   "Driven by tragedy, billionaire Bruce Wayne dedicates his life to uncovering and defeating the corruption that plagues his home, Gotham City.",
		Popularity: "60.3", PosterURL: "https://image.tmdb.org/t/p/original/batman-begins.jpg",
		ReleaseDate: "2005-06-10", VoteAverage: "7.7", VoteCount: "19000"},
	{ID: "414906", Title: "The Batman", Genre: "Crime, Mystery, Thriller", OriginalLanguage: "en",
		Overview:   "In his second year of fighting crime, Batman uncovers corruption in Gotham City that connects to his own family.",
		Popularity: "3827.7", PosterURL: "https://image.tmdb.org/t/p/original/the-batman.jpg",
		ReleaseDate: "2022-03-01", VoteAverage: "8.1", VoteCount: "1151"},
	{ID: "19995", Title: "Avatar", Genre: "Action, Adventure, Fantasy, Science Fiction", OriginalLanguage: "en",
		Overview:   "In the 22nd century, a paraplegic Marine is dispatched to the moon Pandora on a unique mission.",
		Popularity: "1180.4", PosterURL: "https://image.tmdb.org/t/p/original/avatar.jpg",
		ReleaseDate: "2009-12-15", VoteAverage: "7.5", VoteCount: "27200"},
	{ID: "603", Title: "The Matrix", Genre: "Action, Science Fiction", OriginalLanguage: "en",
		Overview:   "Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents.",
		Popularity: "79.7", PosterURL: "https://image.tmdb.org/t/p/original/matrix.jpg",
		ReleaseDate: "1999-03-30", VoteAverage: "8.2", VoteCount: "23200"},
	{ID: "129", Title: "Spirited Away", Genre: "Animation, Family, Fantasy", OriginalLanguage: "ja",
		Overview:   "A young girl, Chihiro, becomes trapped in a strange new world of spirits.",
		Popularity: "95.3", PosterURL: "https://image.tmdb.org/t/p/original/spirited-away.jpg",
		ReleaseDate: "2001-07-20", VoteAverage: "8.5", VoteCount: "13900"},
}

// Hook can override the response for a query. Returning handled=true means
// the hook wrote the response itself.
type Hook func(w http.ResponseWriter, r *http.Request, query string) (handled bool)

// Server is a fixture search backend.
type Server struct {
	movies []movie.Movie

	mu       sync.Mutex
	delays   map[string]time.Duration
	hook     Hook
	requests []Request
}

// Request records one call the server received.
type Request struct {
	Query     string
	RequestID string
}

// New creates a Server over movies. nil uses Catalogue.
func New(movies []movie.Movie) *Server {
	if movies == nil {
		movies = Catalogue
	}
	return &Server{movies: movies, delays: make(map[string]time.Duration)}
}

// Router returns the chi router for the fixture. Request logging is left
// to the caller so test output stays quiet.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/search", s.handleSearch)
	return r
}

// Start runs the fixture on an httptest server. Callers must Close it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.Router())
}

// Delay holds the response for query by d, which lets tests force
// out-of-order completion.
func (s *Server) Delay(query string, d time.Duration) {
	s.mu.Lock()
	s.delays[query] = d
	s.mu.Unlock()
}

// SetHook installs h in front of the catalogue lookup.
func (s *Server) SetHook(h Hook) {
	s.mu.Lock()
	s.hook = h
	s.mu.Unlock()
}

// Requests returns the calls received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Match returns catalogue entries whose title has a word sequence starting
// with query, case-insensitively ("bat" matches "The Batman").
func (s *Server) Match(query string) []movie.Movie {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []movie.Movie{}
	if q == "" {
		return out
	}
	for _, m := range s.movies {
		title := strings.ToLower(m.Title)
		words := strings.Fields(title)
		for i := range words {
			if strings.HasPrefix(strings.Join(words[i:], " "), q) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	s.mu.Lock()
	s.requests = append(s.requests, Request{Query: query, RequestID: r.Header.Get("X-Request-ID")})
	delay := s.delays[query]
	hook := s.hook
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if hook != nil && hook(w, r, query) {
		return
	}

	if query == "" {
		http.Error(w, "Query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(movie.SearchResponse{Movies: s.Match(query)})
}
