// Package movie defines the search result record returned by the search API.
package movie

import (
	"strings"
	"unicode"
)

// Movie is a single search result. Every field is a string on the wire,
// including the numeric-looking ones, and is treated as opaque display text.
type Movie struct {
	ID               string `json:"ID"`
	Genre            string `json:"Genre"`
	OriginalLanguage string `json:"Original_Language"`
	Overview         string `json:"Overview"`
	Popularity       string `json:"Popularity"`
	PosterURL        string `json:"Poster_Url"`
	ReleaseDate      string `json:"Release_Date"`
	Title            string `json:"Title"`
	VoteAverage      string `json:"Vote_Average"`
	VoteCount        string `json:"Vote_Count"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Movies []Movie `json:"movies"`
}

// Year returns the leading four-digit year of ReleaseDate ("2010-07-15" -> "2010").
// Falls back to the raw value when it does not start with a year.
func (m Movie) Year() string {
	d := strings.TrimSpace(m.ReleaseDate)
	if len(d) < 4 {
		return d
	}
	for _, r := range d[:4] {
		if !unicode.IsDigit(r) {
			return d
		}
	}
	return d[:4]
}

// Genres splits the Genre field, which the catalogue stores as "Action, Drama".
func (m Movie) Genres() []string {
	if strings.TrimSpace(m.Genre) == "" {
		return nil
	}
	parts := strings.Split(m.Genre, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Rating formats the vote average and count for display, e.g. "★ 8.4 (31546 votes)".
// Missing parts are omitted; both missing yields "".
func (m Movie) Rating() string {
	avg := strings.TrimSpace(m.VoteAverage)
	count := strings.TrimSpace(m.VoteCount)
	switch {
	case avg == "" && count == "":
		return ""
	case count == "":
		return "★ " + avg
	case avg == "":
		return "(" + count + " votes)"
	}
	return "★ " + avg + " (" + count + " votes)"
}
