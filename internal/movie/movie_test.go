package movie

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWireShape(t *testing.T) {
	body := `{"movies":[{"ID":"27205","Genre":"Action, Science Fiction, Adventure",
		"Original_Language":"en","Overview":"Cobb, a skilled thief...","Popularity":"95.5",
		"Poster_Url":"https://image.tmdb.org/t/p/original/inception.jpg",
		"Release_Date":"2010-07-15","Title":"Inception","Vote_Average":"8.4","Vote_Count":"31546"}]}`

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Movies, 1)

	m := resp.Movies[0]
	assert.Equal(t, "27205", m.ID)
	assert.Equal(t, "Inception", m.Title)
	assert.Equal(t, "en", m.OriginalLanguage)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/inception.jpg", m.PosterURL)
	assert.Equal(t, "31546", m.VoteCount)
}

func TestYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2010-07-15", "2010"},
		{"1999", "1999"},
		{"", ""},
		{"soon", "soon"},
		{"TBA 2026", "TBA 2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Movie{ReleaseDate: tt.date}.Year(), "date %q", tt.date)
	}
}

func TestGenres(t *testing.T) {
	assert.Equal(t, []string{"Action", "Drama"}, Movie{Genre: "Action, Drama"}.Genres())
	assert.Equal(t, []string{"Horror"}, Movie{Genre: " Horror ,"}.Genres())
	assert.Nil(t, Movie{}.Genres())
}

func TestRatingNeverParses(t *testing.T) {
	assert.Equal(t, "★ 8.4 (31546 votes)", Movie{VoteAverage: "8.4", VoteCount: "31546"}.Rating())
	assert.Equal(t, "★ n/a", Movie{VoteAverage: "n/a"}.Rating())
	assert.Equal(t, "(12 votes)", Movie{VoteCount: "12"}.Rating())
	assert.Equal(t, "", Movie{}.Rating())
}
