package interact

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() Option {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func movies(titles ...string) []movie.Movie {
	out := make([]movie.Movie, len(titles))
	for i, t := range titles {
		out[i] = movie.Movie{ID: fmt.Sprint(i + 1), Title: t}
	}
	return out
}

// typeAndSettle simulates a keystroke followed by the debounce firing.
func typeAndSettle(t *testing.T, m *Machine, text string) *Request {
	t.Helper()
	eff := m.Type(text)
	require.True(t, eff.Debounce)
	return m.Settle(text).Fetch
}

func TestNewEmptySeedIsIdle(t *testing.T) {
	m := New("")
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, DisplayIdle, m.Display())
	assert.True(t, m.Start().None())
}

func TestSeedIssuesSameFetchAsTyping(t *testing.T) {
	seeded := New("batman", seqIDs())
	assert.Equal(t, ShowingResults, seeded.State())

	eff := seeded.Start()
	require.NotNil(t, eff.Fetch)
	require.NotNil(t, eff.SyncURL)
	assert.Equal(t, "batman", *eff.SyncURL)

	typed := New("", seqIDs())
	req := typeAndSettle(t, typed, "batman")
	require.NotNil(t, req)

	assert.Equal(t, *req, *eff.Fetch)
	assert.Equal(t, DisplayLoading, seeded.Display())
}

func TestTypeOnlyRequestsDebounce(t *testing.T) {
	m := New("")
	eff := m.Type("a")
	assert.Equal(t, Effects{Debounce: true}, eff)
	assert.Equal(t, ShowingSuggestions, m.State())
	assert.False(t, m.Pending())

	assert.True(t, m.Type("a").None(), "unchanged text")
}

func TestAtMostOneFetchPerSettledValue(t *testing.T) {
	m := New("")
	m.Type("bat")
	first := m.Settle("bat")
	require.NotNil(t, first.Fetch)

	assert.True(t, m.Settle("bat").None(), "duplicate settle")

	m.Type("batm")
	m.Type("bat")
	assert.True(t, m.Settle("bat").None(), "settled value unchanged")
}

func TestSettleIgnoresSupersededText(t *testing.T) {
	m := New("")
	m.Type("b")
	m.Type("ba")
	assert.True(t, m.Settle("b").None())
	assert.NotNil(t, m.Settle("ba").Fetch)
}

func TestStaleResponseNeverOverwrites(t *testing.T) {
	m := New("", seqIDs())
	reqA := typeAndSettle(t, m, "a")
	reqAB := typeAndSettle(t, m, "ab")
	require.Greater(t, reqAB.Seq, reqA.Seq)

	// "ab" answers first, then the slower "a".
	assert.True(t, m.Resolve(*reqAB, movies("Abyss"), nil))
	assert.False(t, m.Resolve(*reqA, movies("Avatar", "Amelie"), nil))

	assert.Equal(t, movies("Abyss"), m.Results())
}

func TestStaleResponseBeforeLatest(t *testing.T) {
	m := New("")
	reqA := typeAndSettle(t, m, "a")
	reqAB := typeAndSettle(t, m, "ab")

	assert.False(t, m.Resolve(*reqA, movies("Avatar"), nil))
	assert.Empty(t, m.Results())
	assert.True(t, m.Pending())

	assert.True(t, m.Resolve(*reqAB, movies("Abyss"), nil))
	assert.False(t, m.Pending())
}

func TestDuplicateResponseIgnored(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "a")
	assert.True(t, m.Resolve(*req, movies("Avatar"), nil))
	assert.False(t, m.Resolve(*req, nil, nil))
	assert.Equal(t, movies("Avatar"), m.Results())
}

func TestClearingRemovesQueryAndResults(t *testing.T) {
	m := New("batman")
	req := m.Start().Fetch
	m.Resolve(*req, movies("Batman"), nil)

	eff := m.Type("")
	assert.True(t, eff.Debounce)
	assert.Equal(t, Idle, m.State())
	assert.Len(t, m.Results(), 1, "results untouched until settle")

	eff = m.Settle("")
	require.NotNil(t, eff.SyncURL)
	assert.Equal(t, "", *eff.SyncURL)
	assert.Nil(t, eff.Fetch)
	assert.Empty(t, m.Results())
	assert.Equal(t, DisplayIdle, m.Display())
}

func TestResponseAfterClearIsStale(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "bat")
	m.Type("")
	m.Settle("")

	assert.False(t, m.Resolve(*req, movies("Batman"), nil))
	assert.Empty(t, m.Results())
}

func TestCircularSelection(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "a")
	m.Resolve(*req, movies("A", "B", "C"), nil)

	_, ok := m.Selected()
	assert.False(t, ok)

	steps := []struct {
		op   func()
		want int
	}{
		{m.Down, 0},
		{m.Down, 1},
		{m.Down, 2},
		{m.Down, 0},
		{m.Up, 2},
		{m.Up, 1},
		{m.Up, 0},
		{m.Up, 2},
	}
	for i, s := range steps {
		s.op()
		got, ok := m.Selected()
		require.True(t, ok, "step %d", i)
		assert.Equal(t, s.want, got, "step %d", i)
	}
}

func TestUpFromNoneGoesToLast(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "a")
	m.Resolve(*req, movies("A", "B", "C"), nil)

	m.Up()
	got, _ := m.Selected()
	assert.Equal(t, 2, got)
}

func TestNavigationNeedsSuggestions(t *testing.T) {
	m := New("")
	m.Type("a")
	m.Down()
	_, ok := m.Selected()
	assert.False(t, ok, "no results")

	req := m.Settle("a").Fetch
	m.Resolve(*req, movies("A"), nil)
	m.Submit()
	m.Down()
	_, ok = m.Selected()
	assert.False(t, ok, "results mode")
}

func TestSelectionResets(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "a")
	m.Resolve(*req, movies("A", "B"), nil)
	m.Down()

	req = typeAndSettle(t, m, "ab")
	_, ok := m.Selected()
	assert.False(t, ok, "reset on settle")

	m.Resolve(*req, movies("AB1", "AB2"), nil)
	m.Down()
	m.Type("")
	_, ok = m.Selected()
	assert.False(t, ok, "reset on leaving suggestions")
}

func TestSelectionResetOnReplacement(t *testing.T) {
	m := New("")
	m.Type("a")
	req := m.Settle("a").Fetch
	m.Resolve(*req, movies("A", "B"), nil)
	m.Type("ab")
	req = m.Settle("ab").Fetch
	m.Down()
	m.Down()

	m.Resolve(*req, movies("AB"), nil)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestEnterChoosesHighlighted(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "Incep")
	m.Resolve(*req, []movie.Movie{{ID: "27205", Title: "Inception"}}, nil)

	m.Down()
	eff := m.Enter()
	assert.True(t, eff.Debounce)
	assert.Equal(t, "Inception", m.Query())
	assert.Equal(t, ShowingResults, m.State())
	_, ok := m.Selected()
	assert.False(t, ok)

	eff = m.Settle("Inception")
	require.NotNil(t, eff.Fetch)
	assert.Equal(t, "Inception", eff.Fetch.Query)
	assert.Equal(t, "Inception", *eff.SyncURL)

	m.Resolve(*eff.Fetch, []movie.Movie{{ID: "27205", Title: "Inception"}}, nil)
	assert.Equal(t, DisplayResults, m.Display())
	require.Len(t, m.Results(), 1)
	assert.Equal(t, "27205", m.Results()[0].ID)
}

func TestEnterWithoutHighlightSubmits(t *testing.T) {
	m := New("")
	m.Type("bat")
	assert.True(t, m.Enter().None())
	assert.Equal(t, ShowingResults, m.State())
	assert.Equal(t, DisplayLoading, m.Display())
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	m := New("")
	m.Submit()
	assert.Equal(t, Idle, m.State())
}

func TestChooseOutOfRange(t *testing.T) {
	m := New("")
	assert.True(t, m.Choose(0).None())
	assert.True(t, m.Choose(-1).None())
}

func TestNotFoundTiming(t *testing.T) {
	m := New("")
	m.Type("zzz")
	m.Submit()
	assert.Equal(t, DisplayLoading, m.Display(), "before settle")

	req := m.Settle("zzz").Fetch
	assert.Equal(t, DisplayLoading, m.Display(), "fetch pending")

	m.Resolve(*req, []movie.Movie{}, nil)
	assert.Equal(t, DisplayNotFound, m.Display())

	m.Type("zzzz")
	assert.Equal(t, DisplaySuggestions, m.Display())
}

func TestFailedFetchIsNeverNotFound(t *testing.T) {
	m := New("")
	m.Type("zzz")
	m.Submit()
	req := m.Settle("zzz").Fetch

	assert.True(t, m.Resolve(*req, nil, errors.New("connection refused")))
	assert.NotEqual(t, DisplayNotFound, m.Display())
	assert.Error(t, m.LastError())
}

func TestFailedFetchKeepsResults(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "bat")
	m.Resolve(*req, movies("Batman"), nil)

	req = typeAndSettle(t, m, "batm")
	m.Resolve(*req, nil, errors.New("timeout"))
	assert.Equal(t, movies("Batman"), m.Results())
}

func TestNotFoundRequiresResultsMode(t *testing.T) {
	m := New("")
	req := typeAndSettle(t, m, "zzz")
	m.Resolve(*req, []movie.Movie{}, nil)
	assert.Equal(t, DisplaySuggestions, m.Display())
}
