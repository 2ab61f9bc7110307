package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abelbrown/flicksearch/internal/interact"
	"github.com/abelbrown/flicksearch/internal/location"
	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/abelbrown/flicksearch/internal/otel"
	"github.com/abelbrown/flicksearch/internal/searchtest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searcherFunc adapts a function to search.Searcher.
type searcherFunc func(ctx context.Context, query string) ([]movie.Movie, error)

func (f searcherFunc) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	return f(ctx, query)
}

func catalogueSearcher() searcherFunc {
	fixture := searchtest.New(nil)
	return func(_ context.Context, q string) ([]movie.Movie, error) {
		return fixture.Match(q), nil
	}
}

func newTestApp(t *testing.T, rawURL string, s searcherFunc, events *otel.Logger) App {
	t.Helper()
	loc, err := location.Parse(rawURL)
	require.NoError(t, err)

	app := NewApp(Options{Searcher: s, Location: loc, Debounce: time.Hour, Events: events})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

// runCmd executes cmd, flattening batches, and returns the messages
// produced. Only used on commands that return immediately.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func resolved(msgs []tea.Msg) []SearchResolved {
	var out []SearchResolved
	for _, m := range msgs {
		if r, ok := m.(SearchResolved); ok {
			out = append(out, r)
		}
	}
	return out
}

func update(app App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := app.Update(msg)
	return m.(App), cmd
}

func typeText(app App, s string) App {
	for _, r := range s {
		app, _ = update(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return app
}

// settle delivers the debounce for the current query and feeds every
// search response back into the model.
func settle(t *testing.T, app App) App {
	t.Helper()
	app, cmd := update(app, QuerySettled{Query: app.Query()})
	for _, r := range resolved(runCmd(cmd)) {
		app, _ = update(app, r)
	}
	return app
}

func pressKey(app App, k tea.KeyType) App {
	app, _ = update(app, tea.KeyMsg{Type: k})
	return app
}

func titlesOf(ms []movie.Movie) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}
	return out
}

func TestAppIdleView(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	assert.Equal(t, interact.DisplayIdle, app.Display())
	assert.Contains(t, app.View(), IdleHint)
}

func TestAppNotReadyView(t *testing.T) {
	loc := location.MustParse("")
	app := NewApp(Options{Searcher: catalogueSearcher(), Location: loc})
	assert.Equal(t, "Loading...", app.View())
}

func TestAppTypingShowsSuggestions(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	app = typeText(app, "bat")
	assert.Equal(t, "bat", app.Query())
	assert.Equal(t, interact.DisplaySuggestions, app.Display())
	assert.Empty(t, app.Results(), "nothing fetched before settle")

	app = settle(t, app)
	assert.Equal(t, []string{"Batman", "Batman Begins", "The Batman"}, titlesOf(app.Results()))
	assert.Contains(t, app.View(), "Batman Begins")
	assert.Equal(t, "bat", app.Location().Query())
}

func TestAppInceptionScenario(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	app = settle(t, typeText(app, "Incep"))
	require.Len(t, app.Results(), 1)

	app = pressKey(app, tea.KeyDown)
	sel, ok := app.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, sel)

	app = pressKey(app, tea.KeyEnter)
	assert.Equal(t, "Inception", app.Query())
	assert.Equal(t, interact.DisplayResults, app.Display())

	app = settle(t, app)
	require.Len(t, app.Results(), 1)
	assert.Equal(t, "27205", app.Results()[0].ID)
	assert.Equal(t, "Inception", app.Location().Query())
	assert.Contains(t, app.View(), "★ 8.4")
}

func TestAppArrowsWrap(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	app = settle(t, typeText(app, "bat"))

	app = pressKey(app, tea.KeyUp)
	sel, _ := app.Selected()
	assert.Equal(t, 2, sel)

	app = pressKey(app, tea.KeyDown)
	sel, _ = app.Selected()
	assert.Equal(t, 0, sel)
}

func TestAppSeededFromLocation(t *testing.T) {
	app := newTestApp(t, "http://localhost:5173/?q=batman", catalogueSearcher(), nil)
	assert.Equal(t, "batman", app.Query())

	for _, r := range resolved(runCmd(app.Init())) {
		app, _ = update(app, r)
	}
	assert.Equal(t, interact.DisplayResults, app.Display())
	assert.Equal(t, []string{"Batman", "Batman Begins", "The Batman"}, titlesOf(app.Results()))
}

func TestAppEscClearsQueryParam(t *testing.T) {
	app := newTestApp(t, "http://localhost:5173/?q=batman", catalogueSearcher(), nil)
	for _, r := range resolved(runCmd(app.Init())) {
		app, _ = update(app, r)
	}

	app = pressKey(app, tea.KeyEsc)
	assert.Equal(t, "", app.Query())
	assert.Equal(t, "batman", app.Location().Query(), "URL changes on settle")

	app = settle(t, app)
	assert.Equal(t, "", app.Location().Query())
	assert.NotContains(t, app.Location().String(), "q=")
	assert.Empty(t, app.Results())
	assert.Contains(t, app.View(), IdleHint)
}

func TestAppStaleResponseDiscarded(t *testing.T) {
	events := otel.NewNullLogger()
	ring := otel.NewRingBuffer(64)
	events.SetRingBuffer(ring)

	app := newTestApp(t, "", catalogueSearcher(), events)

	app = typeText(app, "a")
	app, slow := update(app, QuerySettled{Query: "a"})

	app = settle(t, typeText(app, "vatar"))
	assert.Equal(t, []string{"Avatar"}, titlesOf(app.Results()))

	// The response for "a" arrives last and must not win.
	for _, r := range resolved(runCmd(slow)) {
		app, _ = update(app, r)
	}
	assert.Equal(t, []string{"Avatar"}, titlesOf(app.Results()))

	require.NoError(t, events.Close())
	stats := ring.Stats()
	assert.Equal(t, 2, stats[otel.KindSearchStart])
	assert.Equal(t, 1, stats[otel.KindSearchComplete])
	assert.Equal(t, 1, stats[otel.KindSearchStale])
}

func TestAppNotFound(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	app = pressKey(typeText(app, "zzz"), tea.KeyEnter)
	assert.Equal(t, interact.DisplayLoading, app.Display())

	app = settle(t, app)
	assert.Equal(t, interact.DisplayNotFound, app.Display())
	assert.Contains(t, app.View(), NotFoundMessage)
}

func TestAppFailedFetchKeepsResults(t *testing.T) {
	fixture := searchtest.New(nil)
	s := searcherFunc(func(_ context.Context, q string) ([]movie.Movie, error) {
		if q == "batm" {
			return nil, errors.New("connection refused")
		}
		return fixture.Match(q), nil
	})

	app := newTestApp(t, "", s, nil)
	app = settle(t, typeText(app, "bat"))
	app = settle(t, typeText(app, "m"))

	assert.Len(t, app.Results(), 3)
	view := app.View()
	assert.NotContains(t, view, NotFoundMessage)
	assert.NotContains(t, view, "refused")
	assert.Contains(t, view, "3 results")
}

func TestAppMouseClickChoosesSuggestion(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	app = settle(t, typeText(app, "bat"))

	app, _ = update(app, tea.MouseMsg{
		X:      4,
		Y:      app.bodyTop() + 1,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	assert.Equal(t, "Batman Begins", app.Query())
	assert.Equal(t, interact.DisplayResults, app.Display())
}

func TestAppMouseClickOutsideRowsIgnored(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	app = settle(t, typeText(app, "bat"))

	app, _ = update(app, tea.MouseMsg{Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "bat", app.Query())
}

func TestAppDebugToggle(t *testing.T) {
	ring := otel.NewRingBuffer(16)
	loc := location.MustParse("")
	app := NewApp(Options{Searcher: catalogueSearcher(), Location: loc, Ring: ring})
	app, _ = update(app, tea.WindowSizeMsg{Width: 100, Height: 40})

	app = pressKey(app, tea.KeyCtrlD)
	assert.True(t, app.DebugVisible())
	assert.Contains(t, app.View(), "Recent Events")

	app = pressKey(app, tea.KeyCtrlD)
	assert.False(t, app.DebugVisible())
}

func TestAppQuit(t *testing.T) {
	app := newTestApp(t, "", catalogueSearcher(), nil)
	_, cmd := update(app, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppDebouncerUsesSender(t *testing.T) {
	loc := location.MustParse("")
	app := NewApp(Options{Searcher: catalogueSearcher(), Location: loc, Debounce: 10 * time.Millisecond})
	got := make(chan tea.Msg, 4)
	app.SetSender(func(m tea.Msg) { got <- m })

	app = typeText(app, "bat")

	select {
	case m := <-got:
		assert.Equal(t, QuerySettled{Query: "bat"}, m)
	case <-time.After(time.Second):
		t.Fatal("debounced query never delivered")
	}
}
