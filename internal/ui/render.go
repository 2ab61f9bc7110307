package ui

import (
	"net/url"
	"path"
	"strings"

	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	// IdleHint is shown before anything has been typed.
	IdleHint = "Search a movie and check how fast it is!"
	// NotFoundMessage is shown when a completed search matched nothing.
	NotFoundMessage = "No results found, please try again with another movie"
	// Placeholder is the empty search box text.
	Placeholder = "Avatar, The Matrix, Inception..."
)

const (
	cardMinWidth      = 34
	cardMaxColumns    = 4
	cardOverviewLines = 3
	// title, meta, rating, overview, poster
	cardContentLines = 3 + cardOverviewLines + 1
	// border plus horizontal padding
	cardChromeWidth = 4
)

// RenderSuggestions draws one row per movie. selected < 0 means no
// highlight. Each row is exactly one terminal line so mouse clicks can be
// mapped back to an index by vertical offset.
func RenderSuggestions(items []movie.Movie, selected, width int) string {
	if len(items) == 0 {
		return ""
	}
	if width < 10 {
		width = 10
	}

	rows := make([]string, len(items))
	for i, m := range items {
		rows[i] = renderSuggestionRow(m, i == selected, width)
	}
	return strings.Join(rows, "\n")
}

func renderSuggestionRow(m movie.Movie, selected bool, width int) string {
	inner := width - 2 // row padding
	year := m.Year()
	yearWidth := 0
	if year != "" {
		yearWidth = runewidth.StringWidth(year) + 2
	}

	titleWidth := inner - yearWidth
	if titleWidth < 1 {
		titleWidth = 1
		year = ""
	}
	title := runewidth.Truncate(m.Title, titleWidth, "…")

	if selected {
		text := title
		if year != "" {
			text += "  " + year
		}
		return SuggestionSelected.Width(width).Render(text)
	}

	text := title
	if year != "" {
		text += "  " + CardMeta.Render(year)
	}
	return SuggestionRow.Width(width).Render(text)
}

// suggestionIndexAt maps a row offset within the suggestion list to an
// item index, or -1.
func suggestionIndexAt(row, count int) int {
	if row < 0 || row >= count {
		return -1
	}
	return row
}

type cardKey struct {
	id    string
	width int
}

// CardCache memoises rendered cards by movie identity and width, so a
// movie that stays in the result set across searches is not re-rendered
// even when its position changes.
type CardCache struct {
	cards map[cardKey]string
	limit int
}

// NewCardCache creates a cache that resets itself after limit entries.
func NewCardCache(limit int) *CardCache {
	if limit <= 0 {
		limit = 512
	}
	return &CardCache{cards: make(map[cardKey]string), limit: limit}
}

// Len returns the number of cached cards.
func (c *CardCache) Len() int {
	return len(c.cards)
}

func (c *CardCache) get(m movie.Movie, width int) string {
	k := cardKey{id: cardIdentity(m), width: width}
	if card, ok := c.cards[k]; ok {
		return card
	}
	if len(c.cards) >= c.limit {
		c.cards = make(map[cardKey]string)
	}
	card := renderCard(m, width)
	c.cards[k] = card
	return card
}

// cardIdentity is the movie ID, falling back to title and date for rows
// that arrive without one.
func cardIdentity(m movie.Movie) string {
	if m.ID != "" {
		return m.ID
	}
	return m.Title + "\x00" + m.ReleaseDate
}

// RenderResults draws movies as a grid of cards. cache may be nil.
func RenderResults(items []movie.Movie, width int, cache *CardCache) string {
	if len(items) == 0 {
		return ""
	}

	cols := width / cardMinWidth
	if cols < 1 {
		cols = 1
	}
	if cols > cardMaxColumns {
		cols = cardMaxColumns
	}
	cardWidth := width / cols
	if cardWidth < cardChromeWidth+8 {
		cardWidth = cardChromeWidth + 8
	}

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := start + cols
		if end > len(items) {
			end = len(items)
		}
		cards := make([]string, 0, end-start)
		for _, m := range items[start:end] {
			if cache != nil {
				cards = append(cards, cache.get(m, cardWidth))
			} else {
				cards = append(cards, renderCard(m, cardWidth))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(m movie.Movie, width int) string {
	inner := width - cardChromeWidth

	lines := []string{
		CardTitle.Render(runewidth.Truncate(m.Title, inner, "…")),
		CardMeta.Render(runewidth.Truncate(cardMeta(m), inner, "…")),
		CardRating.Render(runewidth.Truncate(m.Rating(), inner, "…")),
	}
	for _, l := range clipLines(m.Overview, inner, cardOverviewLines) {
		lines = append(lines, CardOverview.Render(l))
	}
	for len(lines) < cardContentLines-1 {
		lines = append(lines, "")
	}
	lines = append(lines, CardPoster.Render(runewidth.Truncate(posterRef(m.PosterURL), inner, "…")))

	// Width excludes the border.
	return Card.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func cardMeta(m movie.Movie) string {
	var parts []string
	if y := m.Year(); y != "" {
		parts = append(parts, y)
	}
	if g := m.Genres(); len(g) > 0 {
		parts = append(parts, strings.Join(g, ", "))
	}
	if m.OriginalLanguage != "" {
		parts = append(parts, strings.ToUpper(m.OriginalLanguage))
	}
	return strings.Join(parts, " · ")
}

// clipLines word-wraps s to width and keeps at most n lines, marking the
// cut with an ellipsis.
func clipLines(s string, width, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" || width < 1 {
		return nil
	}
	wrapped := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i := range wrapped {
		wrapped[i] = strings.TrimRight(wrapped[i], " ")
	}
	if len(wrapped) <= n {
		return wrapped
	}
	out := wrapped[:n]
	last := out[n-1]
	if runewidth.StringWidth(last)+1 > width {
		last = runewidth.Truncate(last, width-1, "")
	}
	out[n-1] = last + "…"
	return out
}

// posterRef shortens a poster URL to host/…/file for display.
func posterRef(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return u.Host
	}
	return u.Host + "/…/" + base
}
