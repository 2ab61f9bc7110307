package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/flicksearch/internal/otel"
	"github.com/mattn/go-runewidth"
)

// debugPanelChrome is the vertical space taken by DebugPanel's border (2)
// and padding (2). Keep in sync with the style.
const debugPanelChrome = 4

// debugOverlay renders search counters and the most recent events.
// Returns "" when ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Search"))
	lines = append(lines, fmt.Sprintf("  Debounced:  %d", stats[otel.KindSearchDebounce]))
	lines = append(lines, fmt.Sprintf("  Requests:   %d started, %d complete, %d errors",
		stats[otel.KindSearchStart], stats[otel.KindSearchComplete], stats[otel.KindSearchError]))
	lines = append(lines, fmt.Sprintf("  Stale:      %d discarded", stats[otel.KindSearchStale]))
	lines = append(lines, fmt.Sprintf("  URL syncs:  %d", stats[otel.KindURLSync]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-16s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Seq != 0 {
			line += fmt.Sprintf("  #%d", e.Seq)
		}
		if e.Query != "" {
			line += fmt.Sprintf("  %q", runewidth.Truncate(e.Query, 24, "…"))
		}
		if e.Dur > 0 {
			line += "  " + formatAge(e.Dur)
		}
		if e.Msg != "" {
			line += "  " + runewidth.Truncate(e.Msg, 30, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		if len(e.QueryID) >= 8 {
			line += "  qid:" + e.QueryID[:8]
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 84
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration compactly. Negative durations (clock skew)
// clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}
