package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/flicksearch/internal/interact"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// searchStatus summarises the displayed result set for the left side of
// the status bar. dur is the latency of the last successful search. Failed
// searches leave it unchanged, like the results themselves. Empty when idle.
func searchStatus(d interact.Display, count int, dur time.Duration) string {
	switch d {
	case interact.DisplayLoading:
		return "searching..."
	case interact.DisplaySuggestions, interact.DisplayResults:
		noun := "results"
		if count == 1 {
			noun = "result"
		}
		if dur > 0 {
			return fmt.Sprintf("%d %s in %s", count, noun, formatLatency(dur))
		}
		return fmt.Sprintf("%d %s", count, noun)
	case interact.DisplayNotFound:
		if dur > 0 {
			return "0 results in " + formatLatency(dur)
		}
		return "0 results"
	}
	return ""
}

func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RenderStatusBar renders the bottom bar: status text on the left, key
// hints on the right. The status is truncated first when space runs out.
func RenderStatusBar(status, hints string, width int) string {
	left := ""
	if status != "" {
		left = " " + status + " "
	}

	rightWidth := lipgloss.Width(hints)
	room := width - rightWidth - 1
	if room < 0 {
		room = 0
	}
	if runewidth.StringWidth(left) > room {
		left = runewidth.Truncate(left, room, "…")
	}

	padding := width - lipgloss.Width(left) - rightWidth
	if padding < 0 {
		padding = 0
	}

	bar := StatusBarText.Render(left) + strings.Repeat(" ", padding) + hints
	return StatusBar.Width(width).MaxWidth(width).Render(bar)
}
