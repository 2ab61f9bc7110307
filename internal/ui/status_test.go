package ui

import (
	"testing"
	"time"

	"github.com/abelbrown/flicksearch/internal/interact"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSearchStatus(t *testing.T) {
	tests := []struct {
		name  string
		d     interact.Display
		count int
		dur   time.Duration
		want  string
	}{
		{"idle", interact.DisplayIdle, 0, 0, ""},
		{"loading", interact.DisplayLoading, 0, 0, "searching..."},
		{"suggestions", interact.DisplaySuggestions, 3, 42 * time.Millisecond, "3 results in 42ms"},
		{"single result", interact.DisplayResults, 1, 0, "1 result"},
		{"not found", interact.DisplayNotFound, 0, 1500 * time.Millisecond, "0 results in 1.5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchStatus(tt.d, tt.count, tt.dur))
		})
	}
}

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "<1ms", formatLatency(200*time.Microsecond))
	assert.Equal(t, "999ms", formatLatency(999*time.Millisecond))
	assert.Equal(t, "2.0s", formatLatency(2*time.Second))
}

func TestRenderStatusBarFitsWidth(t *testing.T) {
	for _, width := range []int{20, 60, 120} {
		bar := RenderStatusBar("7 results in 12ms", "esc clear", width)
		assert.LessOrEqual(t, lipgloss.Width(bar), width, "width %d", width)
		assert.Contains(t, bar, "esc clear")
	}
}

func TestRenderStatusBarTruncatesStatus(t *testing.T) {
	bar := RenderStatusBar("a very long status message that cannot fit", "hints", 24)
	assert.Contains(t, bar, "…")
	assert.Contains(t, bar, "hints")
}
