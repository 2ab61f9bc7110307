package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorRating    = lipgloss.Color("220") // Gold
)

// AppTitle is the name shown in the header line.
var AppTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// LocationText renders the shareable URL next to the title.
var LocationText = lipgloss.NewStyle().
	Foreground(colorMuted)

// SearchBox frames the text input.
var SearchBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// SuggestionRow is an unselected suggestion.
var SuggestionRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// SuggestionSelected is the highlighted suggestion.
var SuggestionSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// Card frames one movie in the result grid.
var Card = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorSecondary).
	Padding(0, 1)

var (
	CardTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	CardMeta     = lipgloss.NewStyle().Foreground(colorSecondary)
	CardRating   = lipgloss.NewStyle().Foreground(colorRating)
	CardOverview = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	CardPoster   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// HintText is the idle hint and the loading line.
var HintText = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(1, 2)

// NotFoundText is shown when a completed search returned nothing.
var NotFoundText = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(1, 2)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// DebugPanel frames the diagnostics overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
