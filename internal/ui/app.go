package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/flicksearch/internal/debounce"
	"github.com/abelbrown/flicksearch/internal/interact"
	"github.com/abelbrown/flicksearch/internal/location"
	"github.com/abelbrown/flicksearch/internal/logging"
	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/abelbrown/flicksearch/internal/otel"
	"github.com/abelbrown/flicksearch/internal/search"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures NewApp. Searcher and Location are required.
type Options struct {
	Searcher       search.Searcher
	Location       *location.Location
	Debounce       time.Duration
	RequestTimeout time.Duration
	Events         *otel.Logger     // nil disables diagnostics events
	Ring           *otel.RingBuffer // backs the ctrl+d overlay
}

// sender forwards debounced values into the running program. It is shared
// by every copy of App, and set after tea.NewProgram.
type sender struct {
	mu sync.Mutex
	fn func(tea.Msg)
}

func (s *sender) send(msg tea.Msg) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// App is the root Bubble Tea model.
// IMPORTANT: all interaction state lives in machine and is only touched
// from Update. Fetches and the debouncer report back via messages.
type App struct {
	machine   *interact.Machine
	searcher  search.Searcher
	loc       *location.Location
	events    *otel.Logger
	ring      *otel.RingBuffer
	sender    *sender
	debouncer *debounce.Debouncer[string]
	timeout   time.Duration

	input   textinput.Model
	spinner spinner.Model
	results viewport.Model
	help    help.Model
	keys    keyMap
	cards   *CardCache

	width     int
	height    int
	ready     bool
	showDebug bool
	lastDur   time.Duration // latency of the last successful search
}

// NewApp creates the model. The launch query is read from opts.Location.
func NewApp(opts Options) App {
	s := &sender{}
	debounceDelay := opts.Debounce
	if debounceDelay <= 0 {
		debounceDelay = debounce.DefaultDelay
	}

	seed := opts.Location.Query()

	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.SetValue(seed)
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = StatusBarKey

	return App{
		machine:  interact.New(seed),
		searcher: opts.Searcher,
		loc:      opts.Location,
		events:   opts.Events,
		ring:     opts.Ring,
		sender:   s,
		debouncer: debounce.New(debounceDelay, func(q string) {
			s.send(QuerySettled{Query: q})
		}),
		timeout: opts.RequestTimeout,
		input:   ti,
		spinner: sp,
		results: viewport.New(80, 20),
		help:    help.New(),
		keys:    defaultKeyMap(),
		cards:   NewCardCache(0),
	}
}

// SetSender connects the debouncer to the running program, normally
// (*tea.Program).Send.
func (a App) SetSender(send func(tea.Msg)) {
	a.sender.mu.Lock()
	a.sender.fn = send
	a.sender.mu.Unlock()
}

// Init starts the cursor blink and spinner, sets the window title and, for
// a seeded launch, issues the first search.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.spinner.Tick,
		a.windowTitle(),
		a.apply(a.machine.Start()),
	)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsg, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.Width = a.width - 8
		a.help.Width = a.width
		a.layoutResults()
		return a, nil

	case QuerySettled:
		cmd := a.apply(a.machine.Settle(msg.Query))
		a.refreshResults(false)
		return a, cmd

	case SearchResolved:
		a.handleResolved(msg)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input. Anything that is not a binding
// goes to the search box.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindKeyPress,
		Comp:  "ui",
		Msg:   msg.String(),
		Extra: map[string]any{"state": a.machine.State().String()},
	})

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.debouncer.Cancel()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil

	case key.Matches(msg, a.keys.Clear):
		a.input.SetValue("")
		cmd := a.apply(a.machine.Type(""))
		return a, cmd

	case key.Matches(msg, a.keys.Down):
		if a.machine.State() == interact.ShowingSuggestions {
			a.machine.Down()
			return a, nil
		}
		return a.scrollResults(msg)

	case key.Matches(msg, a.keys.Up):
		if a.machine.State() == interact.ShowingSuggestions {
			a.machine.Up()
			return a, nil
		}
		return a.scrollResults(msg)

	case key.Matches(msg, a.keys.PageDown), key.Matches(msg, a.keys.PageUp):
		return a.scrollResults(msg)

	case key.Matches(msg, a.keys.Enter):
		cmd := a.apply(a.machine.Enter())
		a.syncInput()
		a.refreshResults(false)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	if v := a.input.Value(); v != a.machine.Query() {
		cmds = append(cmds, a.apply(a.machine.Type(v)))
	}
	return a, tea.Batch(cmds...)
}

// handleMouseMsg selects a suggestion on left click and scrolls the
// result grid with the wheel.
func (a App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch a.machine.Display() {
	case interact.DisplaySuggestions:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		idx := suggestionIndexAt(msg.Y-a.bodyTop(), len(a.machine.Results()))
		if idx < 0 {
			return a, nil
		}
		cmd := a.apply(a.machine.Choose(idx))
		a.syncInput()
		a.refreshResults(false)
		return a, cmd

	case interact.DisplayResults:
		var cmd tea.Cmd
		a.results, cmd = a.results.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) scrollResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.machine.Display() != interact.DisplayResults {
		return a, nil
	}
	var cmd tea.Cmd
	a.results, cmd = a.results.Update(msg)
	return a, cmd
}

func (a *App) handleResolved(msg SearchResolved) {
	req := msg.Request
	if !a.machine.Resolve(req, msg.Movies, msg.Err) {
		logging.Debug("stale search response discarded", "seq", req.Seq, "query", req.Query)
		a.events.Emit(otel.Event{
			Level: otel.LevelDebug, Kind: otel.KindSearchStale, Comp: "ui",
			QueryID: req.ID, Seq: req.Seq, Query: req.Query, Dur: msg.Dur,
		})
		return
	}

	if msg.Err != nil {
		logging.Warn("search failed", "query", req.Query, "request_id", req.ID, "err", msg.Err)
		a.events.Emit(otel.Event{
			Level: otel.LevelError, Kind: otel.KindSearchError, Comp: "search",
			QueryID: req.ID, Seq: req.Seq, Query: req.Query, Dur: msg.Dur, Err: msg.Err.Error(),
		})
		return
	}

	logging.Debug("search complete", "query", req.Query, "results", len(msg.Movies), "dur", msg.Dur)
	a.events.Emit(otel.Event{
		Level: otel.LevelInfo, Kind: otel.KindSearchComplete, Comp: "search",
		QueryID: req.ID, Seq: req.Seq, Query: req.Query, Count: len(msg.Movies), Dur: msg.Dur,
	})
	a.lastDur = msg.Dur
	a.refreshResults(true)
}

// apply carries out the side effects requested by the state machine.
func (a *App) apply(eff interact.Effects) tea.Cmd {
	var cmds []tea.Cmd

	if eff.Debounce {
		q := a.machine.Query()
		a.debouncer.Trigger(q)
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchDebounce, Comp: "ui", Query: q})
	}

	if eff.SyncURL != nil {
		a.loc.Replace(*eff.SyncURL)
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindURLSync, Comp: "ui", Query: *eff.SyncURL, Msg: a.loc.String()})
		cmds = append(cmds, a.windowTitle())
	}

	if eff.Fetch != nil {
		req := *eff.Fetch
		a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchStart, Comp: "ui", QueryID: req.ID, Seq: req.Seq, Query: req.Query})
		cmds = append(cmds, a.fetch(req))
	}

	return tea.Batch(cmds...)
}

// fetch runs one search off the UI goroutine.
func (a *App) fetch(req interact.Request) tea.Cmd {
	searcher := a.searcher
	timeout := a.timeout
	return func() tea.Msg {
		ctx := search.WithRequestID(context.Background(), req.ID)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		movies, err := searcher.Search(ctx, req.Query)
		return SearchResolved{Request: req, Movies: movies, Err: err, Dur: time.Since(start)}
	}
}

func (a App) windowTitle() tea.Cmd {
	return tea.SetWindowTitle("flicksearch · " + a.loc.String())
}

// syncInput copies the machine's query into the text box after Choose.
func (a *App) syncInput() {
	if a.input.Value() != a.machine.Query() {
		a.input.SetValue(a.machine.Query())
		a.input.CursorEnd()
	}
}

func (a *App) layoutResults() {
	h := a.height - a.bodyTop() - 1
	if h < 1 {
		h = 1
	}
	a.results.Width = a.width
	a.results.Height = h
	a.refreshResults(false)
}

// refreshResults re-renders the grid into the viewport. top scrolls back
// to the first row, used when the result set was replaced.
func (a *App) refreshResults(top bool) {
	a.results.SetContent(RenderResults(a.machine.Results(), a.width, a.cards))
	if top {
		a.results.GotoTop()
	}
}

func (a App) renderHeader() string {
	return AppTitle.Render("flicksearch") + LocationText.Render(a.loc.String())
}

func (a App) renderInput() string {
	w := a.width - 2
	if w < 10 {
		w = 10
	}
	return SearchBox.Width(w).Render(a.input.View())
}

// bodyTop is the screen row where suggestions or results start.
func (a App) bodyTop() int {
	return lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderInput())
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var body string
	switch {
	case a.showDebug:
		body = debugOverlay(a.ring, a.width, a.height-a.bodyTop()-1)
	default:
		body = a.renderBody()
	}

	bodyHeight := a.height - a.bodyTop() - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	d := a.machine.Display()
	status := RenderStatusBar(
		searchStatus(d, len(a.machine.Results()), a.lastDur),
		a.help.View(a.keys), a.width)

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderInput(), body, status)
}

func (a App) renderBody() string {
	switch a.machine.Display() {
	case interact.DisplaySuggestions:
		sel, ok := a.machine.Selected()
		if !ok {
			sel = -1
		}
		return RenderSuggestions(a.machine.Results(), sel, a.width)
	case interact.DisplayLoading:
		return HintText.Render(a.spinner.View() + " Searching " + a.machine.Query() + "...")
	case interact.DisplayResults:
		return a.results.View()
	case interact.DisplayNotFound:
		return NotFoundText.Render(NotFoundMessage)
	}
	return HintText.Render(IdleHint)
}

// Query returns the search box text (for testing and shutdown).
func (a App) Query() string {
	return a.machine.Query()
}

// Display returns the current view mode (for testing).
func (a App) Display() interact.Display {
	return a.machine.Display()
}

// Selected returns the highlighted suggestion (for testing).
func (a App) Selected() (int, bool) {
	return a.machine.Selected()
}

// Results returns the current result set (for testing).
func (a App) Results() []movie.Movie {
	return a.machine.Results()
}

// Location returns the session URL.
func (a App) Location() *location.Location {
	return a.loc
}

// DebugVisible reports whether the diagnostics overlay is shown.
func (a App) DebugVisible() bool {
	return a.showDebug
}
