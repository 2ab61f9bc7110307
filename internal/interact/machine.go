// Package interact holds the search-as-you-type state machine. It performs
// no I/O and owns no timers: every operation returns Effects that the
// caller carries out (restart the debounce, issue a fetch, sync the URL).
package interact

import (
	"github.com/abelbrown/flicksearch/internal/movie"
	"github.com/google/uuid"
)

const noSelection = -1

// Machine is not safe for concurrent use. The TUI only touches it from
// its Update loop.
type Machine struct {
	text    string
	settled string
	state   State
	results []movie.Movie

	selected int

	seq      uint64
	inflight uint64 // Seq awaiting a response; 0 when none
	latest   Request

	// Outcome of the most recent applied response.
	done      bool
	doneOK    bool
	doneQuery string
	lastErr   error

	newID func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithIDFunc replaces the request ID generator (uuid by default).
func WithIDFunc(f func() string) Option {
	return func(m *Machine) { m.newID = f }
}

// New creates a Machine seeded with initialQuery, normally the q parameter
// of the launch URL. A non-empty seed starts in ShowingResults; call Start
// to issue its fetch.
func New(initialQuery string, opts ...Option) *Machine {
	m := &Machine{
		text:     initialQuery,
		selected: noSelection,
		newID:    uuid.NewString,
	}
	if initialQuery != "" {
		m.state = ShowingResults
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start returns the effects for the seed query: the same fetch a typed and
// settled query would produce. Empty seed yields no effects.
func (m *Machine) Start() Effects {
	if m.text == "" {
		return Effects{}
	}
	return m.Settle(m.text)
}

// Type records a keystroke that changed the query text.
func (m *Machine) Type(text string) Effects {
	if text == m.text {
		return Effects{}
	}
	m.text = text
	if text == "" {
		m.setState(Idle)
	} else {
		m.setState(ShowingSuggestions)
	}
	return Effects{Debounce: true}
}

// Settle is called when the debounce quiet period elapsed for text.
// It is ignored when text is no longer the current query or was already
// settled, so each settled value is fetched at most once.
func (m *Machine) Settle(text string) Effects {
	if text != m.text || text == m.settled {
		return Effects{}
	}
	m.settled = text
	m.selected = noSelection
	sync := text

	if text == "" {
		m.results = nil
		m.inflight = 0
		m.done = false
		m.lastErr = nil
		m.setState(Idle)
		return Effects{SyncURL: &sync}
	}

	m.seq++
	m.latest = Request{Seq: m.seq, ID: m.newID(), Query: text}
	m.inflight = m.seq
	m.done = false
	req := m.latest
	return Effects{Fetch: &req, SyncURL: &sync}
}

// Resolve applies the response to req. It returns false, changing nothing,
// when req is not the latest outstanding request. A failed fetch keeps the
// current result set.
func (m *Machine) Resolve(req Request, movies []movie.Movie, err error) bool {
	if m.inflight == 0 || req.Seq != m.inflight {
		return false
	}
	m.inflight = 0
	m.done = true
	m.doneQuery = req.Query
	m.lastErr = err

	if err != nil {
		m.doneOK = false
		return true
	}
	m.doneOK = true
	m.results = movies
	m.selected = noSelection
	return true
}

// Submit switches to results for the current query. No-op when empty.
func (m *Machine) Submit() Effects {
	if m.text == "" {
		return Effects{}
	}
	m.setState(ShowingResults)
	return Effects{}
}

// Down moves the highlight to the next suggestion, wrapping to the first.
func (m *Machine) Down() {
	if !m.canNavigate() {
		return
	}
	if m.selected == noSelection || m.selected >= len(m.results)-1 {
		m.selected = 0
		return
	}
	m.selected++
}

// Up moves the highlight to the previous suggestion, wrapping to the last.
func (m *Machine) Up() {
	if !m.canNavigate() {
		return
	}
	if m.selected <= 0 {
		m.selected = len(m.results) - 1
		return
	}
	m.selected--
}

// Enter chooses the highlighted suggestion, or submits when nothing is
// highlighted.
func (m *Machine) Enter() Effects {
	if m.state == ShowingSuggestions && m.selected != noSelection {
		return m.Choose(m.selected)
	}
	return m.Submit()
}

// Choose takes the suggestion at index: its title becomes the query and
// the view switches to results. The new text goes through the debounce
// like a keystroke.
func (m *Machine) Choose(index int) Effects {
	if index < 0 || index >= len(m.results) {
		return Effects{}
	}
	title := m.results[index].Title
	m.setState(ShowingResults)

	if title == m.text {
		return Effects{}
	}
	m.text = title
	return Effects{Debounce: true}
}

// Display derives the view mode.
func (m *Machine) Display() Display {
	switch m.state {
	case ShowingSuggestions:
		return DisplaySuggestions
	case ShowingResults:
		if len(m.results) > 0 {
			return DisplayResults
		}
		if m.done && m.doneOK && m.doneQuery == m.text {
			return DisplayNotFound
		}
		if m.inflight != 0 || m.settled != m.text {
			return DisplayLoading
		}
		return DisplayResults
	}
	return DisplayIdle
}

func (m *Machine) canNavigate() bool {
	return m.state == ShowingSuggestions && len(m.results) > 0
}

func (m *Machine) setState(s State) {
	if s != ShowingSuggestions {
		m.selected = noSelection
	}
	m.state = s
}

// Query returns the current input text.
func (m *Machine) Query() string { return m.text }

// Settled returns the last query that passed the debounce.
func (m *Machine) Settled() string { return m.settled }

// State returns the interaction mode.
func (m *Machine) State() State { return m.state }

// Results returns the current result set. Callers must not modify it.
func (m *Machine) Results() []movie.Movie { return m.results }

// Selected returns the highlighted suggestion index.
func (m *Machine) Selected() (int, bool) {
	if m.selected == noSelection {
		return 0, false
	}
	return m.selected, true
}

// Pending reports whether a fetch is outstanding.
func (m *Machine) Pending() bool { return m.inflight != 0 }

// Latest returns the most recently issued request.
func (m *Machine) Latest() Request { return m.latest }

// LastError returns the error of the most recent applied response, if it failed.
func (m *Machine) LastError() error { return m.lastErr }
