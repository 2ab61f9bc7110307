package interact

// State is the interaction mode of the search box.
type State int

const (
	Idle State = iota
	ShowingSuggestions
	ShowingResults
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ShowingSuggestions:
		return "suggestions"
	case ShowingResults:
		return "results"
	}
	return "unknown"
}

// Display is what the view should draw, derived from State, the result set
// and the fetch status.
type Display int

const (
	DisplayIdle Display = iota
	DisplaySuggestions
	DisplayLoading
	DisplayResults
	DisplayNotFound
)

func (d Display) String() string {
	switch d {
	case DisplayIdle:
		return "idle"
	case DisplaySuggestions:
		return "suggestions"
	case DisplayLoading:
		return "loading"
	case DisplayResults:
		return "results"
	case DisplayNotFound:
		return "not-found"
	}
	return "unknown"
}

// Request identifies one issued fetch. Seq orders requests; only the
// response to the latest Seq is ever applied.
type Request struct {
	Seq   uint64
	ID    string
	Query string
}

// Effects are the side effects the caller must perform after an operation.
type Effects struct {
	// Debounce restarts the quiet-period timer for the current query text.
	Debounce bool
	// Fetch is a search to issue, or nil.
	Fetch *Request
	// SyncURL is the value to mirror into the location's q parameter, or
	// nil for no change. An empty string removes q.
	SyncURL *string
}

// None reports whether there is nothing to do.
func (e Effects) None() bool {
	return !e.Debounce && e.Fetch == nil && e.SyncURL == nil
}
