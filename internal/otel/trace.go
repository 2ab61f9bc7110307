package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled turns on per-message trace.msg events in the TUI.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("FLICKSEARCH_TRACE") != "")
}

// TraceEnabled reports whether FLICKSEARCH_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// SetTraceEnabled overrides FLICKSEARCH_TRACE, for tests and --trace.
func SetTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
