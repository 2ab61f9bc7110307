// Package otel records diagnostics events for a flicksearch session.
//
// Events are serialized as JSONL lines by an async Logger. An optional
// RingBuffer keeps the most recent events for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	KindSearchDebounce EventKind = "search.debounce"
	KindSearchStart    EventKind = "search.start"
	KindSearchComplete EventKind = "search.complete"
	KindSearchStale    EventKind = "search.stale"
	KindSearchError    EventKind = "search.error"

	KindURLSync EventKind = "url.sync"

	KindKeyPress EventKind = "ui.key"
	KindMsg      EventKind = "trace.msg"

	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
)

// Event is one diagnostics record. Everything except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	QueryID   string         `json:"qid,omitempty"` // request UUID
	Seq       uint64         `json:"seq,omitempty"`
	Query     string         `json:"query,omitempty"`
	Count     int            `json:"count,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // filled from Dur when marshalling
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	p := plain(e)
	if e.Dur > 0 {
		p.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(p)
}
