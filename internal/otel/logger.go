package otel

// The drain goroutine is the only reader of l.ch and the only writer to l.w.
// l.mu guards the ring pointer; the ring has its own lock.

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// chanSize bounds queued events; Emit drops when full rather than block
// the UI goroutine.
const chanSize = 1024

type entry struct {
	line []byte
	ev   Event
}

// Logger writes events as JSONL from a background goroutine. Safe for
// concurrent use; Emit never blocks.
type Logger struct {
	mu        sync.Mutex
	ring      *RingBuffer
	sessionID string
	ch        chan entry
	w         io.Writer
	closer    io.Closer
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger starts a Logger writing to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		sessionID: uuid.NewString(),
		ch:        make(chan entry, chanSize),
		w:         w,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger discards output. The ring buffer still fills if attached.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// Open appends to the JSONL file at path, creating its directory.
// The file is closed by Close.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create events directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

func (l *Logger) drain() {
	defer close(l.done)
	for e := range l.ch {
		if _, err := l.w.Write(e.line); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		ring := l.ring
		l.mu.Unlock()

		if ring != nil {
			ring.Push(e.ev)
		}
	}
}

// Emit queues e, stamping Time (if zero) and SessionID. Events emitted
// after Close, or while the queue is full, are counted as dropped.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	// Close can win the race between the closed check and the send.
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	select {
	case l.ch <- entry{line: line, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err is recorded as "".
func (l *Logger) Error(kind EventKind, comp string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: msg})
}

// SetRingBuffer attaches a ring buffer for the debug overlay.
func (l *Logger) SetRingBuffer(ring *RingBuffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ring = ring
}

// SessionID identifies this run in every event.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Dropped returns the number of events lost since creation.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close flushes queued events and stops the drain goroutine. Idempotent.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}
