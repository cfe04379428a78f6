// Package speech manages dictation sessions: audio chunks in, transcript
// events out. The recognizer backend is pluggable; sessions only own the
// lifecycle (start, audio feed, stop-with-final, cancel-without-final).
package speech

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// EventKind distinguishes rolling interim transcripts from the committed
// final one.
type EventKind string

const (
	EventInterim EventKind = "interim"
	EventFinal   EventKind = "final"
	EventError   EventKind = "error"
)

// Event is one transcript update.
type Event struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text"`
}

// Recognizer converts an audio chunk stream into transcript events. It must
// emit exactly one final event when the audio channel closes normally, and
// none when the context is cancelled first. Every send on events must also
// select on ctx so a stalled consumer cannot wedge the recognizer.
type Recognizer interface {
	Recognize(ctx context.Context, audio <-chan []byte, events chan<- Event) error
}

// Session is one dictation run. Audio is pushed with Write; events arrive on
// Events. Stop closes the audio stream and lets the recognizer commit a
// final transcript; Cancel aborts without one.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	audio  chan []byte
	events chan Event

	mu     sync.Mutex
	closed bool
}

// NewSession starts a recognizer goroutine and returns the running session.
func NewSession(ctx context.Context, rec Recognizer) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ctx:    ctx,
		cancel: cancel,
		audio:  make(chan []byte, 16),
		events: make(chan Event, 16),
	}

	go func() {
		defer close(s.events)
		if err := rec.Recognize(ctx, s.audio, s.events); err != nil && ctx.Err() == nil {
			log.Printf("[Speech] Recognizer failed: %v", err)
			select {
			case s.events <- Event{Kind: EventError, Text: "transcription failed"}:
			default:
			}
		}
	}()

	return s
}

// Events is the transcript stream. Closed when the session ends.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Write feeds one audio chunk to the recognizer. It fails instead of
// blocking once the session is cancelled, so a wedged consumer downstream
// cannot pin the writer.
func (s *Session) Write(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session already closed")
	}
	select {
	case s.audio <- chunk:
		return nil
	case <-s.ctx.Done():
		return fmt.Errorf("session cancelled")
	}
}

// Stop ends the audio stream normally; the recognizer emits its final event
// before the event channel closes.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.audio)
}

// Cancel aborts the session; in-flight transcripts are discarded and no
// final event is emitted. The context is cancelled before the mutex is
// taken so a Write blocked on a full audio buffer unwinds first.
func (s *Session) Cancel() {
	s.cancel()

	s.mu.Lock()
	already := s.closed
	s.closed = true
	s.mu.Unlock()

	if !already {
		close(s.audio)
	}
}
