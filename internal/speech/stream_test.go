package speech

import (
	"context"
	"testing"
	"time"
)

func collect(t *testing.T, s *Session) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", events)
		}
	}
}

func TestSessionInterimAndFinal(t *testing.T) {
	s := NewSession(context.Background(), NewRelayRecognizer())

	if err := s.Write([]byte("forty tons")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write([]byte("from Panzarella")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	s.Stop()

	events := collect(t, s)
	if len(events) != 3 {
		t.Fatalf("expected 2 interim + 1 final, got %v", events)
	}
	if events[0].Kind != EventInterim || events[0].Text != "forty tons" {
		t.Errorf("first interim = %+v", events[0])
	}
	if events[1].Kind != EventInterim || events[1].Text != "forty tons from Panzarella" {
		t.Errorf("second interim = %+v", events[1])
	}
	final := events[2]
	if final.Kind != EventFinal || final.Text != "forty tons from Panzarella" {
		t.Errorf("final = %+v", final)
	}
}

func TestSessionStopWithoutAudio(t *testing.T) {
	s := NewSession(context.Background(), NewRelayRecognizer())
	s.Stop()

	events := collect(t, s)
	if len(events) != 1 || events[0].Kind != EventFinal || events[0].Text != "" {
		t.Errorf("stop with no audio should emit one empty final, got %v", events)
	}
}

func TestSessionCancelEmitsNoFinal(t *testing.T) {
	s := NewSession(context.Background(), NewRelayRecognizer())
	if err := s.Write([]byte("discard me")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Let the recognizer drain the chunk before cancelling
	time.Sleep(50 * time.Millisecond)
	s.Cancel()

	events := collect(t, s)
	for _, ev := range events {
		if ev.Kind == EventFinal {
			t.Errorf("cancelled session must not emit a final event, got %v", events)
		}
	}
}

func TestSessionCancelUnblocksStalledWriter(t *testing.T) {
	// Nobody reads events, so both buffers fill and the writer goroutine
	// blocks inside Write. Cancel must unwind it rather than deadlocking on
	// the session mutex.
	s := NewSession(context.Background(), NewRelayRecognizer())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i < 64; i++ {
			if err := s.Write([]byte("chunk")); err != nil {
				return
			}
		}
	}()

	// Give the writer time to wedge on the full audio buffer
	time.Sleep(100 * time.Millisecond)

	cancelDone := make(chan struct{})
	go func() {
		s.Cancel()
		close(cancelDone)
	}()

	select {
	case <-cancelDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel blocked behind a stalled writer")
	}
	select {
	case <-writerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Write did not unwind after Cancel")
	}
	if err := s.Write([]byte("late")); err == nil {
		t.Errorf("write after cancel should fail")
	}
	collect(t, s)
}

func TestSessionWriteAfterStopFails(t *testing.T) {
	s := NewSession(context.Background(), NewRelayRecognizer())
	s.Stop()
	if err := s.Write([]byte("late")); err == nil {
		t.Errorf("write after stop should fail")
	}
	collect(t, s)
}
