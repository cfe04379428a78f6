package speech

import (
	"context"
	"strings"
)

// RelayRecognizer treats incoming chunks as UTF-8 transcript fragments
// already recognized on the client device, emitting each as an interim
// event and joining them into the final transcript on normal stop. It is
// the default backend; a server-side recognizer slots in behind the same
// interface.
type RelayRecognizer struct{}

func NewRelayRecognizer() *RelayRecognizer {
	return &RelayRecognizer{}
}

func (r *RelayRecognizer) Recognize(ctx context.Context, audio <-chan []byte, events chan<- Event) error {
	var parts []string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-audio:
			if !ok {
				// A cancelled session closes the audio channel too; only a
				// normal stop commits the final transcript.
				if ctx.Err() != nil {
					return ctx.Err()
				}
				select {
				case events <- Event{Kind: EventFinal, Text: strings.Join(parts, " ")}:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			}
			text := strings.TrimSpace(string(chunk))
			if text == "" {
				continue
			}
			parts = append(parts, text)
			select {
			case events <- Event{Kind: EventInterim, Text: strings.Join(parts, " ")}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
