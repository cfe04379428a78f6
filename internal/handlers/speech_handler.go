package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"wastex-backend/internal/speech"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type SpeechHandler struct {
	Recognizer speech.Recognizer
}

func NewSpeechHandler(rec speech.Recognizer) *SpeechHandler {
	return &SpeechHandler{Recognizer: rec}
}

// Stream runs one dictation session over a websocket. The client sends
// transcript chunks as binary or text frames; text control frames "stop" and
// "cancel" end the session. Events flow back as JSON text frames.
func (h *SpeechHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Speech] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := speech.NewSession(r.Context(), h.Recognizer)
	defer session.Cancel()

	// Writer: forward transcript events until the session ends
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range session.Events() {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			session.Cancel()
			break
		}

		if msgType == websocket.TextMessage {
			switch string(data) {
			case "stop":
				session.Stop()
				<-done
				return
			case "cancel":
				session.Cancel()
				return
			}
		}

		if err := session.Write(data); err != nil {
			break
		}
	}
	<-done
}
