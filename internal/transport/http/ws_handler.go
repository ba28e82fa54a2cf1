package http

import (
	"encoding/json"
	"log"
	"net/http"

	"daily-riddle-service/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler streams live score updates to a client and accepts guesses
// in-band, so a profile view refreshes without polling.
type WSHandler struct {
	service  *app.PuzzleService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PuzzleService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type guessPayload struct {
	PuzzleID string `json:"puzzleId"`
	Text     string `json:"text"`
}

type guessResult struct {
	PuzzleID string `json:"puzzleId"`
	Correct  bool   `json:"correct"`
	Score    int    `json:"score"`
	Solved   bool   `json:"solved"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and wires the connection into the score feed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	if identity == "" {
		http.Error(w, "missing identity", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	initial, err := h.service.Score(r.Context(), identity)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "internal server error"}})
		return
	}

	updates, cancel := h.service.Subscribe(r.Context(), identity)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "score", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "score", Payload: initial}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "guess":
			var payload guessPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid guess payload"}}
				continue
			}
			attempt, err := h.service.SubmitGuess(r.Context(), identity, payload.PuzzleID, payload.Text)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: wsErrorMessage(err)}}
				continue
			}
			send <- outboundMessage[any]{Type: "guessResult", Payload: guessResult{
				PuzzleID: payload.PuzzleID,
				Correct:  attempt.Correct,
				Score:    attempt.Ordinal,
				Solved:   attempt.Correct,
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
