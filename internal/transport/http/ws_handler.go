package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quadquiz-service/internal/app"
	"quadquiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler drives one game session per connection: pass-and-play clients
// share a screen, so every player action arrives on the same socket.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
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

type startPayload struct {
	Genre         string `json:"genre"`
	Difficulty    string `json:"difficulty"`
	Players       int    `json:"players"`
	QuestionLimit int    `json:"questionLimit"`
	TimeLimitSec  int    `json:"timeLimitSec"`
}

type answerPayload struct {
	Player int `json:"player"`
	Option int `json:"option"`
}

type hintResult struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// use cases. The protocol is strictly request/response: actions are applied
// one at a time, which is also what keeps the session single-writer.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer h.service.DeleteGame(gameID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.handle(r, conn, gameID, inbound)
	}
}

func (h *WSHandler) handle(r *http.Request, conn *websocket.Conn, gameID string, inbound inboundMessage) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendError(conn, "invalid start payload")
			return
		}
		view, err := h.service.StartGame(r.Context(), gameID, domain.GameConfig{
			Filter:        domain.Filter{Genre: payload.Genre, Difficulty: payload.Difficulty},
			PlayerCount:   payload.Players,
			QuestionLimit: payload.QuestionLimit,
			TimeLimitSec:  payload.TimeLimitSec,
		})
		h.sendView(conn, gameID, view, err)

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendError(conn, "invalid answer payload")
			return
		}
		view, err := h.service.SubmitAnswer(gameID, payload.Player, payload.Option)
		h.sendView(conn, gameID, view, err)

	case "advance":
		view, err := h.service.AdvancePlayer(gameID)
		h.sendView(conn, gameID, view, err)

	case "next":
		view, err := h.service.NextQuestion(gameID)
		h.sendView(conn, gameID, view, err)

	case "state":
		view, err := h.service.State(gameID)
		h.sendView(conn, gameID, view, err)

	case "hint":
		text, err := h.service.RequestHint(r.Context(), gameID)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.send(conn, outboundMessage[hintResult]{Type: "hint", Payload: hintResult{Text: text}})

	case "end":
		rankings, err := h.service.EndGame(gameID)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.send(conn, outboundMessage[[]domain.RankingEntry]{Type: "gameOver", Payload: rankings})

	default:
		h.sendError(conn, "unsupported message type")
	}
}

// sendView reports the action error if any, then always sends the fresh
// state; a game that just finished also gets its final rankings.
func (h *WSHandler) sendView(conn *websocket.Conn, gameID string, view app.GameView, err error) {
	if err != nil {
		h.sendError(conn, err.Error())
		if view.GameID == "" {
			return
		}
	}
	h.send(conn, outboundMessage[app.GameView]{Type: "state", Payload: view})
	if view.Finished {
		if rankings, err := h.service.Rankings(gameID); err == nil {
			h.send(conn, outboundMessage[[]domain.RankingEntry]{Type: "gameOver", Payload: rankings})
		}
	}
}

func (h *WSHandler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}

func (h *WSHandler) send(conn *websocket.Conn, msg any) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
