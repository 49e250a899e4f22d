package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/geoadvisor/backend/internal/middleware"
	"github.com/geoadvisor/backend/internal/model/account"
	"github.com/geoadvisor/backend/internal/service/ai"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
)

// Handler serves the websocket chat transport. Each frame from the client
// is one submit; the server answers with the completed exchange or an
// error frame. The conversation state itself lives in the chat service, so
// the REST and websocket transports share one session.
type Handler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundFrame struct {
	Type        string   `json:"type"`
	Message     string   `json:"message,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

type outboundFrame struct {
	Type      string                   `json:"type"`
	Exchange  *account.MessageExchange `json:"exchange,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Timestamp int64                    `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.writeFrame(conn, outboundFrame{Type: "error", Error: "invalid frame"})
			continue
		}

		switch frame.Type {
		case "submit":
			h.handleSubmit(r, conn, token, frame)
		case "ping":
			h.writeFrame(conn, outboundFrame{Type: "pong"})
		default:
			h.writeFrame(conn, outboundFrame{Type: "error", Error: "unknown frame type"})
		}
	}
}

func (h *Handler) handleSubmit(r *http.Request, conn *websocket.Conn, token string, frame inboundFrame) {
	temperature := float64(ai.DefaultTemperature)
	if frame.Temperature != nil {
		temperature = *frame.Temperature
	}
	maxTokens := ai.DefaultMaxTokens
	if frame.MaxTokens != nil {
		maxTokens = *frame.MaxTokens
	}

	exchange, err := h.chatSvc.Submit(r.Context(), token, frame.Message, frame.Model, temperature, maxTokens)
	if err != nil {
		h.writeFrame(conn, outboundFrame{Type: "error", Error: submitErrorMessage(err)})
		return
	}

	h.writeFrame(conn, outboundFrame{Type: "exchange", Exchange: &exchange})
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame outboundFrame) {
	frame.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[ws] write error: %v", err)
	}
}

func submitErrorMessage(err error) string {
	if errors.Is(err, chatservice.ErrSessionNotFound) {
		return chatservice.ErrAuthRequired.Error()
	}
	return err.Error()
}
