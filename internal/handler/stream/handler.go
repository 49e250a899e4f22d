package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/geoadvisor/backend/internal/middleware"
	"github.com/geoadvisor/backend/internal/model/account"
	"github.com/geoadvisor/backend/internal/service/ai"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
	"github.com/geoadvisor/backend/pkg/utils"
)

// Responder is the completion boundary used for streaming replies.
type Responder interface {
	StreamingEnabled() bool
	Complete(ctx context.Context, req ai.Request) (string, error)
	StreamCompletion(ctx context.Context, req ai.Request) (*schema.StreamReader[*schema.Message], error)
}

// Handler relays completion output over Server-Sent Events.
type Handler struct {
	responder Responder
	chatSvc   *chatservice.Service
}

// New creates the stream handler.
func New(responder Responder, chatSvc *chatservice.Service) *Handler {
	return &Handler{responder: responder, chatSvc: chatSvc}
}

// RegisterRoutes registers the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

// Event is one streaming response chunk.
type Event struct {
	Event    string `json:"event"`
	Content  string `json:"content,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	token := middleware.SessionToken(r)
	session, err := h.chatSvc.CurrentSession(r.Context(), token)
	if err != nil || !session.LoggedIn() {
		utils.RespondError(w, http.StatusUnauthorized, chatservice.ErrAuthRequired.Error())
		return
	}

	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	req, err := h.buildRequest(r, session.History, message)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)
	h.sendEvent(w, flusher, Event{Event: "start"})

	response, err := h.dispatch(r.Context(), w, flusher, req)
	if err != nil {
		h.sendEvent(w, flusher, Event{Event: "error", Error: fmt.Sprintf("completion failed: %v", err)})
		return
	}

	if _, err := h.chatSvc.RecordExchange(r.Context(), token, message, response); err != nil {
		log.Printf("[stream] failed to record exchange for user=%s: %v", session.Username, err)
	}

	h.sendEvent(w, flusher, Event{Event: "end", Finished: true})
	log.Printf("[stream] completed response for user=%s model=%s", session.Username, req.Model)
}

func (h *Handler) buildRequest(r *http.Request, history []account.MessageExchange, message string) (ai.Request, error) {
	modelID := r.URL.Query().Get("model")
	if modelID == "" {
		modelID = ai.DefaultModel
	}

	temperature := float64(ai.DefaultTemperature)
	if raw := r.URL.Query().Get("temperature"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < ai.MinTemperature || parsed > ai.MaxTemperature {
			return ai.Request{}, fmt.Errorf("temperature must be between %.1f and %.1f", ai.MinTemperature, ai.MaxTemperature)
		}
		temperature = parsed
	}

	maxTokens := ai.DefaultMaxTokens
	if raw := r.URL.Query().Get("maxTokens"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < ai.MinMaxTokens || parsed > ai.MaxMaxTokens {
			return ai.Request{}, fmt.Errorf("max tokens must be between %d and %d", ai.MinMaxTokens, ai.MaxMaxTokens)
		}
		maxTokens = parsed
	}

	return ai.Request{
		Model:       modelID,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		History:     history,
		Message:     message,
	}, nil
}

// dispatch streams chunks when enabled, otherwise sends the full reply as a
// single message event. Either way the full assistant text is returned.
func (h *Handler) dispatch(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, req ai.Request) (string, error) {
	if !h.responder.StreamingEnabled() {
		response, err := h.responder.Complete(ctx, req)
		if err != nil {
			return "", err
		}
		h.sendEvent(w, flusher, Event{Event: "message", Content: response})
		return response, nil
	}

	stream, err := h.responder.StreamCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendEvent(w, flusher, Event{Event: "delta", Content: chunk.Content})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	h.sendEvent(w, flusher, Event{Event: "message", Content: response.Content})
	return response.Content, nil
}

func (h *Handler) sendEvent(w http.ResponseWriter, flusher http.Flusher, event Event) {
	utils.SendSSEChunk(w, flusher, event)
}
