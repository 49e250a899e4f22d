package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geoadvisor/backend/internal/middleware"
	"github.com/geoadvisor/backend/internal/service/ai"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
	"github.com/geoadvisor/backend/pkg/utils"
)

// Handler serves the synchronous chat endpoints.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes registers the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/submit", h.handleSubmit)
	r.Get("/chat/transcript", h.handleTranscript)
	r.Post("/chat/clear", h.handleClear)
}

// SubmitRequest is the JSON body for POST /api/chat/submit. Temperature and
// maxTokens are optional; absent values fall back to the UI defaults.
type SubmitRequest struct {
	Message     string   `json:"message"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"maxTokens"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	temperature := ai.DefaultTemperature
	if payload.Temperature != nil {
		temperature = *payload.Temperature
	}
	maxTokens := ai.DefaultMaxTokens
	if payload.MaxTokens != nil {
		maxTokens = *payload.MaxTokens
	}

	token := middleware.SessionToken(r)
	exchange, err := h.chatSvc.Submit(r.Context(), token, payload.Message, payload.Model, temperature, maxTokens)
	if err != nil {
		respondSubmitError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, exchange)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.chatSvc.Transcript(r.Context(), middleware.SessionToken(r))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, chatservice.ErrAuthRequired.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"exchanges": transcript})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.ClearHistory(r.Context(), middleware.SessionToken(r)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, chatservice.ErrAuthRequired.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "chat cleared"})
}

func respondSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatservice.ErrAuthRequired), errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusUnauthorized, chatservice.ErrAuthRequired.Error())
	case errors.Is(err, chatservice.ErrEmptyMessage), errors.Is(err, chatservice.ErrInvalidParams):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatservice.ErrNotConfigured):
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, chatservice.ErrCompletion):
		utils.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
