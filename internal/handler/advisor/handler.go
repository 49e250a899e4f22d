package advisor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	advisormodel "github.com/geoadvisor/backend/internal/model/advisor"
	"github.com/geoadvisor/backend/internal/service/ai"
	"github.com/geoadvisor/backend/pkg/utils"
)

// Handler serves the static advisor metadata: example questions and the
// selectable model list.
type Handler struct {
	examples advisormodel.Store
}

// New creates the advisor handler.
func New(examples advisormodel.Store) *Handler {
	return &Handler{examples: examples}
}

// RegisterRoutes registers the advisor endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/advisor/examples", h.handleExamples)
	r.Get("/advisor/models", h.handleModels)
}

func (h *Handler) handleExamples(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"examples": h.examples.List()})
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"models":  ai.Models(),
		"default": ai.DefaultModel,
	})
}
