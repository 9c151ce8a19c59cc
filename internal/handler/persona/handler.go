package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfsandbox/camacho-chat/internal/model/persona"
	"github.com/mfsandbox/camacho-chat/pkg/utils"
)

// Handler serves persona lookups.
type Handler struct {
	personas persona.Store
	activeID string
}

// New creates a persona handler reporting activeID as the active persona.
func New(personas persona.Store, activeID string) *Handler {
	return &Handler{
		personas: personas,
		activeID: activeID,
	}
}

// RegisterRoutes mounts the persona routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/persona", h.handleActivePersona)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}

// handleActivePersona returns the persona the chat endpoint speaks as.
func (h *Handler) handleActivePersona(w http.ResponseWriter, _ *http.Request) {
	p, ok := h.personas.FindByID(h.activeID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}
