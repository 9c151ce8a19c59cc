package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mfsandbox/camacho-chat/internal/handler/chat"
	personaHandler "github.com/mfsandbox/camacho-chat/internal/handler/persona"
	middlewarePkg "github.com/mfsandbox/camacho-chat/internal/middleware"
	personaModel "github.com/mfsandbox/camacho-chat/internal/model/persona"
	"github.com/mfsandbox/camacho-chat/internal/service/history"
	"github.com/mfsandbox/camacho-chat/pkg/utils"
)

// Deps groups the services the router exposes.
type Deps struct {
	History  *history.Service
	Personas personaModel.Store
	// PersonaID is the persona the chat endpoint speaks as.
	PersonaID string
	// Generator may be nil when no model is configured; chat routes then answer 503.
	Generator   chat.Generator
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORSOrigins))

	chatHandler := chat.New(deps.History, deps.Generator, logger, originChecker(deps.CORSOrigins))
	chatHandler.RegisterRoutes(r)

	if deps.Personas != nil {
		personaHandler.New(deps.Personas, deps.PersonaID).RegisterRoutes(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"session": deps.History.SessionID(),
			"ai":      deps.Generator != nil,
		})
	})

	return r
}

// originChecker lets non-browser clients (no Origin header) and configured
// origins open websockets.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			o = strings.TrimRight(strings.TrimSpace(o), "/")
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
