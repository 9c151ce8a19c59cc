package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
	"github.com/mfsandbox/camacho-chat/internal/service/history"
	"github.com/mfsandbox/camacho-chat/pkg/utils"
)

const generationFailed = "Failed to generate response from President Camacho"

var (
	errMessageRequired = errors.New("message is required")
	errAIUnavailable   = errors.New("ai service unavailable")
	errGeneration      = errors.New(generationFailed)
)

// Generator produces the bot reply for a user message given the prior conversation.
type Generator interface {
	GenerateReply(ctx context.Context, history []chat.Message, userMessage string) (string, error)
}

// Handler serves the chat endpoints.
type Handler struct {
	history  *history.Service
	gen      Generator
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a chat handler. A nil gen makes every chat request answer 503.
func New(historySvc *history.Service, gen Generator, logger *zap.Logger, checkOrigin func(*http.Request) bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		history: historySvc,
		gen:     gen,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/reset", h.handleReset)
	r.Get("/history", h.handleHistory)
	r.Get("/ws", h.handleWebSocket)
}

// handleChat answers a single user message.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chat.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.exchange(r.Context(), payload.Message)
	switch {
	case errors.Is(err, errMessageRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errAIUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, generationFailed)
	default:
		utils.RespondJSON(w, http.StatusOK, chat.Reply{Reply: &reply})
	}
}

// handleReset clears the conversation history.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := h.history.Reset(r.Context())
	h.logger.Info("conversation reset", zap.String("session", sessionID))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "Conversation history reset"})
}

// historyResponse is the body of GET /history.
type historyResponse struct {
	SessionID string       `json:"sessionId"`
	Entries   []chat.Entry `json:"entries"`
}

// handleHistory lists the recorded turns of the current conversation.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, historyResponse{
		SessionID: h.history.SessionID(),
		Entries:   h.history.Entries(r.Context()),
	})
}

// handleWebSocket answers every inbound {"message"} frame with a reply frame.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		var payload chat.Request
		if err := conn.ReadJSON(&payload); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		var frame chat.Reply
		reply, err := h.exchange(ctx, payload.Message)
		switch {
		case errors.Is(err, errMessageRequired), errors.Is(err, errAIUnavailable):
			frame.Error = err.Error()
		case err != nil:
			frame.Error = generationFailed
		default:
			frame.Reply = &reply
		}

		if err := conn.WriteJSON(frame); err != nil {
			h.logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

// exchange records the user message, asks the generator for a reply and
// records that too. The user message stays in history when generation fails.
func (h *Handler) exchange(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errMessageRequired
	}
	if h.gen == nil {
		return "", errAIUnavailable
	}

	prior := h.history.Transcript(ctx)
	if _, err := h.history.Append(ctx, chat.UserMessage(message)); err != nil {
		return "", err
	}

	reply, err := h.gen.GenerateReply(ctx, prior, message)
	if err != nil {
		h.logger.Error("reply generation failed", zap.Error(err), zap.String("session", h.history.SessionID()))
		return "", errors.Join(errGeneration, err)
	}

	if _, err := h.history.Append(ctx, chat.BotMessage(reply)); err != nil {
		h.logger.Warn("failed to record reply", zap.Error(err))
	}
	return reply, nil
}
