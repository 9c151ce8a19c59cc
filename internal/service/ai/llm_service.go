package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/mfsandbox/camacho-chat/internal/config"
	"github.com/mfsandbox/camacho-chat/internal/model/chat"
	"github.com/mfsandbox/camacho-chat/internal/model/persona"
)

// ErrEmptyReply is returned when the model produced only whitespace.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Service encapsulates AI-powered chat functionality
type Service struct {
	persona      persona.Persona
	historyLimit int
	logger       *zap.Logger
	chain        compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates a Service backed by the Ark chat model from cfg.
func NewService(ctx context.Context, personas persona.Store, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, personas, cfg, logger)
}

// NewServiceWithModel wires an existing chat model into the prompt chain.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, personas persona.Store, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	p, ok := personas.FindByID(cfg.PersonaID)
	if !ok {
		return nil, fmt.Errorf("persona %q not found", cfg.PersonaID)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		persona:      p,
		historyLimit: cfg.HistoryLimit,
		logger:       logger,
		chain:        runnable,
	}, nil
}

// GenerateReply asks the model for the persona's reply to userMessage,
// given the prior conversation.
func (s *Service) GenerateReply(ctx context.Context, history []chat.Message, userMessage string) (string, error) {
	input := buildChainInput(&s.persona, history, userMessage, s.historyLimit)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	s.logger.Info("generated response",
		zap.String("persona", s.persona.ID),
		zap.Int("history", len(history)),
		zap.Int("length", len(reply)),
	)
	return reply, nil
}

func buildChainInput(p *persona.Persona, history []chat.Message, userMessage string, limit int) map[string]any {
	return map[string]any{
		"system":  NewPersonaPromptManager().BuildSystemPrompt(p),
		"history": buildHistoryMessages(history, limit),
		"query":   userMessage,
	}
}

func buildHistoryMessages(messages []chat.Message, limit int) []*schema.Message {
	if len(messages) == 0 || limit <= 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > limit {
		startIdx = len(messages) - limit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.SenderBot:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return history
}
