package history

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
)

var (
	ErrEmptyMessage  = errors.New("message text is required")
	ErrInvalidSender = errors.New("unknown message sender")
)

// Service keeps the backend conversation in memory. There is a single
// process-wide conversation; Reset starts a fresh one under a new id.
type Service struct {
	mu        sync.RWMutex
	sessionID string
	entries   []chat.Entry
}

// NewService bootstraps an empty conversation.
func NewService() *Service {
	return &Service{
		sessionID: uuid.NewString(),
		entries:   make([]chat.Entry, 0, 16),
	}
}

// SessionID returns the identifier of the current conversation.
func (s *Service) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Append records a message at the end of the conversation.
func (s *Service) Append(_ context.Context, message chat.Message) (chat.Entry, error) {
	if strings.TrimSpace(message.Text) == "" {
		return chat.Entry{}, ErrEmptyMessage
	}
	if message.Sender != chat.SenderUser && message.Sender != chat.SenderBot {
		return chat.Entry{}, ErrInvalidSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := chat.Entry{
		ID:        uuid.NewString(),
		SessionID: s.sessionID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// Transcript returns a copy of the conversation messages in order.
func (s *Service) Transcript(_ context.Context) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]chat.Message, len(s.entries))
	for i, entry := range s.entries {
		messages[i] = entry.Message
	}
	return messages
}

// Entries returns a copy of the recorded entries in order.
func (s *Service) Entries(_ context.Context) []chat.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]chat.Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Reset drops the conversation and rotates the session id.
func (s *Service) Reset(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = uuid.NewString()
	s.entries = make([]chat.Entry, 0, 16)
	return s.sessionID
}
