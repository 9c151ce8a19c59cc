package chat

import "time"

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Label returns the display prefix rendered before a message.
func (s Sender) Label() string {
	if s == SenderUser {
		return "You: "
	}
	return "President Camacho: "
}

// Message is a single immutable transcript entry.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// UserMessage builds a user-authored message.
func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// BotMessage builds a bot-authored message.
func BotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// Entry is a message recorded in the backend conversation, served by GET /history.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
