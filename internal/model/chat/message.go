package chat

import "time"

// SenderKind identifies who produced a message.
type SenderKind string

const (
	SenderUser  SenderKind = "user"
	SenderBot   SenderKind = "bot"
	SenderAgent SenderKind = "agent" // reserved for a human-operator path
)

// Valid reports whether the kind is one of the known senders.
func (k SenderKind) Valid() bool {
	switch k {
	case SenderUser, SenderBot, SenderAgent:
		return true
	}
	return false
}

// Message is a single immutable turn in a conversation. The store assigns
// ID and CreatedAt on insert; a message with an empty ID exists only
// client-side (guest welcome) and is never persisted.
type Message struct {
	ID             string     `json:"id" db:"id"`
	ConversationID string     `json:"conversationId" db:"conversation_id"`
	Text           string     `json:"text" db:"text"`
	Sender         SenderKind `json:"sender" db:"sender"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}
