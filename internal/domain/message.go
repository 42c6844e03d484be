package domain

import "time"

// Message is one line of a conversation transcript. IsUser marks who authored
// it; transcript order is creation-time order.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Content        string    `json:"content"`
	IsUser         bool      `json:"is_user"`
	Intent         string    `json:"intent,omitempty"`
	Confidence     float64   `json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
}
