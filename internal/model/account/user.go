package account

import "time"

// UserRecord is one account in the store. ChatHistory accumulates every
// exchange the user ever completed, across logins.
type UserRecord struct {
	Username     string            `json:"username"`
	PasswordHash string            `json:"passwordHash"`
	Email        string            `json:"email"`
	CreatedAt    time.Time         `json:"createdAt"`
	ChatHistory  []MessageExchange `json:"chatHistory"`
}

// MessageExchange pairs a user message with the assistant reply. Exchanges
// are immutable once created and append-only in insertion order.
type MessageExchange struct {
	UserText      string    `json:"userText"`
	AssistantText string    `json:"assistantText"`
	Timestamp     time.Time `json:"timestamp"`
}
