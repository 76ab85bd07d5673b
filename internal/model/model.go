package model

import (
	"encoding/json"
	"time"
)

// Credential stores one user's access configuration for an LLM provider.
// The secret itself is kept encrypted at rest; only the credential service
// ever sees the plaintext.
type Credential struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Provider        string     `json:"provider"` // openai, anthropic, ollama, openai-compatible
	Name            string     `json:"name"`
	EncryptedSecret string     `json:"-"`
	BaseURL         string     `json:"base_url,omitempty"`
	RPMLimit        int        `json:"rpm_limit"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastUsedAt      *time.Time `json:"last_used_at,omitempty"`
}

// Conversation is a named thread bound to one credential and one model.
type Conversation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CredentialID string    `json:"credential_id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConversationListItem is the summary row returned by conversation listings.
type ConversationListItem struct {
	Conversation
	MessageCount int    `json:"message_count"`
	LastMessage  string `json:"last_message,omitempty"`
}

// Usage holds the token accounting for one assistant message. Estimated is
// set when the provider did not report counts and they were derived from
// text length instead.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost"`
	Estimated        bool    `json:"estimated,omitempty"`
}

// Message is a single entry in a conversation. Usage is only present on
// assistant messages.
type Message struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Role           string          `json:"role"` // user, assistant, system
	Content        string          `json:"content"`
	Usage          *Usage          `json:"usage,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FullConversation includes the conversation metadata and all its messages
// in chronological order.
type FullConversation struct {
	Conversation
	Messages []Message `json:"messages"`
}

// StreamEvent is one chunk of a streaming send as delivered to the client
// transport. A terminal event carries either the final message (with usage)
// or an error. ErrorKind lets clients distinguish "try again" from "fix your
// API key" without parsing the message text.
type StreamEvent struct {
	Content   string   `json:"content,omitempty"`
	Done      bool     `json:"done,omitempty"`
	Message   *Message `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
}
