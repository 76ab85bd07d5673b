package repository

import (
	"context"

	"parley/backend/internal/model"
)

// Repository defines the data storage operations the services depend on.
// Each call is atomic on its own; the services never assume transactions
// spanning a provider round-trip.
type Repository interface {
	CreateConversation(ctx context.Context, conversation *model.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*model.ConversationListItem, error)
	UpdateConversationTitle(ctx context.Context, conversationID, title string) error
	DeleteConversation(ctx context.Context, conversationID string) error

	// AddMessage appends a message and touches the conversation's updated_at
	// in the same transaction. Insertion order is the canonical chat order.
	AddMessage(ctx context.Context, conversationID string, message *model.Message) error
	GetMessage(ctx context.Context, messageID string) (*model.Message, error)
	// GetMessages returns the conversation history in chronological order.
	GetMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	// UpdateMessage replaces a message's content and usage in place.
	UpdateMessage(ctx context.Context, messageID, content string, usage *model.Usage) error
	// DeleteMessagesFrom removes the given message and every later message
	// in the same conversation.
	DeleteMessagesFrom(ctx context.Context, conversationID, fromMessageID string) error
	// DeleteMessagesAfter removes every message strictly later than the
	// given one, leaving the message itself in place.
	DeleteMessagesAfter(ctx context.Context, conversationID, afterMessageID string) error

	CreateCredential(ctx context.Context, credential *model.Credential) error
	GetCredential(ctx context.Context, credentialID string) (*model.Credential, error)
	ListCredentials(ctx context.Context, userID string) ([]*model.Credential, error)
	DeactivateCredential(ctx context.Context, credentialID string) error
	TouchCredential(ctx context.Context, credentialID string) error
}
