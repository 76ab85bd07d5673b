package interfaces

import (
	"context"

	"parley/backend/internal/model"
	"parley/backend/internal/service"
)

// Contracts for the core services. The API layer depends on these instead of
// concrete types, which keeps handlers testable with mocks.

// ChatService is the send/stream/regenerate orchestration contract.
type ChatService interface {
	SendMessage(ctx context.Context, userID, conversationID string, req *service.SendMessageRequest) (*model.Message, error)
	StreamMessage(ctx context.Context, userID, conversationID string, req *service.SendMessageRequest, events chan<- model.StreamEvent)
	RegenerateMessage(ctx context.Context, userID, conversationID, messageID string, req *service.SendMessageRequest, events chan<- model.StreamEvent)
	DeleteMessageCascade(ctx context.Context, userID, conversationID, messageID string) error
	EditMessage(ctx context.Context, userID, conversationID, messageID, content string, deleteSubsequent bool) error
}

// ConversationService is the conversation lifecycle contract.
type ConversationService interface {
	Create(ctx context.Context, userID string, req *service.CreateConversationRequest) (*model.Conversation, error)
	List(ctx context.Context, userID string) ([]*model.ConversationListItem, error)
	GetFull(ctx context.Context, userID, conversationID string) (*model.FullConversation, error)
	UpdateTitle(ctx context.Context, userID, conversationID, title string) error
	Delete(ctx context.Context, userID, conversationID string) error
}
