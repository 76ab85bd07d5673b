package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"parley/backend/internal/credential"
	app_errors "parley/backend/internal/errors"
	"parley/backend/internal/model"
	"parley/backend/internal/repository"
)

// ConversationService manages conversation lifecycle around the chat core.
type ConversationService struct {
	repo        repository.Repository
	credentials credential.Service
}

// CreateConversationRequest binds a new thread to a credential and a model.
type CreateConversationRequest struct {
	CredentialID string `json:"credential_id" validate:"required,uuid4"`
	Title        string `json:"title" validate:"required,min=1,max=200"`
	Model        string `json:"model" validate:"required,min=1,max=100"`
	SystemPrompt string `json:"system_prompt,omitempty" validate:"max=8000"`
}

func NewConversationService(repo repository.Repository, credentials credential.Service) *ConversationService {
	return &ConversationService{repo: repo, credentials: credentials}
}

// Create validates that the credential exists, belongs to the user and is
// active. Provider support is deliberately not checked here: the registry is
// consulted lazily at send time, since adapters can be registered (and
// credentials deactivated) after creation.
func (s *ConversationService) Create(ctx context.Context, userID string, req *CreateConversationRequest) (*model.Conversation, error) {
	cred, err := s.credentials.Get(ctx, userID, req.CredentialID)
	if err != nil {
		return nil, err
	}
	if !cred.IsActive {
		return nil, fmt.Errorf("%w: credential is not active", app_errors.ErrValidation)
	}

	now := time.Now().UTC()
	conversation := &model.Conversation{
		ID:           uuid.NewString(),
		UserID:       userID,
		CredentialID: req.CredentialID,
		Title:        req.Title,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("could not create conversation: %w", err)
	}
	slog.Info("conversation created", "conversation_id", conversation.ID, "model", conversation.Model)
	return conversation, nil
}

// List returns the user's conversations, newest activity first, with message
// counts and a preview of the last assistant reply.
func (s *ConversationService) List(ctx context.Context, userID string) ([]*model.ConversationListItem, error) {
	return s.repo.ListConversations(ctx, userID)
}

// GetFull returns a conversation's metadata and its full ordered history.
func (s *ConversationService) GetFull(ctx context.Context, userID, conversationID string) (*model.FullConversation, error) {
	conversation, err := s.getOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("could not get messages: %w", err)
	}
	return &model.FullConversation{Conversation: *conversation, Messages: messages}, nil
}

// UpdateTitle renames a conversation.
func (s *ConversationService) UpdateTitle(ctx context.Context, userID, conversationID, title string) error {
	if _, err := s.getOwned(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.repo.UpdateConversationTitle(ctx, conversationID, title); err != nil {
		return fmt.Errorf("could not update title: %w", err)
	}
	return nil
}

// Delete removes a conversation; its messages cascade.
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	if _, err := s.getOwned(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.repo.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("could not delete conversation: %w", err)
	}
	slog.Info("conversation deleted", "conversation_id", conversationID)
	return nil
}

func (s *ConversationService) getOwned(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conversation, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: conversation not found", app_errors.ErrNotFound)
		}
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, fmt.Errorf("%w: conversation belongs to another user", app_errors.ErrPermission)
	}
	return conversation, nil
}
