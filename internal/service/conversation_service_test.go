package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cred_mocks "parley/backend/internal/credential/mocks"
	app_errors "parley/backend/internal/errors"
	"parley/backend/internal/model"
	"parley/backend/internal/repository"
	mock_repo "parley/backend/internal/repository/mocks"
	"parley/backend/internal/service"
)

func setupConversationService(t *testing.T) (*service.ConversationService, *mock_repo.MockRepository, *cred_mocks.MockService) {
	repo := mock_repo.NewMockRepository(t)
	credentials := cred_mocks.NewMockService(t)
	return service.NewConversationService(repo, credentials), repo, credentials
}

func TestConversationService_Create(t *testing.T) {
	ctx := context.Background()
	req := &service.CreateConversationRequest{
		CredentialID: "cred1",
		Title:        "Onboarding",
		Model:        "gpt-4o",
		SystemPrompt: "Be concise.",
	}

	t.Run("Success", func(t *testing.T) {
		svc, repo, credentials := setupConversationService(t)
		credentials.On("Get", ctx, "user1", "cred1").
			Return(&model.Credential{ID: "cred1", UserID: "user1", IsActive: true}, nil).Once()
		repo.On("CreateConversation", ctx, mock.MatchedBy(func(c *model.Conversation) bool {
			return c.UserID == "user1" && c.Model == "gpt-4o" && c.SystemPrompt == "Be concise." && c.ID != ""
		})).Return(nil).Once()

		conversation, err := svc.Create(ctx, "user1", req)
		require.NoError(t, err)
		assert.Equal(t, "Onboarding", conversation.Title)
		assert.Equal(t, "cred1", conversation.CredentialID)
	})

	t.Run("Inactive credential is rejected", func(t *testing.T) {
		svc, _, credentials := setupConversationService(t)
		credentials.On("Get", ctx, "user1", "cred1").
			Return(&model.Credential{ID: "cred1", UserID: "user1", IsActive: false}, nil).Once()

		_, err := svc.Create(ctx, "user1", req)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Missing credential surfaces", func(t *testing.T) {
		svc, _, credentials := setupConversationService(t)
		credentials.On("Get", ctx, "user1", "cred1").Return(nil, app_errors.ErrNotFound).Once()

		_, err := svc.Create(ctx, "user1", req)
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestConversationService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupConversationService(t)

	expected := []*model.ConversationListItem{
		{Conversation: model.Conversation{ID: "conv1"}, MessageCount: 4, LastMessage: "Sure, here is"},
	}
	repo.On("ListConversations", ctx, "user1").Return(expected, nil).Once()

	items, err := svc.List(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, expected, items)
}

func TestConversationService_GetFull(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := setupConversationService(t)
		conversation := &model.Conversation{ID: "conv1", UserID: "user1"}
		messages := []model.Message{{ID: "m1", Role: "user"}, {ID: "m2", Role: "assistant"}}

		repo.On("GetConversation", ctx, "conv1").Return(conversation, nil).Once()
		repo.On("GetMessages", ctx, "conv1").Return(messages, nil).Once()

		full, err := svc.GetFull(ctx, "user1", "conv1")
		require.NoError(t, err)
		assert.Equal(t, "conv1", full.Conversation.ID)
		assert.Len(t, full.Messages, 2)
	})

	t.Run("Another user's conversation is forbidden", func(t *testing.T) {
		svc, repo, _ := setupConversationService(t)
		repo.On("GetConversation", ctx, "conv1").
			Return(&model.Conversation{ID: "conv1", UserID: "someone-else"}, nil).Once()

		_, err := svc.GetFull(ctx, "user1", "conv1")
		assert.ErrorIs(t, err, app_errors.ErrPermission)
	})

	t.Run("Unknown conversation", func(t *testing.T) {
		svc, repo, _ := setupConversationService(t)
		repo.On("GetConversation", ctx, "conv1").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.GetFull(ctx, "user1", "conv1")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestConversationService_UpdateTitle(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupConversationService(t)

	repo.On("GetConversation", ctx, "conv1").Return(&model.Conversation{ID: "conv1", UserID: "user1"}, nil).Once()
	repo.On("UpdateConversationTitle", ctx, "conv1", "Renamed").Return(nil).Once()

	assert.NoError(t, svc.UpdateTitle(ctx, "user1", "conv1", "Renamed"))
}

func TestConversationService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupConversationService(t)

	repo.On("GetConversation", ctx, "conv1").Return(&model.Conversation{ID: "conv1", UserID: "user1"}, nil).Once()
	repo.On("DeleteConversation", ctx, "conv1").Return(nil).Once()

	assert.NoError(t, svc.Delete(ctx, "user1", "conv1"))
}
