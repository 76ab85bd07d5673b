package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/backend/internal/model"
)

func setupRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mockDB
}

var messageColumns = []string{
	"id", "conversation_id", "role", "content", "prompt_tokens", "completion_tokens",
	"total_tokens", "cost", "estimated", "metadata", "created_at",
}

func TestSQLiteRepository_GetConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "user_id", "credential_id", "title", "model", "system_prompt", "created_at", "updated_at"}).
			AddRow("conv1", "user1", "cred1", "Title", "gpt-4", nil, now, now)
		mockDB.ExpectQuery("SELECT (.+) FROM conversations WHERE id = ?").
			WithArgs("conv1").WillReturnRows(rows)

		c, err := repo.GetConversation(ctx, "conv1")
		require.NoError(t, err)
		assert.Equal(t, "conv1", c.ID)
		assert.Empty(t, c.SystemPrompt)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectQuery("SELECT (.+) FROM conversations WHERE id = ?").
			WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetConversation(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteRepository_ListConversations(t *testing.T) {
	repo, mockDB := setupRepo(t)
	now := time.Now().UTC()

	longPreview := make([]rune, 150)
	for i := range longPreview {
		longPreview[i] = 'x'
	}

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "credential_id", "title", "model", "system_prompt",
		"created_at", "updated_at", "count", "last",
	}).
		AddRow("conv1", "user1", "cred1", "First", "gpt-4", "sys", now, now, 4, string(longPreview)).
		AddRow("conv2", "user1", "cred1", "Second", "gpt-4o", nil, now, now, 0, "")
	mockDB.ExpectQuery("SELECT (.+) FROM conversations c").
		WithArgs("user1").WillReturnRows(rows)

	items, err := repo.ListConversations(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 4, items[0].MessageCount)
	// Long previews are truncated with an ellipsis marker.
	assert.Len(t, []rune(items[0].LastMessage), 103)
	assert.Equal(t, 0, items[1].MessageCount)
	assert.Empty(t, items[1].LastMessage)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_AddMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Inserts and touches the conversation in one transaction", func(t *testing.T) {
		repo, mockDB := setupRepo(t)

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO messages").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mockDB.ExpectExec("UPDATE conversations SET updated_at").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectCommit()

		err := repo.AddMessage(ctx, "conv1", &model.Message{
			ID:        "m1",
			Role:      "assistant",
			Content:   "Hello",
			Usage:     &model.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, Cost: 0.001},
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Insert failure rolls back", func(t *testing.T) {
		repo, mockDB := setupRepo(t)

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO messages").WillReturnError(sql.ErrConnDone)
		mockDB.ExpectRollback()

		err := repo.AddMessage(ctx, "conv1", &model.Message{ID: "m1", Role: "user", Content: "Hi"})
		require.Error(t, err)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestSQLiteRepository_GetMessages(t *testing.T) {
	repo, mockDB := setupRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(messageColumns).
		AddRow("m1", "conv1", "user", "Hello", nil, nil, nil, nil, nil, nil, now).
		AddRow("m2", "conv1", "assistant", "Hi!", 10, 5, 15, 0.001, false, nil, now)
	mockDB.ExpectQuery("SELECT (.+) FROM messages").
		WithArgs("conv1").WillReturnRows(rows)

	messages, err := repo.GetMessages(context.Background(), "conv1")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	// User messages carry no usage; assistant messages do.
	assert.Nil(t, messages[0].Usage)
	require.NotNil(t, messages[1].Usage)
	assert.Equal(t, 15, messages[1].Usage.TotalTokens)
	assert.InDelta(t, 0.001, messages[1].Usage.Cost, 1e-9)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_UpdateMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectExec("UPDATE messages").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateMessage(ctx, "m1", "new content", &model.Usage{TotalTokens: 3})
		assert.NoError(t, err)
	})

	t.Run("Unknown message", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectExec("UPDATE messages").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateMessage(ctx, "missing", "new content", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteRepository_DeleteMessagesFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the anchor and everything after it", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectQuery("SELECT rowid FROM messages").
			WithArgs("m2", "conv1").
			WillReturnRows(sqlmock.NewRows([]string{"rowid"}).AddRow(int64(7)))
		mockDB.ExpectExec(`DELETE FROM messages WHERE conversation_id = \? AND rowid >= \?`).
			WithArgs("conv1", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		require.NoError(t, repo.DeleteMessagesFrom(ctx, "conv1", "m2"))
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Unknown anchor", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectQuery("SELECT rowid FROM messages").
			WithArgs("missing", "conv1").
			WillReturnError(sql.ErrNoRows)

		assert.ErrorIs(t, repo.DeleteMessagesFrom(ctx, "conv1", "missing"), ErrNotFound)
	})
}

func TestSQLiteRepository_DeleteMessagesAfter(t *testing.T) {
	repo, mockDB := setupRepo(t)
	mockDB.ExpectQuery("SELECT rowid FROM messages").
		WithArgs("m2", "conv1").
		WillReturnRows(sqlmock.NewRows([]string{"rowid"}).AddRow(int64(7)))
	// Strictly later rows only; the anchor itself survives.
	mockDB.ExpectExec(`DELETE FROM messages WHERE conversation_id = \? AND rowid > \?`).
		WithArgs("conv1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteMessagesAfter(context.Background(), "conv1", "m2"))
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_Credentials(t *testing.T) {
	ctx := context.Background()

	t.Run("GetCredential maps nullable columns", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "provider", "name", "encrypted_secret", "base_url",
			"rpm_limit", "is_active", "created_at", "updated_at", "last_used_at",
		}).AddRow("cred1", "user1", "ollama", "Local", nil, "http://localhost:11434", 60, true, now, now, nil)
		mockDB.ExpectQuery("SELECT (.+) FROM credentials WHERE id = ?").
			WithArgs("cred1").WillReturnRows(rows)

		c, err := repo.GetCredential(ctx, "cred1")
		require.NoError(t, err)
		assert.Empty(t, c.EncryptedSecret)
		assert.Equal(t, "http://localhost:11434", c.BaseURL)
		assert.Nil(t, c.LastUsedAt)
	})

	t.Run("DeactivateCredential requires an existing row", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectExec("UPDATE credentials SET is_active").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeactivateCredential(ctx, "missing"), ErrNotFound)
	})

	t.Run("TouchCredential tolerates missing rows", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectExec("UPDATE credentials SET last_used_at").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.TouchCredential(ctx, "missing"))
	})
}
