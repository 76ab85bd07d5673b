package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parley/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps an already-migrated SQLite handle.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

// --- Conversations ---

func (r *sqliteRepository) CreateConversation(ctx context.Context, c *model.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_id, credential_id, title, model, system_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.CredentialID, c.Title, c.Model, nullString(c.SystemPrompt), c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *sqliteRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	query := `
		SELECT id, user_id, credential_id, title, model, system_prompt, created_at, updated_at
		FROM conversations WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, conversationID)

	var c model.Conversation
	var systemPrompt sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.CredentialID, &c.Title, &c.Model, &systemPrompt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.SystemPrompt = systemPrompt.String
	return &c, nil
}

func (r *sqliteRepository) ListConversations(ctx context.Context, userID string) ([]*model.ConversationListItem, error) {
	query := `
		SELECT c.id, c.user_id, c.credential_id, c.title, c.model, c.system_prompt, c.created_at, c.updated_at,
			COUNT(m.id),
			COALESCE((
				SELECT content FROM messages
				WHERE conversation_id = c.id AND role = 'assistant'
				ORDER BY rowid DESC LIMIT 1
			), '')
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		WHERE c.user_id = ?
		GROUP BY c.id
		ORDER BY c.updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.ConversationListItem
	for rows.Next() {
		var item model.ConversationListItem
		var systemPrompt sql.NullString
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.CredentialID, &item.Title, &item.Model,
			&systemPrompt, &item.CreatedAt, &item.UpdatedAt,
			&item.MessageCount, &item.LastMessage,
		); err != nil {
			return nil, err
		}
		item.SystemPrompt = systemPrompt.String
		item.LastMessage = truncatePreview(item.LastMessage, 100)
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *sqliteRepository) UpdateConversationTitle(ctx context.Context, conversationID, title string) error {
	query := "UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, title, time.Now().UTC(), conversationID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *sqliteRepository) DeleteConversation(ctx context.Context, conversationID string) error {
	// Messages cascade via the foreign key.
	result, err := r.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", conversationID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// --- Messages ---

func (r *sqliteRepository) AddMessage(ctx context.Context, conversationID string, m *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO messages (id, conversation_id, role, content, prompt_tokens, completion_tokens,
			total_tokens, cost, estimated, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	promptTokens, completionTokens, totalTokens, cost, estimated := usageColumns(m.Usage)
	var metadata sql.NullString
	if len(m.Metadata) > 0 && string(m.Metadata) != "null" {
		metadata = sql.NullString{String: string(m.Metadata), Valid: true}
	}
	_, err = tx.ExecContext(ctx, insertQuery,
		m.ID, conversationID, m.Role, m.Content,
		promptTokens, completionTokens, totalTokens, cost, estimated,
		metadata, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	touchQuery := "UPDATE conversations SET updated_at = ? WHERE id = ?"
	if _, err := tx.ExecContext(ctx, touchQuery, time.Now().UTC(), conversationID); err != nil {
		return fmt.Errorf("could not update conversation timestamp: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessage(ctx context.Context, messageID string) (*model.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, prompt_tokens, completion_tokens,
			total_tokens, cost, estimated, metadata, created_at
		FROM messages WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, messageID)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *sqliteRepository) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	// rowid breaks created_at ties; SQLite rowids are insertion-ordered,
	// which is exactly the canonical chat order.
	query := `
		SELECT id, conversation_id, role, content, prompt_tokens, completion_tokens,
			total_tokens, cost, estimated, metadata, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func (r *sqliteRepository) UpdateMessage(ctx context.Context, messageID, content string, usage *model.Usage) error {
	promptTokens, completionTokens, totalTokens, cost, estimated := usageColumns(usage)
	query := `
		UPDATE messages
		SET content = ?, prompt_tokens = ?, completion_tokens = ?, total_tokens = ?, cost = ?, estimated = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		content, promptTokens, completionTokens, totalTokens, cost, estimated, messageID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *sqliteRepository) DeleteMessagesFrom(ctx context.Context, conversationID, fromMessageID string) error {
	var fromRowID int64
	row := r.db.QueryRowContext(ctx,
		"SELECT rowid FROM messages WHERE id = ? AND conversation_id = ?", fromMessageID, conversationID)
	if err := row.Scan(&fromRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	_, err := r.db.ExecContext(ctx,
		"DELETE FROM messages WHERE conversation_id = ? AND rowid >= ?", conversationID, fromRowID)
	return err
}

func (r *sqliteRepository) DeleteMessagesAfter(ctx context.Context, conversationID, afterMessageID string) error {
	var afterRowID int64
	row := r.db.QueryRowContext(ctx,
		"SELECT rowid FROM messages WHERE id = ? AND conversation_id = ?", afterMessageID, conversationID)
	if err := row.Scan(&afterRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	_, err := r.db.ExecContext(ctx,
		"DELETE FROM messages WHERE conversation_id = ? AND rowid > ?", conversationID, afterRowID)
	return err
}

// --- Credentials ---

func (r *sqliteRepository) CreateCredential(ctx context.Context, c *model.Credential) error {
	query := `
		INSERT INTO credentials (id, user_id, provider, name, encrypted_secret, base_url,
			rpm_limit, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Provider, c.Name,
		nullString(c.EncryptedSecret), nullString(c.BaseURL),
		c.RPMLimit, c.IsActive, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *sqliteRepository) GetCredential(ctx context.Context, credentialID string) (*model.Credential, error) {
	query := `
		SELECT id, user_id, provider, name, encrypted_secret, base_url,
			rpm_limit, is_active, created_at, updated_at, last_used_at
		FROM credentials WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, credentialID)
	c, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *sqliteRepository) ListCredentials(ctx context.Context, userID string) ([]*model.Credential, error) {
	query := `
		SELECT id, user_id, provider, name, encrypted_secret, base_url,
			rpm_limit, is_active, created_at, updated_at, last_used_at
		FROM credentials WHERE user_id = ? ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credentials []*model.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, c)
	}
	return credentials, rows.Err()
}

func (r *sqliteRepository) DeactivateCredential(ctx context.Context, credentialID string) error {
	query := "UPDATE credentials SET is_active = FALSE, updated_at = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), credentialID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *sqliteRepository) TouchCredential(ctx context.Context, credentialID string) error {
	query := "UPDATE credentials SET last_used_at = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), credentialID)
	return err
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var (
		m                                      model.Message
		promptTokens, completionTokens, totals sql.NullInt64
		cost                                   sql.NullFloat64
		estimated                              sql.NullBool
		metadata                               sql.NullString
	)
	if err := row.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content,
		&promptTokens, &completionTokens, &totals, &cost, &estimated,
		&metadata, &m.CreatedAt); err != nil {
		return nil, err
	}
	if totals.Valid {
		m.Usage = &model.Usage{
			PromptTokens:     int(promptTokens.Int64),
			CompletionTokens: int(completionTokens.Int64),
			TotalTokens:      int(totals.Int64),
			Cost:             cost.Float64,
			Estimated:        estimated.Bool,
		}
	}
	if metadata.Valid {
		m.Metadata = []byte(metadata.String)
	}
	return &m, nil
}

func scanCredential(row rowScanner) (*model.Credential, error) {
	var (
		c                        model.Credential
		encryptedSecret, baseURL sql.NullString
		lastUsedAt               sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Provider, &c.Name,
		&encryptedSecret, &baseURL, &c.RPMLimit, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt, &lastUsedAt); err != nil {
		return nil, err
	}
	c.EncryptedSecret = encryptedSecret.String
	c.BaseURL = baseURL.String
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		c.LastUsedAt = &t
	}
	return &c, nil
}

func usageColumns(u *model.Usage) (promptTokens, completionTokens, totalTokens sql.NullInt64, cost sql.NullFloat64, estimated sql.NullBool) {
	if u == nil {
		return
	}
	promptTokens = sql.NullInt64{Int64: int64(u.PromptTokens), Valid: true}
	completionTokens = sql.NullInt64{Int64: int64(u.CompletionTokens), Valid: true}
	totalTokens = sql.NullInt64{Int64: int64(u.TotalTokens), Valid: true}
	cost = sql.NullFloat64{Float64: u.Cost, Valid: true}
	estimated = sql.NullBool{Bool: u.Estimated, Valid: true}
	return
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func truncatePreview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
