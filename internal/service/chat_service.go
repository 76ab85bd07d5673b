package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"parley/backend/internal/credential"
	app_errors "parley/backend/internal/errors"
	"parley/backend/internal/llm"
	"parley/backend/internal/model"
	"parley/backend/internal/pricing"
	"parley/backend/internal/repository"
)

// AdapterResolver is the registry seam the orchestrator depends on.
type AdapterResolver interface {
	Resolve(cred *model.Credential, secret string) (llm.Adapter, error)
}

// ChatService turns "user typed X in conversation C" into a persisted
// exchange. The user message is persisted before the provider call so a
// failed send never loses it; the assistant message is persisted only after
// the call (or stream) fully resolves.
//
// Two concurrent sends on the same conversation are not ordered against each
// other here; callers that must prevent double-submission serialize per
// conversation themselves.
type ChatService struct {
	repo        repository.Repository
	resolver    AdapterResolver
	credentials credential.Service
	accountant  *pricing.Accountant
}

// SendMessageRequest carries a new user message and optional generation
// parameters.
type SendMessageRequest struct {
	Content     string  `json:"content" validate:"required,min=1"`
	Temperature float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"omitempty,min=1"`
}

func NewChatService(
	repo repository.Repository,
	resolver AdapterResolver,
	credentials credential.Service,
	accountant *pricing.Accountant,
) *ChatService {
	return &ChatService{
		repo:        repo,
		resolver:    resolver,
		credentials: credentials,
		accountant:  accountant,
	}
}

// sendContext is the resolved state shared by the send paths.
type sendContext struct {
	conversation *model.Conversation
	cred         *model.Credential
	adapter      llm.Adapter
	request      *llm.ChatRequest
	promptText   string
}

func (s *ChatService) getOwnedConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
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

// buildChatRequest assembles the normalized request from the system prompt
// and ordered history. The credential's validity and the provider's adapter
// are checked lazily here, at send time, because credentials can be
// deactivated after a conversation was created.
func (s *ChatService) buildChatRequest(conversation *model.Conversation, history []model.Message, req *SendMessageRequest) *llm.ChatRequest {
	messages := make([]llm.ChatMessage, 0, len(history)+1)
	if conversation.SystemPrompt != "" {
		messages = append(messages, llm.ChatMessage{Role: "system", Content: conversation.SystemPrompt})
	}
	for _, m := range history {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	out := &llm.ChatRequest{
		Model:    conversation.Model,
		Messages: messages,
	}
	if req != nil {
		out.Temperature = req.Temperature
		out.MaxTokens = req.MaxTokens
	}
	return out
}

func (s *ChatService) resolveAdapter(ctx context.Context, conversation *model.Conversation) (*model.Credential, llm.Adapter, error) {
	cred, secret, err := s.credentials.DecryptSecret(ctx, conversation.CredentialID)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := s.resolver.Resolve(cred, secret)
	if err != nil {
		return nil, nil, err
	}
	return cred, adapter, nil
}

func (s *ChatService) persistMessage(ctx context.Context, conversationID, role, content string, usage *model.Usage) (*model.Message, error) {
	message := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Usage:          usage,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.AddMessage(ctx, conversationID, message); err != nil {
		return nil, fmt.Errorf("could not persist %s message: %w", role, err)
	}
	return message, nil
}

// prepareSend persists the user message and resolves everything needed for
// the provider call. On a later failure the user message stays persisted.
func (s *ChatService) prepareSend(ctx context.Context, userID, conversationID string, req *SendMessageRequest) (*sendContext, error) {
	conversation, err := s.getOwnedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.persistMessage(ctx, conversationID, "user", req.Content, nil); err != nil {
		return nil, err
	}

	history, err := s.repo.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("could not load message history: %w", err)
	}

	cred, adapter, err := s.resolveAdapter(ctx, conversation)
	if err != nil {
		return nil, err
	}

	chatReq := s.buildChatRequest(conversation, history, req)
	return &sendContext{
		conversation: conversation,
		cred:         cred,
		adapter:      adapter,
		request:      chatReq,
		promptText:   promptText(chatReq),
	}, nil
}

// SendMessage is the non-streaming send. On success exactly one user and one
// assistant message are appended; on failure the user message alone remains
// and the provider error is returned untouched in meaning.
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID string, req *SendMessageRequest) (*model.Message, error) {
	sc, err := s.prepareSend(ctx, userID, conversationID, req)
	if err != nil {
		return nil, err
	}

	resp, err := sc.adapter.Chat(ctx, sc.request)
	if err != nil {
		slog.Warn("chat send failed", "conversation_id", conversationID, "provider", sc.cred.Provider, "error", err)
		return nil, err
	}

	usage := s.accountant.Account(sc.cred.Provider, sc.conversation.Model, resp.Usage, sc.promptText, resp.Content)
	assistant, err := s.persistMessage(ctx, conversationID, "assistant", resp.Content, usage)
	if err != nil {
		return nil, err
	}
	s.credentials.MarkUsed(ctx, sc.cred.ID)

	slog.Info("chat send completed",
		"conversation_id", conversationID,
		"provider", sc.cred.Provider,
		"model", sc.conversation.Model,
		"total_tokens", usage.TotalTokens)
	return assistant, nil
}

// StreamMessage is the streaming send. Chunks are forwarded to events as the
// provider produces them; the assistant message is assembled, accounted and
// persisted only after the terminal chunk. The upstream call runs on a
// detached context: a client disconnect stops delivery, not generation or
// persistence. Consumers must drain events until it closes.
func (s *ChatService) StreamMessage(ctx context.Context, userID, conversationID string, req *SendMessageRequest, events chan<- model.StreamEvent) {
	defer close(events)

	sc, err := s.prepareSend(ctx, userID, conversationID, req)
	if err != nil {
		events <- errorEvent(err)
		return
	}

	s.relayStream(ctx, sc, events, func(ctx context.Context, content string, usage *model.Usage) (*model.Message, error) {
		return s.persistMessage(ctx, conversationID, "assistant", content, usage)
	})
}

// RegenerateMessage discards an assistant message's content and recomputes it
// from the history strictly before it, replacing content and usage in place.
// Message identity is stable: regenerating twice never creates duplicates.
func (s *ChatService) RegenerateMessage(ctx context.Context, userID, conversationID, messageID string, req *SendMessageRequest, events chan<- model.StreamEvent) {
	defer close(events)

	conversation, err := s.getOwnedConversation(ctx, userID, conversationID)
	if err != nil {
		events <- errorEvent(err)
		return
	}

	target, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = fmt.Errorf("%w: message not found", app_errors.ErrNotFound)
		}
		events <- errorEvent(err)
		return
	}
	if target.ConversationID != conversationID {
		events <- errorEvent(fmt.Errorf("%w: message belongs to another conversation", app_errors.ErrValidation))
		return
	}
	if target.Role != "assistant" {
		events <- errorEvent(fmt.Errorf("%w: only assistant messages can be regenerated", app_errors.ErrValidation))
		return
	}

	history, err := s.repo.GetMessages(ctx, conversationID)
	if err != nil {
		events <- errorEvent(fmt.Errorf("could not load message history: %w", err))
		return
	}
	// History up to, and excluding, the message being regenerated.
	prior := make([]model.Message, 0, len(history))
	for _, m := range history {
		if m.ID == target.ID {
			break
		}
		prior = append(prior, m)
	}

	cred, adapter, err := s.resolveAdapter(ctx, conversation)
	if err != nil {
		events <- errorEvent(err)
		return
	}

	chatReq := s.buildChatRequest(conversation, prior, req)
	sc := &sendContext{
		conversation: conversation,
		cred:         cred,
		adapter:      adapter,
		request:      chatReq,
		promptText:   promptText(chatReq),
	}

	s.relayStream(ctx, sc, events, func(ctx context.Context, content string, usage *model.Usage) (*model.Message, error) {
		if err := s.repo.UpdateMessage(ctx, target.ID, content, usage); err != nil {
			return nil, fmt.Errorf("could not update regenerated message: %w", err)
		}
		updated := *target
		updated.Content = content
		updated.Usage = usage
		return &updated, nil
	})
}

// relayStream consumes the adapter's chunk sequence, forwards content to the
// caller, and runs persist with the accumulated text once the stream
// completes server-side.
func (s *ChatService) relayStream(
	ctx context.Context,
	sc *sendContext,
	events chan<- model.StreamEvent,
	persist func(ctx context.Context, content string, usage *model.Usage) (*model.Message, error),
) {
	// Detached so an absent client cannot cancel generation; the stream is
	// consumed to completion for persistence and accounting regardless.
	upstream := context.WithoutCancel(ctx)

	chunks := make(chan llm.StreamChunk)
	go sc.adapter.StreamChat(upstream, sc.request, chunks)

	var (
		full     strings.Builder
		reported *llm.Usage
		streamed bool
		failure  error
	)
	for chunk := range chunks {
		switch {
		case chunk.Err != nil:
			failure = chunk.Err
		case chunk.Done:
			reported = chunk.Usage
			streamed = true
		default:
			full.WriteString(chunk.Content)
			events <- model.StreamEvent{Content: chunk.Content}
		}
	}

	if failure != nil {
		// Chunks already forwarded stay with the caller; the failure is
		// reported once, terminally, and no assistant message is created.
		slog.Warn("stream send failed",
			"conversation_id", sc.conversation.ID,
			"provider", sc.cred.Provider,
			"delivered_bytes", full.Len(),
			"error", failure)
		events <- errorEvent(failure)
		return
	}
	if !streamed {
		events <- errorEvent(fmt.Errorf("%w: stream closed without a terminal chunk", app_errors.ErrInternal))
		return
	}

	usage := s.accountant.Account(sc.cred.Provider, sc.conversation.Model, reported, sc.promptText, full.String())
	message, err := persist(upstream, full.String(), usage)
	if err != nil {
		slog.Error("failed to persist assistant message", "conversation_id", sc.conversation.ID, "error", err)
		events <- errorEvent(err)
		return
	}
	s.credentials.MarkUsed(upstream, sc.cred.ID)

	events <- model.StreamEvent{Done: true, Message: message}
}

// DeleteMessageCascade removes a message and every later message in the
// conversation, keeping history contiguous for regeneration.
func (s *ChatService) DeleteMessageCascade(ctx context.Context, userID, conversationID, messageID string) error {
	if _, err := s.getOwnedConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.repo.DeleteMessagesFrom(ctx, conversationID, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: message not found", app_errors.ErrNotFound)
		}
		return err
	}
	return nil
}

// EditMessage replaces a user message's content. With deleteSubsequent it
// also removes every chronologically later message — the supported pattern
// for redoing a branch is edit + delete subsequent + regenerate.
func (s *ChatService) EditMessage(ctx context.Context, userID, conversationID, messageID, content string, deleteSubsequent bool) error {
	if _, err := s.getOwnedConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	message, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: message not found", app_errors.ErrNotFound)
		}
		return err
	}
	if message.ConversationID != conversationID {
		return fmt.Errorf("%w: message belongs to another conversation", app_errors.ErrValidation)
	}
	if message.Role != "user" {
		return fmt.Errorf("%w: only user messages can be edited", app_errors.ErrValidation)
	}

	if err := s.repo.UpdateMessage(ctx, messageID, content, message.Usage); err != nil {
		return fmt.Errorf("could not update message: %w", err)
	}
	if deleteSubsequent {
		if err := s.repo.DeleteMessagesAfter(ctx, conversationID, messageID); err != nil {
			return fmt.Errorf("could not delete subsequent messages: %w", err)
		}
	}
	return nil
}

// ErrorKind classifies a send failure for clients: "try again" kinds
// (transient, rate_limit, timeout) versus configuration kinds (auth,
// unsupported_provider) versus caller mistakes.
func ErrorKind(err error) string {
	var pe *llm.ProviderError
	var unsupported *llm.UnsupportedProviderError
	switch {
	case errors.As(err, &pe):
		return string(pe.Kind)
	case errors.As(err, &unsupported):
		return "unsupported_provider"
	case errors.Is(err, app_errors.ErrNotFound):
		return "not_found"
	case errors.Is(err, app_errors.ErrValidation):
		return "validation"
	case errors.Is(err, app_errors.ErrPermission):
		return "permission"
	default:
		return "internal"
	}
}

// errorEvent maps an error to its terminal stream event.
func errorEvent(err error) model.StreamEvent {
	return model.StreamEvent{Error: err.Error(), ErrorKind: ErrorKind(err)}
}

// promptText flattens the normalized request for fallback token estimation.
func promptText(req *llm.ChatRequest) string {
	var b strings.Builder
	for _, m := range req.Messages {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}
