package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"parley/backend/internal/interfaces"
	"parley/backend/internal/model"
	"parley/backend/internal/service"

	"github.com/go-chi/chi/v5"
)

// ConversationHandler handles HTTP requests for conversations and messages.
type ConversationHandler struct {
	conversations interfaces.ConversationService
	chat          interfaces.ChatService
}

func NewConversationHandler(conversations interfaces.ConversationService, chat interfaces.ChatService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, chat: chat}
}

// HandleCreateConversation godoc
// @Summary      Create a conversation
// @Description  Creates a new conversation bound to a credential and a model.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        X-User-ID     header    string                               true  "User identity"
// @Param        conversation  body      service.CreateConversationRequest    true  "Conversation to create"
// @Success      201           {object}  model.Conversation
// @Failure      400           {object}  ErrorResponse
// @Failure      404           {object}  ErrorResponse
// @Router       /v1/conversations [post]
func (h *ConversationHandler) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload."})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	conversation, err := h.conversations.Create(r.Context(), requestUserID(r), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conversation)
}

// HandleListConversations godoc
// @Summary      List conversations
// @Description  Lists the user's conversations, newest activity first, with message counts and a last-reply preview.
// @Tags         Conversations
// @Produce      json
// @Param        X-User-ID  header    string  true  "User identity"
// @Success      200        {array}   model.ConversationListItem
// @Failure      500        {object}  ErrorResponse
// @Router       /v1/conversations [get]
func (h *ConversationHandler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	items, err := h.conversations.List(r.Context(), requestUserID(r))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// HandleGetConversation godoc
// @Summary      Get a conversation
// @Description  Returns a conversation's metadata and its full ordered message history.
// @Tags         Conversations
// @Produce      json
// @Param        X-User-ID       header    string  true  "User identity"
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.FullConversation
// @Failure      403             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [get]
func (h *ConversationHandler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	full, err := h.conversations.GetFull(r.Context(), requestUserID(r), conversationID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, full)
}

// HandleUpdateConversationTitle godoc
// @Summary      Rename a conversation
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        X-User-ID       header    string              true  "User identity"
// @Param        conversationID  path      string              true  "Conversation ID"
// @Param        title           body      UpdateTitleRequest  true  "New title"
// @Success      200             {object}  StatusResponse
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [patch]
func (h *ConversationHandler) HandleUpdateConversationTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload."})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	if err := h.conversations.UpdateTitle(r.Context(), requestUserID(r), conversationID, req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleDeleteConversation godoc
// @Summary      Delete a conversation
// @Description  Deletes a conversation and all of its messages.
// @Tags         Conversations
// @Produce      json
// @Param        X-User-ID       header    string  true  "User identity"
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  StatusResponse
// @Failure      403             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [delete]
func (h *ConversationHandler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := h.conversations.Delete(r.Context(), requestUserID(r), conversationID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleSendMessage godoc
// @Summary      Send a message
// @Description  Appends a user message, calls the provider synchronously and returns the persisted assistant reply.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        X-User-ID       header    string                      true  "User identity"
// @Param        conversationID  path      string                      true  "Conversation ID"
// @Param        message         body      service.SendMessageRequest  true  "Message to send"
// @Success      200             {object}  model.Message
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Failure      502             {object}  ErrorResponse "Provider failure"
// @Failure      503             {object}  ErrorResponse "Provider rate limit"
// @Router       /v1/conversations/{conversationID}/messages [post]
func (h *ConversationHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload."})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	message, err := h.chat.SendMessage(r.Context(), requestUserID(r), conversationID, &req)
	if err != nil {
		kind := service.ErrorKind(err)
		slog.Warn("Send message failed", "conversation_id", conversationID, "kind", kind, "error", err)
		respondWithJSON(w, sendErrorStatus(kind), ErrorResponse{Error: err.Error(), ErrorKind: kind})
		return
	}
	respondWithJSON(w, http.StatusOK, message)
}

// HandleStreamMessage godoc
// @Summary      Send a message (streaming)
// @Description  Appends a user message and streams the assistant reply as server-sent events. The final event carries the persisted message.
// @Tags         Messages
// @Accept       json
// @Produce      text/event-stream
// @Param        X-User-ID       header  string                      true  "User identity"
// @Param        conversationID  path    string                      true  "Conversation ID"
// @Param        message         body    service.SendMessageRequest  true  "Message to send"
// @Success      200             {object}  model.StreamEvent "Stream of content deltas"
// @Failure      400             {object}  ErrorResponse "Sent as a stream error event"
// @Router       /v1/conversations/{conversationID}/messages/stream [post]
func (h *ConversationHandler) HandleStreamMessage(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for message stream", "error", err)
		writeStreamError(w, model.StreamEvent{Error: "Invalid request body.", ErrorKind: "validation"})
		return
	}
	if err := validateRequest(&req); err != nil {
		writeStreamError(w, model.StreamEvent{Error: err.Error(), ErrorKind: "validation"})
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	events := make(chan model.StreamEvent)
	go h.chat.StreamMessage(r.Context(), requestUserID(r), conversationID, &req, events)

	h.relayEvents(w, r, conversationID, events)
}

// HandleRegenerateMessage godoc
// @Summary      Regenerate an assistant message
// @Description  Re-runs the provider call for an assistant message using the history strictly before it, replacing the message in place. Streams the new reply as server-sent events.
// @Tags         Messages
// @Accept       json
// @Produce      text/event-stream
// @Param        X-User-ID       header  string                      true  "User identity"
// @Param        conversationID  path    string                      true  "Conversation ID"
// @Param        messageID       path    string                      true  "Assistant message ID"
// @Param        options         body    service.SendMessageRequest  false "Generation overrides"
// @Success      200             {object}  model.StreamEvent "Stream of content deltas"
// @Failure      400             {object}  ErrorResponse "Sent as a stream error event"
// @Router       /v1/conversations/{conversationID}/messages/{messageID}/regenerate [post]
func (h *ConversationHandler) HandleRegenerateMessage(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	// The body is optional for regeneration; an empty one keeps the
	// conversation's defaults.
	var req service.SendMessageRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Error decoding request body for regeneration", "error", err)
			writeStreamError(w, model.StreamEvent{Error: "Invalid request body.", ErrorKind: "validation"})
			return
		}
	}

	conversationID := chi.URLParam(r, "conversationID")
	messageID := chi.URLParam(r, "messageID")
	events := make(chan model.StreamEvent)
	go h.chat.RegenerateMessage(r.Context(), requestUserID(r), conversationID, messageID, &req, events)

	h.relayEvents(w, r, conversationID, events)
}

// HandleEditMessage godoc
// @Summary      Edit a user message
// @Description  Rewrites a user message's content and optionally deletes every later message so the branch can be regenerated.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        X-User-ID       header    string              true  "User identity"
// @Param        conversationID  path      string              true  "Conversation ID"
// @Param        messageID       path      string              true  "User message ID"
// @Param        edit            body      EditMessageRequest  true  "New content"
// @Success      200             {object}  StatusResponse
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/messages/{messageID} [put]
func (h *ConversationHandler) HandleEditMessage(w http.ResponseWriter, r *http.Request) {
	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload."})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	messageID := chi.URLParam(r, "messageID")
	if err := h.chat.EditMessage(r.Context(), requestUserID(r), conversationID, messageID, req.Content, req.DeleteSubsequent); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleDeleteMessage godoc
// @Summary      Delete a message
// @Description  Deletes a message and every message after it in the conversation.
// @Tags         Messages
// @Produce      json
// @Param        X-User-ID       header    string  true  "User identity"
// @Param        conversationID  path      string  true  "Conversation ID"
// @Param        messageID       path      string  true  "Message ID"
// @Success      200             {object}  StatusResponse
// @Failure      403             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/messages/{messageID} [delete]
func (h *ConversationHandler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	messageID := chi.URLParam(r, "messageID")
	if err := h.chat.DeleteMessageCascade(r.Context(), requestUserID(r), conversationID, messageID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// relayEvents forwards stream events to the client until the channel closes.
// When the client disconnects the loop keeps draining without writing: the
// service finishes the upstream generation and persists the result either
// way, and an abandoned channel would leak its goroutine.
func (h *ConversationHandler) relayEvents(w http.ResponseWriter, r *http.Request, conversationID string, events <-chan model.StreamEvent) {
	clientGone := false
	for event := range events {
		if !clientGone && r.Context().Err() != nil {
			slog.Info("Client disconnected during stream.", "conversation_id", conversationID)
			clientGone = true
		}
		if clientGone {
			continue
		}

		if event.Error != "" {
			writeStreamError(w, event)
			continue
		}
		if err := writeStreamEvent(w, event); err != nil {
			slog.Warn("Could not write to stream, client likely disconnected.", "error", err)
			clientGone = true
		}
	}
	slog.Info("Finished streaming response.", "conversation_id", conversationID)
}
