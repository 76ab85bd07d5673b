package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "parley/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(conversationHandler *ConversationHandler, credentialHandler *CredentialHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Public Routes ---

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Health check endpoint for container orchestration liveness and
	// readiness probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	// Every v1 route requires a user identity; the upstream gateway sets it
	// after authenticating the caller.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(UserIdentity)

		// Standard JSON routes carry a request timeout so client
		// connections never hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Credentials ---
			r.Post("/credentials", credentialHandler.HandleCreateCredential)
			r.Get("/credentials", credentialHandler.HandleListCredentials)
			r.Delete("/credentials/{credentialID}", credentialHandler.HandleDeactivateCredential)

			// --- Conversations ---
			r.Post("/conversations", conversationHandler.HandleCreateConversation)
			r.Get("/conversations", conversationHandler.HandleListConversations)
			r.Get("/conversations/{conversationID}", conversationHandler.HandleGetConversation)
			r.Patch("/conversations/{conversationID}", conversationHandler.HandleUpdateConversationTitle)
			r.Delete("/conversations/{conversationID}", conversationHandler.HandleDeleteConversation)

			// --- Messages ---
			r.Put("/conversations/{conversationID}/messages/{messageID}", conversationHandler.HandleEditMessage)
			r.Delete("/conversations/{conversationID}/messages/{messageID}", conversationHandler.HandleDeleteMessage)
		})

		// Long-running endpoints must NOT have a timeout: synchronous sends
		// wait on the provider and streaming routes hold the connection open
		// for the whole generation.
		r.Group(func(r chi.Router) {
			r.Post("/conversations/{conversationID}/messages", conversationHandler.HandleSendMessage)
			r.Post("/conversations/{conversationID}/messages/stream", conversationHandler.HandleStreamMessage)
			r.Post("/conversations/{conversationID}/messages/{messageID}/regenerate", conversationHandler.HandleRegenerateMessage)
		})
	})

	return r
}
