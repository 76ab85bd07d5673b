package api

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIdentity extracts the authenticated user from the X-User-ID header,
// which the upstream auth gateway sets after verifying the caller's token.
// Authentication itself lives outside this service; requests arriving
// without the header never passed the gateway.
func UserIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing user identity."})
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
