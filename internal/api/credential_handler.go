package api

import (
	"encoding/json"
	"net/http"

	"parley/backend/internal/credential"

	"github.com/go-chi/chi/v5"
)

// CredentialHandler handles HTTP requests for provider credentials. Secrets
// are write-only: they are accepted on creation and never returned.
type CredentialHandler struct {
	service credential.Service
}

func NewCredentialHandler(svc credential.Service) *CredentialHandler {
	return &CredentialHandler{service: svc}
}

// HandleCreateCredential godoc
// @Summary      Register a credential
// @Description  Stores a provider credential with its secret encrypted at rest. The secret is never returned by any endpoint.
// @Tags         Credentials
// @Accept       json
// @Produce      json
// @Param        X-User-ID   header    string                    true  "User identity"
// @Param        credential  body      credential.CreateRequest  true  "Credential to register"
// @Success      201         {object}  model.Credential
// @Failure      400         {object}  ErrorResponse
// @Router       /v1/credentials [post]
func (h *CredentialHandler) HandleCreateCredential(w http.ResponseWriter, r *http.Request) {
	var req credential.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload."})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	cred, err := h.service.Create(r.Context(), requestUserID(r), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, cred)
}

// HandleListCredentials godoc
// @Summary      List credentials
// @Description  Lists the user's credentials, including deactivated ones. Secrets are omitted.
// @Tags         Credentials
// @Produce      json
// @Param        X-User-ID  header    string  true  "User identity"
// @Success      200        {array}   model.Credential
// @Failure      500        {object}  ErrorResponse
// @Router       /v1/credentials [get]
func (h *CredentialHandler) HandleListCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.service.List(r.Context(), requestUserID(r))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, creds)
}

// HandleDeactivateCredential godoc
// @Summary      Deactivate a credential
// @Description  Soft-disables a credential. Conversations referencing it remain readable; new sends against it fail.
// @Tags         Credentials
// @Produce      json
// @Param        X-User-ID     header    string  true  "User identity"
// @Param        credentialID  path      string  true  "Credential ID"
// @Success      200           {object}  StatusResponse
// @Failure      403           {object}  ErrorResponse
// @Failure      404           {object}  ErrorResponse
// @Router       /v1/credentials/{credentialID} [delete]
func (h *CredentialHandler) HandleDeactivateCredential(w http.ResponseWriter, r *http.Request) {
	credentialID := chi.URLParam(r, "credentialID")
	if err := h.service.Deactivate(r.Context(), requestUserID(r), credentialID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
