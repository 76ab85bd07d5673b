package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	app_errors "parley/backend/internal/errors"
	"parley/backend/internal/model"
	"parley/backend/internal/repository"
)

// Sentinel errors for the decrypt boundary the chat orchestrator consumes.
var (
	ErrCredentialNotFound = fmt.Errorf("%w: credential not found", app_errors.ErrNotFound)
	ErrCredentialInactive = fmt.Errorf("%w: credential is not active", app_errors.ErrValidation)
)

// Service owns credential lifecycle and is the only component that ever sees
// a plaintext provider secret.
type Service interface {
	Create(ctx context.Context, userID string, req *CreateRequest) (*model.Credential, error)
	List(ctx context.Context, userID string) ([]*model.Credential, error)
	Get(ctx context.Context, userID, credentialID string) (*model.Credential, error)
	// Deactivate soft-disables a credential. It stays on disk because
	// conversations keep referencing it; sends against it fail lazily.
	Deactivate(ctx context.Context, userID, credentialID string) error
	// DecryptSecret loads an active credential and its plaintext secret.
	DecryptSecret(ctx context.Context, credentialID string) (*model.Credential, string, error)
	// MarkUsed records that a send went through this credential.
	MarkUsed(ctx context.Context, credentialID string)
}

// CreateRequest carries the fields for registering a new credential. Secret
// is optional for providers without authentication (local inference).
type CreateRequest struct {
	Provider string `json:"provider" validate:"required,min=2,max=50"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Secret   string `json:"secret,omitempty"`
	BaseURL  string `json:"base_url,omitempty" validate:"omitempty,url"`
	RPMLimit int    `json:"rpm_limit,omitempty" validate:"omitempty,min=1,max=10000"`
}

type service struct {
	repo   repository.Repository
	cipher *Cipher
}

func NewService(repo repository.Repository, cipher *Cipher) Service {
	return &service{repo: repo, cipher: cipher}
}

func (s *service) Create(ctx context.Context, userID string, req *CreateRequest) (*model.Credential, error) {
	encrypted := ""
	if req.Secret != "" {
		var err error
		encrypted, err = s.cipher.Encrypt(req.Secret)
		if err != nil {
			return nil, fmt.Errorf("%w: could not encrypt secret: %w", app_errors.ErrInternal, err)
		}
	}

	rpmLimit := req.RPMLimit
	if rpmLimit == 0 {
		rpmLimit = 60
	}
	now := time.Now().UTC()
	cred := &model.Credential{
		ID:              uuid.NewString(),
		UserID:          userID,
		Provider:        req.Provider,
		Name:            req.Name,
		EncryptedSecret: encrypted,
		BaseURL:         req.BaseURL,
		RPMLimit:        rpmLimit,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateCredential(ctx, cred); err != nil {
		return nil, fmt.Errorf("could not create credential: %w", err)
	}
	slog.Info("credential created", "credential_id", cred.ID, "provider", cred.Provider)
	return cred, nil
}

func (s *service) List(ctx context.Context, userID string) ([]*model.Credential, error) {
	return s.repo.ListCredentials(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, credentialID string) (*model.Credential, error) {
	cred, err := s.repo.GetCredential(ctx, credentialID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	if cred.UserID != userID {
		return nil, fmt.Errorf("%w: credential belongs to another user", app_errors.ErrPermission)
	}
	return cred, nil
}

func (s *service) Deactivate(ctx context.Context, userID, credentialID string) error {
	if _, err := s.Get(ctx, userID, credentialID); err != nil {
		return err
	}
	if err := s.repo.DeactivateCredential(ctx, credentialID); err != nil {
		return fmt.Errorf("could not deactivate credential: %w", err)
	}
	slog.Info("credential deactivated", "credential_id", credentialID)
	return nil
}

func (s *service) DecryptSecret(ctx context.Context, credentialID string) (*model.Credential, string, error) {
	cred, err := s.repo.GetCredential(ctx, credentialID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrCredentialNotFound
		}
		return nil, "", err
	}
	if !cred.IsActive {
		return nil, "", ErrCredentialInactive
	}
	if cred.EncryptedSecret == "" {
		return cred, "", nil
	}
	secret, err := s.cipher.Decrypt(cred.EncryptedSecret)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", app_errors.ErrInternal, err)
	}
	return cred, secret, nil
}

func (s *service) MarkUsed(ctx context.Context, credentialID string) {
	if err := s.repo.TouchCredential(ctx, credentialID); err != nil {
		// Telemetry only; a failed touch never fails a send.
		slog.Warn("could not update credential last_used_at", "credential_id", credentialID, "error", err)
	}
}
