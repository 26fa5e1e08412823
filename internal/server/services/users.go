// Package services holds the application services sitting between the
// transport layer and the repositories/stores.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"homecloud/internal/common"
	"homecloud/internal/logging"
	"homecloud/internal/server/models"
	"homecloud/internal/server/passwords"
	repo "homecloud/internal/server/repositories/users"
	"homecloud/internal/server/sessions"
)

// UserService handles registration and login. A successful login mints a
// fresh random session token and records it in the session store; the
// token, not the credentials, authenticates every later request.
type UserService struct {
	repo         repo.Repository
	sessionStore *sessions.Store
	logger       logging.Logger
}

func NewUserService(r repo.Repository, sessionStore *sessions.Store, logger logging.Logger) *UserService {
	return &UserService{
		repo:         r,
		sessionStore: sessionStore,
		logger:       logger.With("module", "users"),
	}
}

// Register creates an account. The plaintext password never leaves this
// function: only its PBKDF2 hash is stored.
func (s *UserService) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	hash, err := passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:       email,
		DisplayName: displayName,
		Password:    hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and opens a session. Unknown accounts and bad
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (uuid.UUID, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return uuid.Nil, common.ErrorUnauthenticated
		}
		return uuid.Nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := passwords.Verify(password, user.Password); err != nil {
		return uuid.Nil, common.ErrorUnauthenticated
	}

	token := uuid.New()
	s.sessionStore.Insert(token, sessions.Record{UserEmail: user.Email})

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}
