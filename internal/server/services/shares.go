package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"homecloud/internal/common"
	"homecloud/internal/logging"
	"homecloud/internal/server/models"
	repo "homecloud/internal/server/repositories/shares"
	"homecloud/internal/server/storage"
)

// ShareService creates and resolves share links. A link stores the absolute
// path it was created against; resolving one needs no session, the link id
// is the authorization.
type ShareService struct {
	repo    repo.Repository
	storage *storage.Service
	logger  logging.Logger
}

func NewShareService(r repo.Repository, st *storage.Service, logger logging.Logger) *ShareService {
	return &ShareService{
		repo:    r,
		storage: st,
		logger:  logger.With("module", "shares"),
	}
}

// Create persists a share link for rawPath inside user's sandbox. The
// returned share carries the user-relative path, not the stored absolute
// one, so the owner's storage location is not revealed.
func (s *ShareService) Create(ctx context.Context, user *models.User, rawPath string) (*models.Share, error) {
	fullPath, err := s.storage.Resolve(user, rawPath)
	if err != nil {
		return nil, err
	}

	share := &models.Share{Link: uuid.NewString(), Path: fullPath}
	if err := s.repo.Save(ctx, share); err != nil {
		return nil, fmt.Errorf("saving share: %w", err)
	}

	s.logger.Info(ctx, "share created", "user_id", user.ID, "link", share.Link)
	return &models.Share{Link: share.Link, Path: rawPath}, nil
}

// Open resolves a share link to a download source.
func (s *ShareService) Open(ctx context.Context, link string) (*storage.Source, error) {
	share, err := s.repo.Get(ctx, link)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("looking up share: %w", err)
	}
	return s.storage.OpenShared(ctx, share.Path)
}
