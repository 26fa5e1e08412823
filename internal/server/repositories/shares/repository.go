package shares

import (
	"context"

	"homecloud/internal/server/models"
)

type Repository interface {
	Save(ctx context.Context, share *models.Share) error
	Get(ctx context.Context, link string) (*models.Share, error)
}
