package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homecloud/internal/common"
	"homecloud/internal/dbx"
	"homecloud/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, share *models.Share) error {

	query :=
		`INSERT INTO shares (link, path)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, share.Link, share.Path); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, link string) (*models.Share, error) {
	query :=
		`SELECT link, path FROM shares
		 WHERE link = $1
		 `

	share := &models.Share{}
	err := r.db.QueryRowContext(ctx, query, link).Scan(&share.Link, &share.Path)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return share, nil
}
