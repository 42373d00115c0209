package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type ImageRepository interface {
	// RecordSubmission stores the outcome of one submission: the user's
	// watermark slot is overwritten and an image row is inserted, inside
	// a single transaction. Either both land or neither does.
	RecordSubmission(ctx context.Context, userID int64, cid, watermarkBase64 string) error
}

type imageRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewImageRepository(db *sqlx.DB, log *zap.Logger) ImageRepository {
	return &imageRepository{db: db, log: log}
}

func (r *imageRepository) RecordSubmission(ctx context.Context, userID int64, cid, watermarkBase64 string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE users SET watermark_base64 = $1 WHERE id = $2`, watermarkBase64, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO images (cid, user_id) VALUES ($1, $2)`, cid, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.log.Debug("Recorded submission", zap.Int64("user_id", userID), zap.String("cid", cid))
	return nil
}
