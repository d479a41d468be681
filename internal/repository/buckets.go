package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/atinyakov/vh7/internal/storage"
)

const selectBucket = `SELECT id, name, description, public, user_id, created_at FROM buckets`

func (r *Repository) CreateBucket(ctx context.Context, b *storage.Bucket) (*storage.Bucket, error) {
	bucket := *b
	bucket.CreatedAt = r.now().UTC()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO buckets (name, description, public, user_id, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		bucket.Name, bucket.Description, bucket.Public, bucket.UserID, bucket.CreatedAt,
	).Scan(&bucket.ID)
	if err != nil {
		return nil, mapError(err)
	}

	return &bucket, nil
}

func (r *Repository) FindBucket(ctx context.Context, id int64) (*storage.Bucket, error) {
	b, err := scanBucket(r.db.QueryRowContext(ctx, selectBucket+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return b, err
}

func (r *Repository) FindBucketsByUser(ctx context.Context, userID int64) ([]storage.Bucket, error) {
	rows, err := r.db.QueryContext(ctx, selectBucket+` WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []storage.Bucket
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, *b)
	}

	return buckets, rows.Err()
}

func scanBucket(row scanner) (*storage.Bucket, error) {
	var b storage.Bucket
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Public, &b.UserID, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}
