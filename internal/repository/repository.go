package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/storage"
)

// Placeholders are numbered in the order they first appear so the same
// statements bind positionally on both pgx and go-sqlite3.

const selectShortLink = `SELECT s.id, s.link, s.kind, s.content_hash, s.user_id, s.bucket_id, s.created_at, s.updated_at, s.expires_at,
	u.url, p.language, p.code, f.original_filename, f.mimetype, f.filename, f.size
FROM short_links s
LEFT JOIN urls u ON u.short_link_id = s.id
LEFT JOIN pastes p ON p.short_link_id = s.id
LEFT JOIN uploads f ON f.short_link_id = s.id`

// Repository is the SQL implementation of storage.Storage.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Repository) CreateShortLink(ctx context.Context, sl *storage.ShortLink, assign storage.LinkAssigner) (*storage.ShortLink, error) {
	record := sl.Clone()
	now := r.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.ExpiresAt != nil {
		expires := record.ExpiresAt.UTC()
		record.ExpiresAt = &expires
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var link any
	if assign == nil {
		link = record.Link
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO short_links (link, kind, content_hash, owner_key, user_id, bucket_id, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		link, string(record.Kind), record.Hash, record.OwnerKey(), nullInt64(record.UserID), nullInt64(record.BucketID),
		record.CreatedAt, record.UpdatedAt, nullTime(record.ExpiresAt),
	).Scan(&record.ID)
	if err != nil {
		return nil, mapError(err)
	}

	if assign != nil {
		record.Link = assign(record.ID)
		if _, err := tx.ExecContext(ctx, `UPDATE short_links SET link = $1 WHERE id = $2`, record.Link, record.ID); err != nil {
			return nil, mapError(err)
		}
	}

	switch {
	case record.URL != nil:
		_, err = tx.ExecContext(ctx, `INSERT INTO urls (short_link_id, url) VALUES ($1, $2)`, record.ID, record.URL.URL)
	case record.Paste != nil:
		_, err = tx.ExecContext(ctx, `INSERT INTO pastes (short_link_id, language, code) VALUES ($1, $2, $3)`,
			record.ID, record.Paste.Language, record.Paste.Code)
	case record.Upload != nil:
		_, err = tx.ExecContext(ctx, `INSERT INTO uploads (short_link_id, original_filename, mimetype, filename, size) VALUES ($1, $2, $3, $4, $5)`,
			record.ID, record.Upload.OriginalFilename, record.Upload.Mimetype, nullString(record.Upload.Filename), record.Upload.Size)
	default:
		return nil, fmt.Errorf("short link %q has no payload", record.Kind)
	}
	if err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}

	return record, nil
}

func (r *Repository) FindDuplicate(ctx context.Context, kind storage.Kind, hash string, userID *int64) (*storage.ShortLink, error) {
	var owner int64
	if userID != nil {
		owner = *userID
	}

	row := r.db.QueryRowContext(ctx,
		selectShortLink+` WHERE s.kind = $1 AND s.content_hash = $2 AND s.owner_key = $3`,
		string(kind), hash, owner,
	)
	return scanShortLink(row)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*storage.ShortLink, error) {
	return scanShortLink(r.db.QueryRowContext(ctx, selectShortLink+` WHERE s.id = $1`, id))
}

func (r *Repository) FindByLink(ctx context.Context, link string) (*storage.ShortLink, error) {
	return scanShortLink(r.db.QueryRowContext(ctx, selectShortLink+` WHERE s.link = $1`, link))
}

func (r *Repository) LinkExists(ctx context.Context, link string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM short_links WHERE link = $1)`, link).Scan(&exists)
	return exists, err
}

func (r *Repository) FindByUserID(ctx context.Context, userID int64) ([]storage.ShortLink, error) {
	return r.queryShortLinks(ctx, selectShortLink+` WHERE s.user_id = $1 ORDER BY s.created_at DESC, s.id DESC`, userID)
}

func (r *Repository) FindByBucket(ctx context.Context, bucketID int64) ([]storage.ShortLink, error) {
	return r.queryShortLinks(ctx, selectShortLink+` WHERE s.bucket_id = $1 ORDER BY s.created_at DESC, s.id DESC`, bucketID)
}

func (r *Repository) FindExpiredUploads(ctx context.Context, now time.Time) ([]storage.ShortLink, error) {
	return r.queryShortLinks(ctx,
		selectShortLink+` WHERE f.filename IS NOT NULL AND f.filename <> '' AND s.expires_at <= $1 ORDER BY s.id`,
		now.UTC(),
	)
}

func (r *Repository) RestoreUpload(ctx context.Context, id int64, filename string, size int64, expiresAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `UPDATE uploads SET filename = $1, size = $2 WHERE short_link_id = $3`, filename, size, id)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE short_links SET expires_at = $1, updated_at = $2 WHERE id = $3`,
		expiresAt.UTC(), r.now().UTC(), id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) ClearUploadFilename(ctx context.Context, id int64, filename string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE uploads SET filename = NULL WHERE short_link_id = $1 AND filename = $2`, id, filename)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *Repository) Stats(ctx context.Context) (*storage.Stats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM short_links GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats storage.Stats
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}

		switch storage.Kind(kind) {
		case storage.KindURL:
			stats.ShortenedLinks = count
		case storage.KindPaste:
			stats.PastedCode = count
		case storage.KindUpload:
			stats.UploadedFiles = count
		default:
			r.logger.Warn("unknown short link kind in stats", zap.String("kind", kind))
		}
		stats.Total += count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *Repository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) queryShortLinks(ctx context.Context, query string, args ...any) ([]storage.ShortLink, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.ShortLink
	for rows.Next() {
		sl, err := scanShortLink(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *sl)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShortLink(row scanner) (*storage.ShortLink, error) {
	var (
		sl               storage.ShortLink
		link             sql.NullString
		kind             string
		userID, bucketID sql.NullInt64
		expiresAt        sql.NullTime
		url              sql.NullString
		language, code   sql.NullString
		original, mime   sql.NullString
		filename         sql.NullString
		size             sql.NullInt64
	)

	err := row.Scan(
		&sl.ID, &link, &kind, &sl.Hash, &userID, &bucketID, &sl.CreatedAt, &sl.UpdatedAt, &expiresAt,
		&url, &language, &code, &original, &mime, &filename, &size,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sl.Link = link.String
	sl.Kind = storage.Kind(kind)
	sl.UserID = int64Ptr(userID)
	sl.BucketID = int64Ptr(bucketID)
	sl.CreatedAt = sl.CreatedAt.UTC()
	sl.UpdatedAt = sl.UpdatedAt.UTC()
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		sl.ExpiresAt = &t
	}

	switch sl.Kind {
	case storage.KindURL:
		sl.URL = &storage.URL{URL: url.String}
	case storage.KindPaste:
		sl.Paste = &storage.Paste{Language: language.String, Code: code.String}
	case storage.KindUpload:
		sl.Upload = &storage.Upload{
			OriginalFilename: original.String,
			Mimetype:         mime.String,
			Filename:         filename.String,
			Size:             size.Int64,
		}
	}

	return &sl, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
