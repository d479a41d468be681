package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/atinyakov/vh7/internal/storage"
)

const selectUser = `SELECT id, email, name, password_hash, active, confirmed, confirmed_at, api_key, created_at, updated_at FROM users`

func (r *Repository) CreateUser(ctx context.Context, u *storage.User) (*storage.User, error) {
	user := *u
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, name, password_hash, active, confirmed, confirmed_at, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		user.Email, user.Name, user.PasswordHash, user.Active, user.Confirmed, nullTime(user.ConfirmedAt),
		nullString(user.APIKey), user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id int64) (*storage.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
}

func (r *Repository) FindUserByAPIKey(ctx context.Context, key string) (*storage.User, error) {
	if key == "" {
		return nil, storage.ErrNotFound
	}
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE api_key = $1`, key))
}

func (r *Repository) UpdateUser(ctx context.Context, u *storage.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $1, name = $2, password_hash = $3, active = $4, confirmed = $5, confirmed_at = $6,
		api_key = $7, updated_at = $8 WHERE id = $9`,
		u.Email, u.Name, u.PasswordHash, u.Active, u.Confirmed, nullTime(u.ConfirmedAt),
		nullString(u.APIKey), r.now().UTC(), u.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

func scanUser(row scanner) (*storage.User, error) {
	var (
		u           storage.User
		confirmedAt sql.NullTime
		apiKey      sql.NullString
	)

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Active, &u.Confirmed, &confirmedAt, &apiKey, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if confirmedAt.Valid {
		t := confirmedAt.Time.UTC()
		u.ConfirmedAt = &t
	}
	u.APIKey = apiKey.String
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return &u, nil
}
