package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/atinyakov/vh7/internal/storage"
)

// constraint names as declared in the migrations, with the column list
// sqlite reports in its message
var constraintErrors = []struct {
	names []string
	err   error
}{
	{[]string{"short_links_link_key", "short_links.link"}, storage.ErrLinkTaken},
	{[]string{"users_email_key", "users.email"}, storage.ErrEmailTaken},
}

// mapError converts unique violations into storage sentinels and leaves other
// errors untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var constraint string

	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error

	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		constraint = pgErr.ConstraintName
	case errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		constraint = liteErr.Error()
	default:
		return err
	}

	for _, c := range constraintErrors {
		for _, name := range c.names {
			if strings.Contains(constraint, name) {
				return c.err
			}
		}
	}

	return storage.ErrConflict
}
