package storage

import (
	"context"
	"time"
)

// LinkAssigner derives the short link from the identifier the storage
// allocated for a new record.
type LinkAssigner func(id int64) string

// Storage is the persistence contract shared by the in-memory store and the
// SQL repository.
type Storage interface {
	// CreateShortLink stores sl and its payload atomically. When assign is not
	// nil the link is derived from the allocated id, otherwise sl.Link is used
	// as is. It returns ErrConflict on a duplicate (kind, hash, owner) and
	// ErrLinkTaken when the link is already used.
	CreateShortLink(ctx context.Context, sl *ShortLink, assign LinkAssigner) (*ShortLink, error)
	FindDuplicate(ctx context.Context, kind Kind, hash string, userID *int64) (*ShortLink, error)
	FindByID(ctx context.Context, id int64) (*ShortLink, error)
	FindByLink(ctx context.Context, link string) (*ShortLink, error)
	LinkExists(ctx context.Context, link string) (bool, error)
	FindByUserID(ctx context.Context, userID int64) ([]ShortLink, error)
	FindByBucket(ctx context.Context, bucketID int64) ([]ShortLink, error)
	// RestoreUpload points an upload at a newly saved file and moves its expiry.
	RestoreUpload(ctx context.Context, id int64, filename string, size int64, expiresAt time.Time) error
	FindExpiredUploads(ctx context.Context, now time.Time) ([]ShortLink, error)
	// ClearUploadFilename tombstones an upload that still points at filename.
	// It returns ErrNotFound when the record is gone or now holds another file.
	ClearUploadFilename(ctx context.Context, id int64, filename string) error
	Stats(ctx context.Context) (*Stats, error)

	CreateUser(ctx context.Context, u *User) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByAPIKey(ctx context.Context, key string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error

	CreateBucket(ctx context.Context, b *Bucket) (*Bucket, error)
	FindBucket(ctx context.Context, id int64) (*Bucket, error)
	FindBucketsByUser(ctx context.Context, userID int64) ([]Bucket, error)

	PingContext(ctx context.Context) error
}
