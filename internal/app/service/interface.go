package service

//go:generate mockgen -source=interface.go -destination=../../mocks/service.go -package=mocks

import (
	"context"

	"github.com/spf13/afero"

	"github.com/atinyakov/vh7/internal/storage"
)

// LinkServiceIface is the part of LinkService used by the transport layers.
type LinkServiceIface interface {
	Shorten(ctx context.Context, rawURL string, owner Owner) (*storage.ShortLink, bool, error)
	Paste(ctx context.Context, code, language string, owner Owner) (*storage.ShortLink, bool, error)
	Upload(ctx context.Context, in UploadInput, owner Owner) (*storage.ShortLink, bool, error)
	Resolve(ctx context.Context, link string) (*storage.ShortLink, error)
	Open(ctx context.Context, link string) (*storage.ShortLink, afero.File, error)
	UserLinks(ctx context.Context, userID int64) ([]storage.ShortLink, error)
	Stats(ctx context.Context) (*storage.Stats, error)
	Cleanup(ctx context.Context) (int, error)
	PingContext(ctx context.Context) error
}

// UserServiceIface is the part of UserService used by the transport layers.
type UserServiceIface interface {
	Register(ctx context.Context, in RegisterInput) (*storage.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, credential string) (*storage.User, error)
	Update(ctx context.Context, user *storage.User, in UpdateInput) (*storage.User, error)
	Confirm(ctx context.Context, token string) (*storage.User, error)
	ForgotPassword(ctx context.Context, email string)
	ResetPassword(ctx context.Context, token, password string) error
	GenerateAPIKey(ctx context.Context, user *storage.User) (string, error)
}

// BucketServiceIface is the part of BucketService used by the transport layers.
type BucketServiceIface interface {
	Create(ctx context.Context, user *storage.User, in BucketInput) (*storage.Bucket, error)
	List(ctx context.Context, user *storage.User) ([]storage.Bucket, error)
	Get(ctx context.Context, id int64, viewer *storage.User) (*storage.Bucket, []storage.ShortLink, error)
}

var (
	_ LinkServiceIface   = (*LinkService)(nil)
	_ UserServiceIface   = (*UserService)(nil)
	_ BucketServiceIface = (*BucketService)(nil)
)
