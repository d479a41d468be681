package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atinyakov/vh7/internal/storage"
)

const (
	maxBucketName        = 100
	maxBucketDescription = 500
)

// BucketInput is a new bucket.
type BucketInput struct {
	Name        string
	Description string
	Public      bool
}

// BucketService groups short links of a user.
type BucketService struct {
	storage storage.Storage
	now     func() time.Time
}

func NewBucketService(store storage.Storage) *BucketService {
	return &BucketService{
		storage: store,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *BucketService) Create(ctx context.Context, user *storage.User, in BucketInput) (*storage.Bucket, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)

	var problems []string
	if name == "" {
		problems = append(problems, "Bucket name must not be empty")
	}
	if utf8.RuneCountInString(name) > maxBucketName {
		problems = append(problems, "Bucket name must not be longer than 100 characters")
	}
	if utf8.RuneCountInString(description) > maxBucketDescription {
		problems = append(problems, "Bucket description must not be longer than 500 characters")
	}
	if len(problems) > 0 {
		return nil, invalidInput(problems...)
	}

	return s.storage.CreateBucket(ctx, &storage.Bucket{
		Name:        name,
		Description: description,
		Public:      in.Public,
		UserID:      user.ID,
	})
}

func (s *BucketService) List(ctx context.Context, user *storage.User) ([]storage.Bucket, error) {
	return s.storage.FindBucketsByUser(ctx, user.ID)
}

// Get returns a bucket with its live links. Private buckets are only visible
// to their owner, everyone else gets a not found error.
func (s *BucketService) Get(ctx context.Context, id int64, viewer *storage.User) (*storage.Bucket, []storage.ShortLink, error) {
	bucket, err := s.storage.FindBucket(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, notFound("Bucket not found")
	}
	if err != nil {
		return nil, nil, err
	}

	if !bucket.Public && (viewer == nil || viewer.ID != bucket.UserID) {
		return nil, nil, notFound("Bucket not found")
	}

	links, err := s.storage.FindByBucket(ctx, bucket.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	live := make([]storage.ShortLink, 0, len(links))
	for _, sl := range links {
		if !sl.Expired(now) {
			live = append(live, sl)
		}
	}

	return bucket, live, nil
}
