package models

import (
	"time"

	"github.com/atinyakov/vh7/internal/storage"
)

// User is the public view of an account. Secrets are never included.
type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedOn *time.Time `json:"confirmed_on"`
}

func NewUser(u *storage.User) User {
	return User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Created:     u.CreatedAt,
		Updated:     u.UpdatedAt,
		Confirmed:   u.Confirmed,
		ConfirmedOn: u.ConfirmedAt,
	}
}

type Bucket struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Public      bool      `json:"public"`
	Created     time.Time `json:"created"`
}

func NewBucket(b *storage.Bucket) Bucket {
	return Bucket{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Public:      b.Public,
		Created:     b.CreatedAt,
	}
}

func NewBuckets(buckets []storage.Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))
	for i := range buckets {
		out = append(out, NewBucket(&buckets[i]))
	}
	return out
}

// BucketResponse is a bucket with its live links.
type BucketResponse struct {
	Bucket
	Links []ShortLink `json:"links"`
}

// Stats counts the stored short links per kind.
type Stats struct {
	ShortenedLinks int `json:"shortened_links"`
	UploadedFiles  int `json:"uploaded_files"`
	PastedCode     int `json:"pasted_code"`
	Total          int `json:"total"`
}

// InstanceInfo describes the running instance.
type InstanceInfo struct {
	URL     string `json:"url"`
	Admin   string `json:"admin"`
	Version string `json:"version"`
	Stats   Stats  `json:"stats"`
}

func NewStats(s *storage.Stats) Stats {
	return Stats{
		ShortenedLinks: s.ShortenedLinks,
		UploadedFiles:  s.UploadedFiles,
		PastedCode:     s.PastedCode,
		Total:          s.Total,
	}
}
