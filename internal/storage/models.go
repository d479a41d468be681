package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a short link with the same kind, content
	// hash and owner already exists.
	ErrConflict = errors.New("data conflict")
	// ErrLinkTaken is returned when the short link string is already used.
	ErrLinkTaken = errors.New("link already taken")
	// ErrEmailTaken is returned when another user is registered with the email.
	ErrEmailTaken = errors.New("email already registered")
)

// Kind is the type of content a short link points to.
type Kind string

const (
	KindURL    Kind = "url"
	KindPaste  Kind = "paste"
	KindUpload Kind = "upload"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindURL, KindPaste, KindUpload:
		return true
	}
	return false
}

// ShortLink is a stored short link together with exactly one payload.
type ShortLink struct {
	ID        int64      `json:"id"`
	Link      string     `json:"link"`
	Kind      Kind       `json:"kind"`
	Hash      string     `json:"hash"`
	UserID    *int64     `json:"user_id,omitempty"`
	BucketID  *int64     `json:"bucket_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	URL    *URL    `json:"url,omitempty"`
	Paste  *Paste  `json:"paste,omitempty"`
	Upload *Upload `json:"upload,omitempty"`
}

// OwnerKey is the value the (kind, hash, owner) uniqueness is scoped by.
// All anonymous submissions share the zero key.
func (sl *ShortLink) OwnerKey() int64 {
	return ownerKey(sl.UserID)
}

// Expired reports whether the link has an expiry at or before now.
func (sl *ShortLink) Expired(now time.Time) bool {
	return sl.ExpiresAt != nil && !sl.ExpiresAt.After(now)
}

// Clone returns a deep copy of sl.
func (sl *ShortLink) Clone() *ShortLink {
	c := *sl
	if sl.UserID != nil {
		v := *sl.UserID
		c.UserID = &v
	}
	if sl.BucketID != nil {
		v := *sl.BucketID
		c.BucketID = &v
	}
	if sl.ExpiresAt != nil {
		v := *sl.ExpiresAt
		c.ExpiresAt = &v
	}
	if sl.URL != nil {
		v := *sl.URL
		c.URL = &v
	}
	if sl.Paste != nil {
		v := *sl.Paste
		c.Paste = &v
	}
	if sl.Upload != nil {
		v := *sl.Upload
		c.Upload = &v
	}
	return &c
}

func ownerKey(userID *int64) int64 {
	if userID == nil {
		return 0
	}
	return *userID
}

// URL is the payload of a shortened URL.
type URL struct {
	URL string `json:"url"`
}

// Paste is the payload of a code snippet.
type Paste struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Upload is the payload of an uploaded file. An empty Filename means the
// stored file was removed by the cleanup.
type Upload struct {
	OriginalFilename string `json:"original_filename"`
	Mimetype         string `json:"mimetype"`
	Filename         string `json:"filename"`
	Size             int64  `json:"size"`
}

// Tombstoned reports whether the stored file was removed.
func (u *Upload) Tombstoned() bool {
	return u.Filename == ""
}

// User is a registered account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Active       bool
	Confirmed    bool
	ConfirmedAt  *time.Time
	// APIKey is empty when the user never generated one.
	APIKey    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bucket groups short links of one user.
type Bucket struct {
	ID          int64
	Name        string
	Description string
	Public      bool
	UserID      int64
	CreatedAt   time.Time
}

// Stats counts stored short links per kind.
type Stats struct {
	ShortenedLinks int
	UploadedFiles  int
	PastedCode     int
	Total          int
}
