package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/vh7/internal/storage"
)

func TestNewShortLink(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(24 * time.Hour)

	t.Run("url", func(t *testing.T) {
		got := NewShortLink(&storage.ShortLink{
			Link: "abc", Kind: storage.KindURL, CreatedAt: now, UpdatedAt: now,
			URL: &storage.URL{URL: "https://example.com/"},
		}, "https://vh7.uk/")

		assert.Equal(t, "https://vh7.uk/abc", got.ShortURL)
		assert.Equal(t, "url", got.Kind)
		assert.Equal(t, &URL{URL: "https://example.com/"}, got.URL)
		assert.Nil(t, got.Paste)
		assert.Nil(t, got.Upload)
	})

	t.Run("tombstoned upload", func(t *testing.T) {
		got := NewShortLink(&storage.ShortLink{
			Link: "f", Kind: storage.KindUpload, Hash: "h", ExpiresAt: &expires,
			Upload: &storage.Upload{OriginalFilename: "a.txt", Mimetype: "text/plain", Size: 3},
		}, "https://vh7.uk")

		assert.Equal(t, &Upload{
			OriginalFilename: "a.txt",
			Mimetype:         "text/plain",
			Hash:             "h",
			Size:             3,
			Expires:          &expires,
			Available:        false,
		}, got.Upload)
	})

	t.Run("paste", func(t *testing.T) {
		got := NewShortLink(&storage.ShortLink{
			Link: "p", Kind: storage.KindPaste, Hash: "h",
			Paste: &storage.Paste{Language: "go", Code: "package main"},
		}, "https://vh7.uk")

		assert.Equal(t, &Paste{Language: "go", Code: "package main", Hash: "h"}, got.Paste)
	})
}

func TestNewShortLinks_Empty(t *testing.T) {
	got := NewShortLinks(nil, "https://vh7.uk")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
