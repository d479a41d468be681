package storage_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/vh7/internal/storage"
)

func int64p(v int64) *int64 { return &v }

func urlLink(hash, target string, userID *int64) *storage.ShortLink {
	return &storage.ShortLink{
		Kind:   storage.KindURL,
		Hash:   hash,
		UserID: userID,
		URL:    &storage.URL{URL: target},
	}
}

func assignPrefixed(id int64) string { return fmt.Sprintf("l%d", id) }

func TestMemoryStorage_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	created, err := mem.CreateShortLink(ctx, urlLink("h1", "https://example.com/", nil), assignPrefixed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "l1", created.Link)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := mem.FindByLink(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", found.URL.URL)

	byID, err := mem.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Link, byID.Link)

	_, err = mem.FindByLink(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	exists, err := mem.LinkExists(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	created, err := mem.CreateShortLink(ctx, urlLink("h1", "https://example.com/", nil), assignPrefixed)
	require.NoError(t, err)

	created.URL.URL = "https://changed.example/"

	found, err := mem.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", found.URL.URL)
}

func TestMemoryStorage_Uniqueness(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	_, err := mem.CreateShortLink(ctx, urlLink("h1", "https://a.example/", nil), assignPrefixed)
	require.NoError(t, err)

	// same content, anonymous again
	_, err = mem.CreateShortLink(ctx, urlLink("h1", "https://a.example/", nil), assignPrefixed)
	assert.ErrorIs(t, err, storage.ErrConflict)

	// same content, different owner
	_, err = mem.CreateShortLink(ctx, urlLink("h1", "https://a.example/", int64p(7)), assignPrefixed)
	assert.NoError(t, err)

	// same hash, different kind
	paste := &storage.ShortLink{Kind: storage.KindPaste, Hash: "h1", Paste: &storage.Paste{Language: "go", Code: "x"}}
	_, err = mem.CreateShortLink(ctx, paste, assignPrefixed)
	assert.NoError(t, err)

	// explicit link already used
	taken := urlLink("h2", "https://b.example/", nil)
	taken.Link = "l1"
	_, err = mem.CreateShortLink(ctx, taken, nil)
	assert.ErrorIs(t, err, storage.ErrLinkTaken)
}

func TestMemoryStorage_FindDuplicate(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	created, err := mem.CreateShortLink(ctx, urlLink("h1", "https://a.example/", int64p(3)), assignPrefixed)
	require.NoError(t, err)

	found, err := mem.FindDuplicate(ctx, storage.KindURL, "h1", int64p(3))
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = mem.FindDuplicate(ctx, storage.KindURL, "h1", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStorage_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mem.CreateShortLink(ctx, urlLink("same", "https://a.example/", nil), assignPrefixed)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(t, err, storage.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 19, conflicts)
}

func TestMemoryStorage_Uploads(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired, err := mem.CreateShortLink(ctx, &storage.ShortLink{
		Kind:      storage.KindUpload,
		Hash:      "file1",
		ExpiresAt: &past,
		Upload:    &storage.Upload{OriginalFilename: "a.txt", Mimetype: "text/plain", Filename: "stored-a", Size: 10},
	}, assignPrefixed)
	require.NoError(t, err)

	_, err = mem.CreateShortLink(ctx, &storage.ShortLink{
		Kind:      storage.KindUpload,
		Hash:      "file2",
		ExpiresAt: &future,
		Upload:    &storage.Upload{OriginalFilename: "b.txt", Mimetype: "text/plain", Filename: "stored-b", Size: 10},
	}, assignPrefixed)
	require.NoError(t, err)

	list, err := mem.FindExpiredUploads(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, expired.ID, list[0].ID)

	assert.ErrorIs(t, mem.ClearUploadFilename(ctx, expired.ID, "stored-x"), storage.ErrNotFound)
	require.NoError(t, mem.ClearUploadFilename(ctx, expired.ID, "stored-a"))

	list, err = mem.FindExpiredUploads(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, mem.RestoreUpload(ctx, expired.ID, "stored-c", 12, future))

	restored, err := mem.FindByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, "stored-c", restored.Upload.Filename)
	assert.Equal(t, int64(12), restored.Upload.Size)
	assert.False(t, restored.Expired(time.Now()))

	assert.ErrorIs(t, mem.ClearUploadFilename(ctx, expired.ID, "stored-a"), storage.ErrNotFound)
	assert.ErrorIs(t, mem.ClearUploadFilename(ctx, 99, "stored-a"), storage.ErrNotFound)
}

func TestMemoryStorage_FindByUserIDNewestFirst(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	for i := 0; i < 3; i++ {
		_, err := mem.CreateShortLink(ctx, urlLink(fmt.Sprint(i), "https://a.example/", int64p(1)), assignPrefixed)
		require.NoError(t, err)
	}
	_, err := mem.CreateShortLink(ctx, urlLink("other", "https://a.example/", int64p(2)), assignPrefixed)
	require.NoError(t, err)

	links, err := mem.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "l3", links[0].Link)
	assert.Equal(t, "l1", links[2].Link)

	links, err = mem.FindByUserID(ctx, 42)
	assert.NoError(t, err)
	assert.Empty(t, links)
}

func TestMemoryStorage_Stats(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	_, _ = mem.CreateShortLink(ctx, urlLink("u1", "https://a.example/", nil), assignPrefixed)
	_, _ = mem.CreateShortLink(ctx, urlLink("u2", "https://b.example/", nil), assignPrefixed)
	_, _ = mem.CreateShortLink(ctx, &storage.ShortLink{Kind: storage.KindPaste, Hash: "p1", Paste: &storage.Paste{Language: "go", Code: "x"}}, assignPrefixed)

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{ShortenedLinks: 2, PastedCode: 1, UploadedFiles: 0, Total: 3}, *stats)
}

func TestMemoryStorage_Users(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	user, err := mem.CreateUser(ctx, &storage.User{Email: "a@example.com", PasswordHash: "hash", Active: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = mem.CreateUser(ctx, &storage.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	user.APIKey = "key"
	require.NoError(t, mem.UpdateUser(ctx, user))

	byKey, err := mem.FindUserByAPIKey(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byKey.ID)

	_, err = mem.FindUserByAPIKey(ctx, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	byEmail, err := mem.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	other, err := mem.CreateUser(ctx, &storage.User{Email: "b@example.com"})
	require.NoError(t, err)
	other.Email = "a@example.com"
	assert.ErrorIs(t, mem.UpdateUser(ctx, other), storage.ErrEmailTaken)

	assert.ErrorIs(t, mem.UpdateUser(ctx, &storage.User{ID: 99}), storage.ErrNotFound)
}

func TestMemoryStorage_Buckets(t *testing.T) {
	ctx := context.Background()
	mem, _ := storage.CreateMemoryStorage()

	bucket, err := mem.CreateBucket(ctx, &storage.Bucket{Name: "docs", UserID: 1})
	require.NoError(t, err)

	sl := urlLink("h1", "https://a.example/", int64p(1))
	sl.BucketID = &bucket.ID
	_, err = mem.CreateShortLink(ctx, sl, assignPrefixed)
	require.NoError(t, err)

	links, err := mem.FindByBucket(ctx, bucket.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	buckets, err := mem.FindBucketsByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, buckets, 1)

	_, err = mem.FindBucket(ctx, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStorage_PingContext(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	assert.NoError(t, mem.PingContext(context.Background()))
}
