package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/vh7/internal/storage"
)

func TestBucketService(t *testing.T) {
	f := newLinkFixture(t, LinkOptions{})
	buckets := NewBucketService(f.store)
	buckets.now = func() time.Time { return f.now }
	ctx := context.Background()

	owner := registeredUser(t, f.store, "owner@example.com")
	other := registeredUser(t, f.store, "other@example.com")

	_, err := buckets.Create(ctx, owner, BucketInput{Name: " ", Description: strings.Repeat("d", 501)})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, Messages(err), 2)

	private, err := buckets.Create(ctx, owner, BucketInput{Name: " Work ", Description: "stuff"})
	require.NoError(t, err)
	assert.Equal(t, "Work", private.Name)
	assert.Equal(t, owner.ID, private.UserID)

	public, err := buckets.Create(ctx, owner, BucketInput{Name: "Shared", Public: true})
	require.NoError(t, err)

	list, err := buckets.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = buckets.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	live, _, err := f.svc.Shorten(ctx, "example.com", Owner{User: owner, BucketID: &public.ID})
	require.NoError(t, err)
	expiring, _, err := f.svc.Upload(ctx, UploadInput{Filename: "f", Data: []byte("f")}, Owner{User: owner, BucketID: &public.ID})
	require.NoError(t, err)

	t.Run("public bucket is visible to everyone", func(t *testing.T) {
		got, links, err := buckets.Get(ctx, public.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, public.ID, got.ID)
		assert.Len(t, links, 2)
	})

	t.Run("expired links are hidden", func(t *testing.T) {
		f.now = expiring.ExpiresAt.Add(time.Second)

		_, links, err := buckets.Get(ctx, public.ID, other)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, live.ID, links[0].ID)
	})

	t.Run("private bucket is only visible to the owner", func(t *testing.T) {
		_, _, err := buckets.Get(ctx, private.ID, other)
		assert.ErrorIs(t, err, ErrNotFound)

		_, _, err = buckets.Get(ctx, private.ID, nil)
		assert.ErrorIs(t, err, ErrNotFound)

		_, _, err = buckets.Get(ctx, private.ID, owner)
		assert.NoError(t, err)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		_, _, err := buckets.Get(ctx, 9999, owner)
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, []string{"Bucket not found"}, Messages(err))
	})
}
