package uploads

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveOpenRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	require.NoError(t, store.Save("abc.txt", []byte("hello")))

	exists, err := store.Exists("abc.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	f, err := store.Open("abc.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "hello", string(data))

	// no temp files left behind
	entries, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, store.Remove("abc.txt"))

	exists, err = store.Exists("abc.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.Remove("abc.txt")
	assert.True(t, IsNotExist(err))
}

func TestStore_Overwrite(t *testing.T) {
	store := NewStore(afero.NewMemMapFs())

	require.NoError(t, store.Save("f", []byte("first")))
	require.NoError(t, store.Save("f", []byte("second")))

	f, err := store.Open("f")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_ReadOnlyFsLeavesNothing(t *testing.T) {
	store := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	err := store.Save("f", []byte("data"))
	assert.Error(t, err)
}

func TestStore_InvalidNames(t *testing.T) {
	store := NewStore(afero.NewMemMapFs())

	for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b", `a\b`, ".hidden"} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Save(name, nil), ErrInvalidName)
			_, err := store.Open(name)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.ErrorIs(t, store.Remove(name), ErrInvalidName)
		})
	}
}

func TestNewDiskStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewDiskStore(dir + "/nested")
	require.NoError(t, err)
	require.NoError(t, store.Save("x.bin", []byte{1, 2, 3}))

	exists, err := afero.Exists(afero.NewOsFs(), dir+"/nested/x.bin")
	require.NoError(t, err)
	assert.True(t, exists)
}
