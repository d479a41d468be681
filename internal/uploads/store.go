// Package uploads keeps the bytes of uploaded files.
package uploads

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var ErrInvalidName = errors.New("invalid stored file name")

// Store saves files flat under the root of its filesystem.
type Store struct {
	fs afero.Fs
}

func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewDiskStore returns a store rooted at dir, creating it when missing.
func NewDiskStore(dir string) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return NewStore(afero.NewBasePathFs(osFs, dir)), nil
}

// Save writes data under name. The file appears complete or not at all.
func (s *Store) Save(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}

	tmp := "." + name + ".tmp-" + uuid.NewString()

	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.fs.Rename(tmp, name); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Open returns the stored file for reading.
func (s *Store) Open(name string) (afero.File, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return s.fs.Open(name)
}

// Remove deletes the stored file. The error wraps fs.ErrNotExist when the
// file is already gone.
func (s *Store) Remove(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	return s.fs.Remove(name)
}

func (s *Store) Exists(name string) (bool, error) {
	if err := validName(name); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

// IsNotExist reports whether err means the stored file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
