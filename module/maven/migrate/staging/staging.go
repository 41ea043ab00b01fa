// Package staging manages the local scratch space components are downloaded
// into before they are re-uploaded or deployed.
package staging

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harness/nexus-migrate/util/common/errors"

	"github.com/spf13/afero"
)

const chunkSize = 4096

// Area is a root directory under which every component gets its own
// uniquely named subdirectory.
type Area struct {
	fs   afero.Fs
	root string
}

// NewArea prepares root. An empty root resolves to a directory inside the
// system temp dir.
func NewArea(fs afero.Fs, root string) (*Area, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "nxm")
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, errors.NewFileError(root, "mkdir", err)
	}
	return &Area{fs: fs, root: root}, nil
}

func (a *Area) Fs() afero.Fs {
	return a.fs
}

func (a *Area) Root() string {
	return a.root
}

// NewDir creates a fresh directory. Concurrent callers never share one.
func (a *Area) NewDir(prefix string) (string, error) {
	dir, err := afero.TempDir(a.fs, a.root, sanitize(prefix)+"-")
	if err != nil {
		return "", errors.NewFileError(a.root, "mkdir", err)
	}
	return dir, nil
}

// Remove deletes a directory created by NewDir.
func (a *Area) Remove(dir string) error {
	if dir == "" {
		return nil
	}
	if err := a.fs.RemoveAll(dir); err != nil {
		return errors.NewFileError(dir, "remove", err)
	}
	return nil
}

func sanitize(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(name)
}

// LocalFile is a path inside a staging filesystem.
type LocalFile struct {
	fs   afero.Fs
	Path string
}

func NewLocalFile(fs afero.Fs, path string) LocalFile {
	return LocalFile{fs: fs, Path: path}
}

func (f LocalFile) Exists() bool {
	info, err := f.fs.Stat(f.Path)
	return err == nil && !info.IsDir()
}

// MD5 returns the hex digest of the file, read in fixed size chunks.
func (f LocalFile) MD5() (string, error) {
	file, err := f.fs.Open(f.Path)
	if err != nil {
		return "", errors.NewFileError(f.Path, "open", err)
	}
	defer file.Close()

	h := md5.New()
	if _, err := io.CopyBuffer(h, file, make([]byte, chunkSize)); err != nil {
		return "", errors.NewFileError(f.Path, "read", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fetch downloads into path unless a file with the expected md5 is already
// there. It reports whether a transfer took place.
func Fetch(ctx context.Context, fs afero.Fs, path, expectedMD5 string,
	open func(context.Context) (io.ReadCloser, error)) (bool, error) {
	local := NewLocalFile(fs, path)
	if expectedMD5 != "" && local.Exists() {
		sum, err := local.MD5()
		if err == nil && strings.EqualFold(sum, expectedMD5) {
			return false, nil
		}
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.NewFileError(filepath.Dir(path), "mkdir", err)
	}

	src, err := open(ctx)
	if err != nil {
		return false, err
	}
	defer src.Close()

	dst, err := fs.Create(path)
	if err != nil {
		return false, errors.NewFileError(path, "create", err)
	}
	if _, err := io.CopyBuffer(dst, src, make([]byte, chunkSize)); err != nil {
		dst.Close()
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return false, errors.NewFileError(path, "close", err)
	}
	return true, nil
}
