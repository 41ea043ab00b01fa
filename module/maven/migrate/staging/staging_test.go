package staging

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func opener(content string, calls *int) func(context.Context) (io.ReadCloser, error) {
	return func(context.Context) (io.ReadCloser, error) {
		*calls++
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func TestArea_NewDirIsUnique(t *testing.T) {
	area, err := NewArea(afero.NewMemMapFs(), "/stage")
	require.NoError(t, err)

	a, err := area.NewDir("org.acme/lib")
	require.NoError(t, err)
	b, err := area.NewDir("org.acme/lib")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, "/stage", filepath.Dir(a))

	require.NoError(t, area.Remove(a))
	exists, err := afero.DirExists(area.Fs(), a)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalFile_MD5(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := strings.Repeat("x", 3*chunkSize+17)
	require.NoError(t, afero.WriteFile(fs, "/f.jar", []byte(content), 0o644))

	file := NewLocalFile(fs, "/f.jar")
	assert.True(t, file.Exists())
	sum, err := file.MD5()
	require.NoError(t, err)
	assert.Equal(t, md5Hex(content), sum)

	assert.False(t, NewLocalFile(fs, "/missing").Exists())
}

func TestFetch_SkipsMatchingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	calls := 0

	fetched, err := Fetch(context.Background(), fs, "/c/lib.jar", md5Hex("jar"), opener("jar", &calls))
	require.NoError(t, err)
	assert.True(t, fetched)

	fetched, err = Fetch(context.Background(), fs, "/c/lib.jar", md5Hex("jar"), opener("jar", &calls))
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 1, calls)
}

func TestFetch_ReplacesStaleFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c/lib.jar", []byte("old"), 0o644))
	calls := 0

	fetched, err := Fetch(context.Background(), fs, "/c/lib.jar", md5Hex("new"), opener("new", &calls))
	require.NoError(t, err)
	assert.True(t, fetched)

	data, err := afero.ReadFile(fs, "/c/lib.jar")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFetch_OpenError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Fetch(context.Background(), afero.NewMemMapFs(), "/c/lib.jar", "",
		func(context.Context) (io.ReadCloser, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}
