package storage

import (
	"archive/zip"
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecloud/internal/logging"
	"homecloud/internal/server/models"
	"homecloud/internal/server/sandbox"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	return NewService(root, logger), root
}

func TestList_ReportsKindAndSize(t *testing.T) {
	svc, root := newTestService(t)
	user := &models.User{ID: 1, Email: "alice@example.com"}

	userRoot := sandbox.UserRoot(root, user.ID)
	require.NoError(t, os.MkdirAll(filepath.Join(userRoot, "docs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(userRoot, "hello.txt"), []byte("hi there"), 0o640))

	contents, err := svc.List(context.Background(), user, "")
	require.NoError(t, err)

	require.Len(t, contents, 2)
	byName := map[string]models.Element{}
	for _, e := range contents {
		byName[e.Name] = e
	}
	assert.Equal(t, models.Element{Type: models.ElementTypeDirectory, Name: "docs", Bytes: 0}, byName["docs"])
	assert.Equal(t, models.Element{Type: models.ElementTypeFile, Name: "hello.txt", Bytes: 8}, byName["hello.txt"])
}

func TestList_MissingDirectory(t *testing.T) {
	svc, _ := newTestService(t)
	user := &models.User{ID: 1}

	_, err := svc.List(context.Background(), user, "no/such/dir")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestList_RejectsTraversal(t *testing.T) {
	svc, _ := newTestService(t)
	user := &models.User{ID: 1}

	_, err := svc.List(context.Background(), user, "../2")
	assert.ErrorIs(t, err, sandbox.ErrPathTraversal)
}

func TestMakeDirectory_CreatesParents(t *testing.T) {
	svc, root := newTestService(t)
	user := &models.User{ID: 3}

	require.NoError(t, svc.MakeDirectory(context.Background(), user, "a/b/c"))

	info, err := os.Stat(filepath.Join(sandbox.UserRoot(root, 3), "a", "b", "c"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenAndStream_File(t *testing.T) {
	svc, root := newTestService(t)
	user := &models.User{ID: 5}

	userRoot := sandbox.UserRoot(root, user.ID)
	require.NoError(t, os.MkdirAll(userRoot, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(userRoot, "report.pdf"), []byte("content"), 0o640))

	src, err := svc.Open(context.Background(), user, "report.pdf")
	require.NoError(t, err)
	assert.False(t, src.IsDir)
	assert.Equal(t, "report.pdf", src.Name)

	var buf bytes.Buffer
	require.NoError(t, src.Stream(&buf))
	assert.Equal(t, "content", buf.String())
}

func TestOpenAndStream_DirectoryProducesArchive(t *testing.T) {
	svc, root := newTestService(t)
	user := &models.User{ID: 5}

	userRoot := sandbox.UserRoot(root, user.ID)
	require.NoError(t, os.MkdirAll(filepath.Join(userRoot, "photos"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(userRoot, "photos", "a.jpg"), []byte("jpeg"), 0o640))

	src, err := svc.Open(context.Background(), user, "photos")
	require.NoError(t, err)
	assert.True(t, src.IsDir)

	var buf bytes.Buffer
	require.NoError(t, src.Stream(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "a.jpg", zr.File[0].Name)
}

func TestOpen_MissingPath(t *testing.T) {
	svc, _ := newTestService(t)
	user := &models.User{ID: 5}

	_, err := svc.Open(context.Background(), user, "ghost.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
