package storage_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/nordcup-as/production-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("cup logo artwork")
	storagePath, size, err := s.Upload(ctx, "logo.png", "image/png", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.NotEmpty(t, storagePath)

	reader, err := s.Download(ctx, storagePath)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	require.NoError(t, s.Delete(ctx, storagePath))

	_, err = s.Download(ctx, storagePath)
	assert.Error(t, err)

	// Deleting a missing file is not an error
	assert.NoError(t, s.Delete(ctx, storagePath))
}

func TestLocalStorage_UniquePaths(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, _, err := s.Upload(ctx, "design.pdf", "application/pdf", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	second, _, err := s.Upload(ctx, "design.pdf", "application/pdf", bytes.NewReader([]byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
