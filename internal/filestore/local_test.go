package filestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/synopsis/internal/config"
)

func testLocalConfig(dir string) config.FileStoreConfig {
	return config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	}
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := New(testLocalConfig(t.TempDir()))
	require.NoError(t, err)
	require.Equal(t, "local", store.Type())
	ctx := context.Background()

	payload := []byte("%PDF-1.4 payload")
	require.NoError(t, store.Save(ctx, "pdfs/u1/doc.pdf", readSeekNopCloser{bytes.NewReader(payload)}, int64(len(payload))))

	rc, err := store.Open(ctx, "pdfs/u1/doc.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, "pdfs/u1/doc.pdf"))
	_, err = store.Open(ctx, "pdfs/u1/doc.pdf")
	require.Error(t, err)
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := New(testLocalConfig(t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "pdfs/u1/never-existed.pdf"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := New(testLocalConfig(dir))
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("x")
	err = store.Save(ctx, "../escape.pdf", readSeekNopCloser{bytes.NewReader(payload)}, 1)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.pdf"))
	require.True(t, os.IsNotExist(statErr))

	err = store.Save(ctx, "", readSeekNopCloser{bytes.NewReader(payload)}, 1)
	require.Error(t, err)
}

func TestNewUnknownStoreType(t *testing.T) {
	cfg := testLocalConfig(t.TempDir())
	cfg.Type = "tape-drive"
	_, err := New(cfg)
	require.Error(t, err)
}
