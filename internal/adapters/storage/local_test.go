package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"institutebackend/internal/domain"
)

func TestLocalStore_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "1700-abc-poster.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/public/uploads/1700-abc-poster.png", ref)

	data, err := os.ReadFile(filepath.Join(root, "uploads", "1700-abc-poster.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Remove(ctx, ref))
	_, err = os.Stat(filepath.Join(root, "uploads", "1700-abc-poster.png"))
	assert.True(t, os.IsNotExist(err))

	err = store.Remove(ctx, ref)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_Save_refusesOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "same.png", strings.NewReader("1"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "same.png", strings.NewReader("2"))
	require.Error(t, err)
}

func TestLocalStore_Remove_rejectsOutsideRefs(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	for _, ref := range []string{
		"/public/uploads/../secret.txt",
		"/public/secret.txt",
		"/public/uploads/",
		"https://example.com/x.png",
	} {
		t.Run(ref, func(t *testing.T) {
			err := store.Remove(context.Background(), ref)
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrNotFound)
		})
	}
	_, err = os.Stat(outside)
	require.NoError(t, err)
}
