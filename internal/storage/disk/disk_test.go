package disk_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/disk"
	"github.com/KirkDiggler/dnd-mcp/internal/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storagetest.Harness {
		c := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		s, err := disk.Open(&disk.Config{Directory: t.TempDir(), Clock: c})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		return storagetest.Harness{Store: s, Advance: c.Advance}
	})
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "save_data")

	s, err := disk.Open(&disk.Config{Directory: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, disk.FileName), s.Path())
	require.NoError(t, s.Set(ctx, "k", []byte("persisted"), 0))
	require.NoError(t, s.Close())

	reopened, err := disk.Open(&disk.Config{Directory: dir})
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestOpenRequiresDirectory(t *testing.T) {
	_, err := disk.Open(&disk.Config{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	s, err := disk.Open(&disk.Config{Directory: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
	assert.Equal(t, "disk", errors.GetMeta(err)[errors.MetaBackend])
	assert.Equal(t, "k", errors.GetMeta(err)[errors.MetaKey])
}

func TestCorruptEnvelopeIsDataLoss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := bbolt.Open(filepath.Join(dir, disk.FileName), 0o600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("kv"))
		if err != nil {
			return err
		}
		return b.Put([]byte("broken"), []byte("{not json"))
	}))
	require.NoError(t, db.Close())

	s, err := disk.Open(&disk.Config{Directory: dir})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Get(ctx, "broken")
	require.Error(t, err)
	assert.True(t, errors.IsDataLoss(err))
	assert.False(t, errors.IsStorageUnavailable(err))
	assert.Equal(t, "broken", errors.GetMeta(err)[errors.MetaKey])

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, keys)
}
