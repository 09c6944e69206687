package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "brainbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "highScores")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "highScores", []byte(`{"memory":10}`)))
			require.NoError(t, s.Put(ctx, "highScores", []byte(`{"memory":20}`)))

			got, err := s.Get(ctx, "highScores")
			require.NoError(t, err)
			assert.JSONEq(t, `{"memory":20}`, string(got))
		})
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Put(ctx, " ", []byte("x")))
			_, err := s.Get(ctx, "")
			assert.Error(t, err)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(ctx, "highScores", []byte("{}")), context.Canceled)
			_, err := s.Get(ctx, "highScores")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "brainbox.db")
	ctx := context.Background()

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, "highScores", []byte(`{"math":30}`)))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get(ctx, "highScores")
	require.NoError(t, err)
	assert.Equal(t, `{"math":30}`, string(got))
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Put(context.Background(), "highScores", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "highScores.json", entries[0].Name())
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, kind := range Kinds {
		s, err := Open(kind, dir)
		require.NoError(t, err, kind)
		require.NoError(t, s.Close())
	}

	_, err := Open("redis", dir)
	assert.Error(t, err)

	_, err = OpenSQLite("")
	assert.Error(t, err)
}
