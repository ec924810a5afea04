package kv

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"cvkeeper/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE slots (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSQLiteStore_SetGet(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "cv-draft", `{"a":1}`))

	got, err := s.GetItem(ctx, "cv-draft")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "cv-draft", "one"))
	require.NoError(t, s.SetItem(ctx, "cv-draft", "two"))

	got, err := s.GetItem(ctx, "cv-draft")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))

	_, err := s.GetItem(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLiteStore_Remove(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "cv-draft", "x"))
	require.NoError(t, s.RemoveItem(ctx, "cv-draft"))

	_, err := s.GetItem(ctx, "cv-draft")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	// removing an absent key is not an error
	require.NoError(t, s.RemoveItem(ctx, "cv-draft"))
}

func TestMemoryStore_Basics(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetItem(ctx, "k")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	require.NoError(t, s.SetItem(ctx, "k", "v"))
	got, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, s.RemoveItem(ctx, "k"))
	_, err = s.GetItem(ctx, "k")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
