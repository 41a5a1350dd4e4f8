package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/repository"
)

func TestProjectStore_LoadEmpty(t *testing.T) {
	store := NewProjectStore(NewTestDB(t))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectStore_SaveLoad(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`{"projectName":"one"}`)))
	require.NoError(t, store.Save(ctx, []byte(`{"projectName":"two"}`)))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"projectName":"two"}`, string(data))

	var version string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, VersionKey).Scan(&version))
	require.Equal(t, document.Version, version)
}

func TestProjectStore_MissingVersionIsNotFound(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`{}`)))
	_, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, VersionKey)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectStore_MissingDocumentIsNotFound(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, VersionKey, "1.0")
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectStore_Clear(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES ('unrelated', 'kept')`)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, []byte(`{}`)))
	require.NoError(t, store.Clear(ctx))

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&count))
	require.Equal(t, 1, count)

	// Clearing an empty store is not an error.
	require.NoError(t, store.Clear(ctx))
}

func TestProjectStore_SavedAt(t *testing.T) {
	store := NewProjectStore(NewTestDB(t))
	ctx := context.Background()
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	_, err := store.SavedAt(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte(`{}`)))
	got, err := store.SavedAt(ctx)
	require.NoError(t, err)
	require.True(t, at.Equal(got), "got %v", got)
}
