package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/repository"
)

const (
	// ProjectKey holds the serialized project document.
	ProjectKey = "playmat-generator-project"
	// VersionKey holds the schema version of the saved document.
	VersionKey = "playmat-generator-version"
)

// ProjectStore implements repository.ProjectStore on the kv table.
type ProjectStore struct {
	db  *DB
	now func() time.Time
}

var _ repository.ProjectStore = (*ProjectStore)(nil)

// NewProjectStore creates a new ProjectStore
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db, now: time.Now}
}

// Load returns the saved document. A missing document or version tag is
// reported as repository.ErrNotFound.
func (s *ProjectStore) Load(ctx context.Context) ([]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE key IN (?, ?)`, ProjectKey, VersionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan project key: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project keys: %w", err)
	}

	doc, hasDoc := values[ProjectKey]
	_, hasVersion := values[VersionKey]
	if !hasDoc || !hasVersion {
		return nil, repository.ErrNotFound
	}
	return []byte(doc), nil
}

// Save writes the document and the current schema version together.
func (s *ProjectStore) Save(ctx context.Context, doc []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	now := s.now()
	if _, err := tx.ExecContext(ctx, query, ProjectKey, string(doc), now); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, VersionKey, document.Version, now); err != nil {
		return fmt.Errorf("failed to save project version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", err)
	}
	return nil
}

// Clear removes the saved document and its version tag.
func (s *ProjectStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, ProjectKey, VersionKey); err != nil {
		return fmt.Errorf("failed to clear project: %w", err)
	}
	return nil
}

// SavedAt returns when the document was last written.
func (s *ProjectStore) SavedAt(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, ProjectKey).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, repository.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read save time: %w", err)
	}
	return at, nil
}
