package repository

import (
	"context"

	"github.com/rpggio/playmat/internal/domain/activity"
)

// ProjectStore persists the single local project document.
type ProjectStore interface {
	// Load returns the saved document, or ErrNotFound when either the
	// document or its schema version is missing.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Clear(ctx context.Context) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
