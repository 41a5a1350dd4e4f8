package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/playmat/internal/domain/activity"
)

// DefaultSaveDebounce is the quiet period after the last settled change
// before the project is written to the store.
const DefaultSaveDebounce = 300 * time.Millisecond

// Store persists the serialized project document.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Clear(ctx context.Context) error
}

// Journal receives an entry for every settled change.
type Journal interface {
	Record(ctx context.Context, entry activity.Entry)
}

// Options configures a Session. Every field is optional.
type Options struct {
	Store   Store
	Journal Journal
	Logger  *slog.Logger
	// SaveDebounce delays saves after a settled change. Zero selects
	// DefaultSaveDebounce; a negative value saves synchronously.
	SaveDebounce time.Duration
	// HistoryLimit caps the undo log; zero selects history.DefaultLimit.
	HistoryLimit int
	// Clock stamps saved documents.
	Clock func() time.Time
}
