// Package editor owns the live editing session: the committed project state,
// the selection, the undo log, the in-progress gesture and persistence.
//
// Every mutation goes through one commit path that replaces the state,
// pushes a history entry, schedules a save, notifies subscribers and writes
// the journal, in that order.
package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/history"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/repository"
)

// Session is a single local editing session. It is safe for concurrent use;
// changes are applied in the order their calls acquire the session.
type Session struct {
	mu        sync.Mutex
	state     project.State
	selection *selection.Manager
	history   *history.Manager
	gesture   *gesture
	clipboard *project.Zone
	closed    bool

	subs    []subscriber
	nextSub int

	store    Store
	journal  Journal
	logger   *slog.Logger
	now      func() time.Time
	debounce time.Duration

	saveMu sync.Mutex
	timer  *time.Timer
	// writeMu serializes store writes; a snapshot is taken only while it
	// is held, so writes reach the store in commit order.
	writeMu sync.Mutex
	dirty   bool
	saveErr error
}

// New starts a session on initial without consulting the store.
func New(initial project.State, opts Options) *Session {
	s := &Session{
		state:     initial.Clone(),
		selection: selection.New(),
		history:   history.New(opts.HistoryLimit),
		store:     opts.Store,
		journal:   opts.Journal,
		logger:    opts.Logger,
		now:       opts.Clock,
		debounce:  opts.SaveDebounce,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.debounce == 0 {
		s.debounce = DefaultSaveDebounce
	}
	s.history.Reset(s.state)
	return s
}

// Open starts a session on the project saved in opts.Store, or on the
// defaults when nothing is saved. Unreadable or malformed saved data is
// logged and replaced field by field with defaults.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	initial := project.Defaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Store != nil {
		initial = load(ctx, opts.Store, logger)
	}
	return New(initial, opts), nil
}

func load(ctx context.Context, store Store, logger *slog.Logger) project.State {
	defaults := project.Defaults()
	data, err := store.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Debug("no saved project, starting from defaults")
		return defaults
	}
	if err != nil {
		logger.Warn("loading saved project failed, starting from defaults", "error", err)
		return defaults
	}
	state, problems, err := document.Decode(data, defaults)
	if err != nil {
		logger.Warn("saved project is unreadable, starting from defaults", "error", err)
		return defaults
	}
	for _, p := range problems {
		logger.Warn("saved project field replaced with default", "field", p.Field, "reason", p.Reason)
	}
	return state
}

// commit applies fn to the committed state under the lock and, on success,
// records the result as one settled change. A result equal to the current
// state records nothing.
func (s *Session) commit(kind activity.Type, summary func() string, fn func(project.State) (project.State, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if reflect.DeepEqual(next, s.state) {
		s.mu.Unlock()
		return nil
	}
	s.setLocked(next)
	ev, subs := s.eventLocked(kind, summary(), true)
	cursor := s.history.Cursor()
	s.mu.Unlock()

	s.settled(ev, subs, cursor)
	return nil
}

// setLocked replaces the committed state and pushes it to history. Inside a
// history replay the push is suppressed.
func (s *Session) setLocked(next project.State) {
	s.state = next
	s.history.Push(next)
	s.dirty = true
}

// settled runs the post-commit steps outside the lock.
func (s *Session) settled(ev Event, subs []subscriber, cursor int) {
	s.scheduleSave()
	deliver(ev, subs)
	if s.journal != nil {
		s.journal.Record(context.Background(), activity.Entry{
			Type:          ev.Kind,
			Summary:       ev.Summary,
			HistoryCursor: cursor,
		})
	}
}

// transient broadcasts a change that is neither recorded nor persisted.
func (s *Session) transient(kind activity.Type, summary string) {
	ev, subs := s.eventLocked(kind, summary, false)
	s.mu.Unlock()
	deliver(ev, subs)
}

// State returns a copy of the committed state.
func (s *Session) State() project.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// View returns the committed state with any in-progress gesture applied.
func (s *Session) View() project.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// History summarizes the undo log.
func (s *Session) History() history.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Status()
}

// Undo restores the previous history entry. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	return s.step(activity.TypeUndo, s.history.Undo)
}

// Redo restores the next history entry. It reports false when there is
// nothing to redo.
func (s *Session) Redo() bool {
	return s.step(activity.TypeRedo, s.history.Redo)
}

func (s *Session) step(kind activity.Type, move func() (project.State, bool)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	entry, ok := move()
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.gesture = nil
	s.history.Replay(func() { s.setLocked(entry) })
	s.selection.Retain(s.existsLocked)
	ev, subs := s.eventLocked(kind, string(kind), true)
	cursor := s.history.Cursor()
	s.mu.Unlock()

	s.settled(ev, subs, cursor)
	return true
}

// Close flushes any pending save and rejects further changes.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.gesture = nil
	s.mu.Unlock()
	return s.Flush(ctx)
}
