package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/project"
)

// saveTimeout bounds a debounced save, which has no caller context.
const saveTimeout = 10 * time.Second

func (s *Session) scheduleSave() {
	if s.store == nil {
		return
	}
	if s.debounce < 0 {
		_ = s.save(context.Background())
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, func() {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			_ = s.save(ctx)
		})
		return
	}
	s.timer.Reset(s.debounce)
}

// save writes the committed state if it changed since the last successful
// save. Failures are logged and kept for LastSaveError; in-memory state is
// never rolled back.
func (s *Session) save(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	state := s.state.Clone()
	s.dirty = false
	s.mu.Unlock()

	data, err := document.Encode(state, s.now())
	if err == nil {
		err = s.store.Save(ctx, data)
	}

	s.mu.Lock()
	s.saveErr = err
	if err != nil {
		s.dirty = true
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("saving project failed", "error", err)
		return fmt.Errorf("saving project: %w", err)
	}
	s.logger.Debug("project saved", "bytes", len(data))
	return nil
}

// Flush cancels any pending debounce and saves immediately.
func (s *Session) Flush(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.saveMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.saveMu.Unlock()
	return s.save(ctx)
}

// LastSaveError returns the error of the most recent save, or nil.
func (s *Session) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// NewProject discards the current project: the store is cleared, state
// returns to the defaults, selection and clipboard are emptied and the undo
// log restarts with a single entry.
func (s *Session) NewProject(ctx context.Context) error {
	s.writeMu.Lock()
	if s.store != nil {
		s.saveMu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.saveMu.Unlock()
		if err := s.store.Clear(ctx); err != nil {
			s.writeMu.Unlock()
			s.logger.Warn("clearing saved project failed", "error", err)
			return fmt.Errorf("clearing saved project: %w", err)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return ErrClosed
	}
	s.state = project.Defaults()
	s.history.Reset(s.state)
	s.selection.Clear()
	s.clipboard = nil
	s.gesture = nil
	s.dirty = false
	s.saveErr = nil
	ev, subs := s.eventLocked(activity.TypeProjectReset, "new project", true)
	s.mu.Unlock()
	s.writeMu.Unlock()

	deliver(ev, subs)
	if s.journal != nil {
		s.journal.Record(ctx, activity.Entry{Type: ev.Kind, Summary: ev.Summary})
	}
	return nil
}

// Import applies a project document over the current state. Each field is
// applied independently; rejected fields keep their current values and are
// returned. A document that is not a JSON object changes nothing. The import
// is one undoable change and is saved immediately.
func (s *Session) Import(ctx context.Context, data []byte) (document.ValidationErrors, error) {
	var problems document.ValidationErrors
	err := s.commit(activity.TypeProjectImported, func() string {
		return fmt.Sprintf("imported project (%d fields rejected)", len(problems))
	}, func(cur project.State) (project.State, error) {
		next, rejected, err := document.Decode(data, cur)
		if err != nil {
			return cur, fmt.Errorf("importing project: %w", err)
		}
		problems = rejected
		s.selection.Clear()
		s.gesture = nil
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return problems, s.Flush(ctx)
}

// Document returns the indented project document and its download filename.
func (s *Session) Document() (data []byte, filename string, err error) {
	state := s.State()
	now := s.now()
	data, err = document.EncodeIndent(state, now)
	if err != nil {
		return nil, "", err
	}
	return data, document.Filename(state.ProjectName, now), nil
}
