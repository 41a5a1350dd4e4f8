package editor

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/grid"
)

// AddZone appends a zone built from p over the default style and returns
// its id. The new zone paints on top of existing zones.
func (s *Session) AddZone(p project.ZonePatch) (string, error) {
	if err := validatePatch(p); err != nil {
		return "", err
	}
	var id string
	err := s.commit(activity.TypeZoneAdded, func() string { return "added " + id }, func(cur project.State) (project.State, error) {
		next, newID := project.AddZone(cur, p)
		id = newID
		return next, nil
	})
	return id, err
}

// UpdateZone applies p to one zone. An unknown id adds a zone with that id.
func (s *Session) UpdateZone(id string, p project.ZonePatch) error {
	if id == "" || id == selection.BackgroundID {
		return fmt.Errorf("%w: zone id %q", ErrInvalidInput, id)
	}
	if err := validatePatch(p); err != nil {
		return err
	}
	return s.commit(activity.TypeZoneUpdated, func() string { return "updated " + id }, func(cur project.State) (project.State, error) {
		return project.UpdateZone(cur, id, p), nil
	})
}

// EditSelection applies p to the selection: the primary zone receives the
// whole patch and the other multi-selected zones receive it without x and y.
func (s *Session) EditSelection(p project.ZonePatch) error {
	if err := validatePatch(p); err != nil {
		return err
	}
	var targets []string
	return s.commit(activity.TypeSelectionEdited, func() string {
		return "edited " + strings.Join(targets, ", ")
	}, func(cur project.State) (project.State, error) {
		targets = s.selection.Targets()
		if len(targets) == 0 || !cur.HasZone(targets[0]) {
			return cur, ErrNothingSelected
		}
		next := project.UpdateZone(cur, targets[0], p)
		return project.BatchUpdateZones(next, targets[1:], p), nil
	})
}

// RemoveZones deletes the given zones. If the primary selection is among
// them the selection is cleared; otherwise they leave the multi-selection.
func (s *Session) RemoveZones(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.commit(activity.TypeZonesRemoved, func() string {
		return "removed " + strings.Join(ids, ", ")
	}, func(cur project.State) (project.State, error) {
		s.removeLocked(ids)
		return project.RemoveZones(cur, ids), nil
	})
}

// RemoveSelected deletes every selected zone and returns how many were
// removed. A selected background is not removed.
func (s *Session) RemoveSelected() (int, error) {
	var ids []string
	err := s.commit(activity.TypeZonesRemoved, func() string {
		return "removed " + strings.Join(ids, ", ")
	}, func(cur project.State) (project.State, error) {
		for _, id := range s.selection.Targets() {
			if cur.HasZone(id) {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return cur, ErrNothingSelected
		}
		s.removeLocked(ids)
		s.selection.Clear()
		return project.RemoveZones(cur, ids), nil
	})
	return len(ids), err
}

func (s *Session) removeLocked(ids []string) {
	s.selection.Forget(ids)
	if s.gesture != nil {
		s.gesture.drop(ids)
	}
	if s.clipboard != nil {
		for _, id := range ids {
			if s.clipboard.ID == id {
				s.clipboard = nil
				break
			}
		}
	}
}

// Select replaces the selection with id. An empty id clears it. The
// background may be selected once a background image is set.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	if err := s.selectableLocked(id); err != nil && id != "" {
		s.mu.Unlock()
		return err
	}
	s.selection.Replace(id)
	s.transient(activity.TypeSelectionChanged, "selected "+id)
	return nil
}

// ToggleSelect adds id to the multi-selection, or removes it if present,
// and makes it the primary selection. It reports whether id is now a member.
func (s *Session) ToggleSelect(id string) (bool, error) {
	s.mu.Lock()
	if err := s.selectableLocked(id); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if id == selection.BackgroundID {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: the background cannot be multi-selected", ErrInvalidInput)
	}
	member := s.selection.Toggle(id)
	s.transient(activity.TypeSelectionChanged, "toggled "+id)
	return member, nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selection.Clear()
	s.transient(activity.TypeSelectionChanged, "selection cleared")
}

// Selection returns the current selection.
func (s *Session) Selection() selection.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Snapshot()
}

// RestoreSelection reinstates a selection taken with Selection, dropping
// zones that no longer exist.
func (s *Session) RestoreSelection(snap selection.Snapshot) {
	s.mu.Lock()
	s.selection.Restore(snap)
	s.selection.Retain(s.existsLocked)
	s.transient(activity.TypeSelectionChanged, "selection restored")
}

// Targets returns the ids a property edit applies to, primary first.
func (s *Session) Targets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Targets()
}

func (s *Session) existsLocked(id string) bool {
	if id == selection.BackgroundID {
		return !s.state.BackgroundSource.Empty()
	}
	return s.state.HasZone(id)
}

func (s *Session) selectableLocked(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty id", ErrInvalidInput)
	case id == selection.BackgroundID && s.state.BackgroundSource.Empty():
		return project.ErrNoBackground
	case !s.existsLocked(id):
		return fmt.Errorf("%w: %s", project.ErrZoneNotFound, id)
	}
	return nil
}

// Copy places the primary selected zone on the clipboard.
func (s *Session) Copy() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.state.Zone(s.selection.Primary())
	if !ok {
		return "", ErrNothingSelected
	}
	s.clipboard = &z
	return z.ID, nil
}

// Paste appends a copy of the clipboard zone under a fresh id, offset by one
// grid pitch (or a fixed distance when the grid is off), and selects it.
func (s *Session) Paste() (string, error) {
	var id string
	err := s.commit(activity.TypeZonePasted, func() string { return "pasted " + id }, func(cur project.State) (project.State, error) {
		if s.clipboard == nil {
			return cur, ErrClipboardEmpty
		}
		next, newID := project.DuplicateZone(cur, *s.clipboard, grid.Offset(cur.GridSize, cur.GridEnabled))
		id = newID
		s.selection.Replace(id)
		return next, nil
	})
	return id, err
}

// EdgeDistances returns the distance of a zone from each mat edge in the
// display unit, using its live gesture position.
func (s *Session) EdgeDistances(id string) (project.EdgeDistances, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.viewLocked()
	z, ok := view.Zone(id)
	if !ok {
		return project.EdgeDistances{}, fmt.Errorf("%w: %s", project.ErrZoneNotFound, id)
	}
	return view.EdgeDistances(z), nil
}

func validatePatch(p project.ZonePatch) error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Width, validation.Min(0.0)),
		validation.Field(&p.Height, validation.Min(0.0)),
		validation.Field(&p.StrokeWidth, validation.Min(0.0)),
		validation.Field(&p.CornerRadius, validation.Min(0.0)),
		validation.Field(&p.FontSize, validation.Min(0.0)),
		validation.Field(&p.TextStroke, validation.Min(0.0)),
		validation.Field(&p.TextDistance, validation.Min(0.0)),
		validation.Field(&p.Opacity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&p.ImageOpacity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&p.TextPosition, validation.By(func(v any) error {
			if tp, ok := v.(*project.TextPosition); ok && tp != nil && !tp.Valid() {
				return fmt.Errorf("unknown text position %q", *tp)
			}
			return nil
		})),
		validation.Field(&p.ImageFit, validation.By(func(v any) error {
			if f, ok := v.(*project.ImageFit); ok && f != nil && !f.Valid() {
				return fmt.Errorf("unknown image fit %q", *f)
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
