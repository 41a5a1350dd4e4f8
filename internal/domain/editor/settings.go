package editor

import (
	"fmt"
	"math"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/units"
)

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func (s *Session) setting(summary string, fn func(project.State) project.State) error {
	return s.commit(activity.TypeSettingsChanged, func() string { return summary }, func(cur project.State) (project.State, error) {
		return fn(cur), nil
	})
}

// SetMatSize replaces the mat dimensions, in centimeters.
func (s *Session) SetMatSize(size project.Size) error {
	if err := positive("mat width", size.Width); err != nil {
		return err
	}
	if err := positive("mat height", size.Height); err != nil {
		return err
	}
	return s.setting(fmt.Sprintf("mat size %gx%g cm", size.Width, size.Height), func(cur project.State) project.State {
		return project.SetMatSize(cur, size)
	})
}

// SetGridEnabled toggles grid snapping and the grid overlay.
func (s *Session) SetGridEnabled(enabled bool) error {
	return s.setting(fmt.Sprintf("grid enabled %t", enabled), func(cur project.State) project.State {
		return project.SetGridEnabled(cur, enabled)
	})
}

// SetGridSize replaces the grid pitch, in centimeters.
func (s *Session) SetGridSize(sizeCM float64) error {
	if err := positive("grid size", sizeCM); err != nil {
		return err
	}
	return s.setting(fmt.Sprintf("grid size %g cm", sizeCM), func(cur project.State) project.State {
		return project.SetGridSize(cur, sizeCM)
	})
}

// SetUnit replaces the display unit.
func (s *Session) SetUnit(u units.Unit) error {
	if !u.Valid() {
		return fmt.Errorf("%w: unit %q", ErrInvalidInput, u)
	}
	return s.setting("unit "+u.String(), func(cur project.State) project.State {
		return project.SetUnit(cur, u)
	})
}

// SetExportDPI replaces the export density.
func (s *Session) SetExportDPI(dpi float64) error {
	if err := positive("dpi", dpi); err != nil {
		return err
	}
	return s.setting(fmt.Sprintf("export dpi %g", dpi), func(cur project.State) project.State {
		return project.SetExportDPI(cur, dpi)
	})
}

// SetProjectName replaces the project name.
func (s *Session) SetProjectName(name string) error {
	return s.setting("project name "+name, func(cur project.State) project.State {
		return project.SetProjectName(cur, name)
	})
}

// SetDefaultZoneSize replaces the size of new zones, in centimeters.
func (s *Session) SetDefaultZoneSize(size project.Size) error {
	if err := positive("zone width", size.Width); err != nil {
		return err
	}
	if err := positive("zone height", size.Height); err != nil {
		return err
	}
	return s.setting(fmt.Sprintf("default zone size %gx%g cm", size.Width, size.Height), func(cur project.State) project.State {
		return project.SetDefaultZoneSize(cur, size)
	})
}

// SetAuxAPIKey stores the image-search key.
func (s *Session) SetAuxAPIKey(key string) error {
	return s.setting("image search key changed", func(cur project.State) project.State {
		return project.SetAuxAPIKey(cur, key)
	})
}

// SetBackground replaces the background image. The placement is cleared and
// recomputed once the render surface reports the image size. An empty value
// removes the background.
func (s *Session) SetBackground(kind project.SourceKind, value string) error {
	if value != "" && !kind.Valid() {
		return fmt.Errorf("%w: background kind %q", ErrInvalidInput, kind)
	}
	summary := "background removed"
	if value != "" {
		summary = "background set from " + string(kind)
	}
	return s.commit(activity.TypeBackgroundChanged, func() string { return summary }, func(cur project.State) (project.State, error) {
		if value == "" {
			kind = ""
			if s.selection.IsBackground() {
				s.selection.Clear()
			}
		}
		s.dropGestureTarget(selection.BackgroundID)
		return project.SetBackground(cur, kind, value), nil
	})
}

// ReportBackgroundImage is called by the render surface once the background
// image has loaded. If the background has no placement yet it is cover-fitted
// and centered. The fit amends the current history entry instead of adding
// one, so undo never lands on an unplaced background. It reports whether a
// placement was computed.
func (s *Session) ReportBackgroundImage(imageWidth, imageHeight float64) (bool, error) {
	if err := positive("image width", imageWidth); err != nil {
		return false, err
	}
	if err := positive("image height", imageHeight); err != nil {
		return false, err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if s.state.Background != nil || s.state.BackgroundSource.Empty() {
		s.mu.Unlock()
		return false, nil
	}
	matW, matH := s.state.MatPixels()
	s.state = project.SetBackgroundTransform(s.state, project.AutoFit(matW, matH, imageWidth, imageHeight))
	s.history.ReplaceCurrent(s.state)
	s.dirty = true
	ev, subs := s.eventLocked(activity.TypeBackgroundChanged, "background fitted", true)
	cursor := s.history.Cursor()
	s.mu.Unlock()

	s.settled(ev, subs, cursor)
	return true, nil
}

// FitBackground places the background with one of the fit presets.
func (s *Session) FitBackground(mode project.BackgroundFit) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: fit %q", ErrInvalidInput, mode)
	}
	return s.commit(activity.TypeBackgroundChanged, func() string { return "background " + string(mode) }, func(cur project.State) (project.State, error) {
		if cur.Background == nil {
			return cur, project.ErrNoBackground
		}
		matW, matH := cur.MatPixels()
		bg := project.Fit(mode, matW, matH, cur.Background.ImageWidth, cur.Background.ImageHeight)
		return project.SetBackgroundTransform(cur, bg), nil
	})
}

// SetBackgroundTransform replaces the background placement.
func (s *Session) SetBackgroundTransform(bg project.Background) error {
	for name, v := range map[string]float64{
		"scaleX": bg.ScaleX, "scaleY": bg.ScaleY, "imageWidth": bg.ImageWidth, "imageHeight": bg.ImageHeight,
	} {
		if err := positive(name, v); err != nil {
			return err
		}
	}
	if math.IsNaN(bg.X) || math.IsNaN(bg.Y) || math.IsInf(bg.X, 0) || math.IsInf(bg.Y, 0) {
		return fmt.Errorf("%w: background position", ErrInvalidInput)
	}
	return s.commit(activity.TypeBackgroundChanged, func() string { return "background moved" }, func(cur project.State) (project.State, error) {
		if cur.BackgroundSource.Empty() {
			return cur, project.ErrNoBackground
		}
		return project.SetBackgroundTransform(cur, bg), nil
	})
}

// SetBackgroundDisplaySize resizes the background uniformly so that its width
// (or, with byHeight, its height) equals v in the display unit.
func (s *Session) SetBackgroundDisplaySize(v float64, byHeight bool) error {
	if err := positive("background size", v); err != nil {
		return err
	}
	return s.commit(activity.TypeBackgroundChanged, func() string { return "background resized" }, func(cur project.State) (project.State, error) {
		if cur.Background == nil {
			return cur, project.ErrNoBackground
		}
		bg := cur.Background.WithDisplayWidth(v, cur.Unit)
		if byHeight {
			bg = cur.Background.WithDisplayHeight(v, cur.Unit)
		}
		return project.SetBackgroundTransform(cur, bg), nil
	})
}

func (s *Session) dropGestureTarget(id string) {
	if s.gesture != nil {
		s.gesture.drop([]string{id})
	}
}
