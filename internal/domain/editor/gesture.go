package editor

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/grid"
)

// Frame is the live geometry of one object during a gesture, in screen
// pixels. For the background, Width and Height are the drawn size and
// Rotation is ignored.
type Frame struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

func (f Frame) valid() bool {
	for _, v := range []float64{f.X, f.Y, f.Width, f.Height, f.Rotation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return f.Width > 0 && f.Height > 0
}

// gesture is the transient position cache of an in-progress drag, resize
// or pan, keyed by object id.
type gesture struct {
	ids    []string
	start  map[string]Frame
	frames map[string]Frame
}

func (g *gesture) drop(ids []string) {
	for _, id := range ids {
		delete(g.frames, id)
		delete(g.start, id)
	}
	kept := g.ids[:0]
	for _, id := range g.ids {
		if _, ok := g.frames[id]; ok {
			kept = append(kept, id)
		}
	}
	g.ids = kept
}

func zoneFrame(z project.Zone) Frame {
	return Frame{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height, Rotation: z.Rotation}
}

func backgroundFrame(bg project.Background) Frame {
	return Frame{X: bg.X, Y: bg.Y, Width: bg.ImageWidth * bg.ScaleX, Height: bg.ImageHeight * bg.ScaleY}
}

// BeginGesture starts a transient edit of the given zones, or of the placed
// background when ids is selection.BackgroundID. Until the gesture ends,
// updates change only what View returns.
func (s *Session) BeginGesture(ids ...string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.gesture != nil {
		s.mu.Unlock()
		return ErrGestureActive
	}
	if len(ids) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: no gesture targets", ErrInvalidInput)
	}
	g := &gesture{start: make(map[string]Frame, len(ids)), frames: make(map[string]Frame, len(ids))}
	for _, id := range ids {
		if _, dup := g.frames[id]; dup {
			continue
		}
		if id == selection.BackgroundID {
			if s.state.Background == nil {
				s.mu.Unlock()
				return project.ErrNoBackground
			}
			g.frames[id] = backgroundFrame(*s.state.Background)
		} else {
			z, ok := s.state.Zone(id)
			if !ok {
				s.mu.Unlock()
				return fmt.Errorf("%w: %s", project.ErrZoneNotFound, id)
			}
			g.frames[id] = zoneFrame(z)
		}
		g.start[id] = g.frames[id]
		g.ids = append(g.ids, id)
	}
	s.gesture = g
	s.mu.Unlock()
	return nil
}

// UpdateGesture moves one object of the current gesture. Zone sizes are held
// at the minimum; no snapping is applied.
func (s *Session) UpdateGesture(id string, f Frame) error {
	if !f.valid() {
		return fmt.Errorf("%w: frame %+v", ErrInvalidInput, f)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.gesture == nil {
		s.mu.Unlock()
		return ErrNoGesture
	}
	if _, ok := s.gesture.frames[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotInGesture, id)
	}
	if id != selection.BackgroundID {
		f.Width = math.Max(project.MinZoneSize, f.Width)
		f.Height = math.Max(project.MinZoneSize, f.Height)
	}
	s.gesture.frames[id] = f
	s.transient(activity.TypeGestureUpdated, "moving "+id)
	return nil
}

// Geometry returns the live frame of a zone or the background: its gesture
// frame while a gesture is in progress, else its committed geometry.
func (s *Session) Geometry(id string) (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture != nil {
		if f, ok := s.gesture.frames[id]; ok {
			return f, true
		}
	}
	if id == selection.BackgroundID {
		if s.state.Background == nil {
			return Frame{}, false
		}
		return backgroundFrame(*s.state.Background), true
	}
	z, ok := s.state.Zone(id)
	if !ok {
		return Frame{}, false
	}
	return zoneFrame(z), true
}

// GestureActive reports whether a gesture is in progress.
func (s *Session) GestureActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gesture != nil
}

// CommitGesture ends the gesture and commits its final frames as one change.
// Zone positions and sizes are snapped to the grid when it is enabled and
// sizes are held at the minimum. A gesture that changed nothing records no
// history entry.
func (s *Session) CommitGesture() error {
	s.mu.Lock()
	if s.closed {
		s.gesture = nil
		s.mu.Unlock()
		return ErrClosed
	}
	g := s.gesture
	if g == nil {
		s.mu.Unlock()
		return ErrNoGesture
	}
	s.gesture = nil

	next := s.state
	for _, id := range g.ids {
		f := g.frames[id]
		if id == selection.BackgroundID {
			if next.Background == nil {
				continue
			}
			bg := *next.Background
			bg.X, bg.Y = f.X, f.Y
			bg.ScaleX = f.Width / bg.ImageWidth
			bg.ScaleY = f.Height / bg.ImageHeight
			next = project.SetBackgroundTransform(next, bg)
			continue
		}
		if !next.HasZone(id) {
			continue
		}
		f = settle(f, g.start[id], next)
		patch := project.Geometry(f.X, f.Y, f.Width, f.Height)
		patch.Rotation = project.Ptr(f.Rotation)
		next = project.UpdateZone(next, id, patch)
	}

	if reflect.DeepEqual(next, s.state) {
		s.transient(activity.TypeGestureUpdated, "gesture ended without change")
		return nil
	}
	s.setLocked(next)
	ev, subs := s.eventLocked(activity.TypeGestureCommitted, "moved "+strings.Join(g.ids, ", "), true)
	cursor := s.history.Cursor()
	s.mu.Unlock()

	s.settled(ev, subs, cursor)
	return nil
}

// CancelGesture ends the gesture and discards its frames.
func (s *Session) CancelGesture() {
	s.mu.Lock()
	if s.gesture == nil {
		s.mu.Unlock()
		return
	}
	s.gesture = nil
	s.transient(activity.TypeGestureUpdated, "gesture cancelled")
}

// settle snaps a zone frame to the grid and enforces the minimum size. The
// position is always snapped; the size only when the gesture resized it.
func settle(f, start Frame, s project.State) Frame {
	snap := func(v float64) float64 { return grid.Snap(v, s.GridSize, s.GridEnabled) }
	f.X = snap(f.X)
	f.Y = snap(f.Y)
	if f.Width != start.Width || f.Height != start.Height {
		f.Width = math.Max(project.MinZoneSize, snap(math.Max(project.MinZoneSize, f.Width)))
		f.Height = math.Max(project.MinZoneSize, snap(math.Max(project.MinZoneSize, f.Height)))
	}
	return f
}

// viewLocked overlays the gesture frames on the committed state.
func (s *Session) viewLocked() project.State {
	view := s.state.Clone()
	if s.gesture == nil {
		return view
	}
	for id, f := range s.gesture.frames {
		if id == selection.BackgroundID {
			if view.Background != nil {
				bg := view.Background
				bg.X, bg.Y = f.X, f.Y
				bg.ScaleX = f.Width / bg.ImageWidth
				bg.ScaleY = f.Height / bg.ImageHeight
			}
			continue
		}
		for i := range view.Zones {
			if view.Zones[i].ID == id {
				z := &view.Zones[i]
				z.X, z.Y, z.Width, z.Height, z.Rotation = f.X, f.Y, f.Width, f.Height, f.Rotation
			}
		}
	}
	return view
}
