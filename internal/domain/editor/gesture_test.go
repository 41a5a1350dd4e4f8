package editor_test

import (
	"testing"

	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/grid"
	"github.com/stretchr/testify/require"
)

func TestGesture_DragSnapsAndCommitsOnce(t *testing.T) {
	s := newSession(t)
	st := s.State()
	require.Equal(t, project.Size{Width: 60, Height: 35}, st.MatSize)
	require.True(t, st.GridEnabled)
	require.Equal(t, 1.0, st.GridSize)

	id := addZone(t, s, project.ZonePatch{})
	z := zone(t, s, id)
	require.Equal(t, 100.0, z.X)
	require.Equal(t, 100.0, z.Y)
	entries := s.History().Length

	require.NoError(t, s.BeginGesture(id))
	for _, p := range []float64{100.2, 100.5, 100.8, 101} {
		require.NoError(t, s.UpdateGesture(id, editor.Frame{X: p, Y: p, Width: z.Width, Height: z.Height}))
		require.Equal(t, entries, s.History().Length, "no entry per pointer move")
	}

	live, ok := s.Geometry(id)
	require.True(t, ok)
	require.Equal(t, 101.0, live.X)
	require.Equal(t, 101.0, s.View().Zones[0].X)
	require.Equal(t, 100.0, s.State().Zones[0].X, "committed state is untouched mid-gesture")

	require.NoError(t, s.CommitGesture())
	require.Equal(t, entries+1, s.History().Length)

	pitch := grid.Pitch(1)
	got := zone(t, s, id)
	require.InDelta(t, 3*pitch, got.X, 1e-9)
	require.InDelta(t, 3*pitch, got.Y, 1e-9)
	require.InDelta(t, 113.385826771, got.X, 1e-6)
	require.Equal(t, z.Width, got.Width, "a drag does not resize")
	require.False(t, s.GestureActive())

	require.True(t, s.Undo())
	require.Equal(t, 100.0, zone(t, s, id).X)
}

func TestGesture_ResizeSnapsSizeWithMinimum(t *testing.T) {
	s := newSession(t)
	id := addZone(t, s, project.ZonePatch{})
	pitch := grid.Pitch(1)

	require.NoError(t, s.BeginGesture(id))
	require.NoError(t, s.UpdateGesture(id, editor.Frame{X: 100, Y: 100, Width: 2.2 * pitch, Height: 1}))
	live, _ := s.Geometry(id)
	require.Equal(t, project.MinZoneSize, live.Height)
	require.NoError(t, s.CommitGesture())

	got := zone(t, s, id)
	require.InDelta(t, 2*pitch, got.Width, 1e-9)
	require.Equal(t, project.MinZoneSize, got.Height)
}

func TestGesture_GridOffKeepsExactPosition(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetGridEnabled(false))
	id := addZone(t, s, project.ZonePatch{})
	z := zone(t, s, id)

	require.NoError(t, s.BeginGesture(id))
	require.NoError(t, s.UpdateGesture(id, editor.Frame{X: 101, Y: 102.5, Width: z.Width, Height: z.Height, Rotation: 15}))
	require.NoError(t, s.CommitGesture())

	got := zone(t, s, id)
	require.Equal(t, 101.0, got.X)
	require.Equal(t, 102.5, got.Y)
	require.Equal(t, 15.0, got.Rotation)
}

func TestGesture_NoChangeNoEntry(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetGridEnabled(false))
	id := addZone(t, s, project.ZonePatch{})
	entries := s.History().Length

	require.NoError(t, s.BeginGesture(id))
	require.NoError(t, s.CommitGesture())
	require.Equal(t, entries, s.History().Length)
}

func TestGesture_Cancel(t *testing.T) {
	s := newSession(t)
	id := addZone(t, s, project.ZonePatch{})
	entries := s.History().Length

	require.NoError(t, s.BeginGesture(id))
	require.NoError(t, s.UpdateGesture(id, editor.Frame{X: 400, Y: 400, Width: 50, Height: 50}))
	s.CancelGesture()

	require.Equal(t, 100.0, s.View().Zones[0].X)
	require.Equal(t, entries, s.History().Length)
	require.ErrorIs(t, s.CommitGesture(), editor.ErrNoGesture)
}

func TestGesture_Errors(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	b := addZone(t, s, project.ZonePatch{})
	frame := editor.Frame{X: 1, Y: 1, Width: 50, Height: 50}

	require.ErrorIs(t, s.UpdateGesture(a, frame), editor.ErrNoGesture)
	require.ErrorIs(t, s.BeginGesture(), editor.ErrInvalidInput)
	require.ErrorIs(t, s.BeginGesture("zone-missing"), project.ErrZoneNotFound)
	require.ErrorIs(t, s.BeginGesture(selection.BackgroundID), project.ErrNoBackground)

	require.NoError(t, s.BeginGesture(a))
	require.ErrorIs(t, s.BeginGesture(b), editor.ErrGestureActive)
	require.ErrorIs(t, s.UpdateGesture(b, frame), editor.ErrNotInGesture)
	require.ErrorIs(t, s.UpdateGesture(a, editor.Frame{Width: 0, Height: 10}), editor.ErrInvalidInput)
}

func TestGesture_MultipleZonesOneEntry(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetGridEnabled(false))
	a := addZone(t, s, project.ZonePatch{})
	b := addZone(t, s, project.ZonePatch{X: project.Ptr(300.0)})
	za, zb := zone(t, s, a), zone(t, s, b)
	entries := s.History().Length

	require.NoError(t, s.BeginGesture(a, b))
	require.NoError(t, s.UpdateGesture(a, editor.Frame{X: 110, Y: 100, Width: za.Width, Height: za.Height}))
	require.NoError(t, s.UpdateGesture(b, editor.Frame{X: 310, Y: 100, Width: zb.Width, Height: zb.Height}))
	require.NoError(t, s.CommitGesture())

	require.Equal(t, entries+1, s.History().Length)
	require.Equal(t, 110.0, zone(t, s, a).X)
	require.Equal(t, 310.0, zone(t, s, b).X)
}

func TestGesture_RemovedZoneIsSkipped(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	require.NoError(t, s.BeginGesture(a))
	require.NoError(t, s.RemoveZones(a))
	require.NoError(t, s.CommitGesture())
	require.Empty(t, s.State().Zones)
}

func TestGesture_UndoCancelsGesture(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	require.NoError(t, s.BeginGesture(a))
	require.True(t, s.Undo())
	require.False(t, s.GestureActive())
}

func TestGesture_BackgroundPan(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetBackground(project.SourceURL, "https://example.com/bg.png"))
	_, err := s.ReportBackgroundImage(1000, 500)
	require.NoError(t, err)
	bg := *s.State().Background
	entries := s.History().Length

	require.NoError(t, s.BeginGesture(selection.BackgroundID))
	start, ok := s.Geometry(selection.BackgroundID)
	require.True(t, ok)
	require.InDelta(t, bg.ImageWidth*bg.ScaleX, start.Width, 1e-9)

	require.NoError(t, s.UpdateGesture(selection.BackgroundID, editor.Frame{X: 7, Y: -3, Width: 2000, Height: 1000, Rotation: 30}))
	require.Equal(t, 7.0, s.View().Background.X)
	require.Equal(t, bg, *s.State().Background)
	require.NoError(t, s.CommitGesture())

	got := *s.State().Background
	require.Equal(t, 7.0, got.X, "backgrounds are not snapped")
	require.Equal(t, -3.0, got.Y)
	require.InDelta(t, 2.0, got.ScaleX, 1e-12)
	require.InDelta(t, 2.0, got.ScaleY, 1e-12)
	require.Equal(t, entries+1, s.History().Length)
}
