package editor_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/grid"
	"github.com/rpggio/playmat/internal/repository"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	doc     []byte
	saves   int
	clears  int
	saveErr error
}

func (m *memStore) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, repository.ErrNotFound
	}
	return m.doc, nil
}

func (m *memStore) Save(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = append([]byte(nil), doc...)
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.doc = nil
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type memJournal struct {
	mu      sync.Mutex
	entries []activity.Entry
}

func (j *memJournal) Record(_ context.Context, e activity.Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

func (j *memJournal) types() []activity.Type {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]activity.Type, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.Type
	}
	return out
}

func newSession(t *testing.T) *editor.Session {
	t.Helper()
	return editor.New(project.Defaults(), editor.Options{})
}

func addZone(t *testing.T, s *editor.Session, p project.ZonePatch) string {
	t.Helper()
	id, err := s.AddZone(p)
	require.NoError(t, err)
	return id
}

func zone(t *testing.T, s *editor.Session, id string) project.Zone {
	t.Helper()
	z, ok := s.State().Zone(id)
	require.True(t, ok, "zone %s", id)
	return z
}

func TestNew_InitialHistoryEntry(t *testing.T) {
	s := newSession(t)
	require.Equal(t, 1, s.History().Length)
	require.Equal(t, 0, s.History().Cursor)
	require.False(t, s.Undo())
	require.False(t, s.Redo())
}

func TestAddZone_AppendsOnTopWithDefaults(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	b := addZone(t, s, project.ZonePatch{Text: project.Ptr("Deck")})

	st := s.State()
	require.Len(t, st.Zones, 2)
	require.Equal(t, a, st.Zones[0].ID)
	require.Equal(t, b, st.Zones[1].ID)
	require.Equal(t, project.DefaultZoneX, st.Zones[0].X)
	require.Equal(t, "Card Zone", st.Zones[0].Text)
	require.Equal(t, "Deck", st.Zones[1].Text)
	require.Equal(t, 3, s.History().Length)
}

func TestUpdateZone_UnknownIDAdds(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.UpdateZone("zone-late", project.ZonePatch{X: project.Ptr(7.0)}))
	z := zone(t, s, "zone-late")
	require.Equal(t, 7.0, z.X)
	require.Equal(t, project.DefaultZone().Fill, z.Fill)
}

func TestEditSelection_BatchExcludesPosition(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{X: project.Ptr(50.0)})
	b := addZone(t, s, project.ZonePatch{X: project.Ptr(300.0)})

	require.NoError(t, s.Select(a))
	member, err := s.ToggleSelect(b)
	require.NoError(t, err)
	require.True(t, member)
	require.Equal(t, []string{b, a}, s.Targets())

	before := s.History().Length
	require.NoError(t, s.EditSelection(project.ZonePatch{X: project.Ptr(10.0), Fill: project.Ptr("red")}))
	require.Equal(t, before+1, s.History().Length)

	za, zb := zone(t, s, a), zone(t, s, b)
	require.Equal(t, "red", za.Fill)
	require.Equal(t, "red", zb.Fill)
	require.Equal(t, 10.0, zb.X, "primary takes the whole patch")
	require.Equal(t, 50.0, za.X, "other members keep their position")
}

func TestEditSelection_NothingSelected(t *testing.T) {
	s := newSession(t)
	require.ErrorIs(t, s.EditSelection(project.ZonePatch{Fill: project.Ptr("red")}), editor.ErrNothingSelected)
}

func TestRemoveZones_Selection(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	b := addZone(t, s, project.ZonePatch{})

	require.NoError(t, s.Select(a))
	require.NoError(t, s.RemoveZones(a))
	require.Equal(t, selection.Snapshot{}, s.Selection())

	c := addZone(t, s, project.ZonePatch{})
	_, err := s.ToggleSelect(c)
	require.NoError(t, err)
	_, err = s.ToggleSelect(b)
	require.NoError(t, err)
	require.NoError(t, s.RemoveZones(c))
	require.Equal(t, selection.Snapshot{PrimaryID: b, MultiIDs: []string{b}}, s.Selection())
}

func TestRemoveSelected(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	b := addZone(t, s, project.ZonePatch{})
	keep := addZone(t, s, project.ZonePatch{})
	_, _ = s.ToggleSelect(a)
	_, _ = s.ToggleSelect(b)

	n, err := s.RemoveSelected()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, s.State().Zones, 1)
	require.Equal(t, keep, s.State().Zones[0].ID)
	require.Equal(t, selection.Snapshot{}, s.Selection())

	_, err = s.RemoveSelected()
	require.ErrorIs(t, err, editor.ErrNothingSelected)
}

func TestSelect_Validation(t *testing.T) {
	s := newSession(t)
	require.ErrorIs(t, s.Select("zone-missing"), project.ErrZoneNotFound)
	require.ErrorIs(t, s.Select(selection.BackgroundID), project.ErrNoBackground)
	require.NoError(t, s.Select(""))

	require.NoError(t, s.SetBackground(project.SourceURL, "https://example.com/bg.png"))
	require.NoError(t, s.Select(selection.BackgroundID))
	_, err := s.ToggleSelect(selection.BackgroundID)
	require.ErrorIs(t, err, editor.ErrInvalidInput)
	require.ErrorIs(t, s.EditSelection(project.ZonePatch{Fill: project.Ptr("red")}), editor.ErrNothingSelected)
}

func TestUndoRedo(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	afterAdd := s.State()
	require.NoError(t, s.UpdateZone(a, project.ZonePatch{Fill: project.Ptr("blue")}))
	afterEdit := s.State()
	require.NoError(t, s.Select(a))

	require.True(t, s.Undo())
	require.Equal(t, afterAdd, s.State())
	require.True(t, s.Undo())
	require.Empty(t, s.State().Zones)
	require.Equal(t, selection.Snapshot{}, s.Selection(), "selection of a vanished zone is pruned")
	require.False(t, s.Undo())

	require.True(t, s.Redo())
	require.True(t, s.Redo())
	require.Equal(t, afterEdit, s.State())
	require.False(t, s.Redo())
	require.Equal(t, 3, s.History().Length)
}

func TestUndo_ThenEditTruncates(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetProjectName("s1"))
	require.NoError(t, s.SetProjectName("s2"))
	require.NoError(t, s.SetProjectName("s3"))
	require.True(t, s.Undo())
	require.NoError(t, s.SetProjectName("s4"))
	require.False(t, s.Redo())
	require.Equal(t, "s4", s.State().ProjectName)
}

func TestHistoryBoundThroughSession(t *testing.T) {
	s := editor.New(project.Defaults(), editor.Options{HistoryLimit: 5})
	for i := 0; i < 10; i++ {
		_ = addZone(t, s, project.ZonePatch{})
	}
	require.Equal(t, 5, s.History().Length)
	for s.Undo() {
	}
	require.Len(t, s.State().Zones, 6)
}

func TestCopyPaste(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{X: project.Ptr(40.0), Y: project.Ptr(60.0), Fill: project.Ptr("green")})

	_, err := s.Paste()
	require.ErrorIs(t, err, editor.ErrClipboardEmpty)
	_, err = s.Copy()
	require.ErrorIs(t, err, editor.ErrNothingSelected)

	require.NoError(t, s.Select(a))
	copied, err := s.Copy()
	require.NoError(t, err)
	require.Equal(t, a, copied)

	pasted, err := s.Paste()
	require.NoError(t, err)
	require.NotEqual(t, a, pasted)
	p := zone(t, s, pasted)
	pitch := grid.Pitch(s.State().GridSize)
	require.InDelta(t, 40+pitch, p.X, 1e-9)
	require.InDelta(t, 60+pitch, p.Y, 1e-9)
	require.Equal(t, "green", p.Fill)
	require.Equal(t, pasted, s.Selection().PrimaryID)

	require.NoError(t, s.SetGridEnabled(false))
	again, err := s.Paste()
	require.NoError(t, err)
	require.InDelta(t, 40+grid.FreeOffset, zone(t, s, again).X, 1e-9)
}

func TestSetters_RejectInvalidInput(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	before := s.History()
	state := s.State()

	require.ErrorIs(t, s.SetGridSize(0), editor.ErrInvalidInput)
	require.ErrorIs(t, s.SetExportDPI(-300), editor.ErrInvalidInput)
	require.ErrorIs(t, s.SetUnit("furlong"), editor.ErrInvalidInput)
	require.ErrorIs(t, s.SetMatSize(project.Size{Width: 60, Height: 0}), editor.ErrInvalidInput)
	require.ErrorIs(t, s.SetDefaultZoneSize(project.Size{Width: -1, Height: 2}), editor.ErrInvalidInput)
	require.ErrorIs(t, s.UpdateZone(a, project.ZonePatch{Opacity: project.Ptr(2.0)}), editor.ErrInvalidInput)
	tp := project.TextPosition("sideways")
	require.ErrorIs(t, s.UpdateZone(a, project.ZonePatch{TextPosition: &tp}), editor.ErrInvalidInput)
	require.ErrorIs(t, s.UpdateZone(selection.BackgroundID, project.ZonePatch{}), editor.ErrInvalidInput)

	require.Equal(t, before, s.History())
	require.Equal(t, state, s.State())
}

func TestSetters_Apply(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetMatSize(project.Size{Width: 90, Height: 40}))
	require.NoError(t, s.SetGridSize(0.5))
	require.NoError(t, s.SetUnit("inch"))
	require.NoError(t, s.SetExportDPI(600))
	require.NoError(t, s.SetDefaultZoneSize(project.Size{Width: 7, Height: 7}))
	require.NoError(t, s.SetAuxAPIKey("key"))

	st := s.State()
	require.Equal(t, project.Size{Width: 90, Height: 40}, st.MatSize)
	require.Equal(t, 0.5, st.GridSize)
	require.Equal(t, "inch", st.Unit.String())
	require.Equal(t, 600.0, st.ExportDPI)
	require.Equal(t, "key", st.AuxAPIKey)
	require.Equal(t, 7, s.History().Length)
}

func TestBackground_AutoFitAmendsCurrentEntry(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetBackground(project.SourceURL, "https://example.com/bg.png"))
	require.Equal(t, 2, s.History().Length)
	require.Nil(t, s.State().Background)

	fitted, err := s.ReportBackgroundImage(1000, 500)
	require.NoError(t, err)
	require.True(t, fitted)
	require.Equal(t, 2, s.History().Length)

	matW, matH := s.State().MatPixels()
	require.Equal(t, project.AutoFit(matW, matH, 1000, 500), *s.State().Background)

	fitted, err = s.ReportBackgroundImage(1000, 500)
	require.NoError(t, err)
	require.False(t, fitted, "an existing placement is kept")

	require.True(t, s.Undo())
	require.True(t, s.State().BackgroundSource.Empty())
	require.True(t, s.Redo())
	require.NotNil(t, s.State().Background)
}

func TestBackground_FitAndResize(t *testing.T) {
	s := newSession(t)
	require.ErrorIs(t, s.FitBackground(project.BackgroundStretch), project.ErrNoBackground)
	require.NoError(t, s.SetBackground(project.SourceUpload, "data:image/png;base64,AAAA"))
	_, err := s.ReportBackgroundImage(1000, 500)
	require.NoError(t, err)

	require.NoError(t, s.FitBackground(project.BackgroundStretch))
	matW, matH := s.State().MatPixels()
	bg := s.State().Background
	require.InDelta(t, matW/1000, bg.ScaleX, 1e-12)
	require.InDelta(t, matH/500, bg.ScaleY, 1e-12)

	require.ErrorIs(t, s.FitBackground("zoom"), editor.ErrInvalidInput)

	require.NoError(t, s.SetBackgroundDisplaySize(30, false))
	size := s.State().Background.DisplaySize(s.State().Unit)
	require.InDelta(t, 30, size.Width, 1e-9)
	require.InDelta(t, 15, size.Height, 1e-9)

	require.NoError(t, s.Select(selection.BackgroundID))
	require.NoError(t, s.SetBackground("", ""))
	require.Nil(t, s.State().Background)
	require.Equal(t, selection.Snapshot{}, s.Selection())
}

func TestEdgeDistances(t *testing.T) {
	s := newSession(t)
	a := addZone(t, s, project.ZonePatch{})
	d, err := s.EdgeDistances(a)
	require.NoError(t, err)
	want := s.State().EdgeDistances(zone(t, s, a))
	require.Equal(t, want, d)

	_, err = s.EdgeDistances("nope")
	require.ErrorIs(t, err, project.ErrZoneNotFound)
}

func TestSubscribe(t *testing.T) {
	s := newSession(t)
	var events []editor.Event
	cancel := s.Subscribe(func(ev editor.Event) { events = append(events, ev) })

	a := addZone(t, s, project.ZonePatch{})
	require.NoError(t, s.Select(a))
	require.Len(t, events, 2)
	require.Equal(t, activity.TypeZoneAdded, events[0].Kind)
	require.True(t, events[0].Settled)
	require.Len(t, events[0].State.Zones, 1)
	require.Equal(t, activity.TypeSelectionChanged, events[1].Kind)
	require.False(t, events[1].Settled)
	require.Equal(t, a, events[1].Selection.PrimaryID)

	cancel()
	require.NoError(t, s.SetProjectName("quiet"))
	require.Len(t, events, 2)
}

func TestJournal(t *testing.T) {
	j := &memJournal{}
	s := editor.New(project.Defaults(), editor.Options{Journal: j})
	a := addZone(t, s, project.ZonePatch{})
	require.NoError(t, s.Select(a))
	require.NoError(t, s.SetGridEnabled(false))
	require.True(t, s.Undo())

	require.Equal(t, []activity.Type{
		activity.TypeZoneAdded, activity.TypeSettingsChanged, activity.TypeUndo,
	}, j.types())
	require.Equal(t, 1, j.entries[2].HistoryCursor)
}

func TestClose(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Close(context.Background()))
	_, err := s.AddZone(project.ZonePatch{})
	require.ErrorIs(t, err, editor.ErrClosed)
}

func TestCommit_UnchangedStateRecordsNothing(t *testing.T) {
	j := &memJournal{}
	store := &memStore{}
	s := editor.New(project.Defaults(), editor.Options{Journal: j, Store: store, SaveDebounce: -1})
	id := addZone(t, s, project.ZonePatch{})
	entries := s.History().Length
	saves := store.saveCount()

	require.NoError(t, s.RemoveZones("zone-missing"))
	require.NoError(t, s.UpdateZone(id, project.ZonePatch{}))
	require.NoError(t, s.SetProjectName(project.DefaultProjectName))
	require.NoError(t, s.SetGridEnabled(project.DefaultGridEnabled))

	require.Equal(t, entries, s.History().Length)
	require.Equal(t, saves, store.saveCount())
	require.Equal(t, []activity.Type{activity.TypeZoneAdded}, j.types())
	require.True(t, s.Undo())
	require.Empty(t, s.State().Zones)
}

func TestClose_EndsGesture(t *testing.T) {
	store := &memStore{}
	s := editor.New(project.Defaults(), editor.Options{Store: store, SaveDebounce: -1})
	id := addZone(t, s, project.ZonePatch{})
	require.NoError(t, s.BeginGesture(id))
	require.NoError(t, s.UpdateGesture(id, editor.Frame{X: 300, Y: 300, Width: 100, Height: 100}))
	saves := store.saveCount()

	require.NoError(t, s.Close(context.Background()))
	require.ErrorIs(t, s.UpdateGesture(id, editor.Frame{X: 310, Y: 300, Width: 100, Height: 100}), editor.ErrClosed)
	require.ErrorIs(t, s.CommitGesture(), editor.ErrClosed)
	require.False(t, s.GestureActive())
	require.Equal(t, project.DefaultZoneX, zone(t, s, id).X)
	require.Equal(t, saves, store.saveCount())
}
