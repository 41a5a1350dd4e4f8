package export_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/export"
	"github.com/rpggio/playmat/internal/units"
	"github.com/stretchr/testify/require"
)

// fakeSurface records calls and the chrome state seen during Rasterize.
type fakeSurface struct {
	guide, grid bool
	view        export.Viewport
	fail        error
	sel         *fakeSelector

	calls  []string
	seen   seenState
	region export.Region
	ratio  float64
}

type seenState struct {
	guide, grid bool
	view        export.Viewport
	sel         selection.Snapshot
}

func (f *fakeSurface) GuideVisible() bool        { return f.guide }
func (f *fakeSurface) GridVisible() bool         { return f.grid }
func (f *fakeSurface) Viewport() export.Viewport { return f.view }
func (f *fakeSurface) SetGuideVisible(v bool)    { f.guide = v; f.calls = append(f.calls, "guide") }
func (f *fakeSurface) SetGridVisible(v bool)     { f.grid = v; f.calls = append(f.calls, "grid") }
func (f *fakeSurface) SetViewport(v export.Viewport) {
	f.view = v
	f.calls = append(f.calls, "viewport")
}

func (f *fakeSurface) Rasterize(_ context.Context, r export.Region, ratio float64) (image.Image, error) {
	f.calls = append(f.calls, "rasterize")
	f.seen.guide, f.seen.grid, f.seen.view = f.guide, f.grid, f.view
	f.seen.sel = f.sel.snap
	f.region, f.ratio = r, ratio
	if f.fail != nil {
		return nil, f.fail
	}
	size := r.Size(ratio)
	img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	img.Set(0, 0, color.White)
	return img, nil
}

type fakeSelector struct {
	snap  selection.Snapshot
	calls *[]string
}

func (s *fakeSelector) Selection() selection.Snapshot { return s.snap }
func (s *fakeSelector) ClearSelection() {
	s.snap = selection.Snapshot{}
	*s.calls = append(*s.calls, "clear")
}
func (s *fakeSelector) RestoreSelection(snap selection.Snapshot) {
	s.snap = snap
	*s.calls = append(*s.calls, "selection")
}

func newFakes() (*fakeSurface, *fakeSelector) {
	surface := &fakeSurface{guide: true, grid: true, view: export.Viewport{Scale: 2.5, X: 40, Y: -13}}
	sel := &fakeSelector{snap: selection.Snapshot{PrimaryID: "zone-a", MultiIDs: []string{"zone-a", "zone-b"}}, calls: &surface.calls}
	surface.sel = sel
	return surface, sel
}

func TestRender_HidesChromeAndRestoresInOrder(t *testing.T) {
	surface, sel := newFakes()
	before := sel.snap
	s := project.SetExportDPI(project.Defaults(), 300)

	img, err := export.Render(context.Background(), surface, sel, s)
	require.NoError(t, err)
	require.NotNil(t, img)

	require.False(t, surface.seen.guide)
	require.False(t, surface.seen.grid)
	require.Equal(t, export.Identity, surface.seen.view)
	require.Equal(t, selection.Snapshot{}, surface.seen.sel)

	require.True(t, surface.guide)
	require.True(t, surface.grid)
	require.Equal(t, export.Viewport{Scale: 2.5, X: 40, Y: -13}, surface.view)
	require.Equal(t, before, sel.snap)

	require.Equal(t, []string{
		"clear", "grid", "guide", "viewport",
		"rasterize",
		"viewport", "guide", "grid", "selection",
	}, surface.calls)
}

func TestRender_RestoresOnFailure(t *testing.T) {
	surface, sel := newFakes()
	before := sel.snap
	surface.fail = errors.New("out of memory")

	_, err := export.Render(context.Background(), surface, sel, project.Defaults())
	require.ErrorIs(t, err, export.ErrRasterize)
	require.True(t, surface.guide)
	require.True(t, surface.grid)
	require.Equal(t, export.Viewport{Scale: 2.5, X: 40, Y: -13}, surface.view)
	require.Equal(t, before, sel.snap)
}

func TestRender_DimensionsAt300DPI(t *testing.T) {
	surface, sel := newFakes()
	s := project.SetExportDPI(project.Defaults(), 300)

	img, err := export.Render(context.Background(), surface, sel, s)
	require.NoError(t, err)

	matW, matH := s.MatPixels()
	want := image.Pt(int(math.Round(matW*300/96)), int(math.Round(matH*300/96)))
	require.Equal(t, want, img.Bounds().Size())
	require.Equal(t, want, export.Size(s))
	require.Equal(t, export.Region{Width: matW, Height: matH}, surface.region)
	require.InDelta(t, units.PixelRatio(300), surface.ratio, 1e-12)
	require.Equal(t, image.Pt(7087, 4134), want)
}

func TestEncodePNG(t *testing.T) {
	data, err := export.EncodePNG(image.NewNRGBA(image.Rect(0, 0, 3, 2)))
	require.NoError(t, err)
	require.Equal(t, []byte("\x89PNG"), data[:4])
}
