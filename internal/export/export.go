// Package export captures a project at print resolution from a render
// surface, hiding editor chrome for the duration of the capture.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/units"
)

// ErrRasterize wraps failures reported by the surface.
var ErrRasterize = errors.New("rasterize failed")

// Viewport is the pan and zoom applied by the surface: a screen-space point
// p is drawn at p*Scale + (X, Y).
type Viewport struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Identity is the viewport with no pan or zoom.
var Identity = Viewport{Scale: 1}

// IsIdentity reports whether v applies no transform.
func (v Viewport) IsIdentity() bool {
	return v == Identity
}

// Region is the screen-space area to capture, anchored at the origin.
type Region struct {
	Width  float64
	Height float64
}

// Size returns the raster size of r at pixelRatio.
func (r Region) Size(pixelRatio float64) image.Point {
	return image.Pt(int(math.Round(r.Width*pixelRatio)), int(math.Round(r.Height*pixelRatio)))
}

// Surface is a render surface able to capture the mat.
type Surface interface {
	GuideVisible() bool
	SetGuideVisible(bool)
	GridVisible() bool
	SetGridVisible(bool)
	Viewport() Viewport
	SetViewport(Viewport)
	// Rasterize draws region at pixelRatio device pixels per screen pixel.
	Rasterize(ctx context.Context, region Region, pixelRatio float64) (image.Image, error)
}

// Selector gives the exporter control over the active selection so that
// transform handles are not captured.
type Selector interface {
	Selection() selection.Snapshot
	RestoreSelection(selection.Snapshot)
	ClearSelection()
}

// Render captures s from surface at s.ExportDPI. For the duration of the
// capture the selection is cleared, the guide and grid are hidden and the
// viewport is reset. They are restored afterwards, viewport first and
// selection last, whether or not rasterization succeeds.
func Render(ctx context.Context, surface Surface, sel Selector, s project.State) (img image.Image, err error) {
	prevSel := sel.Selection()
	sel.ClearSelection()
	defer sel.RestoreSelection(prevSel)

	prevGrid := surface.GridVisible()
	surface.SetGridVisible(false)
	defer surface.SetGridVisible(prevGrid)

	prevGuide := surface.GuideVisible()
	surface.SetGuideVisible(false)
	defer surface.SetGuideVisible(prevGuide)

	prevView := surface.Viewport()
	surface.SetViewport(Identity)
	defer surface.SetViewport(prevView)

	w, h := s.MatPixels()
	img, err = surface.Rasterize(ctx, Region{Width: w, Height: h}, units.PixelRatio(s.ExportDPI))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	return img, nil
}

// Size returns the pixel dimensions of an export of s.
func Size(s project.State) image.Point {
	w, h := s.MatPixels()
	return Region{Width: w, Height: h}.Size(units.PixelRatio(s.ExportDPI))
}

// EncodePNG encodes img as PNG. An image that paints its pixels lazily may
// expose an Err method; a failure reported there fails the encoding.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	if lazy, ok := img.(interface{ Err() error }); ok {
		if err := lazy.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
		}
	}
	return buf.Bytes(), nil
}
