// Package raster is a software render surface for playmat projects. It draws
// the background, zones, grid, mat guide and selection chrome, and satisfies
// export.Surface so the exporter can capture a project at print resolution.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/export"
	"github.com/rpggio/playmat/internal/grid"
)

// MaxPixels caps the area of a single rasterization. Rasters larger than
// bandPixels are painted lazily in horizontal bands as they are read.
const (
	MaxPixels  = 1 << 30
	bandPixels = 16 << 20
)

var (
	// ErrTooLarge indicates a raster exceeding MaxPixels.
	ErrTooLarge = errors.New("raster too large")
	// ErrEmptyRegion indicates a region or pixel ratio yielding no pixels.
	ErrEmptyRegion = errors.New("empty raster region")
)

var (
	gridColor      = color.NRGBA{255, 255, 255, 51}
	guideColor     = color.NRGBA{0xdd, 0xdd, 0xdd, 255}
	selectionColor = color.NRGBA{0, 161, 255, 255}
	anchorFill     = color.NRGBA{255, 255, 255, 255}
)

const anchorSize = 10.0

// Scene is what the canvas draws: the project view, including any
// in-progress gesture, and the selection.
type Scene interface {
	View() project.State
	Selection() selection.Snapshot
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithLogger sets the logger used for image load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Canvas) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBackgroundReporter registers fn to receive the intrinsic size of a
// background image drawn without a stored placement.
func WithBackgroundReporter(fn func(imageWidth, imageHeight float64)) Option {
	return func(c *Canvas) {
		c.reportBackground = fn
	}
}

// Canvas renders a Scene. Guide and grid start visible and the viewport
// starts at identity.
type Canvas struct {
	scene            Scene
	loader           *Loader
	faces            *faces
	logger           *slog.Logger
	reportBackground func(w, h float64)

	mu    sync.Mutex
	guide bool
	grid  bool
	view  export.Viewport
}

var _ export.Surface = (*Canvas)(nil)

// NewCanvas returns a canvas drawing scene with images from loader. A nil
// loader gets a default one.
func NewCanvas(scene Scene, loader *Loader, opts ...Option) *Canvas {
	if loader == nil {
		loader = NewLoader(nil)
	}
	c := &Canvas{
		scene:  scene,
		loader: loader,
		faces:  newFaces(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		guide:  true,
		grid:   true,
		view:   export.Identity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) GuideVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guide
}

func (c *Canvas) SetGuideVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guide = v
}

func (c *Canvas) GridVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

func (c *Canvas) SetGridVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid = v
}

func (c *Canvas) Viewport() export.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetViewport sets the pan and zoom. A non-positive scale resets to identity.
func (c *Canvas) SetViewport(v export.Viewport) {
	if v.Scale <= 0 || math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) {
		v = export.Identity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// Rasterize draws the scene over region at pixelRatio device pixels per
// screen pixel. Uncovered pixels stay transparent. Images that fail to load
// are skipped and logged. The scene is read once; a large raster is painted
// band by band from that snapshot when its pixels are read.
func (c *Canvas) Rasterize(ctx context.Context, region export.Region, pixelRatio float64) (image.Image, error) {
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) {
		return nil, fmt.Errorf("%w: pixel ratio %v", ErrEmptyRegion, pixelRatio)
	}
	size := region.Size(pixelRatio)
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyRegion, size.X, size.Y)
	}
	if int64(size.X)*int64(size.Y) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, size.X, size.Y)
	}

	c.mu.Lock()
	guide, gridOn, view := c.guide, c.grid, c.view
	c.mu.Unlock()
	p := &pass{
		full:  image.Rect(0, 0, size.X, size.Y),
		m:     mul(scale(pixelRatio, pixelRatio), mul(translate(view.X, view.Y), scale(view.Scale, view.Scale))),
		ratio: pixelRatio,
		state: c.scene.View(),
		sel:   c.scene.Selection(),
		guide: guide,
		grid:  gridOn,
	}

	if int64(size.X)*int64(size.Y) <= bandPixels {
		dst := image.NewRGBA(p.full)
		if err := c.paint(ctx, dst, p); err != nil {
			return nil, err
		}
		return dst, nil
	}
	rows := max(1, bandPixels/size.X)
	return &bandedImage{
		bounds: p.full,
		rows:   rows,
		paint:  func(dst *image.RGBA) error { return c.paint(ctx, dst, p) },
	}, nil
}

// pass is one rasterization: the scene snapshot and the device transform.
type pass struct {
	full     image.Rectangle
	m        f64.Aff3
	ratio    float64
	state    project.State
	sel      selection.Snapshot
	guide    bool
	grid     bool
	reported bool
}

// paint draws p into dst, which covers all or part of p.full.
func (c *Canvas) paint(ctx context.Context, dst *image.RGBA, p *pass) error {
	state, m := p.state, p.m
	if err := c.drawBackground(ctx, dst, m, p); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("background image unavailable", "error", err)
	}
	matW, matH := state.MatPixels()
	if p.guide {
		c.drawGuide(dst, m, matW, matH, p.ratio)
	}
	if p.grid && state.GridEnabled && state.GridSize > 0 {
		c.drawGrid(dst, m, matW, matH, state.GridSize)
	}
	for _, z := range state.Zones {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.drawZone(ctx, dst, m, p.full, z)
	}
	c.drawSelection(dst, m, state, p.sel, p.ratio)
	return nil
}

func (c *Canvas) drawBackground(ctx context.Context, dst *image.RGBA, m f64.Aff3, p *pass) error {
	s := p.state
	if s.BackgroundSource.Empty() {
		return nil
	}
	img, err := c.loader.Load(ctx, s.BackgroundSource.Value)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	iw, ih := float64(b.Dx()), float64(b.Dy())
	bg := s.Background
	if bg == nil {
		matW, matH := s.MatPixels()
		fit := project.AutoFit(matW, matH, iw, ih)
		bg = &fit
		if c.reportBackground != nil && !p.reported {
			p.reported = true
			c.reportBackground(iw, ih)
		}
	}
	bm := mul(m, mul(translate(bg.X, bg.Y), mul(scale(placedScale(bg.ScaleX, bg.ImageWidth, iw), placedScale(bg.ScaleY, bg.ImageHeight, ih)), translate(-float64(b.Min.X), -float64(b.Min.Y)))))
	draw.BiLinear.Transform(dst, bm, img, b, draw.Over, nil)
	return nil
}

// placedScale converts a scale recorded against a stored intrinsic size to
// one against the decoded size.
func placedScale(s, stored, decoded float64) float64 {
	if stored <= 0 {
		return s
	}
	return s * stored / decoded
}

func (c *Canvas) drawGuide(dst *image.RGBA, m f64.Aff3, matW, matH, ratio float64) {
	corners := [4]point{{0, 0}, {matW, 0}, {matW, matH}, {0, matH}}
	for i := range corners {
		line(dst, apply(m, corners[i]), apply(m, corners[(i+1)%4]), ratio, guideColor)
	}
}

func (c *Canvas) drawGrid(dst *image.RGBA, m f64.Aff3, matW, matH, sizeCM float64) {
	w := deviceScale(m)
	for _, x := range grid.Lines(matW, sizeCM) {
		line(dst, apply(m, point{x, 0}), apply(m, point{x, matH}), w, gridColor)
	}
	for _, y := range grid.Lines(matH, sizeCM) {
		line(dst, apply(m, point{0, y}), apply(m, point{matW, y}), w, gridColor)
	}
}

func (c *Canvas) drawZone(ctx context.Context, dst *image.RGBA, m f64.Aff3, full image.Rectangle, z project.Zone) {
	zm := mul(m, mul(translate(z.X, z.Y), rotate(z.Rotation)))
	k := deviceScale(zm)
	cr := z.Corners()
	r := radii{cr.TopLeft, cr.TopRight, cr.BottomRight, cr.BottomLeft}
	outline := roundedRect(z.Width, z.Height, r)
	var edgeBands []polygon
	if z.StrokeWidth > 0 {
		edgeBands = border(z.Width, z.Height, z.StrokeWidth, edges{z.BorderTop, z.BorderRight, z.BorderBottom, z.BorderLeft}, r)
	}
	fillColor, fillOK := ParseColor(z.Fill)
	drawFill := !z.NoFill && fillOK

	if z.BorderShadow {
		var shape []polygon
		if drawFill {
			shape = append(shape, outline)
		}
		shape = append(shape, edgeBands...)
		sc := parseOr(z.BorderShadowColor, color.NRGBA{A: 255})
		sm := mul(m, mul(translate(z.X+z.BorderShadowX, z.Y+z.BorderShadowY), rotate(z.Rotation)))
		c.drawShadow(dst, full, transformAll(shape, sm), fade(sc, z.Opacity), int(math.Round(z.BorderShadowBlur*k/2)))
	}
	if drawFill {
		fill(dst, []polygon{outline.transform(zm)}, fade(fillColor, z.Opacity))
	}
	if z.ZoneImage != "" {
		c.drawZoneImage(ctx, dst, zm, z, outline)
	}
	if len(edgeBands) > 0 {
		fill(dst, transformAll(edgeBands, zm), fade(parseOr(z.Stroke, color.NRGBA{A: 255}), z.Opacity))
	}
	if z.Text != "" && z.FontSize > 0 {
		c.drawLabel(dst, zm, k, z)
	}
}

// drawShadow blurs the shadow mask over the whole raster so that bands
// painted separately agree at their seams.
func (c *Canvas) drawShadow(dst *image.RGBA, full image.Rectangle, polys []polygon, col color.NRGBA, radius int) {
	if col.A == 0 || len(polys) == 0 {
		return
	}
	box := bounds(polys).Inset(-3 * radius).Intersect(full)
	if !box.Overlaps(dst.Bounds()) {
		return
	}
	mask := coverage(polys, box)
	blur(mask, radius)
	draw.DrawMask(dst, box, image.NewUniform(col), image.Point{}, mask, box.Min, draw.Over)
}

func (c *Canvas) drawZoneImage(ctx context.Context, dst *image.RGBA, zm f64.Aff3, z project.Zone, outline polygon) {
	img, err := c.loader.Load(ctx, z.ZoneImage)
	if err != nil {
		c.logger.Warn("zone image unavailable", "zone_id", z.ID, "error", err)
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	clip := outline.transform(zm)
	box := bounds([]polygon{clip}).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	rect := z.ImageRect(float64(b.Dx()), float64(b.Dy()))
	im := mul(zm, mul(translate(rect.X, rect.Y), mul(scale(rect.Width/float64(b.Dx()), rect.Height/float64(b.Dy())), translate(-float64(b.Min.X), -float64(b.Min.Y)))))
	layer := image.NewRGBA(box)
	draw.BiLinear.Transform(layer, im, img, b, draw.Src, nil)
	fadeImage(layer, z.ImageOpacity*z.Opacity)
	draw.DrawMask(dst, box, layer, box.Min, coverage([]polygon{clip}, box), box.Min, draw.Over)
}

// Labels are drawn at device resolution and mapped into the zone frame.
func (c *Canvas) drawLabel(dst *image.RGBA, zm f64.Aff3, k float64, z project.Zone) {
	face, err := c.faces.get(z.FontStyle, z.FontSize*k)
	if err != nil {
		c.logger.Warn("label font unavailable", "zone_id", z.ID, "error", err)
		return
	}
	lbl := renderLabel(z.Text, labelStyle{
		face:        face,
		lineHeight:  z.FontSize * k,
		boxWidth:    z.Width * k,
		fill:        parseOr(z.TextColor, color.NRGBA{255, 255, 255, 255}),
		stroke:      z.TextStroke * k,
		strokeColor: parseOr(z.TextStrokeColor, color.NRGBA{A: 255}),
		shadow:      z.TextShadow,
		shadowX:     z.TextShadowX * k,
		shadowY:     z.TextShadowY * k,
		shadowColor: parseOr(z.TextShadowColor, color.NRGBA{A: 255}),
	})
	fadeImage(lbl.img, z.Opacity)
	lm := mul(zm, mul(translate(0, z.TextOffsetY()), mul(scale(1/k, 1/k), translate(-float64(lbl.origin.X), -float64(lbl.origin.Y)))))
	draw.BiLinear.Transform(dst, lm, lbl.img, lbl.img.Bounds(), draw.Over, nil)
}

// drawSelection outlines every selected object with corner and edge anchors.
func (c *Canvas) drawSelection(dst *image.RGBA, m f64.Aff3, s project.State, sel selection.Snapshot, ratio float64) {
	ids := slices.Clone(sel.MultiIDs)
	if sel.PrimaryID != "" && !slices.Contains(ids, sel.PrimaryID) {
		ids = append(ids, sel.PrimaryID)
	}
	for _, id := range ids {
		var frame f64.Aff3
		var w, h float64
		switch {
		case id == selection.BackgroundID:
			bg := s.Background
			if bg == nil {
				continue
			}
			frame = mul(m, translate(bg.X, bg.Y))
			w, h = bg.ImageWidth*bg.ScaleX, bg.ImageHeight*bg.ScaleY
		default:
			z, ok := s.Zone(id)
			if !ok {
				continue
			}
			frame = mul(m, mul(translate(z.X, z.Y), rotate(z.Rotation)))
			w, h = z.Width, z.Height
		}
		pts := [8]point{{0, 0}, {w / 2, 0}, {w, 0}, {w, h / 2}, {w, h}, {w / 2, h}, {0, h}, {0, h / 2}}
		for i := 0; i < 8; i += 2 {
			line(dst, apply(frame, pts[i]), apply(frame, pts[(i+2)%8]), ratio, selectionColor)
		}
		half := anchorSize * ratio / 2
		for _, p := range pts {
			d := apply(frame, p)
			sq := polygon{{d.X - half, d.Y - half}, {d.X + half, d.Y - half}, {d.X + half, d.Y + half}, {d.X - half, d.Y + half}}
			fill(dst, []polygon{sq}, anchorFill)
			for i := range sq {
				line(dst, sq[i], sq[(i+1)%4], ratio, selectionColor)
			}
		}
	}
}

// deviceScale is the length scale of an affine transform.
func deviceScale(m f64.Aff3) float64 {
	return math.Sqrt(math.Abs(m[0]*m[4] - m[1]*m[3]))
}

func transformAll(polys []polygon, m f64.Aff3) []polygon {
	out := make([]polygon, len(polys))
	for i, p := range polys {
		out[i] = p.transform(m)
	}
	return out
}

func parseOr(s string, fallback color.NRGBA) color.NRGBA {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return fallback
}
