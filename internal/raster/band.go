package raster

import (
	"image"
	"image/color"
	"sync"
)

// bandedImage paints a large raster one horizontal band at a time, on
// demand. Only the band holding the most recently read row is kept, so
// reading it top to bottom, the way an encoder does, paints each band once.
type bandedImage struct {
	bounds image.Rectangle
	rows   int
	paint  func(dst *image.RGBA) error

	mu   sync.Mutex
	band *image.RGBA
	err  error
}

var _ image.RGBA64Image = (*bandedImage)(nil)

func (b *bandedImage) ColorModel() color.Model { return color.RGBAModel }

func (b *bandedImage) Bounds() image.Rectangle { return b.bounds }

func (b *bandedImage) At(x, y int) color.Color {
	return b.RGBA64At(x, y)
}

func (b *bandedImage) RGBA64At(x, y int) color.RGBA64 {
	if !image.Pt(x, y).In(b.bounds) {
		return color.RGBA64{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.band == nil || !image.Pt(x, y).In(b.band.Rect) {
		y0 := b.bounds.Min.Y + (y-b.bounds.Min.Y)/b.rows*b.rows
		y1 := min(y0+b.rows, b.bounds.Max.Y)
		b.band = image.NewRGBA(image.Rect(b.bounds.Min.X, y0, b.bounds.Max.X, y1))
		if err := b.paint(b.band); err != nil && b.err == nil {
			b.err = err
		}
	}
	return b.band.RGBA64At(x, y)
}

// Err returns the first error met while painting a band.
func (b *bandedImage) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
