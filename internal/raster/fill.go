package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// rasterizer accumulates polys, already in device space, relative to box.
func rasterizer(polys []polygon, box image.Rectangle) *vector.Rasterizer {
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, p := range polys {
		if len(p) < 3 {
			continue
		}
		z.MoveTo(float32(p[0].X-ox), float32(p[0].Y-oy))
		for _, pt := range p[1:] {
			z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
		}
		z.ClosePath()
	}
	return z
}

// fill paints the union of polys onto dst. Coverage is rasterized only over
// the clipped bounding box.
func fill(dst *image.RGBA, polys []polygon, c color.NRGBA) {
	if c.A == 0 || len(polys) == 0 {
		return
	}
	box := bounds(polys).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	rasterizer(polys, box).Draw(dst, box, image.NewUniform(c), image.Point{})
}

// coverage returns the antialiased coverage of polys over box.
func coverage(polys []polygon, box image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(box)
	if box.Empty() {
		return mask
	}
	rasterizer(polys, box).Draw(mask, box, image.Opaque, image.Point{})
	return mask
}

// line paints a segment of device width w from a to b.
func line(dst *image.RGBA, a, b point, w float64, c color.NRGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*w/2, dx/length*w/2
	fill(dst, []polygon{polygon{
		{a.X + nx, a.Y + ny}, {b.X + nx, b.Y + ny}, {b.X - nx, b.Y - ny}, {a.X - nx, a.Y - ny},
	}.clockwise()}, c)
}

// fadeImage scales every premultiplied channel of img by opacity.
func fadeImage(img *image.RGBA, opacity float64) {
	if opacity >= 1 {
		return
	}
	if opacity <= 0 {
		clear(img.Pix)
		return
	}
	for i, v := range img.Pix {
		img.Pix[i] = uint8(float64(v)*opacity + 0.5)
	}
}

// blur applies three box blur passes of radius r to mask, approximating a
// gaussian shadow.
func blur(mask *image.Alpha, r int) {
	if r <= 0 {
		return
	}
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := make([]uint8, max(w, h))
	pass := func(n int, at func(i int) int) {
		var sum int
		for i := -r; i < n+r; i++ {
			if i+r < n {
				sum += int(mask.Pix[at(i+r)])
			}
			if i-r-1 >= 0 {
				sum -= int(mask.Pix[at(i-r-1)])
			}
			if i >= 0 && i < n {
				tmp[i] = uint8(sum / (2*r + 1))
			}
		}
		for i := 0; i < n; i++ {
			mask.Pix[at(i)] = tmp[i]
		}
	}
	for k := 0; k < 3; k++ {
		for y := 0; y < h; y++ {
			row := y * mask.Stride
			pass(w, func(i int) int { return row + i })
		}
		for x := 0; x < w; x++ {
			col := x
			pass(h, func(i int) int { return col + i*mask.Stride })
		}
	}
}
