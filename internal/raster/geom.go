package raster

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

type point struct{ X, Y float64 }

type polygon []point

// Affine matrices map (x, y) to (m[0]x + m[1]y + m[2], m[3]x + m[4]y + m[5]).
var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

func mul(m, n f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		m[0]*n[0] + m[1]*n[3], m[0]*n[1] + m[1]*n[4], m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3], m[3]*n[1] + m[4]*n[4], m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

func translate(x, y float64) f64.Aff3 { return f64.Aff3{1, 0, x, 0, 1, y} }

func scale(sx, sy float64) f64.Aff3 { return f64.Aff3{sx, 0, 0, 0, sy, 0} }

func rotate(deg float64) f64.Aff3 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}

func apply(m f64.Aff3, p point) point {
	return point{m[0]*p.X + m[1]*p.Y + m[2], m[3]*p.X + m[4]*p.Y + m[5]}
}

func (p polygon) transform(m f64.Aff3) polygon {
	out := make(polygon, len(p))
	for i, pt := range p {
		out[i] = apply(m, pt)
	}
	return out
}

// area returns the signed area; positive is clockwise in y-down space.
func (p polygon) area() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return a / 2
}

// clockwise returns p wound clockwise so unions accumulate coverage.
func (p polygon) clockwise() polygon {
	if p.area() >= 0 {
		return p
	}
	out := make(polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

func bounds(polys []polygon) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range polys {
		for _, pt := range p {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

const arcSegments = 12

// appendArc appends an arc around (cx, cy) from a0 to a1 degrees. A zero
// radius appends the center, producing a square corner.
func appendArc(p polygon, cx, cy, r, a0, a1 float64) polygon {
	if r <= 0 {
		return append(p, point{cx, cy})
	}
	for i := 0; i <= arcSegments; i++ {
		a := (a0 + (a1-a0)*float64(i)/arcSegments) * math.Pi / 180
		p = append(p, point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return p
}

// radii holds per-corner radii clockwise from the top-left.
type radii struct{ tl, tr, br, bl float64 }

func (r radii) clamp(w, h float64) radii {
	limit := math.Max(0, math.Min(w, h)/2)
	return radii{math.Min(r.tl, limit), math.Min(r.tr, limit), math.Min(r.br, limit), math.Min(r.bl, limit)}
}

// roundedRect outlines a w x h rectangle at the origin.
func roundedRect(w, h float64, r radii) polygon {
	r = r.clamp(w, h)
	var p polygon
	p = appendArc(p, r.tl, r.tl, r.tl, 180, 270)
	p = appendArc(p, w-r.tr, r.tr, r.tr, 270, 360)
	p = appendArc(p, w-r.br, h-r.br, r.br, 0, 90)
	p = appendArc(p, r.bl, h-r.bl, r.bl, 90, 180)
	return p
}

// edges says which sides of a zone border are drawn.
type edges struct{ top, right, bottom, left bool }

// border outlines the visible edges of a w x h rectangle as bands of width
// sw centered on the edge. Rounded corners are drawn only where r is
// non-zero, which callers ensure happens only between two visible edges.
func border(w, h, sw float64, e edges, r radii) []polygon {
	r = r.clamp(w, h)
	hw := sw / 2
	band := func(x0, y0, x1, y1 float64) polygon {
		return polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	}
	// Horizontal bands own square corners; vertical bands stop short of them.
	hEnd := func(radius float64) float64 {
		if radius > 0 {
			return radius
		}
		return -hw
	}
	vEnd := func(radius float64, other bool) float64 {
		switch {
		case radius > 0:
			return radius
		case other:
			return hw
		}
		return -hw
	}

	var out []polygon
	if e.top {
		out = append(out, band(hEnd(r.tl), -hw, w-hEnd(r.tr), hw))
	}
	if e.bottom {
		out = append(out, band(hEnd(r.bl), h-hw, w-hEnd(r.br), h+hw))
	}
	if e.left {
		out = append(out, band(-hw, vEnd(r.tl, e.top), hw, h-vEnd(r.bl, e.bottom)))
	}
	if e.right {
		out = append(out, band(w-hw, vEnd(r.tr, e.top), w+hw, h-vEnd(r.br, e.bottom)))
	}

	corner := func(cx, cy, radius, a0, a1 float64) {
		if radius <= 0 {
			return
		}
		var p polygon
		p = appendArc(p, cx, cy, radius+hw, a0, a1)
		inner := appendArc(nil, cx, cy, math.Max(0, radius-hw), a0, a1)
		for i := len(inner) - 1; i >= 0; i-- {
			p = append(p, inner[i])
		}
		out = append(out, p)
	}
	corner(r.tl, r.tl, r.tl, 180, 270)
	corner(w-r.tr, r.tr, r.tr, 270, 360)
	corner(w-r.br, h-r.br, r.br, 0, 90)
	corner(r.bl, h-r.bl, r.bl, 90, 180)

	for i := range out {
		out[i] = out[i].clockwise()
	}
	return out
}

func hypot(x, y float64) float64 { return math.Hypot(x, y) }
