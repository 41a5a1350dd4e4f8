package raster

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixComposition(t *testing.T) {
	m := mul(translate(10, 20), mul(rotate(90), scale(2, 2)))
	p := apply(m, point{1, 0})
	require.InDelta(t, 10, p.X, 1e-9)
	require.InDelta(t, 22, p.Y, 1e-9)
	require.InDelta(t, 2, deviceScale(m), 1e-9)
}

func TestRoundedRectClampsRadius(t *testing.T) {
	p := roundedRect(10, 40, radii{50, 50, 50, 50})
	b := bounds([]polygon{p})
	require.Equal(t, image.Rect(0, 0, 10, 40), b)
	require.InDelta(t, 10*40-(100-25*math.Pi), p.area(), 0.5)
}

func TestBorderSquareCornersWithoutTopEdge(t *testing.T) {
	// With the top edge hidden only the two bottom corners are rounded.
	z := radii{0, 0, 10, 10}
	polys := border(100, 50, 2, edges{top: false, right: true, bottom: true, left: true}, z)
	require.Len(t, polys, 5)
	for _, p := range polys {
		require.GreaterOrEqual(t, p.area(), 0.0)
	}

	all := border(100, 50, 2, edges{true, true, true, true}, radii{})
	require.Len(t, all, 4)
	require.Equal(t, image.Rect(-1, -1, 101, 51), bounds(all))
}

func TestBorderAreaMatchesPerimeter(t *testing.T) {
	polys := border(100, 50, 2, edges{true, true, true, true}, radii{})
	var total float64
	for _, p := range polys {
		total += p.area()
	}
	require.InDelta(t, 102*52-98*48, total, 1e-9)
}
