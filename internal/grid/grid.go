// Package grid quantizes screen-pixel coordinates to a grid whose pitch is
// expressed in canonical centimeters.
package grid

import (
	"math"

	"github.com/rpggio/playmat/internal/units"
)

// FreeOffset is the paste offset in pixels used when the grid is disabled.
const FreeOffset = 20.0

// Pitch returns the grid pitch in screen pixels. The caller guarantees sizeCM > 0.
func Pitch(sizeCM float64) float64 {
	return units.CMToScreen(sizeCM)
}

// Snap rounds valuePx to the nearest multiple of the grid pitch.
// When enabled is false the value is returned unchanged.
func Snap(valuePx, sizeCM float64, enabled bool) float64 {
	if !enabled {
		return valuePx
	}
	pitch := Pitch(sizeCM)
	return math.Round(valuePx/pitch) * pitch
}

// Offset returns the displacement applied to pasted copies: one pitch when
// the grid is on, FreeOffset otherwise.
func Offset(sizeCM float64, enabled bool) float64 {
	if !enabled {
		return FreeOffset
	}
	return Pitch(sizeCM)
}

// Lines returns the positions of grid lines from 0 to extentPx inclusive.
func Lines(extentPx, sizeCM float64) []float64 {
	pitch := Pitch(sizeCM)
	if pitch <= 0 || extentPx < 0 {
		return nil
	}
	n := int(math.Floor(extentPx/pitch+units.Tolerance)) + 1
	lines := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, float64(i)*pitch)
	}
	return lines
}
