// Package units converts between the canonical storage unit (centimeters),
// the user-facing display unit and device pixels.
//
// All durable geometry is stored in centimeters. On-screen geometry is in
// pixels at ScreenDPI. Export geometry is derived from screen pixels at export
// time only and is never stored.
package units

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// Unit is a physical length unit.
type Unit string

const (
	Inch       Unit = "inch"
	Centimeter Unit = "cm"
)

const (
	// CMPerInch is the exact number of centimeters in an inch.
	CMPerInch = 2.54
	// ScreenDPI is the fixed density of the on-screen pixel space.
	ScreenDPI = 96.0
	// Tolerance is the absolute and relative tolerance used by Equal.
	Tolerance = 1e-9
)

// ParseUnit parses a display unit name.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Inch, Centimeter:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == Inch || u == Centimeter
}

func (u Unit) String() string {
	return string(u)
}

// toInches treats every unit other than Inch as centimeters.
func toInches(v float64, u Unit) float64 {
	if u == Inch {
		return v
	}
	return v / CMPerInch
}

func fromInches(in float64, u Unit) float64 {
	if u == Inch {
		return in
	}
	return in * CMPerInch
}

// ToPixels converts a length in unit u to pixels at dpi.
func ToPixels(v float64, u Unit, dpi float64) float64 {
	return toInches(v, u) * dpi
}

// FromPixels converts a pixel length at dpi back to unit u.
func FromPixels(px float64, u Unit, dpi float64) float64 {
	return fromInches(px/dpi, u)
}

// Convert converts a length between two units.
func Convert(v float64, from, to Unit) float64 {
	return fromInches(toInches(v, from), to)
}

// CMToScreen converts canonical centimeters to screen pixels.
func CMToScreen(cm float64) float64 {
	return ToPixels(cm, Centimeter, ScreenDPI)
}

// ScreenToCM converts screen pixels to canonical centimeters.
func ScreenToCM(px float64) float64 {
	return FromPixels(px, Centimeter, ScreenDPI)
}

// ScreenToDisplay converts screen pixels to the display unit.
func ScreenToDisplay(px float64, u Unit) float64 {
	return FromPixels(px, u, ScreenDPI)
}

// DisplayToScreen converts a display-unit length to screen pixels.
func DisplayToScreen(v float64, u Unit) float64 {
	return ToPixels(v, u, ScreenDPI)
}

// PixelRatio is the scale factor from screen pixels to export pixels.
func PixelRatio(exportDPI float64) float64 {
	return exportDPI / ScreenDPI
}

// ExportPixels converts a screen-pixel length to export pixels at exportDPI.
func ExportPixels(screenPx, exportDPI float64) float64 {
	return screenPx * PixelRatio(exportDPI)
}

// Equal reports whether a and b are equal within Tolerance.
func Equal(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, Tolerance, Tolerance)
}
