package project

import "github.com/rpggio/playmat/internal/units"

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the unrotated rectangle of z.
func (z Zone) Bounds() Rect {
	return Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
}

// Corners holds per-corner radii.
type Corners struct {
	TopLeft     float64
	TopRight    float64
	BottomRight float64
	BottomLeft  float64
}

// Corners returns the radius drawn at each corner. A corner is rounded only
// when both edges meeting at it are visible.
func (z Zone) Corners() Corners {
	r := z.CornerRadius
	pick := func(a, b bool) float64 {
		if a && b {
			return r
		}
		return 0
	}
	return Corners{
		TopLeft:     pick(z.BorderTop, z.BorderLeft),
		TopRight:    pick(z.BorderTop, z.BorderRight),
		BottomRight: pick(z.BorderBottom, z.BorderRight),
		BottomLeft:  pick(z.BorderBottom, z.BorderLeft),
	}
}

// TextOffsetY returns the label's top edge relative to the zone's top edge.
func (z Zone) TextOffsetY() float64 {
	d := z.TextDistance
	switch z.TextPosition {
	case TextTop:
		return d
	case TextBottom:
		return z.Height - z.FontSize - d
	case TextTopOut:
		return -z.FontSize - d
	case TextBottomOut:
		return z.Height + d
	default:
		return (z.Height - z.FontSize) / 2
	}
}

// ImageRect places an image of the given intrinsic size inside z, relative
// to the zone's top-left corner. Fit modes keep the aspect ratio and center
// the image on the other axis.
func (z Zone) ImageRect(imageWidth, imageHeight float64) Rect {
	if imageWidth <= 0 || imageHeight <= 0 {
		return Rect{Width: z.Width, Height: z.Height}
	}
	switch z.ImageFit {
	case FitWidth:
		h := imageHeight * z.Width / imageWidth
		return Rect{Y: (z.Height - h) / 2, Width: z.Width, Height: h}
	case FitHeight:
		w := imageWidth * z.Height / imageHeight
		return Rect{X: (z.Width - w) / 2, Width: w, Height: z.Height}
	default:
		return Rect{Width: z.Width, Height: z.Height}
	}
}

// EdgeDistances is the gap between a zone and each mat edge, in display units.
type EdgeDistances struct {
	Left   float64    `json:"left"`
	Right  float64    `json:"right"`
	Top    float64    `json:"top"`
	Bottom float64    `json:"bottom"`
	Unit   units.Unit `json:"unit"`
}

// EdgeDistances measures z against the mat of s in the display unit of s.
func (s State) EdgeDistances(z Zone) EdgeDistances {
	matW, matH := s.MatPixels()
	conv := func(px float64) float64 { return units.ScreenToDisplay(px, s.Unit) }
	return EdgeDistances{
		Left:   conv(z.X),
		Right:  conv(matW - (z.X + z.Width)),
		Top:    conv(z.Y),
		Bottom: conv(matH - (z.Y + z.Height)),
		Unit:   s.Unit,
	}
}
