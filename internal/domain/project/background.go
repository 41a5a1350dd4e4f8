package project

import "github.com/rpggio/playmat/internal/units"

// BackgroundFit names a placement preset for the background image.
type BackgroundFit string

const (
	BackgroundCover     BackgroundFit = "cover"
	BackgroundFitWidth  BackgroundFit = "fit-width"
	BackgroundFitHeight BackgroundFit = "fit-height"
	BackgroundStretch   BackgroundFit = "stretch"
)

// Valid reports whether f is a known preset.
func (f BackgroundFit) Valid() bool {
	switch f {
	case BackgroundCover, BackgroundFitWidth, BackgroundFitHeight, BackgroundStretch:
		return true
	}
	return false
}

// AutoFit covers a mat of matW x matH pixels with an image of the given size
// and centers it.
func AutoFit(matW, matH, imageWidth, imageHeight float64) Background {
	scale := max(matW/imageWidth, matH/imageHeight)
	return Background{
		X:           (matW - imageWidth*scale) / 2,
		Y:           (matH - imageHeight*scale) / 2,
		ScaleX:      scale,
		ScaleY:      scale,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	}
}

// Fit places an image of the given size on the mat according to f.
func Fit(f BackgroundFit, matW, matH, imageWidth, imageHeight float64) Background {
	bg := Background{ImageWidth: imageWidth, ImageHeight: imageHeight}
	switch f {
	case BackgroundFitWidth:
		scale := matW / imageWidth
		bg.ScaleX, bg.ScaleY = scale, scale
		bg.Y = (matH - imageHeight*scale) / 2
	case BackgroundFitHeight:
		scale := matH / imageHeight
		bg.ScaleX, bg.ScaleY = scale, scale
		bg.X = (matW - imageWidth*scale) / 2
	case BackgroundStretch:
		bg.ScaleX = matW / imageWidth
		bg.ScaleY = matH / imageHeight
	default:
		return AutoFit(matW, matH, imageWidth, imageHeight)
	}
	return bg
}

// DisplaySize returns the placed image size in the display unit u.
func (b Background) DisplaySize(u units.Unit) Size {
	return Size{
		Width:  units.ScreenToDisplay(b.ImageWidth*b.ScaleX, u),
		Height: units.ScreenToDisplay(b.ImageHeight*b.ScaleY, u),
	}
}

// WithDisplayWidth rescales b uniformly so its width is w display units.
func (b Background) WithDisplayWidth(w float64, u units.Unit) Background {
	if b.ImageWidth <= 0 {
		return b
	}
	scale := units.DisplayToScreen(w, u) / b.ImageWidth
	b.ScaleX, b.ScaleY = scale, scale
	return b
}

// WithDisplayHeight rescales b uniformly so its height is h display units.
func (b Background) WithDisplayHeight(h float64, u units.Unit) Background {
	if b.ImageHeight <= 0 {
		return b
	}
	scale := units.DisplayToScreen(h, u) / b.ImageHeight
	b.ScaleX, b.ScaleY = scale, scale
	return b
}
