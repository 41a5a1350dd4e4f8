package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type faceKey struct {
	bold, italic bool
	size         float64
}

// faces caches scaled font faces. Font families other than the Go fonts are
// drawn with the Go font of matching weight and slant.
type faces struct {
	mu    sync.Mutex
	fonts map[[2]bool]*opentype.Font
	cache map[faceKey]font.Face
}

func newFaces() *faces {
	return &faces{fonts: make(map[[2]bool]*opentype.Font), cache: make(map[faceKey]font.Face)}
}

func (f *faces) get(style string, size float64) (font.Face, error) {
	style = strings.ToLower(style)
	key := faceKey{
		bold:   strings.Contains(style, "bold"),
		italic: strings.Contains(style, "italic"),
		size:   math.Round(size*2) / 2,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.cache[key]; ok {
		return face, nil
	}
	sel := [2]bool{key.bold, key.italic}
	otf, ok := f.fonts[sel]
	if !ok {
		var err error
		otf, err = opentype.Parse(fontData(key.bold, key.italic))
		if err != nil {
			return nil, fmt.Errorf("parsing font: %w", err)
		}
		f.fonts[sel] = otf
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: math.Max(1, key.size), DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	f.cache[key] = face
	return face, nil
}

func fontData(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// label is a rendered multi-line text block.
type label struct {
	img *image.RGBA
	// origin is the position, in label pixels, of the top-left corner of the
	// text box whose width is boxWidth.
	origin image.Point
}

type labelStyle struct {
	face        font.Face
	lineHeight  float64
	boxWidth    float64
	fill        color.NRGBA
	stroke      float64
	strokeColor color.NRGBA
	shadow      bool
	shadowX     float64
	shadowY     float64
	shadowColor color.NRGBA
}

// renderLabel draws text centered in a box of st.boxWidth device pixels,
// one line per st.lineHeight, with optional shadow and outline.
func renderLabel(text string, st labelStyle) label {
	lines := strings.Split(text, "\n")
	widest := st.boxWidth
	for _, l := range lines {
		widest = math.Max(widest, float64(font.MeasureString(st.face, l).Ceil()))
	}
	pad := int(math.Ceil(st.stroke + math.Max(math.Abs(st.shadowX), math.Abs(st.shadowY)) + 2))
	extra := int(math.Ceil((widest - st.boxWidth) / 2))
	w := int(math.Ceil(widest)) + 2*pad
	h := int(math.Ceil(st.lineHeight*float64(len(lines)))) + 2*pad
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	ascent := st.face.Metrics().Ascent.Ceil()

	draw := func(c color.NRGBA, dx, dy float64) {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: st.face}
		for i, l := range lines {
			lw := float64(font.MeasureString(st.face, l).Ceil())
			x := float64(pad+extra) + (st.boxWidth-lw)/2 + dx
			y := float64(pad) + float64(i)*st.lineHeight + float64(ascent) + dy
			d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
			d.DrawString(l)
		}
	}
	if st.shadow {
		draw(st.shadowColor, st.shadowX, st.shadowY)
	}
	if st.stroke > 0 {
		r := math.Max(1, st.stroke/2)
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			draw(st.strokeColor, r*math.Cos(a), r*math.Sin(a))
		}
	}
	draw(st.fill, 0, 0)
	return label{img: img, origin: image.Pt(pad+extra, pad)}
}
