package raster

import (
	"image/color"
	"strconv"
	"strings"
)

var named = map[string]color.NRGBA{
	"white":       {255, 255, 255, 255},
	"black":       {0, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"transparent": {},
}

// ParseColor parses the CSS color forms used by zone styles: #rgb, #rrggbb,
// #rrggbbaa, rgb(), rgba() and a handful of names.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	for _, prefix := range []string{"rgba(", "rgb("} {
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
			return parseFunc(s[len(prefix) : len(s)-1])
		}
	}
	return color.NRGBA{}, false
}

func parseHex(h string) (color.NRGBA, bool) {
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func parseFunc(args string) (color.NRGBA, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		ch[i] = clamp8(v)
	}
	a := uint8(255)
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		a = clamp8(v * 255)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

// fade scales the alpha of c by opacity.
func fade(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = clamp8(float64(c.A) * opacity)
	return c
}
