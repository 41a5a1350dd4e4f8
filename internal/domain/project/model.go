package project

import (
	"encoding/json"

	"github.com/rpggio/playmat/internal/units"
)

// Size is a width/height pair in canonical centimeters.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextPosition anchors a zone label vertically.
type TextPosition string

const (
	TextCenter    TextPosition = "center"
	TextTop       TextPosition = "top"
	TextBottom    TextPosition = "bottom"
	TextTopOut    TextPosition = "top-out"
	TextBottomOut TextPosition = "bottom-out"
)

// Valid reports whether p is a known anchor.
func (p TextPosition) Valid() bool {
	switch p {
	case TextCenter, TextTop, TextBottom, TextTopOut, TextBottomOut:
		return true
	}
	return false
}

// ImageFit controls how an embedded zone image is placed.
type ImageFit string

const (
	FitStretch ImageFit = "fill"
	FitWidth   ImageFit = "fit-width"
	FitHeight  ImageFit = "fit-height"
)

// Valid reports whether f is a known fit mode.
func (f ImageFit) Valid() bool {
	return f == FitStretch || f == FitWidth || f == FitHeight
}

// Zone is a positioned, styled rectangle on the mat. Geometry is in screen
// pixels with (X, Y) the top-left corner. Colors are CSS color strings.
type Zone struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`

	Fill         string  `json:"fill"`
	NoFill       bool    `json:"noFill"`
	Stroke       string  `json:"stroke"`
	StrokeWidth  float64 `json:"strokeWidth"`
	CornerRadius float64 `json:"cornerRadius"`
	Opacity      float64 `json:"opacity"`

	BorderTop    bool `json:"borderTop"`
	BorderRight  bool `json:"borderRight"`
	BorderBottom bool `json:"borderBottom"`
	BorderLeft   bool `json:"borderLeft"`

	BorderShadow      bool    `json:"borderShadow"`
	BorderShadowX     float64 `json:"borderShadowX"`
	BorderShadowY     float64 `json:"borderShadowY"`
	BorderShadowBlur  float64 `json:"borderShadowBlur"`
	BorderShadowColor string  `json:"borderShadowColor"`

	Text            string       `json:"text"`
	FontSize        float64      `json:"fontSize"`
	FontFamily      string       `json:"fontFamily"`
	FontStyle       string       `json:"fontStyle"`
	TextColor       string       `json:"textColor"`
	TextStroke      float64      `json:"textStroke"`
	TextStrokeColor string       `json:"textStrokeColor"`
	TextShadow      bool         `json:"textShadow"`
	TextShadowX     float64      `json:"textShadowX"`
	TextShadowY     float64      `json:"textShadowY"`
	TextShadowBlur  float64      `json:"textShadowBlur"`
	TextShadowColor string       `json:"textShadowColor"`
	TextPosition    TextPosition `json:"textPosition"`
	TextDistance    float64      `json:"textDistance"`

	ZoneImage    string   `json:"zoneImage,omitempty"`
	ImageOpacity float64  `json:"imageOpacity"`
	ImageFit     ImageFit `json:"imageFit"`
}

// UnmarshalJSON fills fields missing from data with the default zone style.
func (z *Zone) UnmarshalJSON(data []byte) error {
	type plain Zone
	p := plain(DefaultZone())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*z = Zone(p)
	return nil
}

// Background places the single background image on the mat, in screen pixels.
// Rotation is intentionally absent: backgrounds never persist rotation.
type Background struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	ScaleX      float64 `json:"scaleX"`
	ScaleY      float64 `json:"scaleY"`
	ImageWidth  float64 `json:"imageWidth"`
	ImageHeight float64 `json:"imageHeight"`
}

// SourceKind says where the background image came from.
type SourceKind string

const (
	SourceURL    SourceKind = "url"
	SourceUpload SourceKind = "upload"
)

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	return k == SourceURL || k == SourceUpload
}

// Source identifies the background image.
type Source struct {
	Kind  SourceKind `json:"kind"`
	Value string     `json:"value"`
}

// Empty reports whether no background image is set.
func (s Source) Empty() bool {
	return s.Value == ""
}

// State is the complete persisted design. It is treated as an immutable
// value: operations return a new State and never modify their argument.
//
// Zones are in paint order: index 0 is drawn first (bottom-most) and the
// last zone is drawn on top.
type State struct {
	MatSize          Size        `json:"matSize"`
	Unit             units.Unit  `json:"unit"`
	ExportDPI        float64     `json:"exportDpi"`
	GridEnabled      bool        `json:"gridEnabled"`
	GridSize         float64     `json:"gridSize"`
	Zones            []Zone      `json:"zones"`
	Background       *Background `json:"background,omitempty"`
	BackgroundSource Source      `json:"backgroundSource"`
	ProjectName      string      `json:"projectName"`
	DefaultZoneSize  Size        `json:"defaultZoneSize"`
	AuxAPIKey        string      `json:"auxApiKey,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.Zones != nil {
		out.Zones = make([]Zone, len(s.Zones))
		copy(out.Zones, s.Zones)
	}
	if s.Background != nil {
		bg := *s.Background
		out.Background = &bg
	}
	return out
}

// MatPixels returns the mat extent in screen pixels.
func (s State) MatPixels() (width, height float64) {
	return units.CMToScreen(s.MatSize.Width), units.CMToScreen(s.MatSize.Height)
}

// Zone returns the zone with the given id.
func (s State) Zone(id string) (Zone, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Zones[i], true
	}
	return Zone{}, false
}

// HasZone reports whether a zone with the given id exists.
func (s State) HasZone(id string) bool {
	return s.indexOf(id) >= 0
}

func (s State) indexOf(id string) int {
	for i := range s.Zones {
		if s.Zones[i].ID == id {
			return i
		}
	}
	return -1
}
