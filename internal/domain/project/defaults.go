package project

import "github.com/rpggio/playmat/internal/units"

const (
	DefaultExportDPI   = 150.0
	DefaultGridEnabled = true
	// DefaultGridSize is the grid pitch in centimeters.
	DefaultGridSize    = 1.0
	DefaultUnit        = units.Centimeter
	DefaultProjectName = "My Playmat"

	// MinZoneSize is the smallest width or height, in pixels, a zone may have.
	MinZoneSize = 5.0
	// DefaultZoneX and DefaultZoneY place newly added zones, in pixels.
	DefaultZoneX = 100.0
	DefaultZoneY = 100.0
	// DefaultTextDistance is the label distance from the anchored edge, in pixels.
	DefaultTextDistance = 10.0
)

var (
	// DefaultMatSize is roughly 24x14 inches.
	DefaultMatSize = Size{Width: 60, Height: 35}
	// DefaultZoneSize is roughly card-sized.
	DefaultZoneSize = Size{Width: 6.3, Height: 8.8}
	// DPIOptions are the export densities offered by the settings form.
	DPIOptions = []float64{150, 300, 600, 1200}
)

// DefaultZone returns the style applied to new zones. Geometry and id are unset.
func DefaultZone() Zone {
	return Zone{
		Fill:              "rgba(255, 255, 255, 0.3)",
		Stroke:            "#ffffff",
		StrokeWidth:       3,
		CornerRadius:      18,
		Opacity:           0.5,
		BorderTop:         true,
		BorderRight:       true,
		BorderBottom:      true,
		BorderLeft:        true,
		BorderShadowX:     3,
		BorderShadowY:     3,
		BorderShadowBlur:  5,
		BorderShadowColor: "#000000",
		Text:              "Card Zone",
		FontSize:          28,
		FontFamily:        "Arial",
		FontStyle:         "bold",
		TextColor:         "white",
		TextStrokeColor:   "#000000",
		TextShadowX:       2,
		TextShadowY:       2,
		TextShadowBlur:    3,
		TextShadowColor:   "#000000",
		TextPosition:      TextBottomOut,
		TextDistance:      DefaultTextDistance,
		ImageOpacity:      1,
		ImageFit:          FitStretch,
	}
}

// Defaults returns the project used when nothing has been saved.
func Defaults() State {
	return State{
		MatSize:         DefaultMatSize,
		Unit:            DefaultUnit,
		ExportDPI:       DefaultExportDPI,
		GridEnabled:     DefaultGridEnabled,
		GridSize:        DefaultGridSize,
		Zones:           []Zone{},
		ProjectName:     DefaultProjectName,
		DefaultZoneSize: DefaultZoneSize,
	}
}
