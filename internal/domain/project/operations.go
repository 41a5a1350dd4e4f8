package project

import (
	"math"

	"github.com/google/uuid"
	"github.com/rpggio/playmat/internal/units"
)

// NewZoneID generates zone identifiers.
var NewZoneID = func() string {
	return "zone-" + uuid.NewString()
}

// NewZone builds a zone with a fresh id, the default style, the default
// position and the project's default size, then applies p over it.
func NewZone(s State, p ZonePatch) Zone {
	z := DefaultZone()
	z.ID = NewZoneID()
	z.X = DefaultZoneX
	z.Y = DefaultZoneY
	z.Width = units.CMToScreen(s.DefaultZoneSize.Width)
	z.Height = units.CMToScreen(s.DefaultZoneSize.Height)
	return ClampSize(p.Apply(z))
}

// AddZone appends a new zone built from p and returns the new state and the
// zone id. Appended zones paint on top.
func AddZone(s State, p ZonePatch) (State, string) {
	z := NewZone(s, p)
	return appendZone(s, z), z.ID
}

// InsertZone appends z as-is. It is used for pasted copies.
func InsertZone(s State, z Zone) State {
	return appendZone(s, ClampSize(z))
}

func appendZone(s State, z Zone) State {
	out := s.Clone()
	out.Zones = append(out.Zones, z)
	return out
}

// UpdateZone applies p to the zone with the given id, preserving order. If
// no such zone exists, a zone is added with that id and p over the defaults.
func UpdateZone(s State, id string, p ZonePatch) State {
	i := s.indexOf(id)
	if i < 0 {
		z := NewZone(s, p)
		z.ID = id
		return appendZone(s, z)
	}
	out := s.Clone()
	out.Zones[i] = ClampSize(p.Apply(out.Zones[i]))
	return out
}

// BatchUpdateZones applies p to every zone in ids. X and Y are never applied:
// multi-selected zones share style edits but not position.
func BatchUpdateZones(s State, ids []string, p ZonePatch) State {
	p = p.WithoutPosition()
	targets := idSet(ids)
	out := s.Clone()
	for i := range out.Zones {
		if _, ok := targets[out.Zones[i].ID]; ok {
			out.Zones[i] = ClampSize(p.Apply(out.Zones[i]))
		}
	}
	return out
}

// RemoveZones drops every zone in ids.
func RemoveZones(s State, ids []string) State {
	targets := idSet(ids)
	out := s.Clone()
	kept := make([]Zone, 0, len(out.Zones))
	for _, z := range out.Zones {
		if _, ok := targets[z.ID]; !ok {
			kept = append(kept, z)
		}
	}
	out.Zones = kept
	return out
}

// DuplicateZone appends a copy of z under a fresh id, offset by offsetPx on
// both axes.
func DuplicateZone(s State, z Zone, offsetPx float64) (State, string) {
	z.ID = NewZoneID()
	z.X += offsetPx
	z.Y += offsetPx
	return InsertZone(s, z), z.ID
}

// SetBackground replaces the background source and clears the placement so
// the render surface fits the new image.
func SetBackground(s State, kind SourceKind, value string) State {
	out := s.Clone()
	out.BackgroundSource = Source{Kind: kind, Value: value}
	out.Background = nil
	return out
}

// SetBackgroundTransform replaces the background placement.
func SetBackgroundTransform(s State, bg Background) State {
	out := s.Clone()
	out.Background = &bg
	return out
}

// SetMatSize replaces the mat dimensions, in centimeters.
func SetMatSize(s State, size Size) State {
	out := s.Clone()
	out.MatSize = size
	return out
}

// SetGridEnabled toggles grid snapping and the grid overlay.
func SetGridEnabled(s State, enabled bool) State {
	out := s.Clone()
	out.GridEnabled = enabled
	return out
}

// SetGridSize replaces the grid pitch, in centimeters.
func SetGridSize(s State, sizeCM float64) State {
	out := s.Clone()
	out.GridSize = sizeCM
	return out
}

// SetUnit replaces the display unit. Stored geometry is unaffected.
func SetUnit(s State, u units.Unit) State {
	out := s.Clone()
	out.Unit = u
	return out
}

// SetExportDPI replaces the export density.
func SetExportDPI(s State, dpi float64) State {
	out := s.Clone()
	out.ExportDPI = dpi
	return out
}

// SetProjectName replaces the project name.
func SetProjectName(s State, name string) State {
	out := s.Clone()
	out.ProjectName = name
	return out
}

// SetDefaultZoneSize replaces the size used for new zones, in centimeters.
func SetDefaultZoneSize(s State, size Size) State {
	out := s.Clone()
	out.DefaultZoneSize = size
	return out
}

// SetAuxAPIKey stores the opaque image-search key.
func SetAuxAPIKey(s State, key string) State {
	out := s.Clone()
	out.AuxAPIKey = key
	return out
}

// ClampSize enforces the minimum zone width and height.
func ClampSize(z Zone) Zone {
	z.Width = math.Max(MinZoneSize, z.Width)
	z.Height = math.Max(MinZoneSize, z.Height)
	return z
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
