package mcp

import (
	"encoding/json"
	"time"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/domain/history"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/units"
)

type AddZoneParams struct {
	Zone project.ZonePatch `json:"zone"`
}

type UpdateZoneParams struct {
	ID   string            `json:"id"`
	Zone project.ZonePatch `json:"zone"`
}

type EditSelectionParams struct {
	Zone project.ZonePatch `json:"zone"`
}

type RemoveZonesParams struct {
	IDs []string `json:"ids"`
}

type SelectParams struct {
	ID string `json:"id"`
}

type ZoneIDParams struct {
	ID string `json:"id"`
}

type BeginGestureParams struct {
	IDs []string `json:"ids"`
}

type UpdateGestureParams struct {
	ID    string       `json:"id"`
	Frame editor.Frame `json:"frame"`
}

type SetSettingsParams struct {
	MatSize         *project.Size `json:"mat_size,omitempty"`
	GridEnabled     *bool         `json:"grid_enabled,omitempty"`
	GridSize        *float64      `json:"grid_size,omitempty"`
	Unit            *units.Unit   `json:"unit,omitempty"`
	ExportDPI       *float64      `json:"export_dpi,omitempty"`
	ProjectName     *string       `json:"project_name,omitempty"`
	DefaultZoneSize *project.Size `json:"default_zone_size,omitempty"`
	AuxAPIKey       *string       `json:"aux_api_key,omitempty"`
}

type SetBackgroundParams struct {
	Kind  project.SourceKind `json:"kind"`
	Value string             `json:"value"`
}

type FitBackgroundParams struct {
	Mode project.BackgroundFit `json:"mode"`
}

type SetBackgroundTransformParams struct {
	Transform project.Background `json:"transform"`
}

type SetBackgroundSizeParams struct {
	Value    float64 `json:"value"`
	ByHeight bool    `json:"by_height,omitempty"`
}

type ImportDocumentParams struct {
	Document json.RawMessage `json:"document"`
}

type ExportPNGParams struct {
	Save bool `json:"save,omitempty"`
}

type ConvertUnitsParams struct {
	Value float64    `json:"value"`
	From  units.Unit `json:"from"`
	To    units.Unit `json:"to"`
}

type GetRecentActivityParams struct {
	Type   *activity.Type `json:"type,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
}

type SizeResponse struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ProjectResponse struct {
	State     project.State      `json:"state"`
	Selection selection.Snapshot `json:"selection"`
	History   history.Status     `json:"history"`
	// MatPixels is the mat extent in screen pixels.
	MatPixels SizeResponse `json:"mat_pixels"`
	// ExportSize is the PNG size at the current export DPI.
	ExportSize SizeResponse `json:"export_size"`
}

type ZoneIDResponse struct {
	ID      string          `json:"id"`
	Project ProjectResponse `json:"project"`
}

type RemovedResponse struct {
	Removed int             `json:"removed"`
	Project ProjectResponse `json:"project"`
}

type ToggleResponse struct {
	Selected bool            `json:"selected"`
	Project  ProjectResponse `json:"project"`
}

type StepResponse struct {
	Moved   bool            `json:"moved"`
	Project ProjectResponse `json:"project"`
}

type ImportResponse struct {
	Rejected document.ValidationErrors `json:"rejected"`
	Project  ProjectResponse           `json:"project"`
}

type DocumentResponse struct {
	Filename string          `json:"filename"`
	Document json.RawMessage `json:"document"`
}

type ConvertUnitsResponse struct {
	Value  float64    `json:"value"`
	Unit   units.Unit `json:"unit"`
	Pixels float64    `json:"screen_pixels"`
}

// ExportResult carries a rendered PNG. The image bytes travel as image
// content rather than JSON.
type ExportResult struct {
	Filename string  `json:"filename"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	DPI      float64 `json:"dpi"`
	Path     string  `json:"path,omitempty"`
	PNG      []byte  `json:"-"`
}

type ActivityEntryResponse struct {
	Timestamp     time.Time     `json:"timestamp"`
	Type          activity.Type `json:"type"`
	Summary       string        `json:"summary"`
	Details       string        `json:"details,omitempty"`
	HistoryCursor int           `json:"history_cursor"`
}
