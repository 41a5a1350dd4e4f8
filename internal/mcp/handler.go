package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/domain/history"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/rpggio/playmat/internal/export"
	"github.com/rpggio/playmat/internal/units"
)

// Editor defines the editing session operations needed by MCP.
type Editor interface {
	View() project.State
	History() history.Status
	Selection() selection.Snapshot
	Targets() []string

	AddZone(p project.ZonePatch) (string, error)
	UpdateZone(id string, p project.ZonePatch) error
	EditSelection(p project.ZonePatch) error
	RemoveZones(ids ...string) error
	RemoveSelected() (int, error)
	Select(id string) error
	ToggleSelect(id string) (bool, error)
	ClearSelection()
	Copy() (string, error)
	Paste() (string, error)
	EdgeDistances(id string) (project.EdgeDistances, error)

	BeginGesture(ids ...string) error
	UpdateGesture(id string, f editor.Frame) error
	CommitGesture() error
	CancelGesture()

	Undo() bool
	Redo() bool

	SetMatSize(size project.Size) error
	SetGridEnabled(enabled bool) error
	SetGridSize(sizeCM float64) error
	SetUnit(u units.Unit) error
	SetExportDPI(dpi float64) error
	SetProjectName(name string) error
	SetDefaultZoneSize(size project.Size) error
	SetAuxAPIKey(key string) error
	SetBackground(kind project.SourceKind, value string) error
	FitBackground(mode project.BackgroundFit) error
	SetBackgroundTransform(bg project.Background) error
	SetBackgroundDisplaySize(v float64, byHeight bool) error

	NewProject(ctx context.Context) error
	Import(ctx context.Context, data []byte) (document.ValidationErrors, error)
	Document() ([]byte, string, error)
	Export(ctx context.Context, surface export.Surface) (image.Image, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	editor    Editor
	surface   export.Surface
	activity  ActivityService
	exportDir string
}

// NewHandler creates a new MCP handler. Exports are drawn on surface and,
// when requested, written under exportDir.
func NewHandler(ed Editor, surface export.Surface, activitySvc ActivityService, exportDir string) *Handler {
	return &Handler{
		editor:    ed,
		surface:   surface,
		activity:  activitySvc,
		exportDir: exportDir,
	}
}

// Handle dispatches MCP requests to the editor.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "get_project":
		return h.project(), nil
	case "add_zone":
		var req AddZoneParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id, err := h.editor.AddZone(req.Zone)
		if err != nil {
			return nil, mapError(err)
		}
		return ZoneIDResponse{ID: id, Project: h.project()}, nil
	case "update_zone":
		var req UpdateZoneParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.UpdateZone(req.ID, req.Zone); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "edit_selection":
		var req EditSelectionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.EditSelection(req.Zone); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "remove_zones":
		var req RemoveZonesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if len(req.IDs) == 0 {
			n, err := h.editor.RemoveSelected()
			if err != nil {
				return nil, mapError(err)
			}
			return RemovedResponse{Removed: n, Project: h.project()}, nil
		}
		before := len(h.editor.View().Zones)
		if err := h.editor.RemoveZones(req.IDs...); err != nil {
			return nil, mapError(err)
		}
		p := h.project()
		return RemovedResponse{Removed: before - len(p.State.Zones), Project: p}, nil
	case "select":
		var req SelectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.Select(req.ID); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "toggle_select":
		var req SelectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		selected, err := h.editor.ToggleSelect(req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return ToggleResponse{Selected: selected, Project: h.project()}, nil
	case "clear_selection":
		h.editor.ClearSelection()
		return h.project(), nil
	case "copy_zone":
		id, err := h.editor.Copy()
		if err != nil {
			return nil, mapError(err)
		}
		return ZoneIDResponse{ID: id, Project: h.project()}, nil
	case "paste_zone":
		id, err := h.editor.Paste()
		if err != nil {
			return nil, mapError(err)
		}
		return ZoneIDResponse{ID: id, Project: h.project()}, nil
	case "edge_distances":
		var req ZoneIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		d, err := h.editor.EdgeDistances(req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return d, nil
	case "begin_gesture":
		var req BeginGestureParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ids := req.IDs
		if len(ids) == 0 {
			ids = h.editor.Targets()
		}
		if err := h.editor.BeginGesture(ids...); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "update_gesture":
		var req UpdateGestureParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.UpdateGesture(req.ID, req.Frame); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "commit_gesture":
		if err := h.editor.CommitGesture(); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "cancel_gesture":
		h.editor.CancelGesture()
		return h.project(), nil
	case "undo":
		return StepResponse{Moved: h.editor.Undo(), Project: h.project()}, nil
	case "redo":
		return StepResponse{Moved: h.editor.Redo(), Project: h.project()}, nil
	case "set_settings":
		var req SetSettingsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.applySettings(req); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "set_background":
		var req SetBackgroundParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.SetBackground(req.Kind, req.Value); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "fit_background":
		var req FitBackgroundParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.FitBackground(req.Mode); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "set_background_transform":
		var req SetBackgroundTransformParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.SetBackgroundTransform(req.Transform); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "set_background_size":
		var req SetBackgroundSizeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.editor.SetBackgroundDisplaySize(req.Value, req.ByHeight); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "new_project":
		if err := h.editor.NewProject(ctx); err != nil {
			return nil, mapError(err)
		}
		return h.project(), nil
	case "import_document":
		var req ImportDocumentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rejected, err := h.editor.Import(ctx, req.Document)
		if err != nil {
			return nil, mapError(err)
		}
		if rejected == nil {
			rejected = document.ValidationErrors{}
		}
		return ImportResponse{Rejected: rejected, Project: h.project()}, nil
	case "get_document":
		data, filename, err := h.editor.Document()
		if err != nil {
			return nil, mapError(err)
		}
		return DocumentResponse{Filename: filename, Document: data}, nil
	case "export_png":
		var req ExportPNGParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.exportPNG(ctx, req.Save)
	case "convert_units":
		var req ConvertUnitsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if !req.From.Valid() || !req.To.Valid() {
			return nil, mapError(fmt.Errorf("%w: unit must be %q or %q", editor.ErrInvalidInput, units.Inch, units.Centimeter))
		}
		v := units.Convert(req.Value, req.From, req.To)
		return ConvertUnitsResponse{Value: v, Unit: req.To, Pixels: units.DisplayToScreen(req.Value, req.From)}, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.activity == nil {
			return []ActivityEntryResponse{}, nil
		}
		entries, err := h.activity.GetRecentActivity(ctx, activity.ListOptions{
			Type:   req.Type,
			Limit:  req.Limit,
			Offset: req.Offset,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp:     entry.CreatedAt,
				Type:          entry.Type,
				Summary:       entry.Summary,
				Details:       entry.Details,
				HistoryCursor: entry.HistoryCursor,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// applySettings applies each present field in a fixed order, stopping at the
// first rejected value. Earlier fields stay applied.
func (h *Handler) applySettings(req SetSettingsParams) error {
	steps := []struct {
		present bool
		apply   func() error
	}{
		{req.Unit != nil, func() error { return h.editor.SetUnit(*req.Unit) }},
		{req.MatSize != nil, func() error { return h.editor.SetMatSize(*req.MatSize) }},
		{req.GridEnabled != nil, func() error { return h.editor.SetGridEnabled(*req.GridEnabled) }},
		{req.GridSize != nil, func() error { return h.editor.SetGridSize(*req.GridSize) }},
		{req.ExportDPI != nil, func() error { return h.editor.SetExportDPI(*req.ExportDPI) }},
		{req.ProjectName != nil, func() error { return h.editor.SetProjectName(*req.ProjectName) }},
		{req.DefaultZoneSize != nil, func() error { return h.editor.SetDefaultZoneSize(*req.DefaultZoneSize) }},
		{req.AuxAPIKey != nil, func() error { return h.editor.SetAuxAPIKey(*req.AuxAPIKey) }},
	}
	for _, step := range steps {
		if !step.present {
			continue
		}
		if err := step.apply(); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) exportPNG(ctx context.Context, save bool) (*ExportResult, error) {
	if h.surface == nil {
		return nil, &APIError{Code: "EXPORT_UNAVAILABLE", Message: "no render surface configured"}
	}
	state := h.editor.View()
	img, err := h.editor.Export(ctx, h.surface)
	if err != nil {
		return nil, mapError(err)
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		return nil, mapError(err)
	}
	size := img.Bounds().Size()
	res := &ExportResult{
		Filename: document.ImageFilename(state.ProjectName),
		Width:    size.X,
		Height:   size.Y,
		DPI:      state.ExportDPI,
		PNG:      data,
	}
	if save {
		if h.exportDir == "" {
			return nil, &APIError{Code: "EXPORT_UNAVAILABLE", Message: "no export directory configured"}
		}
		if err := os.MkdirAll(h.exportDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating export directory: %w", err)
		}
		res.Path = filepath.Join(h.exportDir, res.Filename)
		if err := os.WriteFile(res.Path, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing export: %w", err)
		}
	}
	return res, nil
}

func (h *Handler) project() ProjectResponse {
	state := h.editor.View()
	w, hgt := state.MatPixels()
	size := export.Size(state)
	return ProjectResponse{
		State:      state,
		Selection:  h.editor.Selection(),
		History:    h.editor.History(),
		MatPixels:  SizeResponse{Width: w, Height: hgt},
		ExportSize: SizeResponse{Width: float64(size.X), Height: float64(size.Y)},
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool input schema"}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return err
}
