package activity

import "time"

// Type names the kind of editor change.
type Type string

const (
	TypeZoneAdded         Type = "zone_added"
	TypeZoneUpdated       Type = "zone_updated"
	TypeSelectionEdited   Type = "selection_edited"
	TypeZonesRemoved      Type = "zones_removed"
	TypeZonePasted        Type = "zone_pasted"
	TypeGestureCommitted  Type = "gesture_committed"
	TypeBackgroundChanged Type = "background_changed"
	TypeSettingsChanged   Type = "settings_changed"
	TypeUndo              Type = "undo"
	TypeRedo              Type = "redo"
	TypeProjectReset      Type = "project_reset"
	TypeProjectImported   Type = "project_imported"
	TypeProjectExported   Type = "project_exported"

	// Transient kinds are broadcast to observers but never journaled.
	TypeSelectionChanged Type = "selection_changed"
	TypeGestureUpdated   Type = "gesture_updated"
)

// Entry is one journaled change.
type Entry struct {
	ID            int64     `json:"id"`
	Type          Type      `json:"type"`
	Summary       string    `json:"summary"`
	Details       string    `json:"details,omitempty"` // JSON string
	HistoryCursor int       `json:"history_cursor"`
	CreatedAt     time.Time `json:"created_at"`
}
