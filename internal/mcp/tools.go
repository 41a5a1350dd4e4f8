package mcp

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func sizeSchema(description string) map[string]any {
	s := object(map[string]any{
		"width":  prop("number", "Width in centimeters"),
		"height": prop("number", "Height in centimeters"),
	}, "width", "height")
	s["description"] = description
	return s
}

// zonePatchSchema lists the zone properties a patch may set. Geometry is in
// screen pixels at 96 DPI; omitted properties are left unchanged.
func zonePatchSchema() map[string]any {
	s := object(map[string]any{
		"x":                 prop("number", "Left edge in screen pixels"),
		"y":                 prop("number", "Top edge in screen pixels"),
		"width":             prop("number", "Width in screen pixels"),
		"height":            prop("number", "Height in screen pixels"),
		"rotation":          prop("number", "Rotation in degrees"),
		"fill":              prop("string", "Fill color (CSS hex or rgba)"),
		"noFill":            prop("boolean", "Draw no fill"),
		"stroke":            prop("string", "Border color"),
		"strokeWidth":       prop("number", "Border width in screen pixels"),
		"cornerRadius":      prop("number", "Corner radius in screen pixels"),
		"opacity":           prop("number", "Zone opacity between 0 and 1"),
		"borderTop":         prop("boolean", "Draw the top border"),
		"borderRight":       prop("boolean", "Draw the right border"),
		"borderBottom":      prop("boolean", "Draw the bottom border"),
		"borderLeft":        prop("boolean", "Draw the left border"),
		"borderShadow":      prop("boolean", "Draw a drop shadow"),
		"borderShadowX":     prop("number", "Shadow x offset"),
		"borderShadowY":     prop("number", "Shadow y offset"),
		"borderShadowBlur":  prop("number", "Shadow blur radius"),
		"borderShadowColor": prop("string", "Shadow color"),
		"text":              prop("string", "Label text"),
		"fontSize":          prop("number", "Label size in screen pixels"),
		"fontFamily":        prop("string", "Label font family"),
		"fontStyle":         prop("string", "normal, bold, italic or bold italic"),
		"textColor":         prop("string", "Label color"),
		"textStroke":        prop("number", "Label outline width"),
		"textStrokeColor":   prop("string", "Label outline color"),
		"textShadow":        prop("boolean", "Draw a label shadow"),
		"textShadowX":       prop("number", "Label shadow x offset"),
		"textShadowY":       prop("number", "Label shadow y offset"),
		"textShadowBlur":    prop("number", "Label shadow blur radius"),
		"textShadowColor":   prop("string", "Label shadow color"),
		"textPosition":      enum("Label placement", "center", "top", "bottom", "top-out", "bottom-out"),
		"textDistance":      prop("number", "Label offset from the zone edge"),
		"zoneImage":         prop("string", "Zone image as a URL or data URI; empty clears it"),
		"imageOpacity":      prop("number", "Zone image opacity between 0 and 1"),
		"imageFit":          enum("Zone image fit", "fill", "fit-width", "fit-height"),
	})
	s["description"] = "Zone properties to set"
	return s
}

func frameSchema() map[string]any {
	s := object(map[string]any{
		"x":        prop("number", "Left edge in screen pixels"),
		"y":        prop("number", "Top edge in screen pixels"),
		"width":    prop("number", "Width in screen pixels"),
		"height":   prop("number", "Height in screen pixels"),
		"rotation": prop("number", "Rotation in degrees (ignored for the background)"),
	}, "x", "y", "width", "height")
	s["description"] = "Live geometry of the object"
	return s
}

func noArgs() map[string]any {
	return object(map[string]any{})
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Project
		{
			Name:        "get_project",
			Description: "Get the current project state, selection and undo/redo availability",
			InputSchema: noArgs(),
		},
		{
			Name:        "new_project",
			Description: "Discard the current project and start from defaults",
			InputSchema: noArgs(),
		},
		{
			Name:        "get_document",
			Description: "Serialize the project as a version 1.0 document",
			InputSchema: noArgs(),
		},
		{
			Name:        "import_document",
			Description: "Replace the project with a document. Invalid fields fall back to defaults and are reported",
			InputSchema: object(map[string]any{
				"document": prop("object", "Project document"),
			}, "document"),
		},

		// Zones
		{
			Name:        "add_zone",
			Description: "Add a zone. Unset properties take the defaults; position and size are grid snapped",
			InputSchema: object(map[string]any{
				"zone": zonePatchSchema(),
			}),
		},
		{
			Name:        "update_zone",
			Description: "Update properties of one zone",
			InputSchema: object(map[string]any{
				"id":   prop("string", "Zone ID"),
				"zone": zonePatchSchema(),
			}, "id", "zone"),
		},
		{
			Name:        "edit_selection",
			Description: "Apply properties to every selected zone. Position is ignored when several zones are selected",
			InputSchema: object(map[string]any{
				"zone": zonePatchSchema(),
			}, "zone"),
		},
		{
			Name:        "remove_zones",
			Description: "Remove zones by ID, or the selected zones when no IDs are given",
			InputSchema: object(map[string]any{
				"ids": map[string]any{
					"type":        "array",
					"description": "Zone IDs to remove",
					"items":       map[string]any{"type": "string"},
				},
			}),
		},
		{
			Name:        "copy_zone",
			Description: "Copy the primary selected zone",
			InputSchema: noArgs(),
		},
		{
			Name:        "paste_zone",
			Description: "Paste the copied zone offset by one grid pitch and select it",
			InputSchema: noArgs(),
		},
		{
			Name:        "edge_distances",
			Description: "Distances from a zone's bounding box to the mat edges, in the project unit",
			InputSchema: object(map[string]any{
				"id": prop("string", "Zone ID"),
			}, "id"),
		},

		// Selection
		{
			Name:        "select",
			Description: "Select a single zone, or the background with id \"background\"",
			InputSchema: object(map[string]any{
				"id": prop("string", "Zone ID or \"background\""),
			}, "id"),
		},
		{
			Name:        "toggle_select",
			Description: "Add a zone to or remove it from the multi-selection",
			InputSchema: object(map[string]any{
				"id": prop("string", "Zone ID"),
			}, "id"),
		},
		{
			Name:        "clear_selection",
			Description: "Clear the selection",
			InputSchema: noArgs(),
		},

		// Gestures
		{
			Name:        "begin_gesture",
			Description: "Start a drag, resize or rotate of the given objects, or of the selection when empty",
			InputSchema: object(map[string]any{
				"ids": map[string]any{
					"type":        "array",
					"description": "Object IDs taking part",
					"items":       map[string]any{"type": "string"},
				},
			}),
		},
		{
			Name:        "update_gesture",
			Description: "Move one object of the active gesture. Nothing is committed until commit_gesture",
			InputSchema: object(map[string]any{
				"id":    prop("string", "Object ID"),
				"frame": frameSchema(),
			}, "id", "frame"),
		},
		{
			Name:        "commit_gesture",
			Description: "Snap and commit the gesture as one undo step",
			InputSchema: noArgs(),
		},
		{
			Name:        "cancel_gesture",
			Description: "Abandon the gesture without changing the project",
			InputSchema: noArgs(),
		},

		// History
		{
			Name:        "undo",
			Description: "Step back one change",
			InputSchema: noArgs(),
		},
		{
			Name:        "redo",
			Description: "Step forward one change",
			InputSchema: noArgs(),
		},

		// Settings
		{
			Name:        "set_settings",
			Description: "Change project settings. Each present field is applied in turn",
			InputSchema: object(map[string]any{
				"mat_size":          sizeSchema("Mat size"),
				"grid_enabled":      prop("boolean", "Snap to the grid"),
				"grid_size":         prop("number", "Grid spacing in centimeters"),
				"unit":              enum("Display unit", "inch", "cm"),
				"export_dpi":        prop("number", "Export resolution"),
				"project_name":      prop("string", "Project name"),
				"default_zone_size": sizeSchema("Size of newly added zones"),
				"aux_api_key":       prop("string", "Stored API key"),
			}),
		},

		// Background
		{
			Name:        "set_background",
			Description: "Set the background image source. Placement is computed on the next render",
			InputSchema: object(map[string]any{
				"kind":  enum("Source kind", "url", "upload"),
				"value": prop("string", "URL or data URI; empty clears the background"),
			}, "kind"),
		},
		{
			Name:        "fit_background",
			Description: "Fit the background to the mat",
			InputSchema: object(map[string]any{
				"mode": enum("Fit preset", "cover", "fit-width", "fit-height", "stretch"),
			}, "mode"),
		},
		{
			Name:        "set_background_transform",
			Description: "Set the background placement directly",
			InputSchema: object(map[string]any{
				"transform": object(map[string]any{
					"x":           prop("number", "Left edge in screen pixels"),
					"y":           prop("number", "Top edge in screen pixels"),
					"scaleX":      prop("number", "Horizontal scale"),
					"scaleY":      prop("number", "Vertical scale"),
					"imageWidth":  prop("number", "Natural image width"),
					"imageHeight": prop("number", "Natural image height"),
				}, "x", "y", "scaleX", "scaleY", "imageWidth", "imageHeight"),
			}, "transform"),
		},
		{
			Name:        "set_background_size",
			Description: "Resize the background to a width or height in the display unit, keeping aspect ratio",
			InputSchema: object(map[string]any{
				"value":     prop("number", "Target size in the display unit"),
				"by_height": prop("boolean", "Interpret value as the height"),
			}, "value"),
		},

		// Output
		{
			Name:        "export_png",
			Description: "Render the mat as PNG at the export DPI without editor chrome",
			InputSchema: object(map[string]any{
				"save": prop("boolean", "Also write the file to the export directory"),
			}),
		},
		{
			Name:        "convert_units",
			Description: "Convert a length between inches and centimeters",
			InputSchema: object(map[string]any{
				"value": prop("number", "Length"),
				"from":  enum("Source unit", "inch", "cm"),
				"to":    enum("Target unit", "inch", "cm"),
			}, "value", "from", "to"),
		},
		{
			Name:        "get_recent_activity",
			Description: "Get the journal of recent committed changes, newest first",
			InputSchema: object(map[string]any{
				"type":   prop("string", "Filter by activity type"),
				"limit":  prop("integer", "Maximum number of entries"),
				"offset": prop("integer", "Offset for pagination"),
			}),
		},
	}
}
