package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `playmat edits one printable playmat: a mat of a physical size, an optional background image, and rectangular zones drawn on top.

Core concepts:
- Mat: physical size in centimeters. The display unit (inch or cm) only affects how sizes are reported.
- Screen pixels: all zone geometry is in pixels at 96 DPI. 1 cm is 37.795 px.
- Grid: when enabled, committed positions and sizes snap to the grid pitch.
- Zone: a rectangle with fill, border, optional label and optional image.
- Selection: a primary id plus a multi-selection. "background" selects the background image.
- History: every committed change is one undo step, at most 50 are kept.

Default workflow:
1) Orient: call get_project.
2) Lay out: add_zone, update_zone, or select/toggle_select then edit_selection.
3) Drag or resize: begin_gesture, update_gesture (repeat), commit_gesture. Only the commit is an undo step.
4) Check: edge_distances for spacing, export_png to look at the result.
5) Share: get_document returns a portable JSON document; import_document loads one.

Docs:
- playmat://docs/index
- playmat://docs/concepts
- playmat://docs/workflows/layout
- playmat://docs/document-format
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "playmat://docs/index",
		Name:        "docs_index",
		Title:       "playmat docs index",
		Description: "Entry point: what the tools do and which doc to read next.",
		Content: `# playmat: Agent Docs Index

## Quick start

1. ` + "`get_project`" + ` shows the mat, zones, selection and whether undo/redo is available.
2. ` + "`add_zone`" + ` with a partial zone; omitted properties take the defaults.
3. ` + "`export_png`" + ` renders the mat at the export DPI without selection chrome.

## Docs (read on demand)

- ` + "`playmat://docs/concepts`" + `: units, coordinates, snapping, selection.
- ` + "`playmat://docs/workflows/layout`" + `: laying out zones and using gestures.
- ` + "`playmat://docs/document-format`" + `: the version 1.0 project document.

## Limitations

- Text shadows are drawn without blur in exports.
- Fonts map to the built-in Go font family by weight and slant.
`,
	},
	{
		URI:         "playmat://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts",
		Description: "Units, coordinate space, grid snapping and selection rules.",
		Content: `# Concepts

## Units

- Mat size, default zone size and grid pitch are stored in centimeters.
- Zone x, y, width and height are screen pixels at 96 DPI.
- ` + "`convert_units`" + ` converts between inch and cm and reports the screen pixel length.
- Export size in pixels is the mat size in inches times the export DPI.

## Snapping

With the grid on, committed edits round positions and sizes to the nearest multiple of the pitch.
Zones never shrink below 5 px. Gesture updates are not snapped until commit.

## Selection

- ` + "`select`" + ` replaces the selection. ` + "`toggle_select`" + ` adds or removes one zone.
- ` + "`edit_selection`" + ` applies to all selected zones. With several zones selected, x and y are ignored.
- The background can be selected only when it has an image.

## History

Each committed change is one undo step. Selection changes and gesture updates are not.
A new change after undo discards the redo branch.
`,
	},
	{
		URI:         "playmat://docs/workflows/layout",
		Name:        "docs_workflow_layout",
		Title:       "Workflow: layout",
		Description: "How to place, align and adjust zones, including gestures.",
		Content: `# Workflow: layout

## Placing zones

1. Call ` + "`set_settings`" + ` for the mat size, unit and grid first. Changing them later keeps zone pixels as they are.
2. Call ` + "`add_zone`" + ` for each area. Use ` + "`edge_distances`" + ` to check margins in the display unit.
3. Style several zones at once: ` + "`select`" + ` one, ` + "`toggle_select`" + ` the rest, then ` + "`edit_selection`" + `.
4. ` + "`copy_zone`" + ` and ` + "`paste_zone`" + ` duplicate the primary zone, offset by one grid pitch.

## Gestures

A gesture is a live drag, resize or rotate:

- ` + "`begin_gesture`" + ` with ids, or the current selection when ids is empty.
- ` + "`update_gesture`" + ` any number of times. ` + "`get_project`" + ` shows the live frames.
- ` + "`commit_gesture`" + ` snaps and records a single undo step. ` + "`cancel_gesture`" + ` reverts.

## Background

- ` + "`set_background`" + ` with a URL or data URI. The first render fits it to cover the mat.
- ` + "`fit_background`" + ` applies cover, fit-width, fit-height or stretch.
- ` + "`set_background_size`" + ` sets width or height in the display unit, keeping aspect ratio.
`,
	},
	{
		URI:         "playmat://docs/document-format",
		Name:        "docs_document_format",
		Title:       "Document format",
		Description: "Fields of the version 1.0 project document and how invalid fields are handled.",
		Content: `# Document format

` + "`get_document`" + ` returns a JSON object with ` + "`version`" + ` "1.0", a millisecond ` + "`timestamp`" + ` and the project fields:
` + "`projectName`" + `, ` + "`matSize`" + `, ` + "`unit`" + `, ` + "`gridEnabled`" + `, ` + "`gridSize`" + `, ` + "`dpi`" + `,
` + "`defaultZoneSize`" + `, ` + "`zones`" + `, ` + "`backgroundType`" + `, ` + "`backgroundUrl`" + ` or ` + "`backgroundImage`" + `, and ` + "`backgroundAttrs`" + `.

## Import

- The document must be a JSON object.
- Each invalid field is reported in ` + "`rejected`" + ` and keeps its current value.
- Invalid or duplicate zones are skipped and reported.
- Import clears the selection and is a single undo step.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
