// Package document encodes and decodes the persisted project document.
package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/units"
)

// Version is the schema version written to every document and to the
// version key of the local store.
const Version = "1.0"

// Document is the JSON shape of a saved project.
type Document struct {
	BackgroundImage string              `json:"backgroundImage,omitempty"`
	BackgroundURL   string              `json:"backgroundUrl,omitempty"`
	BackgroundType  project.SourceKind  `json:"backgroundType,omitempty"`
	BackgroundAttrs *project.Background `json:"backgroundAttrs,omitempty"`
	Zones           []project.Zone      `json:"zones"`
	MatSize         project.Size        `json:"matSize"`
	Unit            units.Unit          `json:"unit"`
	DPI             float64             `json:"dpi"`
	GridEnabled     bool                `json:"gridEnabled"`
	GridSize        float64             `json:"gridSize"`
	ProjectName     string              `json:"projectName"`
	DefaultZoneSize project.Size        `json:"defaultZoneSize"`
	AuxAPIKey       string              `json:"auxApiKey,omitempty"`
	Timestamp       int64               `json:"timestamp"`
	Version         string              `json:"version"`
}

// FromState builds the document for s, stamped with now.
//
// Uploaded images are carried in backgroundImage. URL backgrounds are written
// to backgroundUrl and mirrored into backgroundImage for older readers.
func FromState(s project.State, now time.Time) Document {
	doc := Document{
		Zones:           s.Zones,
		MatSize:         s.MatSize,
		Unit:            s.Unit,
		DPI:             s.ExportDPI,
		GridEnabled:     s.GridEnabled,
		GridSize:        s.GridSize,
		ProjectName:     s.ProjectName,
		DefaultZoneSize: s.DefaultZoneSize,
		AuxAPIKey:       s.AuxAPIKey,
		Timestamp:       now.UnixMilli(),
		Version:         Version,
	}
	if doc.Zones == nil {
		doc.Zones = []project.Zone{}
	}
	if !s.BackgroundSource.Empty() {
		doc.BackgroundType = s.BackgroundSource.Kind
		doc.BackgroundImage = s.BackgroundSource.Value
		if s.BackgroundSource.Kind == project.SourceURL {
			doc.BackgroundURL = s.BackgroundSource.Value
		}
	}
	if s.Background != nil {
		bg := *s.Background
		doc.BackgroundAttrs = &bg
	}
	return doc
}

// Encode serializes s as a compact document.
func Encode(s project.State, now time.Time) ([]byte, error) {
	data, err := json.Marshal(FromState(s, now))
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes s as an indented document for download.
func EncodeIndent(s project.State, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(FromState(s, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}
