package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/units"
)

// Decode applies the fields of a project document over base and returns the
// result. Fields are decoded and validated independently: a missing or null
// field keeps its value from base, and a rejected field keeps its value from
// base and is reported in the returned ValidationErrors. Zones are validated
// one by one and invalid zones are dropped.
//
// An error is returned only when data is not a JSON object, in which case
// base is returned untouched.
func Decode(data []byte, base project.State) (project.State, ValidationErrors, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return base, nil, ErrMalformed
	}
	if len(data) == 0 || data[0] != '{' {
		return base, nil, ErrNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return base, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	d := &decoder{fields: fields, state: base.Clone()}
	d.background()
	d.zones()
	d.size("matSize", &d.state.MatSize)
	d.unit()
	d.positive("dpi", &d.state.ExportDPI)
	d.field("gridEnabled", &d.state.GridEnabled)
	d.positive("gridSize", &d.state.GridSize)
	d.projectName()
	d.size("defaultZoneSize", &d.state.DefaultZoneSize)
	d.field("auxApiKey", &d.state.AuxAPIKey)
	return d.state, d.problems, nil
}

type decoder struct {
	fields   map[string]json.RawMessage
	state    project.State
	problems ValidationErrors
}

func (d *decoder) present(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// field unmarshals the named field into dst. It reports false, leaving dst
// alone, when the field is absent, null or of the wrong type.
func (d *decoder) field(name string, dst any) bool {
	raw, ok := d.fields[name]
	if !ok || isNull(raw) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		d.reject(name, "invalid type")
		return false
	}
	return true
}

func (d *decoder) reject(field, reason string) {
	d.problems = append(d.problems, FieldError{Field: field, Reason: reason})
}

// collect records err under field, flattening nested validation errors.
func (d *decoder) collect(field string, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		keys := make([]string, 0, len(verrs))
		for k := range verrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.collect(field+"."+k, verrs[k])
		}
		return
	}
	d.reject(field, err.Error())
}

func (d *decoder) check(field string, err error) bool {
	if err == nil {
		return true
	}
	d.collect(field, err)
	return false
}

func (d *decoder) size(name string, dst *project.Size) {
	var s project.Size
	if d.field(name, &s) && d.check(name, validateSize(&s)) {
		*dst = s
	}
}

func (d *decoder) positive(name string, dst *float64) {
	var v float64
	if d.field(name, &v) && d.check(name, validation.Validate(v, positive...)) {
		*dst = v
	}
}

func (d *decoder) unit() {
	var u units.Unit
	if d.field("unit", &u) && d.check("unit", validation.Validate(u, validation.Required, validation.In(units.Inch, units.Centimeter))) {
		d.state.Unit = u
	}
}

func (d *decoder) projectName() {
	var name string
	if d.field("projectName", &name) && d.check("projectName", validation.Validate(name, validation.Required)) {
		d.state.ProjectName = name
	}
}

func (d *decoder) zones() {
	var raws []json.RawMessage
	if !d.field("zones", &raws) {
		return
	}
	zones := make([]project.Zone, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		name := fmt.Sprintf("zones[%d]", i)
		var z project.Zone
		if err := json.Unmarshal(raw, &z); err != nil {
			d.reject(name, "invalid zone")
			continue
		}
		if !d.check(name, validateZone(&z)) {
			continue
		}
		if _, dup := seen[z.ID]; dup {
			d.reject(name+".id", "duplicate id")
			continue
		}
		seen[z.ID] = struct{}{}
		zones = append(zones, project.ClampSize(z))
	}
	d.state.Zones = zones
}

// background resolves the background source, falling back to the legacy
// fields: a document without backgroundType but with backgroundUrl is a URL
// background, and one with only backgroundImage is an upload.
func (d *decoder) background() {
	prev := d.state.BackgroundSource
	if d.present("backgroundType") || d.present("backgroundUrl") || d.present("backgroundImage") {
		var kind project.SourceKind
		var url, image string
		if d.field("backgroundType", &kind) && !kind.Valid() {
			d.reject("backgroundType", "must be one of url, upload")
			kind = ""
		}
		d.field("backgroundUrl", &url)
		d.field("backgroundImage", &image)

		if kind == "" {
			switch {
			case url != "":
				kind = project.SourceURL
			case image != "":
				kind = project.SourceUpload
			}
		}
		src := project.Source{Kind: kind}
		switch kind {
		case project.SourceURL:
			src.Value = url
			if src.Value == "" {
				src.Value = image
			}
		case project.SourceUpload:
			src.Value = image
		}
		if src.Value == "" {
			src = project.Source{}
		}
		d.state.BackgroundSource = src
	}
	changed := d.state.BackgroundSource != prev

	raw, ok := d.fields["backgroundAttrs"]
	switch {
	case ok && isNull(raw):
		d.state.Background = nil
	case ok:
		var bg project.Background
		if d.field("backgroundAttrs", &bg) && d.check("backgroundAttrs", validateBackground(&bg)) {
			d.state.Background = &bg
		} else if changed {
			d.state.Background = nil
		}
	case changed:
		d.state.Background = nil
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
