package resource

import (
	"strings"
	"time"

	"github.com/fms/backend/internal/domain/shared"
)

// Payload is a decoded JSON request body
type Payload map[string]any

// DecodeCreate converts a create payload into column values.
// Unknown keys are ignored, defaults fill omitted fields and every missing
// required field is reported in one validation error.
func (d *Definition) DecodeCreate(p Payload, now time.Time) (Record, error) {
	rec := make(Record, len(d.Fields))
	var problems []string

	for _, f := range d.Fields {
		raw, present := p[f.Name]

		var (
			v   any
			err error
		)
		if present && !IsBlank(raw) {
			v, err = f.Convert(raw)
		} else {
			v, err = f.DefaultValue(now)
		}
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}

		if v == nil {
			if f.Required && !d.provisions(f) {
				problems = append(problems, f.Name+" is required")
			}
			continue
		}
		rec[f.Column] = v
	}

	if len(problems) > 0 {
		return nil, shared.NewValidationError(strings.Join(problems, "; "))
	}
	return rec, nil
}

// DecodeUpdate converts the mapped keys of an update payload. The result is
// empty when no key is mapped. Required fields cannot be cleared.
func (d *Definition) DecodeUpdate(p Payload) (Record, error) {
	rec := make(Record)
	var problems []string

	for _, f := range d.Fields {
		raw, present := p[f.Name]
		if !present {
			continue
		}
		v, err := f.Convert(raw)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if v == nil && f.Required {
			problems = append(problems, f.Name+" cannot be empty")
			continue
		}
		rec[f.Column] = v
	}

	if len(problems) > 0 {
		return nil, shared.NewValidationError(strings.Join(problems, "; "))
	}
	return rec, nil
}

// provisions reports whether a missing value for f is filled by parent
// provisioning instead of being a validation failure
func (d *Definition) provisions(f Field) bool {
	return d.Parent != nil && d.Parent.Field == f.Name
}

// Present renders a scanned row in external form
func (d *Definition) Present(row map[string]any) map[string]any {
	out := make(map[string]any, len(d.Fields)+8)

	out["id"] = presentKind(Int, row[ColumnID])
	if d.Numbered() {
		out[d.NumberField] = presentKind(String, row[d.NumberColumn])
	}
	for _, f := range d.Fields {
		out[f.Name] = f.Present(row[f.Column])
	}
	for _, l := range d.Lookups {
		for _, lf := range l.Fields {
			out[lf.Name] = presentKind(String, row[l.SelectAlias(lf)])
		}
	}

	out["createdBy"] = presentKind(String, row[ColumnCreatedBy])
	out["createdAt"] = PresentTimestamp(row[ColumnCreatedAt])
	out["updatedBy"] = presentKind(String, row[ColumnUpdatedBy])
	out["updatedAt"] = PresentTimestamp(row[ColumnUpdatedAt])
	return out
}

// DynamicPrefix returns the payload value that selects the numbering prefix
func (d *Definition) DynamicPrefix(rec Record) string {
	if d.Numbering == nil || d.Numbering.PrefixField == "" {
		return ""
	}
	f, ok := d.FieldByName(d.Numbering.PrefixField)
	if !ok {
		return ""
	}
	if s, ok := rec[f.Column].(string); ok {
		return s
	}
	return ""
}
