package resource

import (
	"encoding/json"
	"net/mail"
	"slices"
	"strconv"
	"strings"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

// Draft holds the text values of a form while its dialog is open.
//
// Edits are local and synchronous. Nothing is validated until Payload is
// called, and then only what a native input would enforce.
type Draft struct {
	schema Schema
	values map[string]*string
	// edit marks a draft seeded from an existing record.
	edit bool
}

// NewDraft returns a blank draft with schema defaults filled in.
func NewDraft(schema Schema) *Draft {
	d := &Draft{schema: schema, values: make(map[string]*string, len(schema))}
	for _, f := range schema {
		v := f.Default
		d.values[f.Key] = &v
	}
	return d
}

// EditDraft returns a draft pre-filled with a shallow copy of record's
// fields that appear in schema. Nested values are ignored.
func EditDraft(schema Schema, record any) (*Draft, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, conerr.Wrap(conerr.ErrCodeAPIEncode, "failed to copy record into form", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, conerr.Wrap(conerr.ErrCodeAPIDecode, "failed to copy record into form", err)
	}

	d := &Draft{schema: schema, values: make(map[string]*string, len(schema)), edit: true}
	for _, f := range schema {
		v := formatValue(fields[f.Key])
		d.values[f.Key] = &v
	}
	return d, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Schema returns the draft's fields.
func (d *Draft) Schema() Schema { return d.schema }

// Set changes one field. Unknown keys are rejected.
func (d *Draft) Set(key, value string) error {
	if _, ok := d.schema.Field(key); !ok {
		return conerr.NewUnknownFieldError(key, d.schema.Keys())
	}
	*d.values[key] = value
	return nil
}

// Get returns the current text of a field.
func (d *Draft) Get(key string) string {
	if p, ok := d.values[key]; ok {
		return *p
	}
	return ""
}

// Ptr returns the storage of a field's text so an input widget can edit it
// in place. It returns nil for unknown keys.
func (d *Draft) Ptr(key string) *string {
	return d.values[key]
}

// Values returns a copy of all field texts.
func (d *Draft) Values() map[string]string {
	out := make(map[string]string, len(d.values))
	for k, p := range d.values {
		out[k] = *p
	}
	return out
}

// Payload converts the draft into a request body.
//
// Number and Decimal fields are coerced from text. Empty optional fields are
// omitted from a new record. On an edit draft they are sent as cleared so
// the server drops the old value: text becomes "" and numbers become null.
// Cleared Password and Choice fields are still omitted and keep their value.
// The first constraint violation, in schema order, is returned.
func (d *Draft) Payload() (map[string]any, error) {
	out := make(map[string]any, len(d.schema))
	for _, f := range d.schema {
		v, ok, err := f.value(d.Get(f.Key))
		if err != nil {
			return nil, err
		}
		switch {
		case ok:
			out[f.Key] = v
		case d.edit:
			if cleared, send := f.cleared(); send {
				out[f.Key] = cleared
			}
		}
	}
	return out, nil
}

// cleared returns the wire value for an emptied field on an edit.
func (f Field) cleared() (any, bool) {
	switch f.Kind {
	case KindNumber, KindDecimal:
		return nil, true
	case KindPassword, KindChoice:
		return nil, false
	default:
		return "", true
	}
}

// Check reports the constraint raw violates, exactly as Payload would.
// Forms use it to validate a field while it is edited.
func (f Field) Check(raw string) error {
	_, _, err := f.value(raw)
	return err
}

func (f Field) value(raw string) (any, bool, error) {
	if f.Kind != KindPassword && f.Kind != KindLongText {
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		if f.Required {
			return nil, false, conerr.NewFieldRequiredError(f.Label)
		}
		return nil, false, nil
	}

	v, err := coerce(f, raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func coerce(f Field, raw string) (any, error) {
	switch f.Kind {
	case KindNumber:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, conerr.NewFieldNumberError(f.Label, raw)
		}
		return n, nil
	case KindDecimal:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, conerr.NewFieldNumberError(f.Label, raw)
		}
		return n, nil
	case KindEmail:
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Address != raw {
			return nil, conerr.NewFieldEmailError(f.Label, raw)
		}
		return raw, nil
	case KindChoice:
		if !slices.Contains(f.Options, raw) {
			return nil, conerr.NewFieldChoiceError(f.Label, raw, f.Options)
		}
		return raw, nil
	default:
		return raw, nil
	}
}
