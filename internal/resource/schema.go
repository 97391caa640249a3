package resource

// FieldKind mirrors the input types a form field can have.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindNumber
	KindDecimal
	KindChoice
	KindPassword
	KindLongText
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindNumber:
		return "number"
	case KindDecimal:
		return "decimal"
	case KindChoice:
		return "choice"
	case KindPassword:
		return "password"
	case KindLongText:
		return "longtext"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of this kind are sent as JSON numbers.
func (k FieldKind) Numeric() bool {
	return k == KindNumber || k == KindDecimal
}

// Field describes one form input.
type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	// Options lists the allowed values of a KindChoice field.
	Options []string
	// Default pre-fills the field in a blank draft.
	Default string
}

// Schema is an ordered list of fields.
type Schema []Field

// Field returns the field named key.
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the field keys in order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}
