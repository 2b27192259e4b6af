package jsonschema

import (
	"github.com/goccy/go-json"
)

// Schema is a JSON Schema representation used for export.
// Keep this struct close to the keywords the dsl package can produce.
type Schema struct {
	// Annotations
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	Enum    []any  `json:"enum,omitempty"`

	// String
	Pattern   string `json:"pattern,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Composition
	AnyOf []*Schema `json:"anyOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	// Extensions holds keywords outside this struct. They are merged into the
	// JSON output; struct fields win on collision.
	Extensions map[string]any `json:"-"`

	constVal any
	hasConst bool
}

// SetConst sets the const keyword. Zero values are kept.
func (s *Schema) SetConst(v any) {
	s.constVal = v
	s.hasConst = true
}

// Const returns the const keyword, if any.
func (s *Schema) Const() (any, bool) { return s.constVal, s.hasConst }

// Clone returns a shallow copy with its own Extensions map.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return &Schema{}
	}
	c := *s
	if s.Extensions != nil {
		c.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			c.Extensions[k] = v
		}
	}
	return &c
}

// MarshalJSON renders the schema with const and extension keywords merged in.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	b, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extensions) == 0 && !s.hasConst {
		return b, nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range s.Extensions {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	if s.hasConst {
		m["const"] = s.constVal
	}
	return json.Marshal(m)
}

// Map renders the schema as a generic JSON document.
func (s *Schema) Map() (map[string]any, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
