package jsonschema

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	sjs "github.com/santhosh-tekuri/jsonschema/v5"
)

// resourceURL names in-memory documents handed to the validator.
const resourceURL = "mem://typeprovider/schema.json"

// CompileOptions configures Compile.
type CompileOptions struct {
	// Formats overrides format assertions by name. When nil, formats are
	// annotations only.
	Formats map[string]func(any) bool
}

// Compile validates doc against the draft 2020-12 meta-schema and compiles it.
func Compile(doc []byte, opt CompileOptions) (*sjs.Schema, error) {
	c := sjs.NewCompiler()
	c.Draft = sjs.Draft2020
	if opt.Formats != nil {
		c.AssertFormat = true
		if c.Formats == nil {
			c.Formats = map[string]func(any) bool{}
		}
		for name, fn := range opt.Formats {
			c.Formats[name] = fn
		}
	}
	if err := c.AddResource(resourceURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("jsonschema: load document: %w", err)
	}
	s, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile document: %w", err)
	}
	return s, nil
}

// Validate checks that s projects to a well-formed JSON Schema document.
func (s *Schema) Validate() error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("jsonschema: marshal: %w", err)
	}
	_, err = Compile(b, CompileOptions{})
	return err
}

// ValidateStrict is Validate plus the unknown keyword check.
func (s *Schema) ValidateStrict() error {
	m, err := s.Map()
	if err != nil {
		return err
	}
	if err := CheckKeywords(m); err != nil {
		return err
	}
	return s.Validate()
}
