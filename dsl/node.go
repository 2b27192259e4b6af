package dsl

import (
	"fmt"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/i18n"
	js "github.com/reoring/typeprovider/jsonschema"
)

// node is the uncompiled form of a schema.
type node interface {
	compile(c *compiler) (compiled, error)
	jsonSchema() (*js.Schema, error)
	hasTransform() bool
}

// compiled is the runtime form of a node. Paths passed in are where the value
// sits in the checked document.
type compiled interface {
	// validate reports whether v conforms. With a nil sink it stops at the
	// first violation; otherwise every violation is recorded.
	validate(v any, at tp.PathRef, s *sink) bool
	// convert coerces v toward the declared types, leaving it unchanged when
	// no conversion applies.
	convert(v any) any
	// decode applies decode transforms to a value that already validated.
	decode(v any, at tp.PathRef) (any, error)
	// encode applies encode transforms and normalizes Go values to wire form.
	encode(v any, at tp.PathRef) (any, error)
}

type compiler struct {
	env tp.CompileEnv
}

func (c *compiler) checkFormat(name, value string) bool {
	if c.env.Formats == nil {
		return true
	}
	return c.env.Formats.Check(name, value)
}

// checkExtensions rejects unknown keywords in strict mode.
func (c *compiler) checkExtensions(o Options) error {
	if !c.env.Strict {
		return nil
	}
	for k := range o.Extensions {
		if !js.IsKnownKeyword(k) {
			return fmt.Errorf("%w %q", tp.ErrUnknownKeyword, k)
		}
	}
	return nil
}

// sink collects issues for exhaustive error reporting.
type sink struct {
	issues tp.Issues
}

// fail records an issue; it returns whether collection continues.
func (s *sink) fail(it tp.Issue) bool {
	if s == nil {
		return false
	}
	s.issues = append(s.issues, it)
	return true
}

func issue(at tp.PathRef, code string, data map[string]string, kv ...any) tp.Issue {
	return at.Issue(code, i18n.T(code, data), kv...)
}

func invalidType(at tp.PathRef, expected string, v any) tp.Issue {
	return issue(at, tp.CodeInvalidType, map[string]string{"expected": expected}, "expected", expected, "got", typeName(v))
}

// Options carries annotations shared by every constructor.
type Options struct {
	Title       string
	Description string
	Default     any
	// Extensions are projected into JSON Schema as-is. Strict compilation
	// rejects keys outside the JSON Schema vocabulary ("x-" keys are allowed).
	Extensions map[string]any
}

func (o Options) apply(s *js.Schema) *js.Schema {
	if s == nil {
		s = &js.Schema{}
	}
	if o.Title != "" {
		s.Title = o.Title
	}
	if o.Description != "" {
		s.Description = o.Description
	}
	if o.Default != nil {
		s.Default = o.Default
	}
	if len(o.Extensions) > 0 {
		if s.Extensions == nil {
			s.Extensions = map[string]any{}
		}
		for k, v := range o.Extensions {
			s.Extensions[k] = v
		}
	}
	return s
}

func pick[O any](opts []O) O {
	var zero O
	if len(opts) == 0 {
		return zero
	}
	return opts[len(opts)-1]
}
