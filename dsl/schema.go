package dsl

import (
	"fmt"

	tp "github.com/reoring/typeprovider"
	js "github.com/reoring/typeprovider/jsonschema"
)

// Schema is an immutable schema whose decoded values have static type T.
// Schemas are compared by identity in checker caches: build them once.
type Schema[T any] struct {
	n    node
	bind func(any) (T, error)
}

var _ tp.Typed[string] = (*Schema[string])(nil)

func newSchema[T any](n node) *Schema[T] { return &Schema[T]{n: n} }

// Compile builds the checker for s.
func (s *Schema[T]) Compile(env tp.CompileEnv) (tp.Checker, error) {
	if s == nil || s.n == nil {
		return nil, tp.ErrNilSchema
	}
	c := &compiler{env: env}
	root, err := s.n.compile(c)
	if err != nil {
		return nil, err
	}
	if env.Strict {
		doc, err := s.n.jsonSchema()
		if err != nil {
			return nil, err
		}
		if err := doc.ValidateStrict(); err != nil {
			return nil, err
		}
	}
	kind := tp.KindPlain
	if s.n.hasTransform() {
		kind = tp.KindTransform
	}
	return &checker{root: root, kind: kind}, nil
}

// JSONSchema projects s to a JSON Schema document.
func (s *Schema[T]) JSONSchema() (*js.Schema, error) {
	if s == nil || s.n == nil {
		return nil, tp.ErrNilSchema
	}
	return s.n.jsonSchema()
}

// Bind converts a decoded value to T.
func (s *Schema[T]) Bind(decoded any) (T, error) {
	if s.bind != nil {
		return s.bind(decoded)
	}
	return bindAs[T](decoded)
}

// dslNode exposes the node for nesting.
func (s *Schema[T]) dslNode() node {
	if s == nil {
		return nil
	}
	return s.n
}

type nodeHolder interface{ dslNode() node }

// nodeOf extracts the node of a dsl schema. Schemas from other packages
// cannot be nested.
func nodeOf(s tp.Schema) (node, error) {
	if s == nil {
		return nil, tp.ErrNilSchema
	}
	h, ok := s.(nodeHolder)
	if !ok {
		return nil, fmt.Errorf("%w: %T", tp.ErrForeignSchema, s)
	}
	if h.dslNode() == nil {
		return nil, tp.ErrNilSchema
	}
	return h.dslNode(), nil
}

// errNode defers a construction error to compile time.
type errNode struct{ err error }

func (e errNode) compile(*compiler) (compiled, error) { return nil, e.err }
func (e errNode) jsonSchema() (*js.Schema, error)     { return nil, e.err }
func (e errNode) hasTransform() bool                  { return false }

// checker is the tp.Checker for dsl schemas.
type checker struct {
	root compiled
	kind tp.CheckerKind
}

func (c *checker) Kind() tp.CheckerKind { return c.kind }

func (c *checker) Check(v any) bool { return c.root.validate(v, tp.RootPath(), nil) }

func (c *checker) Errors(v any) tp.Issues {
	s := &sink{}
	if c.root.validate(v, tp.RootPath(), s) {
		return nil
	}
	return s.issues
}

func (c *checker) Convert(v any) any { return c.root.convert(v) }

func (c *checker) Decode(v any) (any, error) {
	if !c.Check(v) {
		return nil, c.Errors(v)
	}
	return c.root.decode(v, tp.RootPath())
}

func (c *checker) Encode(v any) (any, error) {
	w, err := c.root.encode(v, tp.RootPath())
	if err != nil {
		return nil, err
	}
	if !c.Check(w) {
		return nil, c.Errors(w)
	}
	return w, nil
}
