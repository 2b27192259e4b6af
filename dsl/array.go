package dsl

import (
	"strconv"

	tp "github.com/reoring/typeprovider"
	js "github.com/reoring/typeprovider/jsonschema"
)

// ArrayOptions constrains Array.
type ArrayOptions struct {
	Options
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
}

// Array returns a schema for lists whose elements satisfy items.
func Array[T any](items *Schema[T], opts ...ArrayOptions) *Schema[[]T] {
	n, err := nodeOf(items)
	if err != nil {
		return newSchema[[]T](errNode{err})
	}
	return newSchema[[]T](&arrayNode{items: n, opts: pick(opts)})
}

type arrayNode struct {
	items node
	opts  ArrayOptions
}

func (n *arrayNode) compile(c *compiler) (compiled, error) {
	if err := c.checkExtensions(n.opts.Options); err != nil {
		return nil, err
	}
	items, err := n.items.compile(c)
	if err != nil {
		return nil, err
	}
	return &arrayChecker{items: items, opts: n.opts}, nil
}

func (n *arrayNode) jsonSchema() (*js.Schema, error) {
	is, err := n.items.jsonSchema()
	if err != nil {
		return nil, err
	}
	return n.opts.apply(&js.Schema{
		Type:        "array",
		Items:       is,
		MinItems:    n.opts.MinItems,
		MaxItems:    n.opts.MaxItems,
		UniqueItems: n.opts.UniqueItems,
	}), nil
}

func (n *arrayNode) hasTransform() bool { return n.items.hasTransform() }

type arrayChecker struct {
	items compiled
	opts  ArrayOptions
}

func (a *arrayChecker) validate(v any, at tp.PathRef, s *sink) bool {
	list, ok := asList(v)
	if !ok {
		s.fail(invalidType(at, "array", v))
		return false
	}
	ok = true
	if b := a.opts.MinItems; b != nil && len(list) < *b {
		ok = false
		if !s.fail(issue(at, tp.CodeTooShort, map[string]string{"limit": strconv.Itoa(*b)}, "limit", *b, "got", len(list))) {
			return false
		}
	}
	if b := a.opts.MaxItems; b != nil && len(list) > *b {
		ok = false
		if !s.fail(issue(at, tp.CodeTooLong, map[string]string{"limit": strconv.Itoa(*b)}, "limit", *b, "got", len(list))) {
			return false
		}
	}
	for i, e := range list {
		if !a.items.validate(e, at.Index(i), s) {
			ok = false
			if s == nil {
				return false
			}
		}
	}
	if a.opts.UniqueItems {
		seen := make(map[string]int, len(list))
		for i, e := range list {
			k := canonical(e)
			if first, dup := seen[k]; dup {
				ok = false
				if !s.fail(issue(at.Index(i), tp.CodeNotUnique, nil, "duplicateOf", first)) {
					return false
				}
				continue
			}
			seen[k] = i
		}
	}
	return ok
}

// convert wraps a lone value so ?tag=a and ?tag=a&tag=b both yield lists.
func (a *arrayChecker) convert(v any) any {
	list, ok := asList(v)
	if !ok {
		if v == nil {
			return v
		}
		list = []any{v}
	}
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = a.items.convert(e)
	}
	return out
}

func (a *arrayChecker) decode(v any, at tp.PathRef) (any, error) {
	list, _ := asList(v)
	out := make([]any, len(list))
	for i, e := range list {
		d, err := a.items.decode(e, at.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func (a *arrayChecker) encode(v any, at tp.PathRef) (any, error) {
	list, ok := asList(v)
	if !ok {
		return toWire(v)
	}
	out := make([]any, len(list))
	for i, e := range list {
		w, err := a.items.encode(e, at.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// Record returns a schema for objects whose every value satisfies values.
func Record[T any](values *Schema[T], opts ...Options) *Schema[map[string]T] {
	n, err := nodeOf(values)
	if err != nil {
		return newSchema[map[string]T](errNode{err})
	}
	return newSchema[map[string]T](&recordNode{values: n, opts: pick(opts)})
}

type recordNode struct {
	values node
	opts   Options
}

func (n *recordNode) compile(c *compiler) (compiled, error) {
	if err := c.checkExtensions(n.opts); err != nil {
		return nil, err
	}
	vals, err := n.values.compile(c)
	if err != nil {
		return nil, err
	}
	return &recordChecker{values: vals}, nil
}

func (n *recordNode) jsonSchema() (*js.Schema, error) {
	vs, err := n.values.jsonSchema()
	if err != nil {
		return nil, err
	}
	return n.opts.apply(&js.Schema{Type: "object", AdditionalProperties: vs}), nil
}

func (n *recordNode) hasTransform() bool { return n.values.hasTransform() }

type recordChecker struct {
	values compiled
}

func (r *recordChecker) validate(v any, at tp.PathRef, s *sink) bool {
	m, ok := asMap(v)
	if !ok {
		s.fail(invalidType(at, "object", v))
		return false
	}
	ok = true
	for _, k := range sortedKeys(m) {
		if !r.values.validate(m[k], at.Field(k), s) {
			ok = false
			if s == nil {
				return false
			}
		}
	}
	return ok
}

func (r *recordChecker) convert(v any) any {
	m, ok := asMap(v)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = r.values.convert(e)
	}
	return out
}

func (r *recordChecker) decode(v any, at tp.PathRef) (any, error) {
	m, _ := asMap(v)
	out := make(map[string]any, len(m))
	for _, k := range sortedKeys(m) {
		d, err := r.values.decode(m[k], at.Field(k))
		if err != nil {
			return nil, err
		}
		out[k] = d
	}
	return out, nil
}

func (r *recordChecker) encode(v any, at tp.PathRef) (any, error) {
	m, ok := objectView(v)
	if !ok {
		return toWire(v)
	}
	out := make(map[string]any, len(m))
	for _, k := range sortedKeys(m) {
		w, err := r.values.encode(m[k], at.Field(k))
		if err != nil {
			return nil, err
		}
		out[k] = w
	}
	return out, nil
}
