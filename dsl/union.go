package dsl

import (
	"fmt"

	tp "github.com/reoring/typeprovider"
	js "github.com/reoring/typeprovider/jsonschema"
)

// Union accepts values satisfying any member (JSON Schema anyOf). Members
// are tried in order; the first match decodes and encodes the value.
func Union(members ...tp.Schema) *Schema[any] {
	ns, err := nodesOf(members)
	if err != nil {
		return newSchema[any](errNode{err})
	}
	return newSchema[any](&unionNode{members: ns})
}

// Intersect requires every member to hold (JSON Schema allOf). Decoded
// objects merge the properties each member declares.
func Intersect(members ...tp.Schema) *Schema[map[string]any] {
	ns, err := nodesOf(members)
	if err != nil {
		return newSchema[map[string]any](errNode{err})
	}
	return newSchema[map[string]any](&intersectNode{members: ns})
}

func nodesOf(members []tp.Schema) ([]node, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("dsl: composition requires at least one member")
	}
	ns := make([]node, len(members))
	for i, m := range members {
		n, err := nodeOf(m)
		if err != nil {
			return nil, fmt.Errorf("dsl: member %d: %w", i, err)
		}
		ns[i] = n
	}
	return ns, nil
}

func compileAll(c *compiler, ns []node) ([]compiled, error) {
	out := make([]compiled, len(ns))
	for i, n := range ns {
		cn, err := n.compile(c)
		if err != nil {
			return nil, err
		}
		out[i] = cn
	}
	return out, nil
}

func schemasOf(ns []node) ([]*js.Schema, error) {
	out := make([]*js.Schema, len(ns))
	for i, n := range ns {
		s, err := n.jsonSchema()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func anyTransform(ns []node) bool {
	for _, n := range ns {
		if n.hasTransform() {
			return true
		}
	}
	return false
}

// ---- union ----

type unionNode struct{ members []node }

func (n *unionNode) compile(c *compiler) (compiled, error) {
	ms, err := compileAll(c, n.members)
	if err != nil {
		return nil, err
	}
	return &unionChecker{members: ms}, nil
}

func (n *unionNode) jsonSchema() (*js.Schema, error) {
	ss, err := schemasOf(n.members)
	if err != nil {
		return nil, err
	}
	return &js.Schema{AnyOf: ss}, nil
}

func (n *unionNode) hasTransform() bool { return anyTransform(n.members) }

type unionChecker struct{ members []compiled }

func (u *unionChecker) match(v any) compiled {
	for _, m := range u.members {
		if m.validate(v, tp.RootPath(), nil) {
			return m
		}
	}
	return nil
}

func (u *unionChecker) validate(v any, at tp.PathRef, s *sink) bool {
	if u.match(v) != nil {
		return true
	}
	s.fail(issue(at, tp.CodeUnion, nil, "members", len(u.members)))
	return false
}

func (u *unionChecker) convert(v any) any {
	for _, m := range u.members {
		if c := m.convert(v); m.validate(c, tp.RootPath(), nil) {
			return c
		}
	}
	return v
}

func (u *unionChecker) decode(v any, at tp.PathRef) (any, error) {
	m := u.match(v)
	if m == nil {
		return nil, tp.Issues{issue(at, tp.CodeUnion, nil)}
	}
	return m.decode(v, at)
}

func (u *unionChecker) encode(v any, at tp.PathRef) (any, error) {
	var firstErr error
	for _, m := range u.members {
		w, err := m.encode(v, at)
		if err == nil && m.validate(w, tp.RootPath(), nil) {
			return w, nil
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return toWire(v)
}

// ---- intersect ----

type intersectNode struct{ members []node }

func (n *intersectNode) compile(c *compiler) (compiled, error) {
	ms, err := compileAll(c, n.members)
	if err != nil {
		return nil, err
	}
	ic := &intersectChecker{members: ms}
	for _, m := range ms {
		if oc, ok := m.(*objectChecker); ok && oc.policy == tp.UnknownStrip {
			continue
		}
		ic.keepRest = true
	}
	return ic, nil
}

func (n *intersectNode) jsonSchema() (*js.Schema, error) {
	ss, err := schemasOf(n.members)
	if err != nil {
		return nil, err
	}
	return &js.Schema{AllOf: ss}, nil
}

func (n *intersectNode) hasTransform() bool { return anyTransform(n.members) }

type intersectChecker struct {
	members []compiled
	// keepRest keeps keys no member declares, unless every member strips.
	keepRest bool
}

func (ic *intersectChecker) validate(v any, at tp.PathRef, s *sink) bool {
	ok := true
	for _, m := range ic.members {
		if !m.validate(v, at, s) {
			ok = false
			if s == nil {
				return false
			}
		}
	}
	return ok
}

func (ic *intersectChecker) convert(v any) any {
	for _, m := range ic.members {
		v = m.convert(v)
	}
	return v
}

func (ic *intersectChecker) owned(m compiled, key string) bool {
	oc, ok := m.(*objectChecker)
	return ok && oc.owns(key)
}

func (ic *intersectChecker) declared(key string) bool {
	for _, m := range ic.members {
		if ic.owned(m, key) {
			return true
		}
	}
	return false
}

// merge combines per-member results of an object value.
func (ic *intersectChecker) merge(v any, at tp.PathRef, step func(compiled, any, tp.PathRef) (any, error)) (any, error) {
	in, isObj := objectView(v)
	if !isObj {
		out := v
		for _, m := range ic.members {
			r, err := step(m, out, at)
			if err != nil {
				return nil, err
			}
			out = r
		}
		return out, nil
	}
	out := map[string]any{}
	if ic.keepRest {
		for k, e := range in {
			if !ic.declared(k) {
				out[k] = e
			}
		}
	}
	for _, m := range ic.members {
		r, err := step(m, in, at)
		if err != nil {
			return nil, err
		}
		rm, ok := r.(map[string]any)
		if !ok {
			continue
		}
		for k, e := range rm {
			if ic.owned(m, k) {
				out[k] = e
			}
		}
	}
	return out, nil
}

func (ic *intersectChecker) decode(v any, at tp.PathRef) (any, error) {
	return ic.merge(v, at, func(m compiled, x any, p tp.PathRef) (any, error) { return m.decode(x, p) })
}

func (ic *intersectChecker) encode(v any, at tp.PathRef) (any, error) {
	out, err := ic.merge(v, at, func(m compiled, x any, p tp.PathRef) (any, error) { return m.encode(x, p) })
	if err != nil {
		return nil, err
	}
	return toWire(out)
}

// ---- optional ----

// Optional accepts null besides values of s; as an object field it is never
// required. Absent and null values bind to a nil pointer.
func Optional[T any](s *Schema[T]) *Schema[*T] {
	n, err := nodeOf(s)
	if err != nil {
		return newSchema[*T](errNode{err})
	}
	out := newSchema[*T](&optionalNode{inner: n})
	out.bind = func(v any) (*T, error) {
		if v == nil {
			return nil, nil
		}
		t, err := s.Bind(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	return out
}

type optionalNode struct{ inner node }

func (n *optionalNode) compile(c *compiler) (compiled, error) {
	in, err := n.inner.compile(c)
	if err != nil {
		return nil, err
	}
	return &optionalChecker{inner: in}, nil
}

func (n *optionalNode) jsonSchema() (*js.Schema, error) {
	in, err := n.inner.jsonSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{AnyOf: []*js.Schema{in, {Type: "null"}}}, nil
}

func (n *optionalNode) hasTransform() bool { return n.inner.hasTransform() }

type optionalChecker struct{ inner compiled }

func (o *optionalChecker) validate(v any, at tp.PathRef, s *sink) bool {
	return v == nil || o.inner.validate(v, at, s)
}

func (o *optionalChecker) convert(v any) any {
	if v == nil {
		return nil
	}
	return o.inner.convert(v)
}

func (o *optionalChecker) decode(v any, at tp.PathRef) (any, error) {
	if v == nil {
		return nil, nil
	}
	return o.inner.decode(v, at)
}

func (o *optionalChecker) encode(v any, at tp.PathRef) (any, error) {
	if v == nil {
		return nil, nil
	}
	if isNilPointer(v) {
		return nil, nil
	}
	return o.inner.encode(derefPointer(v), at)
}
