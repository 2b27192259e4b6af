package dsl

import (
	"errors"
	"fmt"
	"sort"

	tp "github.com/reoring/typeprovider"
	js "github.com/reoring/typeprovider/jsonschema"
)

var errUndeclared = errors.New("required field is not declared")

func fieldError(name string, err error) error {
	return fmt.Errorf("dsl: field %q: %w", name, err)
}

type prop struct {
	name     string
	n        node
	required bool
	def      any
	hasDef   bool
}

type objectNode struct {
	props  []prop
	policy tp.UnknownPolicy
	opts   Options
}

func (n *objectNode) compile(c *compiler) (compiled, error) {
	if err := c.checkExtensions(n.opts); err != nil {
		return nil, err
	}
	oc := &objectChecker{policy: n.policy, index: make(map[string]int, len(n.props))}
	for i, p := range n.props {
		pc, err := p.n.compile(c)
		if err != nil {
			return nil, fieldError(p.name, err)
		}
		oc.props = append(oc.props, compiledProp{prop: p, c: pc})
		oc.index[p.name] = i
	}
	return oc, nil
}

func (n *objectNode) jsonSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "object", Properties: map[string]*js.Schema{}}
	for _, p := range n.props {
		ps, err := p.n.jsonSchema()
		if err != nil {
			return nil, fieldError(p.name, err)
		}
		if p.hasDef {
			ps = ps.Clone()
			ps.Default = p.def
		}
		s.Properties[p.name] = ps
		if p.required && !p.hasDef {
			s.Required = append(s.Required, p.name)
		}
	}
	if len(s.Properties) == 0 {
		s.Properties = nil
	}
	// UnknownStrict => additionalProperties=false,
	// UnknownStrip/UnknownPassthrough => additionalProperties=true
	s.AdditionalProperties = n.policy != tp.UnknownStrict
	return n.opts.apply(s), nil
}

func (n *objectNode) hasTransform() bool {
	for _, p := range n.props {
		if p.n.hasTransform() {
			return true
		}
	}
	return false
}

type compiledProp struct {
	prop
	c compiled
}

type objectChecker struct {
	props  []compiledProp
	index  map[string]int
	policy tp.UnknownPolicy
}

func (o *objectChecker) owns(key string) bool {
	_, ok := o.index[key]
	return ok
}

func (o *objectChecker) validate(v any, at tp.PathRef, s *sink) bool {
	m, ok := asMap(v)
	if !ok {
		s.fail(invalidType(at, "object", v))
		return false
	}
	ok = true
	for _, p := range o.props {
		val, present := m[p.name]
		if !present {
			if p.required && !p.hasDef {
				ok = false
				if !s.fail(issue(at.Field(p.name), tp.CodeRequired, map[string]string{"key": p.name}, "key", p.name)) {
					return false
				}
			}
			continue
		}
		if !p.c.validate(val, at.Field(p.name), s) {
			ok = false
			if s == nil {
				return false
			}
		}
	}
	if o.policy == tp.UnknownStrict {
		for _, k := range sortedKeys(m) {
			if o.owns(k) {
				continue
			}
			ok = false
			if !s.fail(issue(at.Field(k), tp.CodeUnknownKey, map[string]string{"key": k}, "key", k)) {
				return false
			}
		}
	}
	return ok
}

func (o *objectChecker) convert(v any) any {
	m, ok := asMap(v)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		if i, own := o.index[k]; own {
			out[k] = o.props[i].c.convert(e)
			continue
		}
		out[k] = e
	}
	return out
}

func (o *objectChecker) decode(v any, at tp.PathRef) (any, error) {
	m, _ := asMap(v)
	out := make(map[string]any, len(m))
	for _, p := range o.props {
		val, present := m[p.name]
		if !present {
			if !p.hasDef {
				continue
			}
			val = p.def
		}
		d, err := p.c.decode(val, at.Field(p.name))
		if err != nil {
			return nil, err
		}
		out[p.name] = d
	}
	if o.policy != tp.UnknownStrip {
		for k, e := range m {
			if !o.owns(k) {
				out[k] = e
			}
		}
	}
	return out, nil
}

func (o *objectChecker) encode(v any, at tp.PathRef) (any, error) {
	m, ok := objectView(v)
	if !ok {
		return toWire(v)
	}
	out := make(map[string]any, len(m))
	for _, p := range o.props {
		val, present := m[p.name]
		if !present {
			continue
		}
		w, err := p.c.encode(val, at.Field(p.name))
		if err != nil {
			return nil, err
		}
		out[p.name] = w
	}
	if o.policy != tp.UnknownStrip {
		for k, e := range m {
			if o.owns(k) {
				continue
			}
			w, err := toWire(e)
			if err != nil {
				return nil, err
			}
			out[k] = w
		}
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
