package dsl

import (
	tp "github.com/reoring/typeprovider"
)

type objectBuilder struct {
	order         []string
	fields        map[string]tp.Schema
	required      map[string]struct{}
	defaults      map[string]any
	unknownPolicy tp.UnknownPolicy
	opts          Options
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder. Unknown keys pass through, matching
// JSON Schema's default for additionalProperties.
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]tp.Schema{},
		required:      map[string]struct{}{},
		defaults:      map[string]any{},
		unknownPolicy: tp.UnknownPassthrough,
	}
}

// Field registers a field. Fields are optional until marked Required.
func (b *objectBuilder) Field(name string, s tp.Schema) *fieldStep {
	if _, dup := b.fields[name]; !dup {
		b.order = append(b.order, name)
	}
	b.fields[name] = s
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Default sets a wire value used when the field is missing; it is decoded
// like input and exported to JSON Schema.
func (f *fieldStep) Default(v any) *objectBuilder {
	f.b.defaults[f.name] = v
	return f.b
}

func (f *fieldStep) Field(name string, s tp.Schema) *fieldStep { return f.b.Field(name, s) }
func (f *fieldStep) Require(names ...string) *objectBuilder    { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder             { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder              { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough() *objectBuilder        { return f.b.UnknownPassthrough() }
func (f *fieldStep) Build() (*Schema[map[string]any], error)   { return f.b.Build() }
func (f *fieldStep) MustBuild() *Schema[map[string]any]        { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict rejects unknown keys.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = tp.UnknownStrict
	return b
}

// UnknownStrip drops unknown keys from decoded and encoded values.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = tp.UnknownStrip
	return b
}

// UnknownPassthrough keeps unknown keys as-is.
func (b *objectBuilder) UnknownPassthrough() *objectBuilder {
	b.unknownPolicy = tp.UnknownPassthrough
	return b
}

// WithOptions sets annotations for the object itself.
func (b *objectBuilder) WithOptions(o Options) *objectBuilder {
	b.opts = o
	return b
}

// Build snapshots the builder into an immutable schema.
func (b *objectBuilder) Build() (*Schema[map[string]any], error) {
	n, err := b.node()
	if err != nil {
		return nil, err
	}
	return newSchema[map[string]any](n), nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *objectBuilder) node() (*objectNode, error) {
	n := &objectNode{policy: b.unknownPolicy, opts: b.opts}
	for _, name := range b.order {
		fn, err := nodeOf(b.fields[name])
		if err != nil {
			return nil, fieldError(name, err)
		}
		p := prop{name: name, n: fn}
		_, p.required = b.required[name]
		if _, isOpt := fn.(*optionalNode); isOpt {
			p.required = false
		}
		if d, ok := b.defaults[name]; ok {
			p.def, p.hasDef = d, true
		}
		n.props = append(n.props, p)
	}
	for name := range b.required {
		if _, ok := b.fields[name]; !ok {
			return nil, fieldError(name, errUndeclared)
		}
	}
	return n, nil
}
