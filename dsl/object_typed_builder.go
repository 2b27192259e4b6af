package dsl

import (
	"fmt"
	"reflect"

	tp "github.com/reoring/typeprovider"
)

// ObjectOf returns a typed object builder that supports fluent Bind()/MustBind().
// This achieves chain-style API without method type parameters by parameterizing the builder type itself.
func ObjectOf[T any]() *objectBuilderT[T] { return &objectBuilderT[T]{inner: Object()} }

type objectBuilderT[T any] struct{ inner *objectBuilder }

// fieldStepT is a typed variant of fieldStep that enables
// chain-friendly APIs like Field(...).Required().
type fieldStepT[T any] struct {
	tb   *objectBuilderT[T]
	name string
}

// Field registers a field and returns a typed field step for chaining.
func (tb *objectBuilderT[T]) Field(name string, s tp.Schema) *fieldStepT[T] {
	tb.inner.Field(name, s)
	return &fieldStepT[T]{tb: tb, name: name}
}
func (tb *objectBuilderT[T]) Require(names ...string) *objectBuilderT[T] {
	tb.inner.Require(names...)
	return tb
}
func (tb *objectBuilderT[T]) UnknownStrict() *objectBuilderT[T] {
	tb.inner.UnknownStrict()
	return tb
}
func (tb *objectBuilderT[T]) UnknownStrip() *objectBuilderT[T] {
	tb.inner.UnknownStrip()
	return tb
}
func (tb *objectBuilderT[T]) UnknownPassthrough() *objectBuilderT[T] {
	tb.inner.UnknownPassthrough()
	return tb
}
func (tb *objectBuilderT[T]) WithOptions(o Options) *objectBuilderT[T] {
	tb.inner.WithOptions(o)
	return tb
}

// Bind builds the schema bound to T.
func (tb *objectBuilderT[T]) Bind() (*Schema[T], error) { return Bind[T](tb.inner) }

// MustBind is like Bind but panics on error.
func (tb *objectBuilderT[T]) MustBind() *Schema[T] { return MustBind[T](tb.inner) }

func (f *fieldStepT[T]) Required() *objectBuilderT[T] {
	f.tb.inner.Require(f.name)
	return f.tb
}
func (f *fieldStepT[T]) Optional() *objectBuilderT[T] {
	delete(f.tb.inner.required, f.name)
	return f.tb
}
func (f *fieldStepT[T]) Default(v any) *objectBuilderT[T] {
	f.tb.inner.defaults[f.name] = v
	return f.tb
}
func (f *fieldStepT[T]) Field(name string, s tp.Schema) *fieldStepT[T] {
	return f.tb.Field(name, s)
}
func (f *fieldStepT[T]) Require(names ...string) *objectBuilderT[T] {
	return f.tb.Require(names...)
}
func (f *fieldStepT[T]) UnknownStrict() *objectBuilderT[T] { return f.tb.UnknownStrict() }
func (f *fieldStepT[T]) UnknownStrip() *objectBuilderT[T]  { return f.tb.UnknownStrip() }
func (f *fieldStepT[T]) Bind() (*Schema[T], error)         { return f.tb.Bind() }
func (f *fieldStepT[T]) MustBind() *Schema[T]              { return f.tb.MustBind() }

// Bind builds an object schema and binds it to struct type T (free function for Go version compatibility).
func Bind[T any](b *objectBuilder) (*Schema[T], error) {
	n, err := b.node()
	if err != nil {
		return nil, err
	}
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: Bind[T] requires struct T, got %v", rt)
	}
	keys := map[string]struct{}{}
	for _, k := range tp.StructKeys(rt) {
		keys[k.Name] = struct{}{}
	}
	for _, p := range n.props {
		if _, ok := keys[p.name]; !ok {
			return nil, fieldError(p.name, fmt.Errorf("no field of %v has this json key", rt))
		}
	}
	s := newSchema[T](n)
	s.bind = bindAs[T]
	return s, nil
}

// MustBind is like Bind but panics on error (free function for Go version compatibility).
func MustBind[T any](b *objectBuilder) *Schema[T] {
	s, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return s
}
