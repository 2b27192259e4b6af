package dsl

import (
	"fmt"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/i18n"
	js "github.com/reoring/typeprovider/jsonschema"
)

// Transform starts a bidirectional transform over inner. The result checks
// the wire form E with inner and hands D to handlers:
//
//	ts := g.Transform[float64, time.Time](g.Number()).
//	    Decode(func(ms float64) (time.Time, error) { return time.UnixMilli(int64(ms)), nil }).
//	    Encode(func(t time.Time) (float64, error) { return float64(t.UnixMilli()), nil })
func Transform[E, D any](inner *Schema[E]) *transformBuilder[E, D] {
	return &transformBuilder[E, D]{inner: inner}
}

type transformBuilder[E, D any] struct {
	inner *Schema[E]
}

type transformStep[E, D any] struct {
	inner *Schema[E]
	dec   func(E) (D, error)
}

// Decode sets the wire-to-domain function.
func (b *transformBuilder[E, D]) Decode(f func(E) (D, error)) *transformStep[E, D] {
	return &transformStep[E, D]{inner: b.inner, dec: f}
}

// Encode sets the domain-to-wire function and completes the schema.
func (st *transformStep[E, D]) Encode(g func(D) (E, error)) *Schema[D] {
	n, err := nodeOf(st.inner)
	if err != nil {
		return newSchema[D](errNode{err})
	}
	if st.dec == nil || g == nil {
		return newSchema[D](errNode{fmt.Errorf("dsl: transform requires decode and encode functions")})
	}
	inner, dec := st.inner, st.dec
	tn := &transformNode{
		inner: n,
		decode: func(v any) (any, error) {
			e, err := inner.Bind(v)
			if err != nil {
				return nil, err
			}
			return dec(e)
		},
		encode: func(v any) (any, error) {
			d, ok := v.(D)
			if !ok {
				var err error
				if d, err = bindAs[D](v); err != nil {
					return nil, err
				}
			}
			return g(d)
		},
	}
	out := newSchema[D](tn)
	out.bind = func(v any) (D, error) {
		if d, ok := v.(D); ok {
			return d, nil
		}
		return bindAs[D](v)
	}
	return out
}

// Codec is a reusable pair of transform functions.
type Codec[E, D any] interface {
	Decode(E) (D, error)
	Encode(D) (E, error)
}

// WithCodec wraps inner with the functions of c.
func WithCodec[E, D any](inner *Schema[E], c Codec[E, D]) *Schema[D] {
	return Transform[E, D](inner).Decode(c.Decode).Encode(c.Encode)
}

type transformNode struct {
	inner  node
	decode func(any) (any, error)
	encode func(any) (any, error)
}

func (n *transformNode) compile(c *compiler) (compiled, error) {
	in, err := n.inner.compile(c)
	if err != nil {
		return nil, err
	}
	return &transformChecker{inner: in, dec: n.decode, enc: n.encode}, nil
}

// jsonSchema describes the wire form.
func (n *transformNode) jsonSchema() (*js.Schema, error) { return n.inner.jsonSchema() }

func (n *transformNode) hasTransform() bool { return true }

type transformChecker struct {
	inner    compiled
	dec, enc func(any) (any, error)
}

func (t *transformChecker) validate(v any, at tp.PathRef, s *sink) bool {
	return t.inner.validate(v, at, s)
}

func (t *transformChecker) convert(v any) any { return t.inner.convert(v) }

func (t *transformChecker) decode(v any, at tp.PathRef) (any, error) {
	w, err := t.inner.decode(v, at)
	if err != nil {
		return nil, err
	}
	return callTransform(t.dec, w, at)
}

func (t *transformChecker) encode(v any, at tp.PathRef) (any, error) {
	e, err := callTransform(t.enc, v, at)
	if err != nil {
		return nil, err
	}
	return t.inner.encode(e, at)
}

// callTransform runs a user function, turning errors and panics into a
// transform issue at the value's path.
func callTransform(fn func(any) (any, error), v any, at tp.PathRef) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, transformError(at, fmt.Errorf("panic: %v", r))
		}
	}()
	out, err = fn(v)
	if err != nil {
		return nil, transformError(at, err)
	}
	return out, nil
}

func transformError(at tp.PathRef, cause error) error {
	if iss, ok := tp.AsIssues(cause); ok {
		out := make(tp.Issues, len(iss))
		for i, it := range iss {
			it.Path = at.Join(it.Path).Pointer()
			out[i] = it
		}
		return out
	}
	it := at.Issue(tp.CodeTransform, i18n.T(tp.CodeTransform, nil)+": "+cause.Error())
	it.Cause = cause
	return tp.Issues{it}
}
