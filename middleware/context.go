package middleware

import (
	"context"

	tp "github.com/reoring/typeprovider"
)

// ctxKeyValidated is a typed context key, one per request part.
type ctxKeyValidated struct{ part tp.HTTPPart }

// WithValidated attaches the decoded value of part to ctx.
func WithValidated(ctx context.Context, part tp.HTTPPart, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValidated{part}, validated{v})
}

// validated boxes values so a decoded nil is told apart from a missing one.
type validated struct{ v any }

// Value returns the decoded value of part stored in ctx.
func Value(ctx context.Context, part tp.HTTPPart) (any, bool) {
	b, ok := ctx.Value(ctxKeyValidated{part}).(validated)
	return b.v, ok
}

// Validated returns the decoded value of part as T. It reports false when the
// part was not validated or its value is not a T. A decoded nil yields the
// zero T.
func Validated[T any](ctx context.Context, part tp.HTTPPart) (T, bool) {
	var zero T
	v, ok := Value(ctx, part)
	if !ok {
		return zero, false
	}
	if v == nil {
		return zero, true
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Bind converts the decoded value of part with s. Typed schemas map decoded
// objects onto Go structs this way.
func Bind[T any](ctx context.Context, s tp.Typed[T], part tp.HTTPPart) (T, error) {
	v, _ := Value(ctx, part)
	return tp.Static(s, v)
}
