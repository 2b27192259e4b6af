package codec

import (
	g "github.com/reoring/typeprovider/dsl"
)

// Identity wraps s in a transform that decodes and encodes values unchanged.
// The checker of the result is tagged as a transform.
func Identity[T any](s *g.Schema[T]) *g.Schema[T] {
	return g.WithCodec[T, T](s, identityCodec[T]{})
}

type identityCodec[T any] struct{}

func (identityCodec[T]) Decode(v T) (T, error) { return v, nil }
func (identityCodec[T]) Encode(v T) (T, error) { return v, nil }
