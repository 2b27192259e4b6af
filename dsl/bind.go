package dsl

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// bindAs converts a decoded value into T, reading structs by json key.
func bindAs[T any](v any) (T, error) {
	var out T
	if t, ok := v.(T); ok {
		return t, nil
	}
	if v == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		return out, fmt.Errorf("dsl: bind %T: %w", out, err)
	}
	return out, nil
}
