package dsl_test

import (
	"errors"
	"testing"

	tp "github.com/reoring/typeprovider"
	js "github.com/reoring/typeprovider/jsonschema"
)

func checkerOf(t *testing.T, s tp.Schema) tp.Checker {
	t.Helper()
	ch, err := tp.New(tp.DefaultOptions()).Resolve(s)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return ch
}

func codes(iss tp.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// foreign is a Schema implemented outside the dsl package.
type foreign struct{}

func (foreign) Compile(tp.CompileEnv) (tp.Checker, error) { return nil, errors.New("foreign") }
func (foreign) JSONSchema() (*js.Schema, error)           { return &js.Schema{}, nil }
