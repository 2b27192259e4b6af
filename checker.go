package typeprovider

import (
	js "github.com/reoring/typeprovider/jsonschema"
)

// Schema is an immutable description of an expected value shape.
//
// Implementations must be comparable (typically pointers): the checker cache
// keys on the schema value itself, so the same instance always resolves to the
// same checker.
type Schema interface {
	// Compile builds the checker for this schema. It is pure and may be called
	// concurrently; the cache ensures it usually runs once per instance.
	Compile(env CompileEnv) (Checker, error)
	// JSONSchema projects the schema to a JSON Schema document.
	JSONSchema() (*js.Schema, error)
}

// Typed is a Schema that knows the static Go type its decoded values have.
type Typed[T any] interface {
	Schema
	// Bind converts a decoded value into T.
	Bind(decoded any) (T, error)
}

// Static binds a decoded value to the static type of s.
func Static[T any](s Typed[T], decoded any) (T, error) { return s.Bind(decoded) }

// FormatChecker resolves string formats at check time. Unknown names pass.
type FormatChecker interface {
	Check(name, value string) bool
}

// CompileEnv is what a schema sees while compiling.
type CompileEnv struct {
	Formats FormatChecker
	// Strict rejects keywords outside the known vocabulary.
	Strict bool
}

// Checker is the compiled artifact bound to one Schema instance.
type Checker interface {
	// Kind tags the checker; hosts dispatch on it instead of probing methods.
	Kind() CheckerKind
	// Check reports whether v (wire form) satisfies the schema.
	Check(v any) bool
	// Errors lists every violation of v. It returns nil when Check(v) is true.
	Errors(v any) Issues
	// Convert coerces scalar leaves toward the declared types. Values that
	// cannot be converted are returned unchanged.
	Convert(v any) any
	// Decode checks the wire value and applies decode transforms.
	Decode(v any) (any, error)
	// Encode applies encode transforms and checks the resulting wire value.
	Encode(v any) (any, error)
}
