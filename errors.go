package typeprovider

import (
	"errors"
	"fmt"
	"strings"

	js "github.com/reoring/typeprovider/jsonschema"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodeNotMultiple    = "not_multiple"
	CodePattern        = "pattern"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidFormat  = "invalid_format"
	CodeUnion          = "union"
	CodeNotUnique      = "not_unique"
	CodeTransform      = "transform"
	CodeDuplicateKey   = "duplicate_key"
	// CodeSchema is used for violations reported by raw JSON Schema documents
	// whose keyword has no dedicated code.
	CodeSchema = "schema"
)

var (
	// ErrNilSchema is returned when a nil Schema reaches the pipeline.
	ErrNilSchema = errors.New("typeprovider: nil schema")
	// ErrNoResult is returned by Result.Err for a Result no validator produced.
	ErrNoResult = errors.New("typeprovider: result was not produced by a validator")
	// ErrUnknownKeyword is returned by strict compilation when a schema carries a
	// keyword outside the known vocabulary.
	ErrUnknownKeyword = js.ErrUnknownKeyword
	// ErrForeignSchema is returned when a builder receives a Schema it cannot compile
	// as part of its own tree.
	ErrForeignSchema = errors.New("typeprovider: schema cannot be nested")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price); "" is the root.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42}).
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = "/"
		}
		// e.g. invalid_type at /path: expected number
		fmt.Fprintf(b, "%s at %s", it.Code, path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ValidationError is the projection of an Issue handed to hosts: one schema
// violation and the structural path at which it occurred.
type ValidationError struct {
	Message      string `json:"message"`
	InstancePath string `json:"instancePath"`
}

// ValidationErrors projects issues to their host-facing form.
func ValidationErrors(iss Issues) []ValidationError {
	out := make([]ValidationError, 0, len(iss))
	for _, it := range iss {
		out = append(out, ValidationError{Message: it.Message, InstancePath: it.Path})
	}
	return out
}

// RequestError is a validation failure of one request part. Hosts answer it
// with a 400-class response.
type RequestError struct {
	Part   HTTPPart
	Errors []ValidationError
	Issues Issues
}

// Error renders "<part><instancePath> <message>" entries joined by ", ".
func (e *RequestError) Error() string {
	b := &strings.Builder{}
	for i, ve := range e.Errors {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(e.Part))
		b.WriteString(ve.InstancePath)
		b.WriteByte(' ')
		b.WriteString(ve.Message)
	}
	return b.String()
}

// EncodeError is a failure to encode a reply against its response schema. It
// signals a handler/schema mismatch and hosts answer it with a 500-class response.
type EncodeError struct {
	Status int
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("typeprovider: encode response for status %d: %v", e.Status, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
