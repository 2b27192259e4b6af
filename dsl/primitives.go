package dsl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	tp "github.com/reoring/typeprovider"
	js "github.com/reoring/typeprovider/jsonschema"
)

// StringOptions constrains String.
type StringOptions struct {
	Options
	MinLength *int
	MaxLength *int
	// Pattern is an RE2 expression matched anywhere in the value.
	Pattern string
	// Format names an entry of the provider's format registry. Names that
	// are not registered accept every value.
	Format string
}

// NumberOptions constrains Number and Integer.
type NumberOptions struct {
	Options
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64
}

// Ptr returns a pointer to v, for optional constraints.
func Ptr[T any](v T) *T { return &v }

// String returns a string schema.
func String(opts ...StringOptions) *Schema[string] {
	o := pick(opts)
	return newSchema[string](&stringNode{opts: o})
}

// Date returns a string schema with format "date" (YYYY-MM-DD).
func Date(opts ...Options) *Schema[string] {
	return String(StringOptions{Options: pick(opts), Format: "date"})
}

// Number returns a number schema.
func Number(opts ...NumberOptions) *Schema[float64] {
	return newSchema[float64](&numberNode{opts: pick(opts)})
}

// Integer returns an integer schema. Integral floats such as 3.0 are accepted.
func Integer(opts ...NumberOptions) *Schema[int64] {
	return newSchema[int64](&numberNode{opts: pick(opts), integer: true})
}

// Boolean returns a boolean schema.
func Boolean(opts ...Options) *Schema[bool] {
	return newSchema[bool](&boolNode{opts: pick(opts)})
}

// Null returns a schema accepting only null.
func Null(opts ...Options) *Schema[any] {
	return newSchema[any](&nullNode{opts: pick(opts)})
}

// Any returns a schema accepting every value.
func Any(opts ...Options) *Schema[any] {
	return newSchema[any](&anyNode{opts: pick(opts)})
}

// Literal returns a schema accepting exactly v.
func Literal[T comparable](v T, opts ...Options) *Schema[T] {
	return newSchema[T](&literalNode{value: v, opts: pick(opts)})
}

// Enum returns a schema accepting any of values.
func Enum[T comparable](values ...T) *Schema[T] {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return newSchema[T](&enumNode{values: vs})
}

// ---- any ----

type anyNode struct{ opts Options }

func (n *anyNode) compile(c *compiler) (compiled, error) {
	return n, c.checkExtensions(n.opts)
}
func (n *anyNode) jsonSchema() (*js.Schema, error) { return n.opts.apply(&js.Schema{}), nil }
func (n *anyNode) hasTransform() bool              { return false }

func (n *anyNode) validate(any, tp.PathRef, *sink) bool    { return true }
func (n *anyNode) convert(v any) any                       { return v }
func (n *anyNode) decode(v any, _ tp.PathRef) (any, error) { return v, nil }
func (n *anyNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }

// ---- null ----

type nullNode struct{ opts Options }

func (n *nullNode) compile(c *compiler) (compiled, error) {
	return n, c.checkExtensions(n.opts)
}
func (n *nullNode) jsonSchema() (*js.Schema, error) {
	return n.opts.apply(&js.Schema{Type: "null"}), nil
}
func (n *nullNode) hasTransform() bool { return false }

func (n *nullNode) validate(v any, at tp.PathRef, s *sink) bool {
	if v == nil {
		return true
	}
	s.fail(invalidType(at, "null", v))
	return false
}

func (n *nullNode) convert(v any) any {
	if str, ok := v.(string); ok && str == "null" {
		return nil
	}
	return v
}
func (n *nullNode) decode(v any, _ tp.PathRef) (any, error) { return v, nil }
func (n *nullNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }

// ---- boolean ----

type boolNode struct{ opts Options }

func (n *boolNode) compile(c *compiler) (compiled, error) {
	return n, c.checkExtensions(n.opts)
}
func (n *boolNode) jsonSchema() (*js.Schema, error) {
	return n.opts.apply(&js.Schema{Type: "boolean"}), nil
}
func (n *boolNode) hasTransform() bool { return false }

func (n *boolNode) validate(v any, at tp.PathRef, s *sink) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	s.fail(invalidType(at, "boolean", v))
	return false
}

func (n *boolNode) convert(v any) any {
	if b, ok := convertBool(v); ok {
		return b
	}
	return v
}

func convertBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(x) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	if f, ok := toFloat(v); ok && (f == 0 || f == 1) {
		return f == 1, true
	}
	return false, false
}

func (n *boolNode) decode(v any, _ tp.PathRef) (any, error) { return v, nil }
func (n *boolNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }

// ---- number / integer ----

type numberNode struct {
	opts    NumberOptions
	integer bool
}

func (n *numberNode) typeName() string {
	if n.integer {
		return "integer"
	}
	return "number"
}

func (n *numberNode) compile(c *compiler) (compiled, error) {
	if m := n.opts.MultipleOf; m != nil && *m <= 0 {
		return nil, fmt.Errorf("dsl: multipleOf must be positive, got %v", *m)
	}
	return n, c.checkExtensions(n.opts.Options)
}

func (n *numberNode) jsonSchema() (*js.Schema, error) {
	return n.opts.apply(&js.Schema{
		Type:             n.typeName(),
		Minimum:          n.opts.Minimum,
		Maximum:          n.opts.Maximum,
		ExclusiveMinimum: n.opts.ExclusiveMinimum,
		ExclusiveMaximum: n.opts.ExclusiveMaximum,
		MultipleOf:       n.opts.MultipleOf,
	}), nil
}
func (n *numberNode) hasTransform() bool { return false }

func (n *numberNode) validate(v any, at tp.PathRef, s *sink) bool {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || (n.integer && math.Trunc(f) != f) {
		s.fail(invalidType(at, n.typeName(), v))
		return false
	}
	ok = true
	limit := func(code, op string, bound float64) bool {
		ok = false
		return s.fail(issue(at, code, map[string]string{"op": op, "limit": fmtNum(bound)}, "limit", bound, "got", f))
	}
	if b := n.opts.Minimum; b != nil && f < *b {
		if !limit(tp.CodeTooSmall, ">=", *b) {
			return false
		}
	}
	if b := n.opts.ExclusiveMinimum; b != nil && f <= *b {
		if !limit(tp.CodeTooSmall, ">", *b) {
			return false
		}
	}
	if b := n.opts.Maximum; b != nil && f > *b {
		if !limit(tp.CodeTooBig, "<=", *b) {
			return false
		}
	}
	if b := n.opts.ExclusiveMaximum; b != nil && f >= *b {
		if !limit(tp.CodeTooBig, "<", *b) {
			return false
		}
	}
	if m := n.opts.MultipleOf; m != nil {
		q := f / *m
		if math.Abs(q-math.Round(q)) > 1e-9 {
			ok = false
			if !s.fail(issue(at, tp.CodeNotMultiple, map[string]string{"limit": fmtNum(*m)}, "limit", *m)) {
				return false
			}
		}
	}
	return ok
}

func (n *numberNode) convert(v any) any {
	switch x := v.(type) {
	case string:
		if n.integer {
			if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
				return float64(i)
			}
			// fractional strings stay strings and fail the check
			if f, ok := parseNumber(x); ok && math.Trunc(f) == f {
				return f
			}
			return v
		}
		if f, ok := parseNumber(x); ok {
			return f
		}
	case bool:
		if x {
			return float64(1)
		}
		return float64(0)
	}
	return v
}

func (n *numberNode) decode(v any, _ tp.PathRef) (any, error) { return v, nil }
func (n *numberNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }

func fmtNum(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// ---- string ----

type stringNode struct {
	opts StringOptions

	re     *regexp.Regexp
	format func(string) bool
}

func (n *stringNode) compile(c *compiler) (compiled, error) {
	if err := c.checkExtensions(n.opts.Options); err != nil {
		return nil, err
	}
	out := &stringNode{opts: n.opts}
	if n.opts.Pattern != "" {
		re, err := regexp.Compile(n.opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("dsl: invalid pattern %q: %w", n.opts.Pattern, err)
		}
		out.re = re
	}
	if name := n.opts.Format; name != "" {
		out.format = func(s string) bool { return c.checkFormat(name, s) }
	}
	return out, nil
}

func (n *stringNode) jsonSchema() (*js.Schema, error) {
	return n.opts.apply(&js.Schema{
		Type:      "string",
		Format:    n.opts.Format,
		Pattern:   n.opts.Pattern,
		MinLength: n.opts.MinLength,
		MaxLength: n.opts.MaxLength,
	}), nil
}
func (n *stringNode) hasTransform() bool { return false }

func (n *stringNode) validate(v any, at tp.PathRef, s *sink) bool {
	str, ok := v.(string)
	if !ok {
		s.fail(invalidType(at, "string", v))
		return false
	}
	ok = true
	check := func(pass bool, it func() tp.Issue) bool {
		if pass {
			return true
		}
		ok = false
		return s.fail(it())
	}
	l := utf8.RuneCountInString(str)
	if b := n.opts.MinLength; b != nil {
		if !check(l >= *b, func() tp.Issue {
			return issue(at, tp.CodeTooShort, map[string]string{"limit": strconv.Itoa(*b)}, "limit", *b, "got", l)
		}) {
			return false
		}
	}
	if b := n.opts.MaxLength; b != nil {
		if !check(l <= *b, func() tp.Issue {
			return issue(at, tp.CodeTooLong, map[string]string{"limit": strconv.Itoa(*b)}, "limit", *b, "got", l)
		}) {
			return false
		}
	}
	if n.re != nil {
		if !check(n.re.MatchString(str), func() tp.Issue {
			return issue(at, tp.CodePattern, map[string]string{"pattern": n.opts.Pattern}, "pattern", n.opts.Pattern)
		}) {
			return false
		}
	}
	if n.format != nil {
		if !check(n.format(str), func() tp.Issue {
			it := issue(at, tp.CodeInvalidFormat, map[string]string{"format": n.opts.Format}, "format", n.opts.Format)
			it.Hint = n.opts.Format
			return it
		}) {
			return false
		}
	}
	return ok
}

func (n *stringNode) convert(v any) any { return convertString(v) }

func convertString(v any) any {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}
	if f, ok := toFloat(v); ok {
		return fmtNum(f)
	}
	return v
}

func (n *stringNode) decode(v any, _ tp.PathRef) (any, error) { return v, nil }
func (n *stringNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }

// ---- literal / enum ----

type literalNode struct {
	value any
	opts  Options
}

func (n *literalNode) compile(c *compiler) (compiled, error) {
	return n, c.checkExtensions(n.opts)
}

func (n *literalNode) jsonSchema() (*js.Schema, error) {
	s := &js.Schema{}
	s.SetConst(n.value)
	return n.opts.apply(s), nil
}
func (n *literalNode) hasTransform() bool { return false }

func (n *literalNode) validate(v any, at tp.PathRef, s *sink) bool {
	if equalJSON(v, n.value) {
		return true
	}
	want := canonical(n.value)
	s.fail(issue(at, tp.CodeInvalidLiteral, map[string]string{"expected": want}, "expected", n.value))
	return false
}

func (n *literalNode) convert(v any) any                       { return convertToward(v, n.value) }
func (n *literalNode) decode(v any, _ tp.PathRef) (any, error) { return n.value, nil }
func (n *literalNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }

// convertToward converts a string to the scalar type of target.
func convertToward(v, target any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	switch target.(type) {
	case string:
		return v
	case bool:
		if b, ok := convertBool(str); ok {
			return b
		}
		return v
	case nil:
		if str == "null" {
			return nil
		}
		return v
	}
	if _, isNum := toFloat(target); isNum {
		if f, ok := parseNumber(str); ok {
			return f
		}
	}
	return v
}

type enumNode struct {
	values []any
}

func (n *enumNode) compile(*compiler) (compiled, error) {
	if len(n.values) == 0 {
		return nil, fmt.Errorf("dsl: enum requires at least one value")
	}
	return n, nil
}

func (n *enumNode) jsonSchema() (*js.Schema, error) {
	return &js.Schema{Enum: append([]any(nil), n.values...)}, nil
}
func (n *enumNode) hasTransform() bool { return false }

func (n *enumNode) validate(v any, at tp.PathRef, s *sink) bool {
	for _, e := range n.values {
		if equalJSON(v, e) {
			return true
		}
	}
	names := make([]string, len(n.values))
	for i, e := range n.values {
		names[i] = canonical(e)
	}
	s.fail(issue(at, tp.CodeInvalidEnum, map[string]string{"values": "[" + strings.Join(names, ", ") + "]"}, "values", n.values))
	return false
}

func (n *enumNode) convert(v any) any {
	for _, e := range n.values {
		if c := convertToward(v, e); equalJSON(c, e) {
			return c
		}
	}
	return v
}

// decode returns the declared member so T binds without conversion.
func (n *enumNode) decode(v any, _ tp.PathRef) (any, error) {
	for _, e := range n.values {
		if equalJSON(v, e) {
			return e, nil
		}
	}
	return v, nil
}
func (n *enumNode) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }
