package dsl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	sjs "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/i18n"
	js "github.com/reoring/typeprovider/jsonschema"
)

// Raw wraps a JSON Schema (draft 2020-12) document. Formats resolve through
// the compiling provider's registry; unknown formats pass.
func Raw(doc map[string]any) (*Schema[any], error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("dsl: raw schema: %w", err)
	}
	return rawFromBytes(b)
}

// RawJSON parses a JSON Schema document.
func RawJSON(b []byte) (*Schema[any], error) { return rawFromBytes(b) }

// RawYAML parses a JSON Schema document written in YAML.
func RawYAML(b []byte) (*Schema[any], error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("dsl: raw schema: %w", err)
	}
	jb, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("dsl: raw schema: %w", err)
	}
	return rawFromBytes(jb)
}

// MustRaw is like Raw but panics on error.
func MustRaw(doc map[string]any) *Schema[any] {
	s, err := Raw(doc)
	if err != nil {
		panic(err)
	}
	return s
}

func rawFromBytes(b []byte) (*Schema[any], error) {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("dsl: raw schema must be a JSON object: %w", err)
	}
	return newSchema[any](&rawNode{doc: doc, src: b}), nil
}

type rawNode struct {
	doc map[string]any
	src []byte
}

func (n *rawNode) compile(c *compiler) (compiled, error) {
	if c.env.Strict {
		if err := js.CheckKeywords(n.doc); err != nil {
			return nil, err
		}
	}
	formats := map[string]func(any) bool{}
	for _, name := range collectFormats(n.doc, nil) {
		formats[name] = func(v any) bool {
			s, ok := v.(string)
			return !ok || c.checkFormat(name, s)
		}
	}
	sch, err := js.Compile(n.src, js.CompileOptions{Formats: formats})
	if err != nil {
		return nil, err
	}
	return &rawChecker{doc: n.doc, sch: sch}, nil
}

func (n *rawNode) jsonSchema() (*js.Schema, error) {
	s := &js.Schema{}
	if err := json.Unmarshal(n.src, s); err != nil {
		return nil, err
	}
	s.Extensions = n.doc
	return s, nil
}

func (n *rawNode) hasTransform() bool { return false }

func collectFormats(doc any, acc []string) []string {
	switch d := doc.(type) {
	case map[string]any:
		if f, ok := d["format"].(string); ok {
			acc = append(acc, f)
		}
		for _, k := range sortedKeys(d) {
			if k == "enum" || k == "const" || k == "default" || k == "examples" {
				continue
			}
			acc = collectFormats(d[k], acc)
		}
	case []any:
		for _, e := range d {
			acc = collectFormats(e, acc)
		}
	}
	return acc
}

type rawChecker struct {
	doc map[string]any
	sch *sjs.Schema
}

func (r *rawChecker) run(v any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("dsl: raw validation: %v", p)
		}
	}()
	w, err := wireNumbers(v)
	if err != nil {
		return err
	}
	return r.sch.Validate(w)
}

func (r *rawChecker) validate(v any, at tp.PathRef, s *sink) bool {
	err := r.run(v)
	if err == nil {
		return true
	}
	if s == nil {
		return false
	}
	var ve *sjs.ValidationError
	if !errors.As(err, &ve) {
		s.fail(issue(at, tp.CodeSchema, nil, "error", err.Error()))
		return false
	}
	for _, leaf := range leaves(ve, nil) {
		for _, it := range rawIssues(leaf, at) {
			s.fail(it)
		}
	}
	return false
}

func leaves(ve *sjs.ValidationError, acc []*sjs.ValidationError) []*sjs.ValidationError {
	if len(ve.Causes) == 0 {
		return append(acc, ve)
	}
	for _, c := range ve.Causes {
		acc = leaves(c, acc)
	}
	return acc
}

var quotedName = regexp.MustCompile(`['"]([^'"]*)['"]`)

func rawIssues(ve *sjs.ValidationError, at tp.PathRef) []tp.Issue {
	base := at.Join(ve.InstanceLocation)
	kw := ve.KeywordLocation
	if i := strings.LastIndexByte(kw, '/'); i >= 0 {
		kw = kw[i+1:]
	}
	switch kw {
	case "required", "additionalProperties":
		code := tp.CodeRequired
		if kw == "additionalProperties" {
			code = tp.CodeUnknownKey
		}
		var out []tp.Issue
		for _, m := range quotedName.FindAllStringSubmatch(ve.Message, -1) {
			out = append(out, issue(base.Field(m[1]), code, map[string]string{"key": m[1]}, "key", m[1]))
		}
		if len(out) > 0 {
			return out
		}
	}
	it := base.Issue(rawCode(kw), ve.Message, "keyword", kw)
	if it.Message == "" {
		it.Message = i18n.T(it.Code, nil)
	}
	return []tp.Issue{it}
}

func rawCode(keyword string) string {
	switch keyword {
	case "type":
		return tp.CodeInvalidType
	case "required":
		return tp.CodeRequired
	case "additionalProperties", "unevaluatedProperties":
		return tp.CodeUnknownKey
	case "minLength", "minItems", "minProperties":
		return tp.CodeTooShort
	case "maxLength", "maxItems", "maxProperties":
		return tp.CodeTooLong
	case "minimum", "exclusiveMinimum":
		return tp.CodeTooSmall
	case "maximum", "exclusiveMaximum":
		return tp.CodeTooBig
	case "multipleOf":
		return tp.CodeNotMultiple
	case "pattern":
		return tp.CodePattern
	case "enum":
		return tp.CodeInvalidEnum
	case "const":
		return tp.CodeInvalidLiteral
	case "format":
		return tp.CodeInvalidFormat
	case "anyOf", "oneOf":
		return tp.CodeUnion
	case "uniqueItems":
		return tp.CodeNotUnique
	}
	return tp.CodeSchema
}

// wireNumbers converts v to wire form with every number as float64 or json.Number.
func wireNumbers(v any) (any, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	return floatNumbers(w), nil
}

func floatNumbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = floatNumbers(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = floatNumbers(e)
		}
		return out
	case json.Number, float64:
		return x
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

func (r *rawChecker) convert(v any) any { return convertByDoc(r.doc, v) }

// convertByDoc coerces v using the type, properties and items keywords.
func convertByDoc(doc any, v any) any {
	d, ok := doc.(map[string]any)
	if !ok {
		return v
	}
	var types []string
	switch t := d["type"].(type) {
	case string:
		types = []string{t}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				types = append(types, s)
			}
		}
	}
	for _, t := range types {
		switch t {
		case "object":
			m, ok := asMap(v)
			if !ok {
				continue
			}
			props, _ := d["properties"].(map[string]any)
			out := make(map[string]any, len(m))
			for k, e := range m {
				if ps, ok := props[k]; ok {
					out[k] = convertByDoc(ps, e)
					continue
				}
				out[k] = e
			}
			return out
		case "array":
			list, ok := asList(v)
			if !ok {
				if v == nil {
					continue
				}
				list = []any{v}
			}
			out := make([]any, len(list))
			for i, e := range list {
				out[i] = convertByDoc(d["items"], e)
			}
			return out
		}
	}
	str, isStr := v.(string)
	for _, t := range types {
		switch t {
		case "string":
			if isStr {
				return v
			}
		case "number":
			if f, ok := parseNumber(str); isStr && ok {
				return f
			}
		case "integer":
			if f, ok := parseNumber(str); isStr && ok && f == float64(int64(f)) {
				return f
			}
		case "boolean":
			if b, ok := convertBool(v); ok {
				return b
			}
		case "null":
			if isStr && str == "null" {
				return nil
			}
		}
	}
	return v
}

func (r *rawChecker) decode(v any, _ tp.PathRef) (any, error) { return v, nil }
func (r *rawChecker) encode(v any, _ tp.PathRef) (any, error) { return toWire(v) }
