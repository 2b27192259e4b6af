package jsonschema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKeyword reports a keyword outside the JSON Schema 2020-12 vocabulary.
var ErrUnknownKeyword = errors.New("unknown schema keyword")

var knownKeywords = map[string]struct{}{
	// core
	"$schema": {}, "$id": {}, "$ref": {}, "$anchor": {}, "$dynamicRef": {}, "$dynamicAnchor": {},
	"$vocabulary": {}, "$comment": {}, "$defs": {}, "definitions": {},
	// applicators
	"allOf": {}, "anyOf": {}, "oneOf": {}, "not": {}, "if": {}, "then": {}, "else": {},
	"dependentSchemas": {}, "prefixItems": {}, "items": {}, "contains": {},
	"properties": {}, "patternProperties": {}, "additionalProperties": {}, "propertyNames": {},
	"unevaluatedItems": {}, "unevaluatedProperties": {},
	// validation
	"type": {}, "const": {}, "enum": {},
	"multipleOf": {}, "maximum": {}, "exclusiveMaximum": {}, "minimum": {}, "exclusiveMinimum": {},
	"maxLength": {}, "minLength": {}, "pattern": {},
	"maxItems": {}, "minItems": {}, "uniqueItems": {}, "maxContains": {}, "minContains": {},
	"maxProperties": {}, "minProperties": {}, "required": {}, "dependentRequired": {},
	// format, content, meta-data
	"format": {}, "contentEncoding": {}, "contentMediaType": {}, "contentSchema": {},
	"title": {}, "description": {}, "default": {}, "deprecated": {}, "readOnly": {}, "writeOnly": {},
	"examples": {},
}

// IsKnownKeyword reports whether k belongs to the vocabulary. Vendor
// extensions ("x-" prefix) are always accepted.
func IsKnownKeyword(k string) bool {
	if strings.HasPrefix(k, "x-") {
		return true
	}
	_, ok := knownKeywords[k]
	return ok
}

// CheckKeywords walks a schema document and rejects unknown keywords.
// The error wraps ErrUnknownKeyword and names the keyword location.
func CheckKeywords(doc any) error {
	return checkKeywords(doc, "")
}

func checkKeywords(doc any, at string) error {
	m, ok := doc.(map[string]any)
	if !ok {
		// booleans are valid schemas
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !IsKnownKeyword(k) {
			return fmt.Errorf("%w %q at %s", ErrUnknownKeyword, k, pointerOrRoot(at))
		}
	}
	for _, k := range keys {
		v := m[k]
		here := at + "/" + escape(k)
		switch k {
		case "properties", "patternProperties", "$defs", "definitions", "dependentSchemas":
			sub, _ := v.(map[string]any)
			names := make([]string, 0, len(sub))
			for n := range sub {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				if err := checkKeywords(sub[n], here+"/"+escape(n)); err != nil {
					return err
				}
			}
		case "allOf", "anyOf", "oneOf", "prefixItems":
			arr, _ := v.([]any)
			for i, e := range arr {
				if err := checkKeywords(e, fmt.Sprintf("%s/%d", here, i)); err != nil {
					return err
				}
			}
		case "items", "additionalProperties", "not", "if", "then", "else", "contains",
			"propertyNames", "unevaluatedItems", "unevaluatedProperties", "contentSchema":
			if err := checkKeywords(v, here); err != nil {
				return err
			}
		}
	}
	return nil
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
