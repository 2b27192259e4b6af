package typeprovider

import (
	"reflect"
	"strings"
)

// StructKey describes how one struct field appears on the wire.
type StructKey struct {
	Index     int
	Name      string
	OmitEmpty bool
}

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key: json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) (name string, omitEmpty bool) {
	jt, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, false
	}
	if jt == "-" {
		return "-", false
	}
	name = jt
	if i := strings.IndexByte(jt, ','); i >= 0 {
		name = jt[:i]
		omitEmpty = strings.Contains(jt[i:], "omitempty")
	}
	if name == "" {
		name = sf.Name
	}
	return name, omitEmpty
}

// StructKeys lists the exported, non-ignored fields of struct type rt.
func StructKeys(rt reflect.Type) []StructKey {
	out := make([]StructKey, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, omit := ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		out = append(out, StructKey{Index: i, Name: name, OmitEmpty: omit})
	}
	return out
}
