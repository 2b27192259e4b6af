package typeprovider

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef struct {
	parts []string
}

// RootPath returns the PathRef of the document root.
func RootPath() PathRef { return PathRef{} }

// ParsePath splits a JSON Pointer into a PathRef. Segments are kept escaped.
func ParsePath(pointer string) PathRef {
	if pointer == "" || pointer == "/" {
		return RootPath()
	}
	parts := []string{}
	for _, p := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		parts = append(parts, p)
	}
	return PathRef{parts: parts}
}

// Field appends an object key.
func (p PathRef) Field(name string) PathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return PathRef{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), esc)}
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), strconv.Itoa(i))}
}

// Join appends an already-escaped pointer (as reported by another validator).
func (p PathRef) Join(pointer string) PathRef {
	sub := ParsePath(pointer)
	if len(sub.parts) == 0 {
		return p
	}
	return PathRef{parts: append(append(make([]string, 0, len(p.parts)+len(sub.parts)), p.parts...), sub.parts...)}
}

// Pointer renders the path; the root is "".
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return ""
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at this path. kv are alternating param keys and values.
func (p PathRef) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k, _ := kv[i].(string)
			m[k] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}
