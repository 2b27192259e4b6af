package typeprovider

import "fmt"

// HTTPPart identifies the request section a schema governs.
type HTTPPart string

const (
	PartBody        HTTPPart = "body"
	PartQuerystring HTTPPart = "querystring"
	PartParams      HTTPPart = "params"
	PartHeaders     HTTPPart = "headers"
)

// RequestParts lists the parts in the order hosts validate them.
var RequestParts = []HTTPPart{PartParams, PartBody, PartQuerystring, PartHeaders}

// Coerces reports whether string values of this part are converted to the
// declared types before checking. Bodies are already JSON-typed.
func (p HTTPPart) Coerces() bool { return p != PartBody }

// Valid reports whether p names a known part.
func (p HTTPPart) Valid() bool {
	switch p {
	case PartBody, PartQuerystring, PartParams, PartHeaders:
		return true
	}
	return false
}

// ParseHTTPPart resolves a part name. "query" is accepted for querystring.
func ParseHTTPPart(s string) (HTTPPart, error) {
	if s == "query" {
		return PartQuerystring, nil
	}
	p := HTTPPart(s)
	if !p.Valid() {
		return "", fmt.Errorf("typeprovider: unknown http part %q", s)
	}
	return p, nil
}
