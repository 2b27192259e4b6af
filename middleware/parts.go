package middleware

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/internal/jsonbody"
)

// DefaultBodyLimit caps request bodies read by ReadBody.
const DefaultBodyLimit int64 = 1 << 20

// Parts holds the raw wire values of one request, keyed the way schemas see them.
type Parts struct {
	Params      map[string]any
	Querystring map[string]any
	Headers     map[string]any
	Body        any
}

// Get returns the raw value of part.
func (ps *Parts) Get(part tp.HTTPPart) any {
	switch part {
	case tp.PartParams:
		return ps.Params
	case tp.PartQuerystring:
		return ps.Querystring
	case tp.PartHeaders:
		return ps.Headers
	case tp.PartBody:
		return ps.Body
	}
	return nil
}

// Set replaces the value of part, typically with its decoded form. Decoded
// params, querystring or headers that are not objects clear the map; read
// them back with Value instead.
func (ps *Parts) Set(part tp.HTTPPart, v any) {
	if part == tp.PartBody {
		ps.Body = v
		return
	}
	m, _ := v.(map[string]any)
	switch part {
	case tp.PartParams:
		ps.Params = m
	case tp.PartQuerystring:
		ps.Querystring = m
	case tp.PartHeaders:
		ps.Headers = m
	}
}

// BodyOptions configures ReadBody.
type BodyOptions struct {
	// Limit is the maximum body size in bytes. Zero means DefaultBodyLimit.
	Limit int64
	// RejectDuplicateKeys answers repeated object keys with a validation error.
	RejectDuplicateKeys bool
}

// BodyError reports a body that could not be turned into a wire value.
type BodyError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *BodyError) Error() string { return e.Message }

func (e *BodyError) Unwrap() error { return e.Err }

// Extract reads every part of r. params are the path parameters the router matched.
func Extract(r *http.Request, params map[string]string, opt BodyOptions) (Parts, error) {
	ps := Parts{
		Params:      Params(params),
		Querystring: Query(r.URL.Query()),
		Headers:     Headers(r),
	}
	body, err := ReadBody(r, opt)
	if err != nil {
		return ps, err
	}
	ps.Body = body
	return ps, nil
}

// ExtractPart reads a single part of r.
func ExtractPart(r *http.Request, params map[string]string, part tp.HTTPPart, opt BodyOptions) (any, error) {
	switch part {
	case tp.PartParams:
		return Params(params), nil
	case tp.PartQuerystring:
		return Query(r.URL.Query()), nil
	case tp.PartHeaders:
		return Headers(r), nil
	case tp.PartBody:
		return ReadBody(r, opt)
	}
	return nil, fmt.Errorf("middleware: unknown http part %q", part)
}

// Params converts router parameters into an object value.
func Params(params map[string]string) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Query converts query values. A key given once maps to a string; a repeated
// key maps to a []any of strings.
func Query(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
			out[k] = ""
		case 1:
			out[k] = vs[0]
		default:
			arr := make([]any, len(vs))
			for i, s := range vs {
				arr[i] = s
			}
			out[k] = arr
		}
	}
	return out
}

// Headers lower-cases header names and joins repeated values with ", ".
// The host header is taken from r.Host.
func Headers(r *http.Request) map[string]any {
	out := make(map[string]any, len(r.Header)+1)
	for k, vs := range r.Header {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	if r.Host != "" {
		out["host"] = r.Host
	}
	return out
}

// ReadBody reads and parses a JSON body. Empty bodies yield nil. A request
// without a content type is parsed as JSON.
func ReadBody(r *http.Request, opt BodyOptions) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	limit := opt.Limit
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, &BodyError{Status: http.StatusBadRequest, Message: "failed to read request body", Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &BodyError{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    "FST_ERR_CTP_BODY_TOO_LARGE",
			Message: "Request body is too large",
		}
	}
	if len(data) == 0 {
		return nil, nil
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && !isJSON(ct) {
		return nil, &BodyError{
			Status:  http.StatusUnsupportedMediaType,
			Code:    "FST_ERR_CTP_INVALID_MEDIA_TYPE",
			Message: fmt.Sprintf("Unsupported Media Type: %s", ct),
		}
	}
	v, err := jsonbody.Decode(data, jsonbody.Options{RejectDuplicateKeys: opt.RejectDuplicateKeys})
	if err != nil {
		if iss, ok := tp.AsIssues(err); ok {
			return nil, &tp.RequestError{Part: tp.PartBody, Errors: tp.ValidationErrors(iss), Issues: iss}
		}
		if errors.Is(err, jsonbody.ErrSyntax) {
			return nil, &BodyError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
		}
		return nil, err
	}
	return v, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
