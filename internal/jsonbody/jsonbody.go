// Package jsonbody decodes JSON request bodies into wire values.
package jsonbody

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/i18n"
)

// ErrSyntax is wrapped by errors for bodies that are not valid JSON.
var ErrSyntax = errors.New("invalid JSON body")

// Options configures Decode.
type Options struct {
	// RejectDuplicateKeys reports repeated object keys as issues instead of
	// letting the last occurrence win.
	RejectDuplicateKeys bool
}

// Decode parses data. Empty or whitespace-only bodies decode to nil. Numbers
// decode to float64, except integers a float64 cannot hold exactly, which
// decode to int64.
func Decode(data []byte, opt Options) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if opt.RejectDuplicateKeys {
		iss, err := DuplicateKeys(data, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		if len(iss) > 0 {
			return nil, iss
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrSyntax)
	}
	return numbers(v), nil
}

// maxExact is the largest magnitude below which every integer is a float64.
const maxExact = 1 << 53

func numbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil && (i > maxExact || i < -maxExact) {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = numbers(e)
		}
	case []any:
		for i, e := range x {
			x[i] = numbers(e)
		}
	}
	return v
}

type frame struct {
	object       bool
	keys         map[string]struct{}
	key          string
	index        int
	expectingKey bool
}

// DuplicateKeys reports every object key that repeats within its object, at
// the JSON Pointer of the repeated member. limit > 0 stops after that many
// issues.
func DuplicateKeys(data []byte, limit int) (tp.Issues, error) {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		iss   tp.Issues
		stack []*frame
	)
	// valueDone advances the enclosing container past one member.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return iss, nil
		}
		if err != nil {
			return iss, err
		}
		switch v := tok.(type) {
		case stdjson.Delim:
			switch v {
			case '{':
				stack = append(stack, &frame{object: true, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, &frame{})
			case '}', ']':
				stack = stack[:len(stack)-1]
				valueDone()
			}
		case string:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.object && top.expectingKey {
					if _, dup := top.keys[v]; dup {
						at := pathOf(stack[:len(stack)-1]).Field(v)
						iss = append(iss, at.Issue(tp.CodeDuplicateKey, i18n.T(tp.CodeDuplicateKey, map[string]string{"key": v}), "key", v))
						if limit > 0 && len(iss) >= limit {
							return iss, nil
						}
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

// pathOf renders the position of the member currently being read in each frame.
func pathOf(frames []*frame) tp.PathRef {
	p := tp.RootPath()
	for _, f := range frames {
		if f.object {
			p = p.Field(f.key)
		} else {
			p = p.Index(f.index)
		}
	}
	return p
}
