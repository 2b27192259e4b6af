package typeprovider

import (
	"fmt"
	"sort"
)

// RouteSchema is the schema bundle a route declares.
type RouteSchema struct {
	Body        Schema
	Querystring Schema
	Params      Schema
	Headers     Schema
	Response    ResponseSchemas
}

// Part returns the schema declared for part, or nil.
func (rs RouteSchema) Part(part HTTPPart) Schema {
	switch part {
	case PartBody:
		return rs.Body
	case PartQuerystring:
		return rs.Querystring
	case PartParams:
		return rs.Params
	case PartHeaders:
		return rs.Headers
	}
	return nil
}

// WithPart returns a copy of rs with s declared for part.
func (rs RouteSchema) WithPart(part HTTPPart, s Schema) RouteSchema {
	switch part {
	case PartBody:
		rs.Body = s
	case PartQuerystring:
		rs.Querystring = s
	case PartParams:
		rs.Params = s
	case PartHeaders:
		rs.Headers = s
	}
	return rs
}

// CompiledRoute holds the validators and response schemas of one route.
type CompiledRoute struct {
	p          *Provider
	validators map[HTTPPart]ValidatorFunc
	responses  ResponseSchemas
}

// CompileRoute builds validators for every declared part and compiles every
// response schema, so malformed schemas fail before any request is served.
func (p *Provider) CompileRoute(rs RouteSchema) (*CompiledRoute, error) {
	cr := &CompiledRoute{p: p, validators: map[HTTPPart]ValidatorFunc{}, responses: rs.Response}
	for _, part := range RequestParts {
		s := rs.Part(part)
		if s == nil {
			continue
		}
		fn, err := p.MakeValidator(s, part)
		if err != nil {
			return nil, err
		}
		cr.validators[part] = fn
	}
	statuses := make([]int, 0, len(rs.Response))
	for st := range rs.Response {
		statuses = append(statuses, st)
	}
	sort.Ints(statuses)
	for _, st := range statuses {
		if rs.Response[st] == nil {
			continue
		}
		if _, err := p.Resolve(rs.Response[st]); err != nil {
			return nil, fmt.Errorf("typeprovider: response %d schema: %w", st, err)
		}
	}
	return cr, nil
}

// Has reports whether the route declares a schema for part.
func (cr *CompiledRoute) Has(part HTTPPart) bool {
	_, ok := cr.validators[part]
	return ok
}

// Parts lists the declared parts in validation order.
func (cr *CompiledRoute) Parts() []HTTPPart {
	out := make([]HTTPPart, 0, len(cr.validators))
	for _, part := range RequestParts {
		if cr.Has(part) {
			out = append(out, part)
		}
	}
	return out
}

// Validate runs the validator for part. Undeclared parts pass through unchanged.
func (cr *CompiledRoute) Validate(part HTTPPart, raw any) Result {
	fn, ok := cr.validators[part]
	if !ok {
		return Result{Part: part, Value: raw, ok: true}
	}
	return fn(raw)
}

// Encode runs the outbound pipeline for status.
func (cr *CompiledRoute) Encode(status int, payload any) (any, error) {
	return cr.p.EncodeForStatus(cr.responses, status, payload)
}

// PreSerialization runs the outbound pipeline in continuation-passing form.
func (cr *CompiledRoute) PreSerialization(status int, payload any, done func(error, any)) {
	cr.p.PreSerialization(cr.responses, status, payload, done)
}
