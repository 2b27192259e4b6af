// Package middleware connects compiled routes to net/http: it extracts request
// parts, runs the inbound pipeline, stores decoded values in the request
// context and writes encoded replies and error payloads.
package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	tp "github.com/reoring/typeprovider"
)

const tracerName = "github.com/reoring/typeprovider/middleware"

// Span names.
const (
	SpanValidate = "typeprovider.validate"
	SpanEncode   = "typeprovider.encode"
)

func tracer() trace.Tracer { return otel.Tracer(tracerName) }

// Validate runs the validators of every declared part in order, stopping at
// the first failure. Decoded values replace the raw ones in ps and are
// attached to the returned context.
func Validate(ctx context.Context, cr *tp.CompiledRoute, ps *Parts) (context.Context, error) {
	declared := cr.Parts()
	names := make([]string, len(declared))
	for i, part := range declared {
		names[i] = string(part)
	}
	ctx, span := tracer().Start(ctx, SpanValidate,
		trace.WithAttributes(attribute.StringSlice("typeprovider.parts", names)))
	defer span.End()

	for _, part := range declared {
		res := cr.Validate(part, ps.Get(part))
		if !res.OK() {
			err := res.Err()
			span.SetAttributes(
				attribute.String("typeprovider.part", string(part)),
				attribute.Int("typeprovider.issues", len(res.Issues)),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			return ctx, err
		}
		ps.Set(part, res.Value)
		ctx = WithValidated(ctx, part, res.Value)
	}
	span.SetStatus(codes.Ok, "")
	return ctx, nil
}

// Encode runs the outbound pipeline for status.
func Encode(ctx context.Context, cr *tp.CompiledRoute, status int, payload any) (any, error) {
	_, span := tracer().Start(ctx, SpanEncode,
		trace.WithAttributes(attribute.Int("http.status_code", status)))
	defer span.End()

	out, err := cr.Encode(status, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// Send encodes payload for status and writes it as JSON. Encode failures are
// answered with a 500 payload and returned.
func Send(w http.ResponseWriter, r *http.Request, cr *tp.CompiledRoute, status int, payload any) error {
	out, err := Encode(r.Context(), cr, status, payload)
	if err != nil {
		_ = WriteError(w, err)
		return err
	}
	return WriteJSON(w, status, out)
}

// Options configures Handler.
type Options struct {
	Body BodyOptions
	// Params returns the path parameters the router matched for r.
	Params func(r *http.Request) map[string]string
}

// Handler wraps next with request validation for cr. Invalid requests are
// answered with an error payload and never reach next.
func Handler(cr *tp.CompiledRoute, opt Options, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]string
		if opt.Params != nil {
			params = opt.Params(r)
		}
		ps, err := Extract(r, params, opt.Body)
		if err != nil {
			_ = WriteError(w, err)
			return
		}
		ctx, err := Validate(r.Context(), cr, &ps)
		if err != nil {
			_ = WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
