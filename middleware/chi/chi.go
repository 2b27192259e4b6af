// Package chimw registers typed, validated routes on a chi router.
package chimw

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/middleware"
)

// None marks a request part a handler does not read.
type None struct{}

// Route is the schema bundle and body options of one route.
type Route struct {
	Schema tp.RouteSchema
	Body   middleware.BodyOptions
}

// Request carries the decoded parts of one request.
type Request[B, Q, P, H any] struct {
	*http.Request
	Body    B
	Query   Q
	Params  P
	Headers H
}

// Reply is what a handler answers with. Body is encoded against the response
// schema declared for Status, when there is one.
type Reply struct {
	Status int
	Body   any
}

// Handler serves a typed request. A returned error is answered with a 500
// payload unless it carries its own status (see middleware.PayloadFor).
type Handler[B, Q, P, H any] func(req *Request[B, Q, P, H]) (Reply, error)

// URLParams returns the path parameters chi matched for r.
func URLParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}

// Handle compiles route with p and registers h for method and pattern.
// Schema errors are returned here, before any request is served.
func Handle[B, Q, P, H any](r chi.Router, p *tp.Provider, method, pattern string, route Route, h Handler[B, Q, P, H]) error {
	cr, err := p.CompileRoute(route.Schema)
	if err != nil {
		return fmt.Errorf("chimw: %s %s: %w", method, pattern, err)
	}
	r.Method(method, pattern, serve(cr, route, h))
	return nil
}

func serve[B, Q, P, H any](cr *tp.CompiledRoute, route Route, h Handler[B, Q, P, H]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps, err := middleware.Extract(r, URLParams(r), route.Body)
		if err != nil {
			_ = middleware.WriteError(w, err)
			return
		}
		ctx, err := middleware.Validate(r.Context(), cr, &ps)
		if err != nil {
			_ = middleware.WriteError(w, err)
			return
		}
		r = r.WithContext(ctx)
		req := &Request[B, Q, P, H]{Request: r}
		if err := bindParts(req, route.Schema, ps); err != nil {
			_ = middleware.WriteError(w, err)
			return
		}
		reply, err := h(req)
		if err != nil {
			_ = middleware.WriteError(w, err)
			return
		}
		status := reply.Status
		if status == 0 {
			status = http.StatusOK
		}
		_ = middleware.Send(w, r, cr, status, reply.Body)
	})
}

func bindParts[B, Q, P, H any](req *Request[B, Q, P, H], rs tp.RouteSchema, ps middleware.Parts) error {
	ctx := req.Context()
	value := func(part tp.HTTPPart) any {
		if v, ok := middleware.Value(ctx, part); ok {
			return v
		}
		return ps.Get(part)
	}
	var err error
	if req.Body, err = bindPart[B](rs.Body, value(tp.PartBody)); err != nil {
		return fmt.Errorf("chimw: body: %w", err)
	}
	if req.Query, err = bindPart[Q](rs.Querystring, value(tp.PartQuerystring)); err != nil {
		return fmt.Errorf("chimw: querystring: %w", err)
	}
	if req.Params, err = bindPart[P](rs.Params, value(tp.PartParams)); err != nil {
		return fmt.Errorf("chimw: params: %w", err)
	}
	if req.Headers, err = bindPart[H](rs.Headers, value(tp.PartHeaders)); err != nil {
		return fmt.Errorf("chimw: headers: %w", err)
	}
	return nil
}

// bindPart converts a decoded part to T, through the schema when it knows T.
func bindPart[T any](s tp.Schema, v any) (T, error) {
	var zero T
	if _, ok := any(zero).(None); ok {
		return zero, nil
	}
	if typed, ok := s.(tp.Typed[T]); ok {
		return tp.Static(typed, v)
	}
	if v == nil {
		return zero, nil
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	return zero, fmt.Errorf("decoded %T is not %T", v, zero)
}
