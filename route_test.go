package typeprovider_test

import (
	"reflect"
	"strings"
	"testing"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

func TestCompileRoute_Parts(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	cr, err := p.CompileRoute(tp.RouteSchema{
		Querystring: g.Object().Field("page", g.Integer()).MustBuild(),
		Body:        numberObject(),
		Response:    tp.ResponseSchemas{200: g.String()},
	})
	if err != nil {
		t.Fatalf("compile route: %v", err)
	}
	want := []tp.HTTPPart{tp.PartBody, tp.PartQuerystring}
	if got := cr.Parts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("parts = %v, want %v", got, want)
	}
	if cr.Has(tp.PartHeaders) {
		t.Fatalf("headers are not declared")
	}

	res := cr.Validate(tp.PartHeaders, map[string]any{"x": "y"})
	if !res.OK() || res.Value.(map[string]any)["x"] != "y" {
		t.Fatalf("undeclared parts pass through")
	}
	res = cr.Validate(tp.PartQuerystring, map[string]any{"page": "3"})
	if !res.OK() || res.Value.(map[string]any)["page"] != float64(3) {
		t.Fatalf("unexpected result %#v", res)
	}

	out, err := cr.Encode(200, "ok")
	if err != nil || out != "ok" {
		t.Fatalf("encode: %v %v", out, err)
	}
	var got error
	cr.PreSerialization(200, 1.0, func(err error, _ any) { got = err })
	if got == nil {
		t.Fatalf("expected encode error for a number reply")
	}
}

func TestCompileRoute_BadResponseSchema(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	bad := g.String(g.StringOptions{Options: g.Options{Extensions: map[string]any{"kind": "x"}}})
	_, err := p.CompileRoute(tp.RouteSchema{Response: tp.ResponseSchemas{201: g.String(), 500: bad}})
	if err == nil || !strings.HasPrefix(err.Error(), "typeprovider: response 500 schema: ") {
		t.Fatalf("expected response compile error, got %v", err)
	}
}

func TestRouteSchema_Part(t *testing.T) {
	body := g.String()
	rs := tp.RouteSchema{Body: body}
	if rs.Part(tp.PartBody) != body || rs.Part(tp.PartParams) != nil {
		t.Fatalf("unexpected part lookup")
	}
}

func TestRouteSchema_WithPart(t *testing.T) {
	q := g.String()
	rs := tp.RouteSchema{}.WithPart(tp.PartQuerystring, q)
	if rs.Querystring != q || rs.Body != nil {
		t.Fatalf("unexpected route schema %+v", rs)
	}
}
