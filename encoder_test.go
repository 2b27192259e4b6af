package typeprovider_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/codec"
	g "github.com/reoring/typeprovider/dsl"
)

func TestEncode_NoSchemaPassesThrough(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	payload := struct{ Anything int }{7}
	out, err := p.EncodeForStatus(tp.ResponseSchemas{200: g.String()}, 201, payload)
	if err != nil || out != payload {
		t.Fatalf("expected payload unchanged, got %v %v", out, err)
	}
	out, err = p.EncodeForStatus(nil, 200, "x")
	if err != nil || out != "x" {
		t.Fatalf("expected payload unchanged, got %v %v", out, err)
	}
}

func TestEncode_NonSuccessStatus(t *testing.T) {
	notFound := g.Object().
		Field("at", codec.TimeRFC3339()).Required().
		Field("reason", g.String()).Required().
		MustBuild()
	p := tp.New(tp.DefaultOptions())
	out, err := p.EncodeForStatus(tp.ResponseSchemas{404: notFound}, 404, map[string]any{
		"at":     time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		"reason": "missing",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	m := out.(map[string]any)
	if m["at"] != "2024-05-06T07:08:09Z" || m["reason"] != "missing" {
		t.Fatalf("unexpected wire value %v", m)
	}
}

func TestEncode_FailureIsEncodeError(t *testing.T) {
	rec := newRecorder()
	opts := tp.DefaultOptions()
	opts.Observer = rec
	p := tp.New(opts)
	responses := tp.ResponseSchemas{200: g.Object().Field("id", g.Integer()).Required().MustBuild()}

	_, err := p.EncodeForStatus(responses, 200, map[string]any{"id": "nope"})
	var ee *tp.EncodeError
	if !errors.As(err, &ee) || ee.Status != 200 {
		t.Fatalf("expected EncodeError for 200, got %v", err)
	}
	iss, ok := tp.AsIssues(err)
	if !ok || iss[0].Path != "/id" {
		t.Fatalf("expected issues at /id, got %v", err)
	}
	if got := rec.encoded[200]; len(got) != 1 || got[0] {
		t.Fatalf("unexpected encode events %v", got)
	}
}

func TestEncode_PanicIsEncodeError(t *testing.T) {
	boom := g.Transform[string, int](g.String()).
		Decode(func(string) (int, error) { return 0, nil }).
		Encode(func(int) (string, error) { panic("boom") })
	p := tp.New(tp.DefaultOptions())
	_, err := p.EncodeForStatus(tp.ResponseSchemas{200: boom}, 200, 1)
	var ee *tp.EncodeError
	if !errors.As(err, &ee) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected EncodeError mentioning the panic, got %v", err)
	}
}

func TestEncode_IntersectMergesMembers(t *testing.T) {
	a := g.Object().Field("a", g.String()).Required().MustBuild()
	b := g.Object().Field("b", codec.UnixMillis()).Required().MustBuild()
	p := tp.New(tp.DefaultOptions())
	out, err := p.EncodeForStatus(tp.ResponseSchemas{200: g.Intersect(a, b)}, 200, map[string]any{
		"a": "x",
		"b": time.UnixMilli(1000).UTC(),
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	m := out.(map[string]any)
	if m["a"] != "x" || m["b"] != float64(1000) {
		t.Fatalf("unexpected merged value %v", m)
	}
}

func TestPreSerialization_CallsDoneOnce(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	responses := tp.ResponseSchemas{200: g.Number()}

	calls := 0
	p.PreSerialization(responses, 200, 3.0, func(err error, v any) {
		calls++
		if err != nil || v != 3.0 {
			t.Fatalf("unexpected result %v %v", v, err)
		}
	})
	p.PreSerialization(responses, 200, "three", func(err error, v any) {
		calls++
		if err == nil || v != nil {
			t.Fatalf("expected error only, got %v %v", v, err)
		}
	})
	if calls != 2 {
		t.Fatalf("done must run exactly once per call, got %d", calls)
	}
}
