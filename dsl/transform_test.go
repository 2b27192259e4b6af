package dsl_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

func atoi() *g.Schema[int] {
	return g.Transform[string, int](g.String(g.StringOptions{Pattern: "^-?[0-9]+$"})).
		Decode(strconv.Atoi).
		Encode(func(n int) (string, error) { return strconv.Itoa(n), nil })
}

func TestTransform_DecodeEncode(t *testing.T) {
	s := atoi()
	ch := checkerOf(t, s)
	if ch.Kind() != tp.KindTransform {
		t.Fatalf("expected transform kind")
	}
	v, err := ch.Decode("41")
	if err != nil || v != 41 {
		t.Fatalf("decode: %v %v", v, err)
	}
	n, err := s.Bind(v)
	if err != nil || n+1 != 42 {
		t.Fatalf("bind: %v %v", n, err)
	}
	w, err := ch.Encode(42)
	if err != nil || w != "42" {
		t.Fatalf("encode: %v %v", w, err)
	}
	if _, err := ch.Decode("x1"); err == nil {
		t.Fatalf("wire check must run before decode")
	}
}

func TestTransform_ProjectsWireSchema(t *testing.T) {
	doc, err := atoi().JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}
	if doc.Type != "string" || doc.Pattern == "" {
		t.Fatalf("expected wire string schema, got %+v", doc)
	}
}

func TestTransform_FailureIsIssueAtFieldPath(t *testing.T) {
	overflow := g.Transform[string, int8](g.String()).
		Decode(func(s string) (int8, error) {
			n, err := strconv.ParseInt(s, 10, 8)
			return int8(n), err
		}).
		Encode(func(n int8) (string, error) { return strconv.Itoa(int(n)), nil })
	ch := checkerOf(t, g.Object().Field("small", overflow).Required().MustBuild())

	if !ch.Check(map[string]any{"small": "1000"}) {
		t.Fatalf("structural check does not run transforms")
	}
	_, err := ch.Decode(map[string]any{"small": "1000"})
	iss, ok := tp.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != tp.CodeTransform || iss[0].Path != "/small" {
		t.Fatalf("unexpected issue %+v", iss[0])
	}
	if !strings.HasPrefix(iss[0].Message, "transform failed: ") {
		t.Fatalf("unexpected message %q", iss[0].Message)
	}
	var numErr *strconv.NumError
	if !errors.As(iss[0].Cause, &numErr) {
		t.Fatalf("expected cause to be kept, got %v", iss[0].Cause)
	}
}

func TestTransform_PanicBecomesIssue(t *testing.T) {
	boom := g.Transform[string, string](g.String()).
		Decode(func(string) (string, error) { panic("boom") }).
		Encode(func(s string) (string, error) { return s, nil })
	ch := checkerOf(t, g.Array(boom))

	_, err := ch.Decode([]any{"a"})
	iss, ok := tp.AsIssues(err)
	if !ok || iss[0].Code != tp.CodeTransform || iss[0].Path != "/0" {
		t.Fatalf("expected transform issue at /0, got %v", err)
	}
	if !strings.Contains(iss[0].Message, "boom") {
		t.Fatalf("panic value should be reported, got %q", iss[0].Message)
	}
}

func TestTransform_IssuesFromDecodeAreRebased(t *testing.T) {
	tagged := g.Transform[string, string](g.String()).
		Decode(func(s string) (string, error) {
			return "", tp.Issues{{Path: "/suffix", Code: tp.CodePattern, Message: "bad suffix"}}
		}).
		Encode(func(s string) (string, error) { return s, nil })
	ch := checkerOf(t, g.Object().Field("tag", tagged).MustBuild())

	_, err := ch.Decode(map[string]any{"tag": "x"})
	iss, _ := tp.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/tag/suffix" || iss[0].Code != tp.CodePattern {
		t.Fatalf("expected rebased issue, got %v", iss)
	}
}

func TestTransform_EncodeOutputIsChecked(t *testing.T) {
	bad := g.Transform[string, int](g.String(g.StringOptions{MaxLength: g.Ptr(2)})).
		Decode(strconv.Atoi).
		Encode(func(n int) (string, error) { return strconv.Itoa(n), nil })
	ch := checkerOf(t, bad)

	if _, err := ch.Encode(12345); err == nil {
		t.Fatalf("encoded value violating the wire schema must fail")
	}
	if _, err := ch.Encode(errors.New("not an int")); err == nil {
		t.Fatalf("unconvertible domain value must fail")
	}
}

func TestTransform_MissingFunctions(t *testing.T) {
	s := g.Transform[string, int](g.String()).Decode(nil).Encode(nil)
	if _, err := tp.New(tp.DefaultOptions()).Resolve(s); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestTransformProperties(t *testing.T) {
	ch := checkerOf(t, atoi())
	properties := gopter.NewProperties(nil)

	// Property: encode undoes decode for an inverse pair
	properties.Property("encode after decode is identity", prop.ForAll(
		func(n int) bool {
			wire := strconv.Itoa(n)
			v, err := ch.Decode(wire)
			if err != nil {
				return false
			}
			back, err := ch.Encode(v)
			return err == nil && back == wire
		},
		gen.Int(),
	))

	properties.Property("decode after encode is identity", prop.ForAll(
		func(n int) bool {
			w, err := ch.Encode(n)
			if err != nil {
				return false
			}
			v, err := ch.Decode(w)
			return err == nil && v == n
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}
