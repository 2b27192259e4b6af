package codec_test

import (
	"testing"
	"time"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/codec"
	g "github.com/reoring/typeprovider/dsl"
)

func resolve(t *testing.T, p *tp.Provider, s tp.Schema) tp.Checker {
	t.Helper()
	ch, err := p.Resolve(s)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return ch
}

func TestTimeRFC3339_Roundtrip(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	ch := resolve(t, p, codec.TimeRFC3339())
	if ch.Kind() != tp.KindTransform {
		t.Fatalf("expected transform checker, got %v", ch.Kind())
	}

	in := "2025-01-01T00:00:00Z"
	got, err := ch.Decode(in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	tm, ok := got.(time.Time)
	if !ok || !tm.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %#v", got)
	}

	out, err := ch.Encode(tm)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %v != %s", out, in)
	}
}

func TestTimeRFC3339_Invalid(t *testing.T) {
	// default formats reject the wire value before decoding
	p := tp.New(tp.DefaultOptions())
	_, err := resolve(t, p, codec.TimeRFC3339()).Decode("2025-13-01T00:00:00Z")
	iss, ok := tp.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != tp.CodeInvalidFormat || iss[0].Path != "" {
		t.Fatalf("unexpected issues: %v", err)
	}

	// without formats the transform itself reports the failure
	bare := tp.New(tp.Options{})
	_, err = resolve(t, bare, codec.TimeRFC3339()).Decode("yesterday")
	iss, ok = tp.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != tp.CodeInvalidFormat {
		t.Fatalf("unexpected issues: %v", err)
	}
	if iss[0].Cause == nil {
		t.Fatalf("expected parse error as cause")
	}
}

func TestDate_Roundtrip(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	ch := resolve(t, p, codec.Date())
	got, err := ch.Decode("2024-02-29")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.(time.Time).Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got)
	}
	out, err := ch.Encode(got)
	if err != nil || out != "2024-02-29" {
		t.Fatalf("encode: %v %v", out, err)
	}
	if _, err := ch.Decode("2023-02-29"); err == nil {
		t.Fatalf("non-leap february 29th must fail")
	}
}

func TestUnixMillis_Roundtrip(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	ch := resolve(t, p, codec.UnixMillis())
	got, err := ch.Decode(float64(1700000000123))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	want := time.UnixMilli(1700000000123).UTC()
	if !got.(time.Time).Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	out, err := ch.Encode(want)
	if err != nil || out != float64(1700000000123) {
		t.Fatalf("encode: %v %v", out, err)
	}
}

func TestIdentity(t *testing.T) {
	p := tp.New(tp.DefaultOptions())
	ch := resolve(t, p, codec.Identity(g.String()))
	if ch.Kind() != tp.KindTransform {
		t.Fatalf("identity should be a transform")
	}
	v, err := ch.Decode("asdf")
	if err != nil || v != "asdf" {
		t.Fatalf("decode err=%v v=%v", err, v)
	}
	w, err := ch.Encode("asdf")
	if err != nil || w != "asdf" {
		t.Fatalf("encode err=%v w=%v", err, w)
	}
}

type event struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

func TestNestedTransform_BindsStruct(t *testing.T) {
	s := g.ObjectOf[event]().
		Field("name", g.String()).Required().
		Field("at", codec.TimeRFC3339()).Required().
		MustBind()
	p := tp.New(tp.DefaultOptions())
	ch := resolve(t, p, s)

	decoded, err := ch.Decode(map[string]any{"name": "launch", "at": "2025-03-04T05:06:07Z"})
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	ev, err := s.Bind(decoded)
	if err != nil {
		t.Fatalf("bind err: %v", err)
	}
	if ev.Name != "launch" || !ev.At.Equal(time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)) {
		t.Fatalf("unexpected event: %+v", ev)
	}

	wire, err := ch.Encode(ev)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	m := wire.(map[string]any)
	if m["name"] != "launch" || m["at"] != "2025-03-04T05:06:07Z" {
		t.Fatalf("unexpected wire: %v", m)
	}
}
