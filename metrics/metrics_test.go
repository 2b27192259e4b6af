package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func TestObserver_CountsPipelineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(Config{Registry: reg})
	opts := tp.DefaultOptions()
	opts.Observer = obs
	p := tp.New(opts)

	body := g.Object().Field("a", g.Number()).Required().MustBuild()
	reply := g.Integer()
	cr, err := p.CompileRoute(tp.RouteSchema{Body: body, Response: tp.ResponseSchemas{200: reply}})
	if err != nil {
		t.Fatalf("compile route: %v", err)
	}
	cr.Validate(tp.PartBody, map[string]any{"a": 1.0})
	cr.Validate(tp.PartBody, map[string]any{"a": "1"})
	if _, err := cr.Encode(200, 3.0); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := cr.Encode(200, "x"); err == nil {
		t.Fatal("expected encode error")
	}

	if got := counterValue(t, obs.validations.WithLabelValues("body", "success")); got != 1 {
		t.Fatalf("validations_total(body, success)=%v, want 1", got)
	}
	if got := counterValue(t, obs.validations.WithLabelValues("body", "error")); got != 1 {
		t.Fatalf("validations_total(body, error)=%v, want 1", got)
	}
	if got := counterValue(t, obs.encodes.WithLabelValues("success")); got != 1 {
		t.Fatalf("encodes_total(success)=%v, want 1", got)
	}
	if got := counterValue(t, obs.encodes.WithLabelValues("error")); got != 1 {
		t.Fatalf("encodes_total(error)=%v, want 1", got)
	}
	if got := counterValue(t, obs.compilations.WithLabelValues("success")); got != 2 {
		t.Fatalf("checker_compilations_total(success)=%v, want 2", got)
	}
	// CompileRoute resolves the reply schema once, each Encode resolves it again.
	if got := counterValue(t, obs.cacheHits); got != 2 {
		t.Fatalf("checker_cache_hits_total=%v, want 2", got)
	}
}

func TestObserver_Namespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(Config{Namespace: "api", Subsystem: "schemas", Registry: reg})
	obs.CheckerCacheHit()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "api_schemas_checker_cache_hits_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected api_schemas_checker_cache_hits_total to be registered")
	}
}

func TestObserver_FailedCompilation(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(Config{Registry: reg})
	opts := tp.DefaultOptions()
	opts.Observer = obs
	p := tp.New(opts)

	bad := g.String(g.StringOptions{Pattern: "("})
	if _, err := p.MakeValidator(bad, tp.PartBody); err == nil {
		t.Fatal("expected compile error")
	}
	if got := counterValue(t, obs.compilations.WithLabelValues("error")); got != 1 {
		t.Fatalf("checker_compilations_total(error)=%v, want 1", got)
	}
}
