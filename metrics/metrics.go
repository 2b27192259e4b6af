// Package metrics exports pipeline events as Prometheus counters.
//
//	m := metrics.New(metrics.Config{Namespace: "api"})
//	opts := typeprovider.DefaultOptions()
//	opts.Observer = m
//	p := typeprovider.New(opts)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	tp "github.com/reoring/typeprovider"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "typeprovider").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Observer implements typeprovider.Observer.
type Observer struct {
	validations  *prometheus.CounterVec
	encodes      *prometheus.CounterVec
	compilations *prometheus.CounterVec
	cacheHits    prometheus.Counter
}

var _ tp.Observer = (*Observer)(nil)

// New registers the counters with cfg.Registry. Registering twice with the
// same registry panics, like promauto does.
func New(cfg Config) *Observer {
	if cfg.Namespace == "" {
		cfg.Namespace = "typeprovider"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(cfg.Registry)

	return &Observer{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "validations_total",
			Help:        "Total number of validated request parts",
			ConstLabels: cfg.ConstLabels,
		}, []string{"part", "result"}),

		encodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "encodes_total",
			Help:        "Total number of replies encoded against a response schema",
			ConstLabels: cfg.ConstLabels,
		}, []string{"result"}),

		compilations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "checker_compilations_total",
			Help:        "Total number of schema compilations",
			ConstLabels: cfg.ConstLabels,
		}, []string{"result"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "checker_cache_hits_total",
			Help:        "Total number of checker lookups served from the cache",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

func (o *Observer) CheckerCompiled(err error) {
	o.compilations.WithLabelValues(result(err == nil)).Inc()
}

func (o *Observer) CheckerCacheHit() { o.cacheHits.Inc() }

func (o *Observer) Validated(part tp.HTTPPart, ok bool) {
	o.validations.WithLabelValues(string(part), result(ok)).Inc()
}

func (o *Observer) Encoded(_ int, ok bool) {
	o.encodes.WithLabelValues(result(ok)).Inc()
}
