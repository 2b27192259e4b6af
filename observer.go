package typeprovider

// Observer receives pipeline events. Implementations must be safe for
// concurrent use; see the metrics package for a Prometheus implementation.
type Observer interface {
	// CheckerCompiled fires once per schema instance after compilation.
	CheckerCompiled(err error)
	// CheckerCacheHit fires when a resolve is served from the cache.
	CheckerCacheHit()
	// Validated fires once per validated request part.
	Validated(part HTTPPart, ok bool)
	// Encoded fires once per reply that had a response schema.
	Encoded(status int, ok bool)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) CheckerCompiled(error)    {}
func (NopObserver) CheckerCacheHit()         {}
func (NopObserver) Validated(HTTPPart, bool) {}
func (NopObserver) Encoded(int, bool)        {}
