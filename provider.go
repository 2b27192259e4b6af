package typeprovider

import (
	"fmt"
	"log/slog"

	"github.com/reoring/typeprovider/format"
)

// Options configures a Provider.
type Options struct {
	// Formats resolves string formats at check time. Nil means an empty
	// registry, under which every format passes.
	Formats *format.Registry
	// Strict rejects unknown schema keywords at compile time.
	Strict bool
	// DisableCoercion turns off conversion of non-body parts.
	DisableCoercion bool
	// Logger receives compile and pipeline diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Observer receives pipeline events. Defaults to NopObserver.
	Observer Observer
}

// DefaultOptions returns the recommended options for HTTP boundaries:
// strict compilation and the built-in formats.
func DefaultOptions() Options {
	return Options{Formats: format.Defaults(), Strict: true}
}

// Provider owns a format registry and a checker cache. Providers are
// independent of each other and safe for concurrent use.
type Provider struct {
	opts    Options
	formats *format.Registry
	cache   *CheckerCache
	log     *slog.Logger
	obs     Observer
}

// New builds a Provider from opts.
func New(opts Options) *Provider {
	p := &Provider{opts: opts, formats: opts.Formats, log: opts.Logger, obs: opts.Observer}
	if p.formats == nil {
		p.formats = format.NewRegistry()
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if p.obs == nil {
		p.obs = NopObserver{}
	}
	p.cache = NewCheckerCache(p.compile)
	return p
}

// Formats returns the registry consulted by this provider's checkers.
// Registrations take effect for already-compiled checkers too.
func (p *Provider) Formats() *format.Registry { return p.formats }

// Strict reports whether unknown keywords are rejected.
func (p *Provider) Strict() bool { return p.opts.Strict }

// CachedCheckers returns the number of compiled schema instances.
func (p *Provider) CachedCheckers() int { return p.cache.Len() }

// Resolve returns the cached checker for s, compiling it on first use.
func (p *Provider) Resolve(s Schema) (Checker, error) {
	ch, hit, err := p.cache.Resolve(s)
	if hit {
		p.obs.CheckerCacheHit()
	}
	return ch, err
}

func (p *Provider) compile(s Schema) (Checker, error) {
	ch, err := s.Compile(CompileEnv{Formats: p.formats, Strict: p.opts.Strict})
	p.obs.CheckerCompiled(err)
	if err != nil {
		p.log.Debug("typeprovider: schema compile failed", slog.Any("error", err))
		return nil, fmt.Errorf("typeprovider: compile schema: %w", err)
	}
	p.log.Debug("typeprovider: schema compiled", slog.String("kind", ch.Kind().String()))
	return ch, nil
}
