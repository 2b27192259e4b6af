// Package format holds string format predicates consulted by schema checks.
//
// A Registry maps format names to predicates. Lookups happen when a value is
// checked, not when a schema is compiled, so registering a name affects every
// checker that consults the registry from then on. Names without an entry are
// permissive: the constraint passes every value.
package format

import (
	"sort"
	"sync"
)

// Func reports whether a string satisfies a format.
type Func func(string) bool

// Registry is a concurrency-safe table of named formats. The last Set for a
// name wins.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: map[string]Func{}}
}

// Defaults returns a registry holding the built-in formats.
func Defaults() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Set installs or overwrites the predicate for name. A nil fn removes it.
func (r *Registry) Set(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.m, name)
		return
	}
	r.m[name] = fn
}

// Get returns the predicate registered for name.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.m[name]
	return fn, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Delete removes name.
func (r *Registry) Delete(name string) { r.Set(name, nil) }

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Check validates value against the format called name. Unknown names pass.
func (r *Registry) Check(name, value string) bool {
	fn, ok := r.Get(name)
	if !ok {
		return true
	}
	return fn(value)
}

// RegisterDefaults installs date, time, date-time, email, uuid, url, ipv4 and
// ipv6 into r, overwriting existing entries with those names.
func RegisterDefaults(r *Registry) {
	r.Set("date", IsDate)
	r.Set("time", IsTime)
	r.Set("date-time", IsDateTime)
	r.Set("email", IsEmail)
	r.Set("uuid", IsUUID)
	r.Set("url", IsURL)
	r.Set("ipv4", IsIPv4)
	r.Set("ipv6", IsIPv6)
}
