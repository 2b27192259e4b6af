package typeprovider

import (
	"reflect"
	"sync"
)

// CompileFunc builds a checker for a schema.
type CompileFunc func(Schema) (Checker, error)

// CheckerCache memoizes compiled checkers per schema instance.
//
// The key is the schema value itself (reference identity for pointer schemas):
// structurally equal but distinct instances get distinct entries. Entries live
// as long as the cache; build schemas once per route, not per request.
type CheckerCache struct {
	compile CompileFunc

	mu      sync.Mutex
	entries map[Schema]*cacheEntry
}

type cacheEntry struct {
	once    sync.Once
	checker Checker
	err     error
}

// NewCheckerCache returns an empty cache that compiles misses with compile.
func NewCheckerCache(compile CompileFunc) *CheckerCache {
	return &CheckerCache{compile: compile, entries: map[Schema]*cacheEntry{}}
}

// Resolve returns the checker for s, compiling it on first use. Concurrent
// first resolves of the same instance compile once; a compile error is cached
// with the entry. hit reports whether the entry already existed.
func (c *CheckerCache) Resolve(s Schema) (ch Checker, hit bool, err error) {
	if s == nil {
		return nil, false, ErrNilSchema
	}
	if !reflect.TypeOf(s).Comparable() {
		// not usable as a key: compile every time
		ch, err = c.compile(s)
		return ch, false, err
	}
	c.mu.Lock()
	e, hit := c.entries[s]
	if !hit {
		e = &cacheEntry{}
		c.entries[s] = e
	}
	c.mu.Unlock()

	e.once.Do(func() { e.checker, e.err = c.compile(s) })
	return e.checker, hit, e.err
}

// Len returns the number of cached schema instances.
func (c *CheckerCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
