package query

import (
	"sort"
	"sync"

	"github.com/derekparker/trie"
)

// Cache holds compiled queries, keyed by their literal source string.
// A query string is compiled at most once per cache; every subsequent
// lookup returns the identical *Query.
type Cache struct {
	mx    sync.Mutex
	trie  *trie.Trie
	count int
}

// NewCache creates an empty query cache.
func NewCache() *Cache {
	return &Cache{trie: trie.New()}
}

var defaultCache = NewCache()

// DefaultCache returns the process-wide query cache.
func DefaultCache() *Cache {
	return defaultCache
}

// emptyQuery is the query without constraints. It always matches.
var emptyQuery = &Query{meta: newMeta()}

// Parse compiles a query string, using the process-wide cache.
func Parse(s string) (*Query, error) {
	return defaultCache.Parse(s)
}

// MustParse is like Parse, but panics on error. Intended for tests and
// package-level query variables.
func MustParse(s string) *Query {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Parse returns the compiled query for s, compiling it on first use.
// Queries which fail to compile are not cached.
func (c *Cache) Parse(s string) (*Query, error) {
	if s == "" {
		return emptyQuery, nil
	}
	c.mx.Lock()
	defer c.mx.Unlock()
	if node, ok := c.trie.Find(s); ok {
		return node.Meta().(*Query), nil
	}
	q, err := compile(s)
	if err != nil {
		return nil, err
	}
	c.trie.Add(s, q)
	c.count++
	tracer().Debugf("compiled query %q => %s [%s]", s, q, q.meta)
	return q, nil
}

// Lookup returns the compiled query for s, if it has been compiled before.
func (c *Cache) Lookup(s string) (*Query, bool) {
	if s == "" {
		return emptyQuery, true
	}
	c.mx.Lock()
	defer c.mx.Unlock()
	if node, ok := c.trie.Find(s); ok {
		return node.Meta().(*Query), true
	}
	return nil, false
}

// Len returns the number of compiled queries in the cache.
func (c *Cache) Len() int {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.count
}

// Complete returns all cached query strings starting with prefix, sorted.
func (c *Cache) Complete(prefix string) []string {
	c.mx.Lock()
	defer c.mx.Unlock()
	keys := c.trie.PrefixSearch(prefix)
	sort.Strings(keys)
	return keys
}
