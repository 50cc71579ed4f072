package template

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// A Cache holds fetched template text by reference URI. Entries are never
// modified once stored, so a populated cache can be shared between
// requests.
//
// The zero value is an empty cache ready to use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// Lookup returns a cached template.
func (c *Cache) Lookup(uri string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[uri]
	return text, ok
}

// Resolve returns a cached template. A template that has not been loaded is
// an unknown reference.
func (c *Cache) Resolve(uri string) (string, error) {
	text, ok := c.Lookup(uri)
	if !ok {
		return "", &UnknownReferenceError{URI: uri}
	}
	return text, nil
}

// put stores text unless the uri is already cached. The cached text is
// returned.
func (c *Cache) put(uri, text string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	if existing, ok := c.entries[uri]; ok {
		return existing
	}
	c.entries[uri] = text
	return text
}

// Fetch returns a cached template, fetching it from store on a miss.
func (c *Cache) Fetch(ctx context.Context, store Store, uri string) (string, error) {
	if text, ok := c.Lookup(uri); ok {
		return text, nil
	}
	text, err := store.Get(ctx, uri)
	if err != nil {
		return "", err
	}
	return c.put(uri, text), nil
}

// Load fetches all uris that are not cached yet. Fetches run concurrently;
// the first error cancels the remaining fetches.
func (c *Cache) Load(ctx context.Context, store Store, uris []string) error {
	g, ctx := errgroup.WithContext(ctx)
	seen := make(map[string]bool, len(uris))
	for _, uri := range uris {
		if seen[uri] {
			continue
		}
		seen[uri] = true
		if _, ok := c.Lookup(uri); ok {
			continue
		}
		uri := uri
		g.Go(func() error {
			_, err := c.Fetch(ctx, store, uri)
			return err
		})
	}
	return g.Wait()
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
