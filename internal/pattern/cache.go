package pattern

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ignite/email-enrich/internal/domain"
)

// Cache holds every DomainPatternRecord learned this run, keyed by
// lowercase domain. It hydrates from a JSON file at startup and flushes
// back with a full overwrite at batch boundaries. Reads vastly
// outnumber writes once the common domains are learned.
type Cache struct {
	mu    sync.RWMutex
	path  string
	items map[string]domain.DomainPatternRecord
	dirty bool
}

// NewCache creates an empty cache backed by the given file path. An
// empty path keeps the cache purely in memory.
func NewCache(path string) *Cache {
	return &Cache{
		path:  path,
		items: make(map[string]domain.DomainPatternRecord),
	}
}

// Hydrate loads the persisted records. A missing file means an empty
// cache, not an error.
func (c *Cache) Hydrate() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading pattern cache: %w", err)
	}

	items := make(map[string]domain.DomainPatternRecord)
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parsing pattern cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, rec := range items {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if rec.Domain == "" {
			rec.Domain = key
		}
		c.items[key] = rec
	}
	return nil
}

// Get returns the record for a domain, case-insensitively.
func (c *Cache) Get(dom string) (domain.DomainPatternRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.items[strings.ToLower(strings.TrimSpace(dom))]
	return rec, ok
}

// Put stores a record and marks the cache dirty. Records without a
// domain are ignored.
func (c *Cache) Put(rec domain.DomainPatternRecord) {
	dom := strings.ToLower(strings.TrimSpace(rec.Domain))
	if dom == "" {
		return
	}
	rec.Domain = dom

	c.mu.Lock()
	c.items[dom] = rec
	c.dirty = true
	c.mu.Unlock()
}

// Len reports how many domains the cache knows.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Dirty reports whether there are unflushed writes.
func (c *Cache) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Flush overwrites the cache file with the current records. It is a
// no-op when nothing changed since the last flush or when the cache is
// memory-only.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty || c.path == "" {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating pattern cache directory: %w", err)
		}
	}
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("creating pattern cache file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.items); err != nil {
		return fmt.Errorf("writing pattern cache: %w", err)
	}

	c.dirty = false
	return nil
}
