// Package cache persists completed translation and summary results keyed by
// document content, so re-submitting the same paper returns instantly. A
// single JSON file on disk backs the in-memory map.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type entry struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
}

// Stats reports the cache's current shape.
type Stats struct {
	Entries int    `json:"entries"`
	Path    string `json:"path"`
}

// Cache is a file-backed result cache. A zero path disables persistence but
// keeps the in-memory map working.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]entry
}

func New(path string) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]entry),
	}
	c.load()
	return c
}

// Key derives a cache key from document bytes, the processing mode, the
// target language, and the effective page limit. The limit is part of the
// key because a truncated extraction produces a different result.
func Key(pdfData []byte, mode, targetLang string, maxPages int) string {
	sum := sha256.Sum256(pdfData)
	return fmt.Sprintf("%s:%s:%s:%d", hex.EncodeToString(sum[:]), mode, targetLang, maxPages)
}

// Get unmarshals a cached result into out. Returns false on miss.
func (c *Cache) Get(key string, out any) bool {
	c.mu.Lock()
	ent, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(ent.Value, out); err != nil {
		return false
	}
	return true
}

// Set stores a result and persists the cache file.
func (c *Cache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{Value: raw, CreatedAt: time.Now()}
	return c.persistLocked()
}

// Clear drops all entries and rewrites the cache file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return c.persistLocked()
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), Path: c.path}
}

func (c *Cache) load() {
	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}
	c.entries = entries
}

func (c *Cache) persistLocked() error {
	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
