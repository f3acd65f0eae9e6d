package project

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dhamidi/luafmt/format"
)

// CacheFileName is the default cache file, kept next to the configuration.
const CacheFileName = ".luafmt-cache"

const cacheSchemaVersion = 1

// CacheEntry records that a file with ContentHash is already formatted
// under the options hashing to OptionsHash.
type CacheEntry struct {
	ContentHash string `msgpack:"content"`
	OptionsHash string `msgpack:"options"`
}

type cacheFile struct {
	Schema  int                   `msgpack:"schema"`
	Entries map[string]CacheEntry `msgpack:"entries"`
}

// Cache remembers files that are known to be formatted so batch runs can
// skip them. It is safe for concurrent use.
type Cache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]CacheEntry
	dirty   bool
}

// OpenCache reads the cache at path. A missing file, or one written by a
// different schema, gives an empty cache.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]CacheEntry)}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	var data cacheFile
	if err := msgpack.NewDecoder(f).Decode(&data); err != nil {
		log.Warningf("ignoring unreadable cache %s: %v", path, err)
		return c, nil
	}
	if data.Schema == cacheSchemaVersion && data.Entries != nil {
		c.entries = data.Entries
	}
	return c, nil
}

// Fresh reports whether content of path was recorded as formatted with
// opts.
func (c *Cache) Fresh(path string, content []byte, opts format.Options) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[c.key(path)]
	return ok && entry.ContentHash == contentHash(content) && entry.OptionsHash == optionsHash(opts)
}

// Record marks content of path as formatted with opts.
func (c *Cache) Record(path string, content []byte, opts format.Options) {
	if c == nil {
		return
	}
	entry := CacheEntry{ContentHash: contentHash(content), OptionsHash: optionsHash(opts)}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.key(path)
	if c.entries[key] != entry {
		c.entries[key] = entry
		c.dirty = true
	}
}

// Save writes the cache if it changed since it was opened. The file is
// replaced atomically.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	dir := filepath.Dir(c.path)
	f, err := os.CreateTemp(dir, ".luafmt-cache-*")
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(cacheFile{Schema: cacheSchemaVersion, Entries: c.entries}); err != nil {
		f.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(f.Name(), c.path); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	c.dirty = false
	return nil
}

func (c *Cache) key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// optionsHash hashes the msgpack encoding of opts, so any option change
// invalidates every entry.
func optionsHash(opts format.Options) string {
	data, err := msgpack.Marshal(opts)
	if err != nil {
		return ""
	}
	return contentHash(data)
}
