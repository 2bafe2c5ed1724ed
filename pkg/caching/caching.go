package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a decoded transcript stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache provides a simple file-based cache with a TTL, keyed by the content
// of the source the cached value was derived from.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

func (c *Cache) key(source []byte) string {
	hash := sha256.Sum256(source)
	return fmt.Sprintf("%x.json", hash)
}

// Get returns the value stored for source and true if it is present and not
// expired.
func (c *Cache) Get(source []byte) ([]byte, bool) {
	filePath := filepath.Join(c.path, c.key(source))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for source.
func (c *Cache) Set(source []byte, data []byte) error {
	filePath := filepath.Join(c.path, c.key(source))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
