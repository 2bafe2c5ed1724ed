package caching

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "cache"), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	source := []byte("<html>export</html>")
	if _, ok := c.Get(source); ok {
		t.Fatal("Get() on empty cache reported a hit")
	}

	if err := c.Set(source, []byte(`{"name":"x"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok := c.Get(source)
	if !ok {
		t.Fatal("Get() after Set() reported a miss")
	}
	if string(data) != `{"name":"x"}` {
		t.Errorf("Get() = %s", data)
	}

	if _, ok := c.Get([]byte("<html>other</html>")); ok {
		t.Error("Get() for different content reported a hit")
	}
}

func TestCache_Expired(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	source := []byte("old export")
	if err := c.Set(source, []byte("{}")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, c.key(source)), old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if _, ok := c.Get(source); ok {
		t.Error("Get() returned an expired entry")
	}
}
