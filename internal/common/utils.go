package common

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/caching"
	"github.com/dtnitsch/chat-stats/pkg/storage"
	"github.com/dtnitsch/chat-stats/pkg/transcript"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// NewLogger builds the JSON stderr logger used by every action.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ResolveConfig loads --config (if any) and applies flag overrides on top.
func ResolveConfig(c *cli.Context) (*models.StatsConfig, error) {
	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("jobs") {
		config.Workers = c.Int("jobs")
	}
	if c.IsSet("tail") {
		config.Tail = models.TailPolicy(c.String("tail"))
	}
	if c.IsSet("output") {
		config.Output = c.String("output")
	}
	if c.IsSet("db") {
		config.DBPath = c.String("db")
	}
	if c.IsSet("reuse") {
		config.Reuse = c.Bool("reuse")
	}
	if c.IsSet("cache-dir") {
		config.CacheDir = c.String("cache-dir")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadSource loads the transcript at path, using the decode cache when
// config.CacheDir is set.
func LoadSource(s *storage.Storage, config *models.StatsConfig, path string) (*transcript.Source, error) {
	if path == "" {
		return nil, fmt.Errorf("no transcript provided via --file flag")
	}
	if !s.HasFile(path) {
		return nil, fmt.Errorf("transcript not found: %s", path)
	}
	if config.CacheDir == "" {
		return transcript.Load(s, path)
	}

	cache, err := caching.NewCache(config.CacheDir, caching.DefaultTTL)
	if err != nil {
		return nil, err
	}
	return transcript.LoadCached(s, cache, path)
}
