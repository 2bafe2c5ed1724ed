// Package transcript decodes exported chat transcripts into models.Chat.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/caching"
	"github.com/dtnitsch/chat-stats/pkg/storage"
)

// Format is the on-disk layout of an export.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// DetectFormat guesses the export format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatJSON
	}
}

// Source is a loaded transcript together with the raw bytes it came from.
type Source struct {
	Path   string
	Format Format
	Raw    []byte
	Chat   *models.Chat
}

// Load reads and decodes the transcript at path.
func Load(s *storage.Storage, path string) (*Source, error) {
	return LoadCached(s, nil, path)
}

// LoadCached is Load with HTML decoding results kept in c. Cached entries
// are stored as JSON exports keyed by the raw HTML. A nil cache disables
// caching.
func LoadCached(s *storage.Storage, c *caching.Cache, path string) (*Source, error) {
	raw, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format := DetectFormat(path)
	var chat *models.Chat
	switch format {
	case FormatHTML:
		chat, err = decodeHTMLCached(c, raw)
	default:
		chat, err = DecodeJSON(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s transcript %s: %w", format, path, err)
	}

	return &Source{Path: path, Format: format, Raw: raw, Chat: chat}, nil
}

func decodeHTMLCached(c *caching.Cache, raw []byte) (*models.Chat, error) {
	if c != nil {
		if data, ok := c.Get(raw); ok {
			if chat, err := DecodeJSON(data); err == nil {
				return chat, nil
			}
		}
	}

	chat, err := ParseHTML(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	if c != nil {
		data, err := json.Marshal(chat)
		if err != nil {
			return nil, err
		}
		if err := c.Set(raw, data); err != nil {
			return nil, err
		}
	}
	return chat, nil
}

// DecodeJSON decodes a JSON chat export. Unknown fields are ignored, unknown
// enum values are rejected.
func DecodeJSON(data []byte) (*models.Chat, error) {
	var chat models.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}
