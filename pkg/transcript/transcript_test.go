package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/caching"
	"github.com/dtnitsch/chat-stats/pkg/mapreduce"
	"github.com/dtnitsch/chat-stats/pkg/storage"
)

func kinds(entities []models.TextEntity) []models.TextEntityType {
	out := make([]models.TextEntityType, len(entities))
	for i, e := range entities {
		out[i] = e.Type
	}
	return out
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "result.json", want: FormatJSON},
		{path: "export/messages.html", want: FormatHTML},
		{path: "MESSAGES.HTM", want: FormatHTML},
		{path: "dump", want: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "result.json"))
	require.NoError(t, err)

	chat, err := DecodeJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "Weekend Hikers", chat.Name)
	assert.Equal(t, models.ChatTypePrivateSupergroup, chat.Type)
	assert.Equal(t, uint64(4242), chat.ID)
	require.Len(t, chat.Messages, 3)
	assert.Equal(t, models.MessageTypeService, chat.Messages[0].Type)

	result, err := mapreduce.Map(chat.Messages)
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyMap{"Hello": 1, "everyone": 1, "thanks": 1}, result.Tokens)
	assert.Equal(t, models.AuthorFrequencyMap{
		"Alice": {"Hello": 1, "everyone": 1},
		"Bob":   {"thanks": 1},
	}, result.Members)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"messages": [`))
	assert.Error(t, err)

	_, err = DecodeJSON([]byte(`{"messages": [{"type": "message", "text_entities": [{"type": "blink"}]}]}`))
	assert.ErrorIs(t, err, models.ErrUnknownEntityType)
}

func TestParseHTML(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "messages.html"))
	require.NoError(t, err)
	defer f.Close()

	chat, err := ParseHTML(f)
	require.NoError(t, err)

	assert.Equal(t, "Weekend Hikers", chat.Name)
	require.Len(t, chat.Messages, 5)

	assert.Equal(t, models.MessageTypeService, chat.Messages[0].Type)
	assert.Equal(t, uint64(0), chat.Messages[0].ID)
	assert.Equal(t, models.MessageTypeService, chat.Messages[1].Type)
	assert.Equal(t, uint64(1), chat.Messages[1].ID)

	first := chat.Messages[2]
	assert.Equal(t, uint64(2), first.ID)
	require.NotNil(t, first.From)
	assert.Equal(t, models.Person("Alice"), *first.From)
	assert.Equal(t, time.Date(2023, 3, 1, 10, 5, 30, 0, time.UTC), first.Date.Time)
	assert.Equal(t, []models.TextEntityType{
		models.EntityPlain, models.EntityBold, models.EntityPlain, models.EntityMention,
		models.EntityPlain, models.EntityPhone, models.EntityPlain,
	}, kinds(first.TextEntities))
	assert.Equal(t, "everyone", first.TextEntities[1].Text)
	assert.Equal(t, "@bob", first.TextEntities[3].Text)
	assert.Contains(t, first.TextEntities[2].Text, "\n")

	joined := chat.Messages[3]
	require.NotNil(t, joined.From)
	assert.Equal(t, models.Person("Alice"), *joined.From)
	assert.Equal(t, []models.TextEntityType{
		models.EntityPlain, models.EntityLink, models.EntityPlain, models.EntityTextLink,
		models.EntityPlain, models.EntityHashtag, models.EntityPlain,
	}, kinds(joined.TextEntities))

	last := chat.Messages[4]
	require.NotNil(t, last.From)
	assert.Equal(t, models.Person("Bob"), *last.From)
	assert.Equal(t, []models.TextEntityType{
		models.EntityPlain, models.EntityItalic, models.EntityPlain, models.EntitySpoiler,
		models.EntityPlain, models.EntityCode, models.EntityPlain, models.EntityEmail,
		models.EntityPlain, models.EntityBotCommand, models.EntityPlain,
	}, kinds(last.TextEntities))

	result, err := mapreduce.Map(chat.Messages)
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyMap{"maybe": 1, "sunday": 1, "gps": 1}, result.Members["Bob"])
	assert.Equal(t, 1, result.Members["Alice"]["trail"])
	assert.Equal(t, 1, result.Members["Alice"]["#hike"])
	assert.NotContains(t, result.Tokens, models.Token("@bob"))
	assert.NotContains(t, result.Tokens, models.Token("/start"))
}

func TestParseHTML_BadDate(t *testing.T) {
	doc := `<div class="message default" id="message9"><div class="body">` +
		`<div class="date" title="yesterday">x</div><div class="from_name">A</div>` +
		`<div class="text">hi</div></div></div>`

	_, err := ParseHTML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message 9")
}

func TestParseHTML_NoMessages(t *testing.T) {
	chat, err := ParseHTML(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, chat.Messages)
	assert.Empty(t, chat.Name)
}

func TestLoad(t *testing.T) {
	s := &storage.Storage{}

	src, err := Load(s, filepath.Join("testdata", "messages.html"))
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, src.Format)
	assert.NotEmpty(t, src.Raw)
	assert.Len(t, src.Chat.Messages, 5)

	src, err = Load(s, filepath.Join("testdata", "result.json"))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, src.Format)
	assert.Equal(t, "Weekend Hikers", src.Chat.Name)
}

func TestLoad_Errors(t *testing.T) {
	s := &storage.Storage{}
	dir := t.TempDir()

	_, err := Load(s, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, s.SaveFile(broken, []byte("not json")))
	_, err = Load(s, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestLoadCached(t *testing.T) {
	s := &storage.Storage{}
	cacheDir := filepath.Join(t.TempDir(), "cache")
	c, err := caching.NewCache(cacheDir, time.Hour)
	require.NoError(t, err)

	path := filepath.Join("testdata", "messages.html")
	first, err := LoadCached(s, c, path)
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	second, err := LoadCached(s, c, path)
	require.NoError(t, err)
	assert.Equal(t, first.Chat, second.Chat)

	// JSON exports are decoded directly and never cached.
	_, err = LoadCached(s, c, filepath.Join("testdata", "result.json"))
	require.NoError(t, err)
	entries, err = os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
