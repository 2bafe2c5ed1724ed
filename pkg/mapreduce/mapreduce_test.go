package mapreduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/chat-stats/models"
)

func person(name string) *models.Person {
	p := models.Person(name)
	return &p
}

func plain(from, text string) models.Message {
	return models.Message{
		Type:         models.MessageTypeRegular,
		From:         person(from),
		TextEntities: []models.TextEntity{{Type: models.EntityPlain, Text: text}},
	}
}

func TestMap(t *testing.T) {
	messages := []models.Message{
		plain("Alice", "hello world"),
		plain("Alice", "hello!"),
		plain("Bob", "world"),
	}

	got, err := Map(messages)
	require.NoError(t, err)

	assert.Equal(t, models.FrequencyMap{"hello": 2, "world": 2}, got.Tokens)
	assert.Equal(t, models.AuthorFrequencyMap{
		"Alice": {"hello": 2, "world": 1},
		"Bob":   {"world": 1},
	}, got.Members)
}

func TestMap_SkipsServiceMessages(t *testing.T) {
	messages := []models.Message{
		{
			Type:         models.MessageTypeService,
			TextEntities: []models.TextEntity{{Type: models.EntityPlain, Text: "Alice joined the group"}},
		},
	}

	got, err := Map(messages)
	require.NoError(t, err)
	assert.Empty(t, got.Tokens)
	assert.Empty(t, got.Members)
}

func TestMap_SkipsMetaSegments(t *testing.T) {
	metaKinds := []models.TextEntityType{
		models.EntityPhone, models.EntityBotCommand, models.EntityEmail,
		models.EntityCustomEmoji, models.EntityMention,
	}
	for _, kind := range metaKinds {
		t.Run(kind.String(), func(t *testing.T) {
			messages := []models.Message{{
				Type:         models.MessageTypeRegular,
				From:         person("Alice"),
				TextEntities: []models.TextEntity{{Type: kind, Text: "counted not"}},
			}}

			got, err := Map(messages)
			require.NoError(t, err)
			assert.Empty(t, got.Tokens)
			assert.Empty(t, got.Members)
		})
	}
}

func TestMap_CountsStyledSegments(t *testing.T) {
	messages := []models.Message{{
		Type: models.MessageTypeRegular,
		From: person("Alice"),
		TextEntities: []models.TextEntity{
			{Type: models.EntityPlain, Text: "see "},
			{Type: models.EntityBold, Text: "this"},
			{Type: models.EntityMention, Text: "@bob"},
			{Type: models.EntityMentionName, Text: "Bob"},
			{Type: models.EntityHashtag, Text: "#news"},
		},
	}}

	got, err := Map(messages)
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyMap{"see": 1, "this": 1, "Bob": 1, "#news": 1}, got.Tokens)
}

func TestMap_MissingAuthor(t *testing.T) {
	messages := []models.Message{
		plain("Alice", "fine"),
		{ID: 7, Type: models.MessageTypeRegular, TextEntities: []models.TextEntity{{Type: models.EntityPlain, Text: "orphan"}}},
	}

	_, err := Map(messages)
	assert.ErrorIs(t, err, ErrMissingAuthor)
	assert.Contains(t, err.Error(), "message 7")
}

func TestMap_ServiceMessageWithoutAuthorIsFine(t *testing.T) {
	messages := []models.Message{{ID: 1, Type: models.MessageTypeService}}

	_, err := Map(messages)
	assert.NoError(t, err)
}

func TestMap_AuthorWithoutTokensIsNotListed(t *testing.T) {
	messages := []models.Message{plain("Alice", "😀 !!")}

	got, err := Map(messages)
	require.NoError(t, err)
	assert.Empty(t, got.Members)
}

func TestMerge(t *testing.T) {
	dst := models.FrequencyMap{"a": 1, "b": 2}
	Merge(dst, models.FrequencyMap{"b": 3, "c": 4})

	assert.Equal(t, models.FrequencyMap{"a": 1, "b": 5, "c": 4}, dst)
}

func TestMergeByAuthor(t *testing.T) {
	dst := models.AuthorFrequencyMap{"Alice": {"a": 1}}
	bob := models.FrequencyMap{"x": 2}
	MergeByAuthor(dst, models.AuthorFrequencyMap{
		"Alice": {"a": 2, "b": 1},
		"Bob":   bob,
	})

	assert.Equal(t, models.AuthorFrequencyMap{
		"Alice": {"a": 3, "b": 1},
		"Bob":   {"x": 2},
	}, dst)
	// New authors are moved over, not copied.
	bob["y"] = 1
	assert.Equal(t, 1, dst["Bob"]["y"])
}

func TestReduce_OrderIndependent(t *testing.T) {
	results := func() []ChunkResult {
		return []ChunkResult{
			{Tokens: models.FrequencyMap{"a": 1, "b": 1}, Members: models.AuthorFrequencyMap{"A": {"a": 1, "b": 1}}},
			{Tokens: models.FrequencyMap{"b": 2}, Members: models.AuthorFrequencyMap{"B": {"b": 2}}},
			{Tokens: models.FrequencyMap{"a": 4, "c": 1}, Members: models.AuthorFrequencyMap{"A": {"a": 4}, "B": {"c": 1}}},
		}
	}

	forward := results()
	tokens1, members1 := Reduce(forward)

	backward := results()
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	tokens2, members2 := Reduce(backward)

	assert.Equal(t, tokens1, tokens2)
	assert.Equal(t, members1, members2)
	assert.Equal(t, models.FrequencyMap{"a": 5, "b": 3, "c": 1}, tokens1)
}

func TestReduce_Empty(t *testing.T) {
	tokens, members := Reduce(nil)
	assert.NotNil(t, tokens)
	assert.NotNil(t, members)
	assert.Empty(t, tokens)
	assert.Empty(t, members)
}
