package mapreduce

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/analytics"
)

var ErrMissingAuthor = errors.New("regular message has no author")

// ChunkResult holds the frequency maps built from one chunk. The maps are
// owned by the result and share nothing with other chunks.
type ChunkResult struct {
	Tokens  models.FrequencyMap
	Members models.AuthorFrequencyMap
}

// Map counts the tokens of every countable segment of every countable message.
// Each occurrence is added both to the chunk-wide map and to the map of the
// message's author.
func Map(messages []models.Message) (ChunkResult, error) {
	result := ChunkResult{
		Tokens:  make(models.FrequencyMap),
		Members: make(models.AuthorFrequencyMap),
	}

	for i := range messages {
		message := &messages[i]
		if !message.IsCountable() {
			continue
		}
		if message.From == nil {
			return ChunkResult{}, fmt.Errorf("%w: message %d", ErrMissingAuthor, message.ID)
		}
		from := *message.From

		var memberTokens models.FrequencyMap
		for j := range message.TextEntities {
			entity := &message.TextEntities[j]
			if !entity.IsCountable() {
				continue
			}
			for token := range analytics.Tokens(entity.Text) {
				if memberTokens == nil {
					memberTokens = result.Members[from]
					if memberTokens == nil {
						memberTokens = make(models.FrequencyMap)
						result.Members[from] = memberTokens
					}
				}
				result.Tokens[token]++
				memberTokens[token]++
			}
		}
	}

	return result, nil
}

// Merge adds every count of src into dst.
func Merge(dst, src models.FrequencyMap) {
	for token, count := range src {
		dst[token] += count
	}
}

// MergeByAuthor folds src into dst. Authors missing from dst take over the
// src map as is; src must not be used afterwards.
func MergeByAuthor(dst, src models.AuthorFrequencyMap) {
	for member, tokens := range src {
		if existing, ok := dst[member]; ok {
			Merge(existing, tokens)
		} else {
			dst[member] = tokens
		}
	}
}

// Reduce aggregates chunk results into a single pair of maps. Addition is
// commutative, so the order of results does not affect the outcome.
func Reduce(intermediate []ChunkResult) (models.FrequencyMap, models.AuthorFrequencyMap) {
	tokens := make(models.FrequencyMap)
	members := make(models.AuthorFrequencyMap)

	for _, result := range intermediate {
		Merge(tokens, result.Tokens)
		MergeByAuthor(members, result.Members)
	}

	return tokens, members
}
