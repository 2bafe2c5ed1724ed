// Package stats computes word-frequency statistics for a chat transcript.
package stats

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/mapreduce"
)

// Gather splits the transcript into config.Workers chunks, counts each chunk
// in its own goroutine and merges the per-chunk maps once every worker is
// done. The chat is only read. Any worker error aborts the run and no partial
// statistics are returned.
func Gather(logger *slog.Logger, chat *models.Chat, config *models.StatsConfig) (*models.ChatStatistics, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	messages := chat.Messages
	chunks, err := mapreduce.Partition(len(messages), config.Workers, config.Tail)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting gather", "chat", chat.Name, "messages", len(messages), "workers", config.Workers, "tail", config.Tail)
	if dropped := mapreduce.Dropped(len(messages), chunks); dropped > 0 {
		logger.Warn("Trailing messages excluded by tail policy", "dropped", dropped, "tail", config.Tail)
	}

	results := make([]mapreduce.ChunkResult, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		logger.Debug("Chunk assigned", "chunk", i, "start", chunk.Start, "end", chunk.End)
		g.Go(func() error {
			result, err := mapreduce.Map(messages[chunk.Start:chunk.End])
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = result
			logger.Debug("Chunk finished", "chunk", i, "tokens", len(result.Tokens), "members", len(result.Members))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tokens, members := mapreduce.Reduce(results)
	statistics := models.NewChatStatistics(tokens, members)
	logger.Info("Gather finished", "num_tokens", statistics.NumTokens, "members", len(statistics.MembersTokens))

	return statistics, nil
}
