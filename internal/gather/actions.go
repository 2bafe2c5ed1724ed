package gather

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chat-stats/internal/common"
	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/db"
	"github.com/dtnitsch/chat-stats/pkg/stats"
	"github.com/dtnitsch/chat-stats/pkg/storage"
	"github.com/dtnitsch/chat-stats/pkg/transcript"
)

// GatherAction computes the statistics of --file and writes them to --output.
func GatherAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	config, err := common.ResolveConfig(c)
	if err != nil {
		return err
	}

	s := &storage.Storage{}
	source, err := common.LoadSource(s, config, c.String("file"))
	if err != nil {
		return err
	}

	statistics, err := Run(logger, source, config)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(statistics, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}
	if err := s.SaveFile(config.Output, data); err != nil {
		return err
	}

	attrs := []any{"output", config.Output, "num_tokens", statistics.NumTokens}
	if fs, err := s.GetFileStats(config.Output); err == nil {
		attrs = append(attrs, "size", humanize.Bytes(uint64(fs.SizeBytes)))
	}
	logger.Info("Statistics written", attrs...)
	return nil
}

// Run gathers statistics for source. When config.DBPath is set the run is
// recorded, and with config.Reuse a stored run over the same content and
// settings is returned instead of recomputing.
func Run(logger *slog.Logger, source *transcript.Source, config *models.StatsConfig) (*models.ChatStatistics, error) {
	if config.DBPath == "" {
		return stats.Gather(logger, source.Chat, config)
	}

	database, err := db.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	hash := common.ContentHash(source.Raw)
	if config.Reuse {
		run, found, err := database.FindRun(hash, config.Workers, string(config.Tail))
		if err != nil {
			return nil, err
		}
		if found {
			logger.Info("Reusing stored run", "run_id", run.RunID, "created_at", run.CreatedAt)
			return database.LoadStatistics(run.RunID)
		}
	}

	statistics, err := stats.Gather(logger, source.Chat, config)
	if err != nil {
		return nil, err
	}

	runID, err := database.InsertRun(&db.Run{
		ChatName:     source.Chat.Name,
		ChatID:       source.Chat.ID,
		SourcePath:   source.Path,
		ContentHash:  hash,
		Workers:      config.Workers,
		TailPolicy:   string(config.Tail),
		MessageCount: len(source.Chat.Messages),
	}, statistics)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	logger.Info("Run recorded", "run_id", runID, "db", database.Path())

	return statistics, nil
}
