package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chat-stats/pkg/storage"
)

func RunsAction(c *cli.Context) error {
	database, err := openFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-36s %-16s %-24s %-10s %-8s %-10s %-10s\n",
		"ID", "Created", "Chat", "Messages", "Workers", "Tail", "Tokens")
	fmt.Println(strings.Repeat("-", 120))

	for _, r := range runs {
		fmt.Printf("%-36s %-16s %-24s %-10s %-8d %-10s %-10s\n",
			r.RunID,
			humanize.Time(r.CreatedAt),
			truncate(r.ChatName, 24),
			humanize.Comma(int64(r.MessageCount)),
			r.Workers,
			r.TailPolicy,
			humanize.Comma(int64(r.NumTokens)),
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'chat-stats run <id>' to see details\n")

	return nil
}

// RunAction shows a run's settings and top tokens, optionally for one --author.
func RunAction(c *cli.Context) error {
	database, err := openFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}

	if out := c.String("export"); out != "" {
		statistics, err := database.LoadStatistics(runID)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(statistics, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		s := &storage.Storage{}
		if err := s.SaveFile(out, data); err != nil {
			return err
		}
		fmt.Printf("Statistics exported to %s\n", out)
		return nil
	}

	author := c.String("author")
	top, err := database.TopTokens(runID, author, c.Int("top"))
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s (%s)\n", run.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))
	fmt.Printf("Chat:        %s (id %d)\n", run.ChatName, run.ChatID)
	fmt.Printf("Source:      %s\n", run.SourcePath)
	fmt.Printf("Messages:    %s\n", humanize.Comma(int64(run.MessageCount)))
	fmt.Printf("Settings:    %d workers, tail=%s\n", run.Workers, run.TailPolicy)
	fmt.Printf("Tokens:      %s distinct\n", humanize.Comma(int64(run.NumTokens)))

	title := "Top tokens"
	if author != "" {
		title += " for " + author
	}
	fmt.Printf("\n%s (%d):\n", title, len(top))
	fmt.Println(strings.Repeat("-", 60))
	for i, tc := range top {
		fmt.Printf("%3d. %-24s %s\n", i+1, tc.Token, humanize.Comma(int64(tc.Count)))
	}

	return nil
}

// DeleteRunAction removes a stored run.
func DeleteRunAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("run ID is required")
	}

	database, err := openFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID := c.Args().First()
	if err := database.DeleteRun(runID); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", runID)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
