package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chat-stats/internal/db"
	"github.com/dtnitsch/chat-stats/internal/gather"
	"github.com/dtnitsch/chat-stats/internal/summary"
	"github.com/dtnitsch/chat-stats/models"
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log per-chunk details"},
	}
}

func statsFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "chat export to analyze (.json or .html)"},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "number of workers (default: number of CPUs)"},
		&cli.StringFlag{Name: "tail", Usage: "what to do with messages left over after partitioning: distribute or drop"},
		&cli.StringFlag{Name: "db", Usage: "record the run in this SQLite database"},
		&cli.BoolFlag{Name: "reuse", Usage: "reuse a recorded run of the same content and settings"},
		&cli.StringFlag{Name: "cache-dir", Usage: "cache decoded HTML transcripts in this directory"},
	}, loggingFlags()...)
}

func gatherFlags() []cli.Flag {
	return append(statsFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: models.DefaultOutput, Usage: "statistics output file"},
	)
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db", Value: "chat-stats.db", Usage: "SQLite database with recorded runs"},
	}
}

func main() {
	app := &cli.App{
		Name:   "chat-stats",
		Usage:  "word frequency statistics for exported chats",
		Flags:  gatherFlags(),
		Action: gather.GatherAction,
		Commands: []*cli.Command{
			{
				Name:   "gather",
				Usage:  "compute token statistics and write them as JSON",
				Flags:  gatherFlags(),
				Action: gather.GatherAction,
			},
			{
				Name:  "summary",
				Usage: "print the most frequent tokens overall and per member",
				Flags: append(statsFlags(),
					&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Value: 10, Usage: "tokens to show per list"},
					&cli.StringFlag{Name: "manifest", Usage: "also write the summary to this .json or .yaml file"},
					&cli.BoolFlag{Name: "no-language", Usage: "skip language detection"},
				),
				Action: summary.SummaryAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded runs",
				Flags: append(dbFlags(),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list"},
				),
				Action: db.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show a recorded run (latest if no ID given)",
				ArgsUsage: "[run-id]",
				Flags: append(dbFlags(),
					&cli.StringFlag{Name: "author", Usage: "show tokens of this member only"},
					&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Value: 25, Usage: "tokens to show"},
					&cli.StringFlag{Name: "export", Usage: "write the run's full statistics to this JSON file"},
				),
				Action: db.RunAction,
				Subcommands: []*cli.Command{
					{
						Name:      "delete",
						Usage:     "delete a recorded run",
						ArgsUsage: "<run-id>",
						Flags:     dbFlags(),
						Action:    db.DeleteRunAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
