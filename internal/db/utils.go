package db

import (
	"fmt"

	dbpkg "github.com/dtnitsch/chat-stats/pkg/db"
	"github.com/urfave/cli/v2"
)

// openFromFlags opens the database named by --db, falling back to the default name.
func openFromFlags(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" {
		path = dbpkg.DefaultDBName
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}

	runs, err := database.ListRuns(1)
	if err != nil {
		return "", fmt.Errorf("failed to get latest run: %w", err)
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs found. Run 'chat-stats gather --file ... --db ...' first")
	}
	return runs[0].RunID, nil
}
