package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/chat-stats/models"
	"github.com/dtnitsch/chat-stats/pkg/mapreduce"
)

var ErrRunNotFound = errors.New("run not found")

// Run represents one recorded gather invocation
type Run struct {
	RunID        string
	CreatedAt    time.Time
	ChatName     string
	ChatID       uint64
	SourcePath   string
	ContentHash  string
	Workers      int
	TailPolicy   string
	MessageCount int
	NumTokens    int
}

// InsertRun stores run and its statistics in one transaction.
// RunID and CreatedAt are filled in when empty. Returns the run ID.
func (db *DB) InsertRun(run *Run, stats *models.ChatStatistics) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.NumTokens = stats.NumTokens

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, created_at, chat_name, chat_id, source_path, content_hash,
			workers, tail_policy, message_count, num_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CreatedAt, run.ChatName, int64(run.ChatID), run.SourcePath, run.ContentHash,
		run.Workers, run.TailPolicy, run.MessageCount, run.NumTokens)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	tokenStmt, err := tx.Prepare("INSERT INTO run_tokens (run_id, token, count) VALUES (?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer tokenStmt.Close()
	for token, count := range stats.Tokens {
		if _, err := tokenStmt.Exec(run.RunID, string(token), count); err != nil {
			return "", fmt.Errorf("failed to insert token %q: %w", token, err)
		}
	}

	memberStmt, err := tx.Prepare("INSERT INTO run_member_tokens (run_id, member, token, count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare member token insert: %w", err)
	}
	defer memberStmt.Close()
	for member, tokens := range stats.MembersTokens {
		for token, count := range tokens {
			if _, err := memberStmt.Exec(run.RunID, string(member), string(token), count); err != nil {
				return "", fmt.Errorf("failed to insert token %q for %q: %w", token, member, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.RunID, nil
}

const runColumns = `run_id, created_at, chat_name, chat_id, source_path, content_hash,
	workers, tail_policy, message_count, num_tokens`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var chatID int64
	err := row.Scan(&r.RunID, &r.CreatedAt, &r.ChatName, &chatID, &r.SourcePath, &r.ContentHash,
		&r.Workers, &r.TailPolicy, &r.MessageCount, &r.NumTokens)
	if err != nil {
		return nil, err
	}
	r.ChatID = uint64(chatID)
	return &r, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, run_id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunByID retrieves a run by ID.
func (db *DB) GetRunByID(runID string) (*Run, error) {
	r, err := scanRun(db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// FindRun returns the newest run computed from the same content with the same
// settings. found is false when there is none.
func (db *DB) FindRun(contentHash string, workers int, tailPolicy string) (run *Run, found bool, err error) {
	r, err := scanRun(db.QueryRow(`
		SELECT `+runColumns+` FROM runs
		WHERE content_hash = ? AND workers = ? AND tail_policy = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, contentHash, workers, tailPolicy))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find run: %w", err)
	}
	return r, true, nil
}

// LoadStatistics rebuilds the statistics stored for a run.
func (db *DB) LoadStatistics(runID string) (*models.ChatStatistics, error) {
	if _, err := db.GetRunByID(runID); err != nil {
		return nil, err
	}

	tokens := make(models.FrequencyMap)
	rows, err := db.Query("SELECT token, count FROM run_tokens WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	for rows.Next() {
		var token string
		var count int
		if err := rows.Scan(&token, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens[models.Token(token)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members := make(models.AuthorFrequencyMap)
	rows, err = db.Query("SELECT member, token, count FROM run_member_tokens WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member tokens: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var member, token string
		var count int
		if err := rows.Scan(&member, &token, &count); err != nil {
			return nil, fmt.Errorf("failed to scan member token: %w", err)
		}
		m := members[models.Person(member)]
		if m == nil {
			m = make(models.FrequencyMap)
			members[models.Person(member)] = m
		}
		m[models.Token(token)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return models.NewChatStatistics(tokens, members), nil
}

// TopTokens returns the most frequent tokens of a run, overall or for a
// single member when member is non-empty. limit <= 0 returns every token.
func (db *DB) TopTokens(runID, member string, limit int) ([]mapreduce.TokenCount, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows *sql.Rows
	var err error
	if member == "" {
		rows, err = db.Query(`
			SELECT token, count FROM run_tokens
			WHERE run_id = ?
			ORDER BY count DESC, token
			LIMIT ?
		`, runID, limit)
	} else {
		rows, err = db.Query(`
			SELECT token, count FROM run_member_tokens
			WHERE run_id = ? AND member = ?
			ORDER BY count DESC, token
			LIMIT ?
		`, runID, member, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query top tokens: %w", err)
	}
	defer rows.Close()

	var top []mapreduce.TokenCount
	for rows.Next() {
		var tc mapreduce.TokenCount
		var token string
		if err := rows.Scan(&token, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tc.Token = models.Token(token)
		top = append(top, tc)
	}
	return top, rows.Err()
}

// DeleteRun removes a run and its token tables.
func (db *DB) DeleteRun(runID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is a per-connection pragma, so children are removed explicitly.
	if _, err := tx.Exec("DELETE FROM run_member_tokens WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete member tokens: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM run_tokens WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return tx.Commit()
}
