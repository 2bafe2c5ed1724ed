package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per gather invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    chat_name TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    source_path TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    workers INTEGER NOT NULL,
    tail_policy TEXT NOT NULL,
    message_count INTEGER NOT NULL,
    num_tokens INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash, workers, tail_policy);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Global token counts per run
CREATE TABLE IF NOT EXISTS run_tokens (
    run_id TEXT NOT NULL,
    token TEXT NOT NULL,
    count INTEGER NOT NULL CHECK (count > 0),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    PRIMARY KEY (run_id, token)
);

-- Per-author token counts per run
CREATE TABLE IF NOT EXISTS run_member_tokens (
    run_id TEXT NOT NULL,
    member TEXT NOT NULL,
    token TEXT NOT NULL,
    count INTEGER NOT NULL CHECK (count > 0),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    PRIMARY KEY (run_id, member, token)
);

CREATE INDEX IF NOT EXISTS idx_member_tokens_member ON run_member_tokens(run_id, member);
`
