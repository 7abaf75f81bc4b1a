package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per batch execution
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    start_title TEXT NOT NULL,
    next_title TEXT,
    page_count INTEGER DEFAULT 0,
    edit_count INTEGER DEFAULT 0,
    insert_count INTEGER DEFAULT 0,
    wrapped BOOLEAN DEFAULT 0,
    dry_run BOOLEAN DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running',   -- running, completed, failed
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

-- Run pages: per-page outcome within a run
CREATE TABLE IF NOT EXISTS run_pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    insertions INTEGER DEFAULT 0,
    edited BOOLEAN DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_pages_run ON run_pages(run_id);
`
