package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Run represents one batch execution of the bot.
type Run struct {
	RunID       int64
	StartedAt   time.Time
	StartTitle  string
	NextTitle   sql.NullString
	PageCount   int
	EditCount   int
	InsertCount int
	Wrapped     bool
	DryRun      bool
	Status      string
	Error       sql.NullString
}

// RunPage is the outcome for one page within a run.
type RunPage struct {
	Title      string
	Insertions int
	Edited     bool
}

// InsertRun records the start of a batch and returns its run ID.
func (db *DB) InsertRun(startTitle string, dryRun bool) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO runs (start_title, dry_run) VALUES (?, ?)",
		startTitle, dryRun,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// CompleteRun marks a run as completed and stores its batch totals.
func (db *DB) CompleteRun(runID int64, nextTitle string, pageCount, editCount, insertCount int, wrapped bool) error {
	_, err := db.Exec(
		`UPDATE runs
		 SET status = 'completed', next_title = ?, page_count = ?, edit_count = ?, insert_count = ?, wrapped = ?
		 WHERE run_id = ?`,
		nextTitle, pageCount, editCount, insertCount, wrapped, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run %d: %w", runID, err)
	}
	return nil
}

// FailRun marks a run as failed with its error message. The wiki bookmark is
// untouched on failure, so the same batch is retried next run.
func (db *DB) FailRun(runID int64, errMsg string) error {
	_, err := db.Exec(
		"UPDATE runs SET status = 'failed', error = ? WHERE run_id = ?",
		errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark run %d failed: %w", runID, err)
	}
	return nil
}

// InsertRunPage records the outcome for one scanned page.
func (db *DB) InsertRunPage(runID int64, title string, insertions int, edited bool) error {
	_, err := db.Exec(
		"INSERT INTO run_pages (run_id, title, insertions, edited) VALUES (?, ?, ?, ?)",
		runID, title, insertions, edited,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run page %q: %w", title, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	rows, err := db.Query(
		`SELECT run_id, started_at, start_title, next_title, page_count, edit_count, insert_count, wrapped, dry_run, status, error
		 FROM runs
		 ORDER BY run_id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.StartTitle, &r.NextTitle,
			&r.PageCount, &r.EditCount, &r.InsertCount, &r.Wrapped, &r.DryRun, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunByID returns one run.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(
		`SELECT run_id, started_at, start_title, next_title, page_count, edit_count, insert_count, wrapped, dry_run, status, error
		 FROM runs
		 WHERE run_id = ?`,
		runID,
	).Scan(&r.RunID, &r.StartedAt, &r.StartTitle, &r.NextTitle,
		&r.PageCount, &r.EditCount, &r.InsertCount, &r.Wrapped, &r.DryRun, &r.Status, &r.Error)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", runID, err)
	}
	return &r, nil
}

// LatestRunID returns the most recent run's ID.
func (db *DB) LatestRunID() (int64, error) {
	var id int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded yet")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id, nil
}

// GetRunPages returns the per-page outcomes for a run, in scan order.
func (db *DB) GetRunPages(runID int64) ([]RunPage, error) {
	rows, err := db.Query(
		"SELECT title, insertions, edited FROM run_pages WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pages: %w", err)
	}
	defer rows.Close()

	var pages []RunPage
	for rows.Next() {
		var p RunPage
		if err := rows.Scan(&p.Title, &p.Insertions, &p.Edited); err != nil {
			return nil, fmt.Errorf("failed to scan run page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
