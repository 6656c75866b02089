// database/scrape_run_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/time2cinema/scrape/models"
)

// LogScrapeRun records one pass over a listing page and returns its id.
func LogScrapeRun(run models.ScrapeRun) (int64, error) {
	if DB == nil {
		return 0, ErrNotInitialized
	}

	var finishedAt sql.NullTime
	if run.FinishedAt != nil {
		finishedAt = sql.NullTime{Time: *run.FinishedAt, Valid: true}
	}
	var errText sql.NullString
	if run.Error != "" {
		errText = sql.NullString{String: run.Error, Valid: true}
	}

	res, err := DB.Exec(`
		INSERT INTO scrape_runs (source_url, movie_count, started_at, finished_at, error_text)
		VALUES (?, ?, ?, ?, ?)
	`, run.SourceURL, run.MovieCount, run.StartedAt, finishedAt, errText)
	if err != nil {
		log.Printf("ERROR Database: failed to log scrape run for '%s': %v", run.SourceURL, err)
		return 0, fmt.Errorf("failed to log scrape run for %s: %w", run.SourceURL, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read scrape run id: %w", err)
	}
	log.Printf("Database: logged scrape run %d for '%s' (%d movies)\n", id, run.SourceURL, run.MovieCount)
	return id, nil
}

// GetScrapeRuns returns the most recent runs, newest first.
func GetScrapeRuns(limit int) ([]models.ScrapeRun, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := DB.Query(`
		SELECT id, source_url, movie_count, started_at, finished_at, error_text
		FROM scrape_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrape_runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ScrapeRun
	for rows.Next() {
		var r models.ScrapeRun
		var finishedAt sql.NullTime
		var errText sql.NullString
		if err := rows.Scan(&r.ID, &r.SourceURL, &r.MovieCount, &r.StartedAt, &finishedAt, &errText); err != nil {
			log.Printf("ERROR Database: failed to scan scrape_run row: %v", err)
			continue
		}
		if finishedAt.Valid {
			r.FinishedAt = &finishedAt.Time
		}
		r.Error = errText.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scrape_run rows: %w", err)
	}
	return runs, nil
}
