// database/schema.go
package database

import (
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		atmovies_id VARCHAR(32) NOT NULL,
		full_title VARCHAR(512) NOT NULL,
		chinese_title VARCHAR(255) NOT NULL DEFAULT '',
		english_title VARCHAR(255) NOT NULL DEFAULT '',
		runtime INT NULL,
		release_date DATE NULL,
		poster_url VARCHAR(512) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_movies_atmovies_id (atmovies_id)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS scrape_runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		source_url VARCHAR(512) NOT NULL,
		movie_count INT NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NULL,
		error_text TEXT NULL
	) DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the movies and scrape_runs tables when missing.
func EnsureSchema() error {
	if DB == nil {
		return ErrNotInitialized
	}
	for _, stmt := range schema {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Println("Database: schema is up to date.")
	return nil
}
