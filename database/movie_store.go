// database/movie_store.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/time2cinema/scrape/models"
)

// ErrMovieNotFound is returned when an update matches no row.
var ErrMovieNotFound = errors.New("movie not found")

const releaseDateLayout = "2006-01-02"

// UpsertMovies inserts or updates movies keyed on atmovies_id, all in one
// transaction. Runtime, release date and poster are only overwritten when
// the new scrape has them. It returns the number of movies written.
func UpsertMovies(movies []models.Movie) (int, error) {
	if DB == nil {
		return 0, ErrNotInitialized
	}
	if len(movies) == 0 {
		log.Println("Database: no movies provided to save.")
		return 0, nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for movies: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO movies (
			atmovies_id, full_title, chinese_title, english_title,
			runtime, release_date, poster_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			full_title = VALUES(full_title),
			chinese_title = VALUES(chinese_title),
			english_title = VALUES(english_title),
			runtime = COALESCE(VALUES(runtime), runtime),
			release_date = COALESCE(VALUES(release_date), release_date),
			poster_url = COALESCE(VALUES(poster_url), poster_url),
			updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare movie upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		var runtime sql.NullInt64
		if m.Runtime != nil {
			runtime = sql.NullInt64{Int64: int64(*m.Runtime), Valid: true}
		}
		var releaseDate sql.NullString
		if m.ReleaseDate != "" {
			releaseDate = sql.NullString{String: m.ReleaseDate, Valid: true}
		}
		var poster sql.NullString
		if m.PosterURL != "" {
			poster = sql.NullString{String: m.PosterURL, Valid: true}
		}

		_, err := stmt.Exec(
			m.AtmoviesID, m.FullTitle, m.ChineseTitle, m.EnglishTitle,
			runtime, releaseDate, poster,
		)
		if err != nil {
			log.Printf("ERROR Database: failed to save movie %s (%s): %v", m.AtmoviesID, m.FullTitle, err)
			return 0, fmt.Errorf("failed to upsert movie %s: %w", m.AtmoviesID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for movies: %w", err)
	}

	log.Printf("Database: saved %d movies.\n", len(movies))
	return len(movies), nil
}

// GetAllMovies returns the stored titles, ordered by id.
func GetAllMovies() ([]models.Movie, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}

	rows, err := DB.Query(`
		SELECT id, atmovies_id, full_title, chinese_title, english_title, release_date
		FROM movies
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		var chinese, english sql.NullString
		var releaseDate sql.NullTime
		if err := rows.Scan(&m.ID, &m.AtmoviesID, &m.FullTitle, &chinese, &english, &releaseDate); err != nil {
			log.Printf("ERROR Database: failed to scan movie row: %v", err)
			continue
		}
		m.ChineseTitle = chinese.String
		m.EnglishTitle = english.String
		if releaseDate.Valid {
			m.ReleaseDate = releaseDate.Time.Format(releaseDateLayout)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movie rows: %w", err)
	}
	return movies, nil
}

// UpdateMovieTitles overwrites the split titles of one movie.
func UpdateMovieTitles(id int64, chinese, english string) error {
	if DB == nil {
		return ErrNotInitialized
	}

	res, err := DB.Exec(`
		UPDATE movies
		SET chinese_title = ?, english_title = ?, updated_at = NOW()
		WHERE id = ?
	`, chinese, english, id)
	if err != nil {
		return fmt.Errorf("failed to update titles for movie %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result for movie %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("movie %d: %w", id, ErrMovieNotFound)
	}
	return nil
}
