// models/movie.go
package models

import "time"

// Movie is one entry of an atmovies listing page. The csv and json tags
// match the export files; db tags match the movies table.
type Movie struct {
	ID int64 `csv:"-" json:"-" db:"id"` // database primary key, not scraped

	AtmoviesID   string `csv:"atmovies_id" json:"atmovies_id" db:"atmovies_id"`
	FullTitle    string `csv:"full_title" json:"full_title" db:"full_title"`
	ChineseTitle string `csv:"chinese_title" json:"chinese_title" db:"chinese_title"`
	EnglishTitle string `csv:"english_title" json:"english_title" db:"english_title"`
	Runtime      *int   `csv:"runtime,omitempty" json:"runtime" db:"runtime"`                          // minutes
	ReleaseDate  string `csv:"release_date,omitempty" json:"release_date,omitempty" db:"release_date"` // YYYY-MM-DD
	PosterURL    string `csv:"poster_url,omitempty" json:"poster_url,omitempty" db:"poster_url"`
	DetailURL    string `csv:"detail_url" json:"detail_url" db:"-"`
	SourceURL    string `csv:"source_url" json:"source_url" db:"-"`

	CrawledAt time.Time `csv:"crawled_at,omitempty" json:"crawled_at" db:"-"`
}

// ScrapeRun records one pass over a listing page.
type ScrapeRun struct {
	ID         int64      `db:"id" json:"id"`
	SourceURL  string     `db:"source_url" json:"source_url"`
	MovieCount int        `db:"movie_count" json:"movie_count"`
	StartedAt  time.Time  `db:"started_at" json:"started_at"`
	FinishedAt *time.Time `db:"finished_at" json:"finished_at,omitempty"`
	Error      string     `db:"error_text" json:"error,omitempty"`
}
