// scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/jszwec/csvutil"
	"github.com/time2cinema/scrape/models"
)

// ParseMoviesCsv reads a movie export written by the scrape command.
// Columns are matched by the csv tags on models.Movie; unknown columns are
// ignored.
func ParseMoviesCsv(reader io.Reader) ([]models.Movie, error) {
	var movies []models.Movie

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("movie CSV is empty")
		}
		return nil, fmt.Errorf("failed to create CSV decoder for movies: %w", err)
	}

	if err := decoder.Decode(&movies); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode movie CSV data: %w", err)
	}

	log.Printf("Successfully parsed %d movies from CSV.\n", len(movies))
	return movies, nil
}
