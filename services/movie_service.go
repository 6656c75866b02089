// services/movie_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/time2cinema/scrape/config"
	"github.com/time2cinema/scrape/database"
	"github.com/time2cinema/scrape/export"
	"github.com/time2cinema/scrape/models"
	"github.com/time2cinema/scrape/scraper"
	"golang.org/x/sync/errgroup"
)

const exportPrefix = "atmovies_movies"

// ScrapeOptions controls what RunMovieScrape does with the movies it finds.
type ScrapeOptions struct {
	SaveToDB  bool
	Formats   []string // "json", "csv"
	OutputDir string   // defaults to config output.dir
}

type movieLister interface {
	ScrapeFirstRun(ctx context.Context, pageURL string) ([]models.Movie, error)
	ScrapeMovieList(ctx context.Context, pageURL string) ([]models.Movie, error)
}

var newMovieLister = func() (movieLister, error) {
	return scraper.NewMovieListScraper(scraper.DefaultClient(), config.AppConfig.ATMovies, config.AppConfig.ScraperSelectors)
}

// ValidateFormats normalizes export format names and rejects unknown ones.
func ValidateFormats(formats []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if f != "json" && f != "csv" {
			return nil, fmt.Errorf("unknown export format %q (want json or csv)", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

type listSource struct {
	url      string
	firstRun bool
}

type listResult struct {
	movies []models.Movie
	run    models.ScrapeRun
}

// RunMovieScrape scrapes the first-run and second-run listings
// concurrently, merges them without duplicate movie IDs, then exports and
// saves them as opts asks. A failing listing is logged and recorded; the
// run fails only when no listing could be scraped.
func RunMovieScrape(ctx context.Context, opts ScrapeOptions) (*models.ScrapeSummary, error) {
	formats, err := ValidateFormats(opts.Formats)
	if err != nil {
		return nil, err
	}
	lister, err := newMovieLister()
	if err != nil {
		return nil, fmt.Errorf("failed to set up movie scraper: %w", err)
	}

	var sources []listSource
	if u := config.AppConfig.ATMovies.FirstRunURL; u != "" {
		sources = append(sources, listSource{url: u, firstRun: true})
	}
	if u := config.AppConfig.ATMovies.SecondRunURL; u != "" {
		sources = append(sources, listSource{url: u})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no atmovies listing URLs configured")
	}

	log.Printf("Service: scraping %d atmovies listings...\n", len(sources))
	results := make([]listResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, config.AppConfig.Scraper.MaxConcurrentRequests))
	for i, src := range sources {
		g.Go(func() error {
			run := models.ScrapeRun{SourceURL: src.url, StartedAt: time.Now()}
			var movies []models.Movie
			var err error
			if src.firstRun {
				movies, err = lister.ScrapeFirstRun(gctx, src.url)
			} else {
				movies, err = lister.ScrapeMovieList(gctx, src.url)
			}
			finished := time.Now()
			run.FinishedAt = &finished
			run.MovieCount = len(movies)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("ERROR Service: scraping %s failed: %v\n", src.url, err)
				run.Error = err.Error()
			}
			results[i] = listResult{movies: movies, run: run}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("movie scrape cancelled: %w", err)
	}

	var movies []models.Movie
	var failed []string
	seen := make(map[string]bool)
	for _, r := range results {
		if r.run.Error != "" {
			failed = append(failed, r.run.SourceURL)
		}
		for _, m := range r.movies {
			if seen[m.AtmoviesID] {
				continue
			}
			seen[m.AtmoviesID] = true
			movies = append(movies, m)
		}
	}
	if len(failed) == len(results) {
		if opts.SaveToDB {
			logScrapeRuns(results)
		}
		return nil, fmt.Errorf("every atmovies listing failed: %s", strings.Join(failed, ", "))
	}
	log.Printf("Service: scraped %d unique movies.\n", len(movies))

	summary := &models.ScrapeSummary{Movies: len(movies)}

	files, err := exportMovies(movies, formats, opts.OutputDir, time.Now())
	summary.OutputFiles = files
	if err != nil {
		return summary, err
	}

	if opts.SaveToDB {
		saved, err := database.UpsertMovies(movies)
		if err != nil {
			return summary, fmt.Errorf("failed to save movies: %w", err)
		}
		summary.SavedToDB = saved
		logScrapeRuns(results)
	}

	return summary, nil
}

func logScrapeRuns(results []listResult) {
	for _, r := range results {
		if _, err := database.LogScrapeRun(r.run); err != nil {
			log.Printf("WARN Service: could not record scrape run for %s: %v\n", r.run.SourceURL, err)
		}
	}
}

func exportMovies(movies []models.Movie, formats []string, dir string, now time.Time) ([]string, error) {
	if dir == "" {
		dir = config.AppConfig.Output.Dir
	}
	var files []string
	for _, format := range formats {
		path := export.TimestampedPath(dir, exportPrefix, format, now)
		var err error
		switch format {
		case "json":
			err = export.WriteJSON(path, movies)
		case "csv":
			err = export.WriteCSV(path, movies)
		}
		if err != nil {
			return files, fmt.Errorf("failed to export movies as %s: %w", format, err)
		}
		files = append(files, path)
	}
	return files, nil
}

var scrapeMu sync.Mutex

// TryRunMovieScrape is RunMovieScrape for callers that must not start a
// second scrape while one is in flight. ok is false when one is running.
func TryRunMovieScrape(ctx context.Context, opts ScrapeOptions) (summary *models.ScrapeSummary, ok bool, err error) {
	if !scrapeMu.TryLock() {
		return nil, false, nil
	}
	defer scrapeMu.Unlock()
	summary, err = RunMovieScrape(ctx, opts)
	return summary, true, err
}
