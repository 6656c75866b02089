package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/time2cinema/scrape/config"
	"github.com/time2cinema/scrape/database"
	"github.com/time2cinema/scrape/models"
)

const (
	testFirstRunURL  = "https://www.atmovies.com.tw/movie/now/1/"
	testSecondRunURL = "https://www.atmovies.com.tw/movie/now2/1/"
)

type fakeLister struct {
	firstRun  []models.Movie
	secondRun []models.Movie
	firstErr  error
	secondErr error
}

func (f *fakeLister) ScrapeFirstRun(ctx context.Context, pageURL string) ([]models.Movie, error) {
	return f.firstRun, f.firstErr
}

func (f *fakeLister) ScrapeMovieList(ctx context.Context, pageURL string) ([]models.Movie, error) {
	return f.secondRun, f.secondErr
}

func useFakeLister(t *testing.T, f *fakeLister) {
	t.Helper()
	prevLister, prevConfig := newMovieLister, config.AppConfig
	newMovieLister = func() (movieLister, error) { return f, nil }
	config.AppConfig = config.Defaults()
	config.AppConfig.ATMovies.FirstRunURL = testFirstRunURL
	config.AppConfig.ATMovies.SecondRunURL = testSecondRunURL
	config.AppConfig.Output.Dir = t.TempDir()
	t.Cleanup(func() {
		newMovieLister, config.AppConfig = prevLister, prevConfig
	})
}

func movie(id, full string) models.Movie {
	return models.Movie{AtmoviesID: id, FullTitle: full}
}

func TestValidateFormats(t *testing.T) {
	got, err := ValidateFormats([]string{" JSON", "csv", "json", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"json", "csv"}, got)

	_, err = ValidateFormats([]string{"xml"})
	assert.Error(t, err)
}

func TestRunMovieScrape_MergesAndExports(t *testing.T) {
	useFakeLister(t, &fakeLister{
		firstRun:  []models.Movie{movie("fmen33092501", "老派 Analog"), movie("fako92197800", "海洋奇緣2 Moana 2")},
		secondRun: []models.Movie{movie("fmen33092501", "老派 Analog"), movie("fhen12345678", "海街日記")},
	})

	summary, err := RunMovieScrape(context.Background(), ScrapeOptions{Formats: []string{"json", "csv"}})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Movies)
	assert.Zero(t, summary.SavedToDB)
	require.Len(t, summary.OutputFiles, 2)
	for _, f := range summary.OutputFiles {
		_, err := os.Stat(f)
		assert.NoError(t, err)
		assert.Equal(t, config.AppConfig.Output.Dir, filepath.Dir(f))
	}
	assert.Equal(t, ".json", filepath.Ext(summary.OutputFiles[0]))
	assert.Equal(t, ".csv", filepath.Ext(summary.OutputFiles[1]))
}

func TestRunMovieScrape_OneListingFails(t *testing.T) {
	useFakeLister(t, &fakeLister{
		firstRun:  []models.Movie{movie("fmen33092501", "老派 Analog")},
		secondErr: errors.New("status code 503"),
	})

	summary, err := RunMovieScrape(context.Background(), ScrapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Movies)
	assert.Empty(t, summary.OutputFiles)
}

func TestRunMovieScrape_AllListingsFail(t *testing.T) {
	useFakeLister(t, &fakeLister{
		firstErr:  errors.New("timeout"),
		secondErr: errors.New("timeout"),
	})

	_, err := RunMovieScrape(context.Background(), ScrapeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), testFirstRunURL)
}

func TestRunMovieScrape_AllListingsFailStillRecordsRuns(t *testing.T) {
	useFakeLister(t, &fakeLister{
		firstErr:  errors.New("timeout"),
		secondErr: errors.New("timeout"),
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	database.DB = db
	t.Cleanup(func() {
		db.Close()
		database.DB = nil
	})

	mock.ExpectExec("INSERT INTO scrape_runs").
		WithArgs(testFirstRunURL, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), "timeout").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO scrape_runs").
		WithArgs(testSecondRunURL, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), "timeout").
		WillReturnResult(sqlmock.NewResult(2, 1))

	_, err = RunMovieScrape(context.Background(), ScrapeOptions{SaveToDB: true})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMovieScrape_RejectsUnknownFormat(t *testing.T) {
	useFakeLister(t, &fakeLister{})
	_, err := RunMovieScrape(context.Background(), ScrapeOptions{Formats: []string{"xlsx"}})
	assert.Error(t, err)
}

func TestRunMovieScrape_SavesToDB(t *testing.T) {
	useFakeLister(t, &fakeLister{
		firstRun:  []models.Movie{movie("fmen33092501", "老派 Analog")},
		secondErr: errors.New("boom"),
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	database.DB = db
	t.Cleanup(func() {
		db.Close()
		database.DB = nil
	})

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO movies").ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO scrape_runs").
		WithArgs(testFirstRunURL, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO scrape_runs").
		WithArgs(testSecondRunURL, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), "boom").
		WillReturnResult(sqlmock.NewResult(2, 1))

	summary, err := RunMovieScrape(context.Background(), ScrapeOptions{SaveToDB: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SavedToDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryRunMovieScrape_RejectsConcurrentRun(t *testing.T) {
	useFakeLister(t, &fakeLister{firstRun: []models.Movie{movie("fmen33092501", "老派 Analog")}})

	scrapeMu.Lock()
	_, ok, err := TryRunMovieScrape(context.Background(), ScrapeOptions{})
	scrapeMu.Unlock()
	assert.False(t, ok)
	assert.NoError(t, err)

	summary, ok, err := TryRunMovieScrape(context.Background(), ScrapeOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, summary.Movies)
}
