package scraper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/time2cinema/scrape/config"
	"github.com/time2cinema/scrape/models"
)

const firstRunPage = `<html><body>
<div class="listTab"><a href="#" onclick="grabFile('/movie/now/0/','filmList')">more</a></div>
<article class="filmList">
  <a href="/movie/fmen33092501/"><img class="filmListPoster" src="/photo101/fmen33092501/pm_fmen33092501.jpg"></a>
  <div class="filmtitle"><a href="/movie/fmen33092501/">老派 Analog</a></div>
  <div class="runtime">片長：108分&nbsp;上映日期：5/14/2025</div>
</article>
<article class="filmList">
  <div class="filmtitle"><a href="/movie/fbfako92197800/">海洋奇緣2 Moana 2</a></div>
  <div class="runtime">片長：100分 上映日期：2024/11/27</div>
</article>
<article class="filmList">
  <div class="filmtitle"><a href="/movie/newmovie/">新片</a></div>
</article>
</body></html>`

const moreMoviesPage = `<html><body>
<article class="filmList">
  <div class="filmtitle"><a href="/movie/fmen33092501/">老派 Analog</a></div>
</article>
<article class="filmList">
  <div class="filmtitle"><a href="/movie/fhen12345678/">海街日記</a></div>
  <div class="runtime">上映日期：6/1</div>
</article>
</body></html>`

const bareLinksPage = `<html><body>
<ul>
  <li><a href="/movie/fmen33092501/">老派 Analog</a> 片長：108分</li>
  <li><a href="/movie/list/">all</a></li>
</ul>
</body></html>`

func newTestListScraper(t *testing.T, baseURL string) *MovieListScraper {
	t.Helper()
	s, err := NewMovieListScraper(newTestClient(baseURL, 1),
		config.ATMoviesConfig{BaseURL: baseURL},
		config.Defaults().ScraperSelectors)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func byID(movies []models.Movie) map[string]models.Movie {
	out := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		out[m.AtmoviesID] = m
	}
	return out
}

func TestScrapeMovieList(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/movie/now/1/": firstRunPage})
	s := newTestListScraper(t, srv.URL+"/")

	movies, err := s.ScrapeMovieList(context.Background(), srv.URL+"/movie/now/1/")
	require.NoError(t, err)
	require.Len(t, movies, 2)

	analog := movies[0]
	assert.Equal(t, "fmen33092501", analog.AtmoviesID)
	assert.Equal(t, "老派 Analog", analog.FullTitle)
	assert.Equal(t, "老派", analog.ChineseTitle)
	assert.Equal(t, "Analog", analog.EnglishTitle)
	require.NotNil(t, analog.Runtime)
	assert.Equal(t, 108, *analog.Runtime)
	assert.Equal(t, "2025-05-14", analog.ReleaseDate)
	assert.Equal(t, srv.URL+"/photo101/fmen33092501/pm_fmen33092501.jpg", analog.PosterURL)
	assert.Equal(t, srv.URL+"/movie/fmen33092501/", analog.DetailURL)
	assert.Equal(t, srv.URL+"/movie/now/1/", analog.SourceURL)
	assert.False(t, analog.CrawledAt.IsZero())

	moana := movies[1]
	assert.Equal(t, "fako92197800", moana.AtmoviesID, "share prefix is stripped")
	assert.Equal(t, "海洋奇緣2", moana.ChineseTitle)
	assert.Equal(t, "Moana 2", moana.EnglishTitle)
	assert.Equal(t, "2024-11-27", moana.ReleaseDate)
	assert.Empty(t, moana.PosterURL)
}

func TestScrapeFirstRun_FollowsMoreMovies(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/movie/now/1/": firstRunPage,
		"/movie/now/0/": moreMoviesPage,
	})
	s := newTestListScraper(t, srv.URL+"/")

	movies, err := s.ScrapeFirstRun(context.Background(), srv.URL+"/movie/now/1/")
	require.NoError(t, err)
	require.Len(t, movies, 3, "the duplicate on the second page is skipped")

	got := byID(movies)
	umimachi, ok := got["fhen12345678"]
	require.True(t, ok)
	assert.Equal(t, "海街日記", umimachi.ChineseTitle)
	assert.Empty(t, umimachi.EnglishTitle)
	assert.Equal(t, "2026-06-01", umimachi.ReleaseDate)
	assert.Nil(t, umimachi.Runtime)
	assert.Equal(t, srv.URL+"/movie/now/0/", umimachi.SourceURL)
}

func TestScrapeFirstRun_MorePageFailureKeepsFirstPage(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/movie/now/1/": firstRunPage})
	s := newTestListScraper(t, srv.URL+"/")

	movies, err := s.ScrapeFirstRun(context.Background(), srv.URL+"/movie/now/1/")
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}

func TestScrapeMovieList_FallsBackToBareLinks(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/movie/now2/1/": bareLinksPage})
	s := newTestListScraper(t, srv.URL+"/")

	movies, err := s.ScrapeMovieList(context.Background(), srv.URL+"/movie/now2/1/")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "fmen33092501", movies[0].AtmoviesID)
	assert.Equal(t, "Analog", movies[0].EnglishTitle)
	assert.Nil(t, movies[0].Runtime, "a bare link carries no runtime text of its own")
}

func TestScrapeMovieList_FetchError(t *testing.T) {
	srv := newTestServer(t, map[string]string{})
	s := newTestListScraper(t, srv.URL+"/")

	_, err := s.ScrapeMovieList(context.Background(), srv.URL+"/movie/now/1/")
	require.Error(t, err)
}

func TestNewMovieListScraper_BadBaseURL(t *testing.T) {
	_, err := NewMovieListScraper(newTestClient("", 1), config.ATMoviesConfig{BaseURL: "://bad"}, config.ScraperSelectorsConfig{})
	assert.Error(t, err)
}

func TestParseMoviesCsv(t *testing.T) {
	data := "atmovies_id,full_title,chinese_title,english_title,runtime,release_date,poster_url,detail_url,source_url,crawled_at\n" +
		"fmen33092501,老派 Analog,老派,Analog,108,2025-05-14,,https://www.atmovies.com.tw/movie/fmen33092501/,https://www.atmovies.com.tw/movie/now/1/,2026-01-10T12:00:00Z\n" +
		"fhen12345678,海街日記,海街日記,,,,,,,\n"

	movies, err := ParseMoviesCsv(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "老派", movies[0].ChineseTitle)
	require.NotNil(t, movies[0].Runtime)
	assert.Equal(t, 108, *movies[0].Runtime)
	assert.Equal(t, 2026, movies[0].CrawledAt.Year())
	assert.Equal(t, "海街日記", movies[1].FullTitle)
	assert.Nil(t, movies[1].Runtime)
}

func TestParseMoviesCsv_Empty(t *testing.T) {
	_, err := ParseMoviesCsv(strings.NewReader(""))
	assert.Error(t, err)
}
