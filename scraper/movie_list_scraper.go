// scraper/movie_list_scraper.go
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/time2cinema/scrape/config"
	"github.com/time2cinema/scrape/models"
	"github.com/time2cinema/scrape/title"
	"github.com/time2cinema/scrape/utils"
)

// The "more movies" button loads the rest of the first-run list with
// onclick="grabFile('/movie/now/0/', ...)".
var grabFileRegex = regexp.MustCompile(`grabFile\('([^']+)',[^)]+\)`)

const movieLinkSelector = "a[href*='/movie/']"

// MovieListScraper turns atmovies listing pages into movies.
type MovieListScraper struct {
	client     *Client
	baseURL    *url.URL
	itemSels   []string
	moreButton string
	now        func() time.Time
}

// NewMovieListScraper builds a scraper for the site and selectors given.
func NewMovieListScraper(client *Client, site config.ATMoviesConfig, sels config.ScraperSelectorsConfig) (*MovieListScraper, error) {
	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid atmovies base URL %q: %w", site.BaseURL, err)
	}
	return &MovieListScraper{
		client:     client,
		baseURL:    base,
		itemSels:   sels.MovieItems,
		moreButton: sels.MoreButton,
		now:        time.Now,
	}, nil
}

// ScrapeMovieList scrapes a single listing page.
func (s *MovieListScraper) ScrapeMovieList(ctx context.Context, pageURL string) ([]models.Movie, error) {
	doc, err := s.client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.moviesFromDocument(doc, pageURL, make(map[string]bool)), nil
}

// ScrapeFirstRun scrapes the first-run listing plus the page behind its
// "more movies" button. A failure on the second page is logged and the
// movies from the first page are still returned.
func (s *MovieListScraper) ScrapeFirstRun(ctx context.Context, pageURL string) ([]models.Movie, error) {
	doc, err := s.client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	movies := s.moviesFromDocument(doc, pageURL, seen)
	log.Printf("Scraper: found %d movies on %s\n", len(movies), pageURL)

	moreURL, ok := s.moreMoviesURL(doc)
	if !ok {
		return movies, nil
	}
	log.Printf("Scraper: following more-movies link %s\n", moreURL)

	moreDoc, err := s.client.Fetch(ctx, moreURL)
	if err != nil {
		log.Printf("WARN Scraper: could not load more-movies page %s: %v", moreURL, err)
		return movies, nil
	}
	more := s.moviesFromDocument(moreDoc, moreURL, seen)
	log.Printf("Scraper: found %d more movies on %s\n", len(more), moreURL)

	return append(movies, more...), nil
}

func (s *MovieListScraper) moreMoviesURL(doc *goquery.Document) (string, bool) {
	if s.moreButton == "" {
		return "", false
	}
	onclick, ok := doc.Find(s.moreButton).First().Attr("onclick")
	if !ok {
		return "", false
	}
	m := grabFileRegex.FindStringSubmatch(onclick)
	if m == nil {
		return "", false
	}
	return s.resolve(m[1]), true
}

// moviesFromDocument extracts every valid, unseen movie from a listing.
// IDs are added to seen as they are taken.
func (s *MovieListScraper) moviesFromDocument(doc *goquery.Document, pageURL string, seen map[string]bool) []models.Movie {
	var items *goquery.Selection
	for _, sel := range s.itemSels {
		found := doc.Find(sel)
		if found.Length() > 0 {
			log.Printf("Scraper: selector '%s' matched %d items on %s\n", sel, found.Length(), pageURL)
			items = found
			break
		}
	}
	if items == nil {
		items = doc.Find(movieLinkSelector)
		if items.Length() == 0 {
			log.Printf("WARN Scraper: no movie items found on %s", pageURL)
			return nil
		}
		log.Printf("Scraper: falling back to %d bare movie links on %s\n", items.Length(), pageURL)
	}

	var movies []models.Movie
	items.Each(func(_ int, item *goquery.Selection) {
		movie, ok := s.parseItem(item, pageURL, seen)
		if ok {
			movies = append(movies, movie)
		}
	})
	return movies
}

func (s *MovieListScraper) parseItem(item *goquery.Selection, pageURL string, seen map[string]bool) (models.Movie, bool) {
	link := titleLink(item)
	if link == nil {
		return models.Movie{}, false
	}

	id := utils.NormalizeMovieID(utils.MovieIDFromHref(link.AttrOr("href", "")))
	if !utils.IsValidMovieID(id) || seen[id] {
		return models.Movie{}, false
	}
	fullTitle := cleanText(link.Text())
	seen[id] = true

	now := s.now()
	chinese, english := title.Split(fullTitle)
	movie := models.Movie{
		AtmoviesID:   id,
		FullTitle:    fullTitle,
		ChineseTitle: chinese,
		EnglishTitle: english,
		DetailURL:    s.resolve("movie/" + id + "/"),
		SourceURL:    pageURL,
		CrawledAt:    now,
	}

	container := item
	if !item.Is("article.filmList") {
		if parent := item.Closest("article.filmList"); parent.Length() > 0 {
			container = parent
		}
	}

	if src, ok := container.Find("img.filmListPoster").First().Attr("src"); ok && src != "" {
		movie.PosterURL = s.resolve(src)
	}

	// The runtime block is the reliable source; whole-item text is the
	// fallback for older layouts.
	for _, text := range []string{container.Find("div.runtime").First().Text(), item.Text()} {
		if movie.Runtime == nil {
			if minutes, ok := ParseRuntime(text); ok {
				movie.Runtime = &minutes
			}
		}
		if movie.ReleaseDate == "" {
			if date, ok := ParseReleaseDate(text, now); ok {
				movie.ReleaseDate = date
			}
		}
	}

	return movie, true
}

// titleLink returns the first movie link of an item that has text. Poster
// links point to the same film but wrap only an image.
func titleLink(item *goquery.Selection) *goquery.Selection {
	links := item.Find(movieLinkSelector)
	if goquery.NodeName(item) == "a" && strings.Contains(item.AttrOr("href", ""), "/movie/") {
		links = item
	}
	var found *goquery.Selection
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if cleanText(a.Text()) != "" {
			found = a
			return false
		}
		return true
	})
	return found
}

func (s *MovieListScraper) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return s.baseURL.ResolveReference(u).String()
}
