package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/time2cinema/scrape/config"
)

func newTestClient(baseURL string, retries int) *Client {
	return NewClient(
		config.ScraperConfig{Timeout: 5 * time.Second, MaxRetries: retries, RetryDelay: time.Millisecond},
		config.ATMoviesConfig{BaseURL: baseURL, UserAgent: "test-agent"},
	)
}

func newTestServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range pages {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
