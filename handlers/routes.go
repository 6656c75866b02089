// handlers/routes.go
package handlers

import (
	"log"
	"net/http"

	"github.com/time2cinema/scrape/database"
)

// HealthHandler reports whether the service and its database are up. The
// splitter works without a database, so a missing connection is reported
// but not treated as an outage.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "disabled"})
		return
	}
	if err := database.Ping(); err != nil {
		log.Printf("Health check failed: DB ping error: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "database connection error"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}

// NewRouter registers every API route.
func NewRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", HealthHandler)
	mux.HandleFunc("/api/titles/split", SplitTitleHandler)
	mux.HandleFunc("/api/admin/scrape", ScrapeHandler)
	mux.HandleFunc("/api/admin/title-analysis", TitleAnalysisHandler)
	mux.HandleFunc("/api/admin/scrape-runs", ScrapeRunsHandler)
	return mux
}
