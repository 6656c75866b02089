// handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/time2cinema/scrape/database"
	"github.com/time2cinema/scrape/models"
	"github.com/time2cinema/scrape/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// ScrapeHandler runs a full movie scrape.
// Expects POST /api/admin/scrape[?db=true][&format=json,csv]
func ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	opts := services.ScrapeOptions{SaveToDB: queryFlag(r, "db")}
	if f := r.URL.Query().Get("format"); f != "" {
		formats, err := services.ValidateFormats(strings.Split(f, ","))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Formats = formats
	}
	if opts.SaveToDB && database.DB == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	summary, ok, err := services.TryRunMovieScrape(r.Context(), opts)
	if !ok {
		respondWithError(w, http.StatusConflict, "A scrape is already running")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Movie scrape failed: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// TitleAnalysisHandler re-splits every stored title.
// Expects GET /api/admin/title-analysis[?problems=true]
func TitleAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	analyses, err := services.AnalyzeStoredTitles()
	if errors.Is(err, database.ErrNotInitialized) {
		respondWithError(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to analyze titles: %v", err))
		return
	}
	if queryFlag(r, "problems") {
		analyses = services.ProblematicTitles(analyses)
	}
	if analyses == nil {
		analyses = []models.TitleAnalysis{}
	}
	respondWithJSON(w, http.StatusOK, analyses)
}

// ScrapeRunsHandler lists recent scrape runs.
// Expects GET /api/admin/scrape-runs[?limit=N]
func ScrapeRunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' query parameter")
			return
		}
		limit = n
	}

	runs, err := database.GetScrapeRuns(limit)
	if errors.Is(err, database.ErrNotInitialized) {
		respondWithError(w, http.StatusServiceUnavailable, "Database is not configured")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scrape runs: %v", err))
		return
	}
	if runs == nil {
		runs = []models.ScrapeRun{}
	}
	respondWithJSON(w, http.StatusOK, runs)
}
