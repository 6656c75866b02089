// handlers/title_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/time2cinema/scrape/models"
	"github.com/time2cinema/scrape/title"
)

const (
	maxSplitTitles  = 1000
	maxSplitBodyLen = 1 << 20
)

func splitResponse(full string) models.SplitTitleResponse {
	res, rule := title.Explain(full)
	return models.SplitTitleResponse{
		FullTitle:    full,
		ChineseTitle: res.Chinese,
		EnglishTitle: res.English,
		Rule:         string(rule),
	}
}

// SplitTitleHandler splits listing titles into Chinese and English.
//
//	GET  /api/titles/split?title=...        -> one result
//	POST /api/titles/split {"titles": [...]} -> array of results
func SplitTitleHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		full := r.URL.Query().Get("title")
		if full == "" {
			respondWithError(w, http.StatusBadRequest, "Missing 'title' query parameter")
			return
		}
		respondWithJSON(w, http.StatusOK, splitResponse(full))

	case http.MethodPost:
		var req models.SplitTitlesRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSplitBodyLen)).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		defer r.Body.Close()

		if len(req.Titles) > maxSplitTitles {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Too many titles (max %d)", maxSplitTitles))
			return
		}
		out := make([]models.SplitTitleResponse, 0, len(req.Titles))
		for _, t := range req.Titles {
			out = append(out, splitResponse(t))
		}
		respondWithJSON(w, http.StatusOK, out)

	default:
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET and POST methods are allowed")
	}
}
