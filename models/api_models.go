// models/api_models.go
package models

// SplitTitlesRequest is the JSON body for POST /api/titles/split.
type SplitTitlesRequest struct {
	Titles []string `json:"titles"`
}

// SplitTitleResponse is one split title as returned by the API.
type SplitTitleResponse struct {
	FullTitle    string `json:"full_title"`
	ChineseTitle string `json:"chinese_title"`
	EnglishTitle string `json:"english_title"`
	Rule         string `json:"rule"`
}

// ScrapeSummary is returned by POST /api/admin/scrape.
type ScrapeSummary struct {
	Movies      int      `json:"movies"`
	SavedToDB   int      `json:"saved_to_db"`
	OutputFiles []string `json:"output_files,omitempty"`
}
