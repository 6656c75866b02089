// services/title_service.go
package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/time2cinema/scrape/database"
	"github.com/time2cinema/scrape/models"
	"github.com/time2cinema/scrape/title"
)

// AnalyzeTitles re-splits every full title and compares the result with
// the stored halves.
func AnalyzeTitles(movies []models.Movie) []models.TitleAnalysis {
	analyses := make([]models.TitleAnalysis, 0, len(movies))
	for _, m := range movies {
		res, rule := title.Explain(m.FullTitle)
		a := models.TitleAnalysis{
			ID:            m.ID,
			AtmoviesID:    m.AtmoviesID,
			FullTitle:     m.FullTitle,
			ChineseTitle:  m.ChineseTitle,
			EnglishTitle:  m.EnglishTitle,
			ReleaseDate:   m.ReleaseDate,
			ParsedChinese: res.Chinese,
			ParsedEnglish: res.English,
			Rule:          string(rule),
		}

		var notes []string
		switch {
		case res.Chinese == "" && res.English == "":
			notes = append(notes, "unparseable title")
		case res.Chinese == "":
			notes = append(notes, "likely English-only title")
		case res.English == "":
			notes = append(notes, "likely Chinese-only title")
		}
		if res.Chinese != m.ChineseTitle {
			notes = append(notes, fmt.Sprintf("differs from chinese_title: %s", m.ChineseTitle))
		}
		if res.English != m.EnglishTitle {
			notes = append(notes, fmt.Sprintf("differs from english_title: %s", m.EnglishTitle))
		}
		a.NeedsUpdate = res.Chinese != m.ChineseTitle || res.English != m.EnglishTitle
		a.Notes = strings.Join(notes, "; ")

		analyses = append(analyses, a)
	}
	return analyses
}

// ProblematicTitles keeps the titles that mix both scripts yet still split
// with one half empty. These are the ones the cascade gave up on.
func ProblematicTitles(analyses []models.TitleAnalysis) []models.TitleAnalysis {
	var out []models.TitleAnalysis
	for _, a := range analyses {
		mixed := title.HasChinese(a.FullTitle) && title.HasEnglish(a.FullTitle)
		if mixed && (a.ParsedChinese == "" || a.ParsedEnglish == "") {
			out = append(out, a)
		}
	}
	return out
}

// AnalyzeStoredTitles loads every movie from the database and analyzes it.
func AnalyzeStoredTitles() ([]models.TitleAnalysis, error) {
	movies, err := database.GetAllMovies()
	if err != nil {
		return nil, fmt.Errorf("failed to load movies for title analysis: %w", err)
	}
	log.Printf("Service: analyzing %d stored titles.\n", len(movies))
	return AnalyzeTitles(movies), nil
}

// ApplyTitleFixes writes the re-split titles back for every analysis that
// needs an update and returns how many rows were changed. Rows without a
// database id are skipped.
func ApplyTitleFixes(analyses []models.TitleAnalysis) (int, error) {
	updated := 0
	for _, a := range analyses {
		if !a.NeedsUpdate || a.ID == 0 {
			continue
		}
		if err := database.UpdateMovieTitles(a.ID, a.ParsedChinese, a.ParsedEnglish); err != nil {
			return updated, fmt.Errorf("failed to apply title fix for %s: %w", a.FullTitle, err)
		}
		log.Printf("Service: updated titles of movie %d (%s): '%s' / '%s'\n", a.ID, a.FullTitle, a.ParsedChinese, a.ParsedEnglish)
		updated++
	}
	return updated, nil
}
