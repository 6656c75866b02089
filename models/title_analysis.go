// models/title_analysis.go
package models

// TitleAnalysis compares a stored movie's titles with a fresh split of its
// full title.
type TitleAnalysis struct {
	ID            int64  `csv:"id" json:"id"`
	AtmoviesID    string `csv:"atmovies_id" json:"atmovies_id"`
	FullTitle     string `csv:"full_title" json:"full_title"`
	ChineseTitle  string `csv:"chinese_title" json:"chinese_title"`
	EnglishTitle  string `csv:"english_title" json:"english_title"`
	ReleaseDate   string `csv:"release_date" json:"release_date,omitempty"`
	ParsedChinese string `csv:"parsed_chinese" json:"parsed_chinese"`
	ParsedEnglish string `csv:"parsed_english" json:"parsed_english"`
	Rule          string `csv:"rule" json:"rule"`
	Notes         string `csv:"notes" json:"notes,omitempty"`
	NeedsUpdate   bool   `csv:"needs_update" json:"needs_update"`
}
