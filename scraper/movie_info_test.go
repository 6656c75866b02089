package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseRuntime(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"片長：108分", 108, true},
		{"片長: 95分 上映日期：5/14/2025", 95, true},
		{"片長 ： 120 分", 120, true},
		{"片長 90 分", 90, true},
		{"上映日期：5/14/2025", 0, false},
		{"片長：0分", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRuntime(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestParseReleaseDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"year first", "上映日期：2025/05/14", "2025-05-14", true},
		{"year last", "上映日期：5/14/2025", "2025-05-14", true},
		{"no year", "上映日期：5/14", "2026-05-14", true},
		{"two digit year", "上映日期：5/14/25", "2026-05-14", true},
		{"ascii colon", "片長：108分 上映日期: 12/1/2024", "2024-12-01", true},
		{"impossible date", "上映日期：2/30/2025", "", false},
		{"single number", "上映日期：2025", "", false},
		{"missing", "片長：108分", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseReleaseDate(tt.text, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "老派 Analog", cleanText("\n  老派 Analog \t"))
	assert.Equal(t, "銀魂  Gintama", cleanText("銀魂  Gintama"))
}
