// scraper/movie_info.go
package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The runtime block reads like "片長：108分 上映日期：5/14/2025", with
// either colon and sometimes non-breaking spaces.
var (
	runtimeRegex     = regexp.MustCompile(`片長[\s\x{a0}]*[:|：]?[\s\x{a0}]*(\d+)[\s\x{a0}]*分`)
	releaseDateRegex = regexp.MustCompile(`上映日期[\s\x{a0}]*[:|：]?[\s\x{a0}]*([\d/]+)`)
)

const releaseDateLayout = "2006-01-02"

// ParseRuntime extracts the runtime in minutes.
func ParseRuntime(text string) (int, bool) {
	m := runtimeRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// ParseReleaseDate extracts the release date as YYYY-MM-DD. The site uses
// YYYY/MM/DD, MM/DD/YYYY and MM/DD; a missing or two-digit year is taken
// from now.
func ParseReleaseDate(text string, now time.Time) (string, bool) {
	m := releaseDateRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	parts := strings.Split(strings.Trim(m[1], "/"), "/")
	var year, month, day string
	switch {
	case len(parts) == 3 && len(parts[0]) == 4:
		year, month, day = parts[0], parts[1], parts[2]
	case len(parts) == 3:
		month, day, year = parts[0], parts[1], parts[2]
		if len(year) != 4 {
			year = strconv.Itoa(now.Year())
		}
	case len(parts) == 2:
		month, day, year = parts[0], parts[1], strconv.Itoa(now.Year())
	default:
		return "", false
	}

	y, errY := strconv.Atoi(year)
	mo, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return "", false
	}

	formatted := fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
	if _, err := time.Parse(releaseDateLayout, formatted); err != nil {
		return "", false
	}
	return formatted, true
}

// cleanText trims a scraped text node and turns non-breaking spaces into
// plain ones. Inner runs of spaces are kept; the title splitter reads them.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
