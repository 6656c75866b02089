// utils/movie_id.go
package utils

import (
	"regexp"
	"strings"
)

// atmovies film IDs look like "fmen33092501" or "fako92197800".
var movieIDPattern = regexp.MustCompile(`^f[a-z]{2,3}\d{8}$`)

// Path segments under /movie/ that are listing pages, not films.
var nonMovieIDs = map[string]bool{
	"newmovie": true,
	"list":     true,
	"listall":  true,
	"parasite": true,
	"now":      true,
	"now2":     true,
	"new":      true,
}

// Share-button links prefix the film ID with the network name.
var sharePrefixes = []string{"fb", "tw", "ig", "yt"}

// IsValidMovieID reports whether id is an atmovies film ID.
func IsValidMovieID(id string) bool {
	if nonMovieIDs[id] {
		return false
	}
	return movieIDPattern.MatchString(id)
}

// NormalizeMovieID strips a share prefix ("fbfmen33092501") when what
// remains is a valid film ID. Other IDs are returned trimmed.
func NormalizeMovieID(id string) string {
	id = strings.TrimSpace(id)
	for _, prefix := range sharePrefixes {
		rest, ok := strings.CutPrefix(id, prefix)
		if ok && rest != "" && IsValidMovieID(rest) {
			return rest
		}
	}
	return id
}

// MovieIDFromHref returns the last non-empty path segment of a movie link,
// ignoring any query string or fragment.
func MovieIDFromHref(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	parts := strings.Split(strings.TrimRight(href, "/"), "/")
	return parts[len(parts)-1]
}
