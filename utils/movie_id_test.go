package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMovieID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"fmen33092501", true},
		{"fako92197800", true},
		{"fhen12345678", true},
		{"fab12345678", true},
		{"newmovie", false},
		{"now2", false},
		{"listall", false},
		{"fmen3309250", false},
		{"Fmen33092501", false},
		{"xmen33092501", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMovieID(tt.id))
		})
	}
}

func TestNormalizeMovieID(t *testing.T) {
	assert.Equal(t, "fmen33092501", NormalizeMovieID("fbfmen33092501"))
	assert.Equal(t, "fmen33092501", NormalizeMovieID("twfmen33092501"))
	assert.Equal(t, "fmen33092501", NormalizeMovieID(" fmen33092501 "))
	assert.Equal(t, "fbnotanid", NormalizeMovieID("fbnotanid"))
	assert.Equal(t, "fb", NormalizeMovieID("fb"))
}

func TestMovieIDFromHref(t *testing.T) {
	assert.Equal(t, "fmen33092501", MovieIDFromHref("/movie/fmen33092501/"))
	assert.Equal(t, "fmen33092501", MovieIDFromHref("https://www.atmovies.com.tw/movie/fmen33092501"))
	assert.Equal(t, "fmen33092501", MovieIDFromHref("/movie/fmen33092501/?from=list#top"))
	assert.Equal(t, "", MovieIDFromHref(""))
}
