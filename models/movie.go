package models

import (
	"fmt"
	"strings"
	"time"
)

type Movie struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"original_title"`
	ReleaseDate      time.Time `json:"release_date"`
	Runtime          *float64  `json:"runtime,omitempty"`
	VoteAverage      float64   `json:"vote_average"`
	OriginalLanguage string    `json:"original_language"`
	Overview         string    `json:"overview"`
	PosterPath       string    `json:"poster_path,omitempty"`
	Adult            bool      `json:"adult"`
	Popularity       float64   `json:"popularity"`
	GenreIDs         []int     `json:"genre_ids"`
	Keywords         []string  `json:"keywords_list"`
}

func (s *Movie) Year() int {
	return s.ReleaseDate.Year()
}

// HasPoster reports whether PosterPath can be resolved against the image host.
// Paths without a leading slash are treated as absent.
func (s *Movie) HasPoster() bool {
	return strings.HasPrefix(s.PosterPath, "/")
}

func (s *Movie) HasGenre(id int) bool {
	for _, g := range s.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

func (s *Movie) FormattedReleaseDate() string {
	return s.ReleaseDate.Format(time.DateOnly)
}

func (s *Movie) FormattedRuntime() string {
	if s.Runtime == nil {
		return FormatRuntime(0)
	}
	return FormatRuntime(*s.Runtime)
}

func (s *Movie) FormattedRating() string {
	return fmt.Sprintf("%.1f", s.VoteAverage)
}

func FormatRuntime(minutes float64) string {
	if minutes <= 0 {
		return "N/A"
	}
	m := int(minutes)
	hours := m / 60
	mins := m % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
