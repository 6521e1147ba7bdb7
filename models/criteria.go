package models

import (
	"fmt"
	"strings"
)

// Criteria holds the user selected filters of a single interaction.
type Criteria struct {
	Query      string  `json:"query,omitempty"`
	Year       int     `json:"year,omitempty"`
	Genre      string  `json:"genre,omitempty"`
	Language   string  `json:"language,omitempty"`
	MinRating  float64 `json:"min_rating,omitempty"`
	AllowAdult bool    `json:"allow_adult"`
}

func (s *Criteria) HasQuery() bool {
	return strings.TrimSpace(s.Query) != ""
}

func (s *Criteria) HasYear() bool {
	return s.Year > 0
}

// Key fingerprints the criteria, any change resets the page cursor.
func (s *Criteria) Key() string {
	return fmt.Sprintf("%q|%d|%q|%q|%v|%t",
		strings.TrimSpace(s.Query), s.Year, s.Genre, s.Language, s.MinRating, s.AllowAdult)
}
