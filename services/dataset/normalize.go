package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/webtor-io/movie-explorer/models"
)

const (
	columnID               = "id"
	columnTitle            = "title"
	columnOriginalTitle    = "original_title"
	columnReleaseDate      = "release_date"
	columnRuntime          = "runtime"
	columnVoteAverage      = "vote_average"
	columnOriginalLanguage = "original_language"
	columnOverview         = "overview"
	columnPosterPath       = "poster_path"
	columnAdult            = "adult"
	columnPopularity       = "popularity"
	columnKeywords         = "keywords"
	columnGenres           = "genres"
)

var missingColumnWarnings = []struct {
	column  string
	warning string
}{
	{columnAdult, "The 'adult' column was not found in the dataset. Adult content filtering will not be effective."},
	{columnPopularity, "The 'popularity' column was not found in the dataset. Popularity data will be unavailable."},
	{columnKeywords, "The 'keywords' column was not found in the dataset. Keyword search will not be effective."},
	{columnGenres, "The 'genres' column was not found in the dataset. Genre filters will not work."},
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"2006",
}

// Normalize turns raw rows into movies. Rows with an unparseable release date are
// dropped, missing optional columns are default filled and reported as warnings.
func Normalize(t *Table, genres models.GenreMap) ([]*models.Movie, []string) {
	var warnings []string
	for _, w := range missingColumnWarnings {
		if !t.Has(w.column) {
			log.Warn(w.warning)
			warnings = append(warnings, w.warning)
		}
	}
	byName := genres.ByName()
	movies := make([]*models.Movie, 0, t.Len())
	dropped := 0
	for i := 0; i < t.Len(); i++ {
		m, ok := normalizeRow(t, i, byName)
		if !ok {
			dropped++
			continue
		}
		movies = append(movies, m)
	}
	if dropped > 0 {
		log.Infof("dropped %v rows without valid release date", dropped)
	}
	return movies, warnings
}

func normalizeRow(t *Table, i int, byName map[string]int) (*models.Movie, bool) {
	rd, ok := ParseDate(t.Cell(i, columnReleaseDate))
	if !ok {
		return nil, false
	}
	m := &models.Movie{
		ID:               cellString(t.Cell(i, columnID)),
		Title:            cellString(t.Cell(i, columnTitle)),
		OriginalTitle:    cellString(t.Cell(i, columnOriginalTitle)),
		ReleaseDate:      rd,
		OriginalLanguage: cellString(t.Cell(i, columnOriginalLanguage)),
		Overview:         cellString(t.Cell(i, columnOverview)),
		PosterPath:       cellString(t.Cell(i, columnPosterPath)),
		Adult:            ParseBool(t.Cell(i, columnAdult)),
		Keywords:         ParseKeywords(t.Cell(i, columnKeywords)),
		GenreIDs:         ParseGenres(t.Cell(i, columnGenres), byName),
	}
	if m.ID == "" {
		m.ID = fmt.Sprintf("row-%v", i)
	}
	if r, ok := ParseFloat(t.Cell(i, columnRuntime)); ok {
		m.Runtime = &r
	}
	if v, ok := ParseFloat(t.Cell(i, columnVoteAverage)); ok {
		m.VoteAverage = v
	}
	if p, ok := ParseFloat(t.Cell(i, columnPopularity)); ok && p > 0 {
		m.Popularity = p
	}
	return m, true
}

func cellString(cell any) string {
	if isBlank(cell) {
		return ""
	}
	return strings.TrimSpace(stringify(cell))
}

// ParseDate accepts textual dates, time values and unix epochs. Epoch units are
// guessed from magnitude: days, seconds, milliseconds, microseconds or nanoseconds.
func ParseDate(cell any) (time.Time, bool) {
	switch v := cell.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(v), true
	case string:
		s := strings.TrimSpace(v)
		for _, l := range dateLayouts {
			if d, err := time.Parse(l, s); err == nil {
				return dateOnly(d), true
			}
		}
	case int64:
		return epochDate(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		return epochDate(int64(v)), true
	}
	return time.Time{}, false
}

func epochDate(n int64) time.Time {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	var t time.Time
	switch {
	case abs < 1e6:
		t = time.Unix(0, 0).UTC().AddDate(0, 0, int(n))
	case abs < 1e11:
		t = time.Unix(n, 0)
	case abs < 1e14:
		t = time.UnixMilli(n)
	case abs < 1e17:
		t = time.UnixMicro(n)
	default:
		t = time.Unix(0, n)
	}
	return dateOnly(t.UTC())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseFloat(cell any) (float64, bool) {
	var f float64
	switch v := cell.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBool is lenient: numbers are true when non-zero, unknown text is false.
func ParseBool(cell any) bool {
	switch v := cell.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "yes", "y", "1", "1.0":
			return true
		}
		return false
	}
	if f, ok := ParseFloat(cell); ok {
		return f != 0
	}
	return false
}
