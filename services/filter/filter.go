package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/webtor-io/movie-explorer/models"
	"github.com/webtor-io/movie-explorer/services/common"
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNoSearchMatch
	OutcomeNoYearMatch
	OutcomeNoMatch
)

type Result struct {
	Movies   []*models.Movie
	Outcome  Outcome
	Fallback *Fallback
	criteria models.Criteria
}

func (s *Result) Empty() bool {
	return len(s.Movies) == 0
}

// Message describes why the result is empty, or is empty itself.
func (s *Result) Message() string {
	switch s.Outcome {
	case OutcomeNoSearchMatch:
		return fmt.Sprintf("No movies found matching '%v'.", strings.TrimSpace(s.criteria.Query))
	case OutcomeNoYearMatch:
		return fmt.Sprintf("No movies found for year %v after applying other filters.", s.criteria.Year)
	case OutcomeNoMatch:
		return "No movies found for the selected filters."
	}
	return ""
}

type stage struct {
	outcome Outcome
	keep    func(m *models.Movie) bool
}

// Apply filters and sorts movies, newest release first. The predicates commute;
// the "on this date" search runs last when neither query nor year is selected.
// The first predicate that empties the set defines the reported outcome.
func Apply(movies []*models.Movie, cr *models.Criteria, genres models.GenreMap, langs models.LanguageMap, now time.Time) *Result {
	res := &Result{
		criteria: *cr,
	}
	current := movies
	for _, st := range stages(cr, genres, langs) {
		current = keep(current, st.keep)
		if len(current) == 0 && res.Outcome == OutcomeOK {
			res.Outcome = st.outcome
		}
	}
	if len(current) == 0 && res.Outcome == OutcomeOK {
		res.Outcome = OutcomeNoMatch
	}
	if !cr.HasQuery() && !cr.HasYear() && len(current) > 0 {
		matched, fb := OnThisDate(current, now, MaxDaysBack)
		if fb.Found {
			current = matched
		}
		res.Fallback = fb
	}
	res.Movies = SortByReleaseDate(current)
	return res
}

func stages(cr *models.Criteria, genres models.GenreMap, langs models.LanguageMap) []stage {
	var res []stage
	if !cr.AllowAdult {
		res = append(res, stage{OutcomeNoMatch, func(m *models.Movie) bool {
			return !m.Adult
		}})
	}
	if cr.HasQuery() {
		q := common.Lower(cr.Query)
		res = append(res, stage{OutcomeNoSearchMatch, func(m *models.Movie) bool {
			return MatchesQuery(m, q)
		}})
	}
	if cr.HasYear() {
		res = append(res, stage{OutcomeNoYearMatch, func(m *models.Movie) bool {
			return m.Year() == cr.Year
		}})
	}
	if cr.Genre != "" {
		if id, ok := genres.IDByName(cr.Genre); ok {
			res = append(res, stage{OutcomeNoMatch, func(m *models.Movie) bool {
				return m.HasGenre(id)
			}})
		}
	}
	if cr.Language != "" {
		code := cr.Language
		if c, ok := langs.CodeByDisplay(cr.Language); ok {
			code = c
		}
		res = append(res, stage{OutcomeNoMatch, func(m *models.Movie) bool {
			return m.OriginalLanguage == code
		}})
	}
	if cr.MinRating > 0 {
		res = append(res, stage{OutcomeNoMatch, func(m *models.Movie) bool {
			return m.VoteAverage >= cr.MinRating
		}})
	}
	return res
}

// MatchesQuery reports whether the lower-cased query q is a substring of the
// title, the original title or any keyword.
func MatchesQuery(m *models.Movie, q string) bool {
	if strings.Contains(common.Lower(m.Title), q) || strings.Contains(common.Lower(m.OriginalTitle), q) {
		return true
	}
	for _, k := range m.Keywords {
		if strings.Contains(k, q) {
			return true
		}
	}
	return false
}

func keep(movies []*models.Movie, fn func(m *models.Movie) bool) []*models.Movie {
	res := make([]*models.Movie, 0, len(movies))
	for _, m := range movies {
		if fn(m) {
			res = append(res, m)
		}
	}
	return res
}

// SortByReleaseDate returns a copy sorted newest first. Ties keep input order.
func SortByReleaseDate(movies []*models.Movie) []*models.Movie {
	res := slices.Clone(movies)
	slices.SortStableFunc(res, func(a, b *models.Movie) int {
		return b.ReleaseDate.Compare(a.ReleaseDate)
	})
	return res
}
