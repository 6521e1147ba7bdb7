package filter

import (
	"fmt"
	"time"

	"github.com/webtor-io/movie-explorer/models"
)

const MaxDaysBack = 30

// Fallback describes the outcome of the "on this date" search.
type Fallback struct {
	Found    bool
	Month    time.Month
	Day      int
	DaysBack int
}

func (s *Fallback) Message() string {
	if !s.Found {
		return "No movies found released recently on this date. Displaying all available movies."
	}
	return fmt.Sprintf("Showing movies released on %v %02d", s.Month, s.Day)
}

// OnThisDate walks back from now, one day at a time and at most maxDaysBack days,
// to the first day whose month and day match a release not in the future.
func OnThisDate(movies []*models.Movie, now time.Time, maxDaysBack int) ([]*models.Movie, *Fallback) {
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	for back := 0; back < maxDaysBack; back++ {
		day := today.AddDate(0, 0, -back)
		matched := keep(movies, func(m *models.Movie) bool {
			rd := m.ReleaseDate
			return rd.Month() == day.Month() && rd.Day() == day.Day() && !rd.After(today)
		})
		if len(matched) > 0 {
			return matched, &Fallback{
				Found:    true,
				Month:    day.Month(),
				Day:      day.Day(),
				DaysBack: back,
			}
		}
	}
	return movies, &Fallback{}
}
