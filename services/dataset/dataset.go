package dataset

import (
	"sort"
	"time"

	"github.com/webtor-io/movie-explorer/models"
)

type Dataset struct {
	Movies   []*models.Movie
	Warnings []string
	byID     map[string]*models.Movie
}

func NewDataset(movies []*models.Movie, warnings []string) *Dataset {
	byID := make(map[string]*models.Movie, len(movies))
	for _, m := range movies {
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}
	return &Dataset{
		Movies:   movies,
		Warnings: warnings,
		byID:     byID,
	}
}

func (s *Dataset) Get(id string) *models.Movie {
	return s.byID[id]
}

// Languages returns distinct language codes, sorted.
func (s *Dataset) Languages() []string {
	seen := map[string]struct{}{}
	var res []string
	for _, m := range s.Movies {
		if m.OriginalLanguage == "" {
			continue
		}
		if _, ok := seen[m.OriginalLanguage]; ok {
			continue
		}
		seen[m.OriginalLanguage] = struct{}{}
		res = append(res, m.OriginalLanguage)
	}
	sort.Strings(res)
	return res
}

// Years returns distinct release years not after now, newest first.
func (s *Dataset) Years(now time.Time) []int {
	seen := map[int]struct{}{}
	var res []int
	for _, m := range s.Movies {
		y := m.Year()
		if y > now.Year() {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		res = append(res, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(res)))
	return res
}
