package models

import (
	"sort"
	"strings"
)

// GenreMap maps TMDb genre ids to display names.
type GenreMap map[int]string

func (s GenreMap) ByName() map[string]int {
	res := make(map[string]int, len(s))
	for id, name := range s {
		res[name] = id
	}
	return res
}

func (s GenreMap) IDByName(name string) (int, bool) {
	for id, n := range s {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Names joins the display names of ids, skipping unknown ones.
func (s GenreMap) Names(ids []int) string {
	var names []string
	for _, id := range ids {
		if n := s[id]; n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

func (s GenreMap) SortedNames() []string {
	seen := map[string]struct{}{}
	var res []string
	for _, n := range s {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}
