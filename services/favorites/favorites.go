package favorites

import "sort"

// Set holds the favorite movie ids of a session.
type Set map[string]struct{}

func New(ids ...string) Set {
	s := Set{}
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Toggle adds id when absent and removes it otherwise. It reports whether id is
// a favorite afterwards.
func (s Set) Toggle(id string) bool {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) All() []string {
	res := make([]string, 0, len(s))
	for id := range s {
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Reset() {
	for id := range s {
		delete(s, id)
	}
}
