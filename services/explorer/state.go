package explorer

import (
	"github.com/pkg/errors"
	"github.com/webtor-io/movie-explorer/services/favorites"
)

const (
	MinAge = 1
	MaxAge = 120
)

var ErrBadAge = errors.Errorf("age must be between %v and %v", MinAge, MaxAge)

// State is the per-session context every interaction is computed from.
type State struct {
	Age         int
	AllowAdult  bool
	Page        int
	CriteriaKey string
	Favorites   favorites.Set
}

func NewState() *State {
	return &State{
		Favorites: favorites.New(),
	}
}

// Verified reports whether the user passed the age gate.
func (s *State) Verified() bool {
	return s.Age > 0
}

func (s *State) SetAge(age int) error {
	if age < MinAge || age > MaxAge {
		return ErrBadAge
	}
	s.Age = age
	s.Page = 0
	return nil
}

func (s *State) NextPage() {
	s.Page++
}

func (s *State) PrevPage() {
	if s.Page > 0 {
		s.Page--
	}
}

// ResetIdentity forgets the age, the adult content preference, the page cursor
// and the favorites.
func (s *State) ResetIdentity() {
	s.Age = 0
	s.AllowAdult = false
	s.Page = 0
	s.CriteriaKey = ""
	if s.Favorites == nil {
		s.Favorites = favorites.New()
	}
	s.Favorites.Reset()
}
