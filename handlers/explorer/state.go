package explorer

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/webtor-io/movie-explorer/services/explorer"
	"github.com/webtor-io/movie-explorer/services/favorites"
)

const (
	ageKey        = "age"
	allowAdultKey = "allow_adult"
	pageKey       = "page"
	criteriaKey   = "criteria"
	favoritesKey  = "favorites"
	sidKey        = "sid"
)

// maxSessionFavorites caps favorites kept in the session cookie, which holds
// about 4KB.
var maxSessionFavorites = 200

var ErrFavoritesFull = errors.Errorf("You can keep up to %v favorites, remove some to add new ones.", maxSessionFavorites)

type stateStore struct {
	fs favorites.Store
}

// full reports whether adding id would exceed the favorites cap of the cookie
// session.
func (s *stateStore) full(st *explorer.State, id string) bool {
	return s.fs == nil && !st.Favorites.Contains(id) && st.Favorites.Len() >= maxSessionFavorites
}

func (s *stateStore) load(c *gin.Context) (*explorer.State, error) {
	session := sessions.Default(c)
	st := explorer.NewState()
	if v, ok := session.Get(ageKey).(int); ok {
		st.Age = v
	}
	if v, ok := session.Get(allowAdultKey).(bool); ok {
		st.AllowAdult = v
	}
	if v, ok := session.Get(pageKey).(int); ok {
		st.Page = v
	}
	if v, ok := session.Get(criteriaKey).(string); ok {
		st.CriteriaKey = v
	}
	if s.fs == nil {
		if v, ok := session.Get(favoritesKey).([]string); ok {
			st.Favorites = favorites.New(v...)
		}
		return st, nil
	}
	sid, ok := session.Get(sidKey).(string)
	if !ok {
		return st, nil
	}
	fs, err := s.fs.Load(c.Request.Context(), sid)
	if err != nil {
		return nil, err
	}
	st.Favorites = fs
	return st, nil
}

func (s *stateStore) save(c *gin.Context, st *explorer.State) error {
	session := sessions.Default(c)
	session.Set(ageKey, st.Age)
	session.Set(allowAdultKey, st.AllowAdult)
	session.Set(pageKey, st.Page)
	session.Set(criteriaKey, st.CriteriaKey)
	if s.fs == nil {
		session.Set(favoritesKey, st.Favorites.All())
	} else {
		sid, ok := session.Get(sidKey).(string)
		if !ok {
			sid = uuid.NewString()
			session.Set(sidKey, sid)
		}
		session.Delete(favoritesKey)
		if err := s.fs.Save(c.Request.Context(), sid, st.Favorites); err != nil {
			return err
		}
	}
	if err := session.Save(); err != nil {
		return errors.Wrap(err, "failed to save session")
	}
	return nil
}
