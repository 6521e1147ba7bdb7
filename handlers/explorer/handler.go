package explorer

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/webtor-io/movie-explorer/handlers/common"
	"github.com/webtor-io/movie-explorer/models"
	"github.com/webtor-io/movie-explorer/services/catalog"
	"github.com/webtor-io/movie-explorer/services/explorer"
	"github.com/webtor-io/movie-explorer/services/favorites"
	"github.com/webtor-io/movie-explorer/services/template"
	"github.com/webtor-io/movie-explorer/services/web"
)

const (
	catalogUnavailableMessage = "Cannot load genre data from TMDb. Please try again later."
	saveFailedMessage         = "Failed to save your session. Please try again later."
)

type AgeData struct {
	Default int
	Min     int
	Max     int
}

type FavoritesData struct {
	Movies []*models.Movie
}

type Handler struct {
	tb *template.Builder
	ex *explorer.Explorer
	ss *stateStore
}

// RegisterHandler registers explorer views. Favorites are kept in fs when it is
// set and in the session cookie otherwise.
func RegisterHandler(r *gin.Engine, tm *template.Manager, ex *explorer.Explorer, fs favorites.Store) {
	h := &Handler{
		tb: tm.MustRegisterViews("*").WithLayout("main"),
		ex: ex,
		ss: &stateStore{fs: fs},
	}
	r.GET("/", h.index)
	r.POST("/age", h.age)
	r.POST("/adult", h.adult)
	r.POST("/page/next", h.nextPage)
	r.POST("/page/prev", h.prevPage)
	r.POST("/favorites/toggle", h.toggleFavorite)
	r.GET("/favorites", h.favorites)
	r.POST("/reset", h.reset)
	r.POST("/cache/clear", h.clearCache)
}

func (s *Handler) ageData() *AgeData {
	return &AgeData{
		Default: s.ex.AdultAge(),
		Min:     explorer.MinAge,
		Max:     explorer.MaxAge,
	}
}

func (s *Handler) index(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	if !st.Verified() {
		s.tb.Build("age").HTML(http.StatusOK, web.NewContext(c).WithData(s.ageData()))
		return
	}
	v, err := s.ex.View(c.Request.Context(), st, common.BindCriteria(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	if !s.save(c, st) {
		return
	}
	s.tb.Build("index").HTML(http.StatusOK, web.NewContext(c).WithData(v))
}

func (s *Handler) renderError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrUnavailable) {
		log.WithError(err).Warn("genre catalog unavailable")
		s.renderMessage(c, http.StatusServiceUnavailable, catalogUnavailableMessage)
		return
	}
	log.WithError(err).Error("failed to render explorer")
	s.renderMessage(c, http.StatusInternalServerError, "Failed to load movies. Please try again later.")
}

func (s *Handler) renderMessage(c *gin.Context, code int, msg string) {
	s.tb.Build("error").HTML(code, web.NewContext(c).WithErr(errors.New(msg)))
}

func (s *Handler) load(c *gin.Context) (*explorer.State, bool) {
	st, err := s.ss.load(c)
	if err != nil {
		log.WithError(err).Error("failed to load explorer state")
		s.renderMessage(c, http.StatusInternalServerError, "Failed to load your session. Please try again later.")
		return nil, false
	}
	return st, true
}

func (s *Handler) save(c *gin.Context, st *explorer.State) bool {
	if err := s.ss.save(c, st); err != nil {
		log.WithError(err).Error("failed to save explorer state")
		s.renderMessage(c, http.StatusInternalServerError, saveFailedMessage)
		return false
	}
	return true
}

func (s *Handler) age(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	age, err := strconv.Atoi(strings.TrimSpace(c.PostForm("age")))
	if err == nil {
		err = st.SetAge(age)
	} else {
		err = explorer.ErrBadAge
	}
	if err != nil {
		s.tb.Build("age").HTML(http.StatusBadRequest, web.NewContext(c).WithData(s.ageData()).WithErr(err))
		return
	}
	s.ex.SetAllowAdult(st, st.AllowAdult)
	if !s.save(c, st) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Handler) adult(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	s.ex.SetAllowAdult(st, c.PostForm("allow") == "on")
	if !s.save(c, st) {
		return
	}
	c.Redirect(http.StatusFound, common.ReturnURL(c))
}

func (s *Handler) nextPage(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	st.NextPage()
	if !s.save(c, st) {
		return
	}
	c.Redirect(http.StatusFound, common.ReturnURL(c))
}

func (s *Handler) prevPage(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	st.PrevPage()
	if !s.save(c, st) {
		return
	}
	c.Redirect(http.StatusFound, common.ReturnURL(c))
}

func (s *Handler) toggleFavorite(c *gin.Context) {
	id := c.PostForm("id")
	if id == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	st, ok := s.load(c)
	if !ok {
		return
	}
	if s.ss.full(st, id) {
		s.renderMessage(c, http.StatusBadRequest, ErrFavoritesFull.Error())
		return
	}
	s.ex.ToggleFavorite(st, id)
	if !s.save(c, st) {
		return
	}
	c.Redirect(http.StatusFound, common.ReturnURL(c))
}

func (s *Handler) favorites(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	if !st.Verified() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	movies, err := s.ex.Favorites(c.Request.Context(), st)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.tb.Build("favorites").HTML(http.StatusOK, web.NewContext(c).WithData(&FavoritesData{
		Movies: movies,
	}))
}

func (s *Handler) reset(c *gin.Context) {
	st, ok := s.load(c)
	if !ok {
		return
	}
	st.ResetIdentity()
	if !s.save(c, st) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Handler) clearCache(c *gin.Context) {
	if err := s.ex.ClearCache(); err != nil {
		log.WithError(err).Error("failed to clear cache")
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	log.Info("cache cleared")
	c.Redirect(http.StatusFound, common.ReturnURL(c))
}
