package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/webtor-io/movie-explorer/handlers/common"
	"github.com/webtor-io/movie-explorer/models"
	"github.com/webtor-io/movie-explorer/services/catalog"
	"github.com/webtor-io/movie-explorer/services/explorer"
	"github.com/webtor-io/movie-explorer/services/filter"
	"github.com/webtor-io/movie-explorer/services/pager"
)

type Searcher interface {
	Search(ctx context.Context, cr models.Criteria, page int) (*filter.Result, *pager.Page[*models.Movie], error)
	Genres(ctx context.Context) (models.GenreMap, error)
	SetAllowAdult(st *explorer.State, allow bool)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MoviesResponse struct {
	Criteria models.Criteria `json:"criteria"`
	Movies   []*models.Movie `json:"movies"`
	Page     int             `json:"page"`
	MaxPage  int             `json:"max_page"`
	Total    int             `json:"total"`
	Message  string          `json:"message,omitempty"`
	Fallback string          `json:"fallback,omitempty"`
}

type Handler struct {
	s Searcher
}

func RegisterHandler(r *gin.Engine, s Searcher) {
	h := &Handler{
		s: s,
	}
	gr := r.Group("/api")
	gr.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET"},
	}))
	gr.GET("/genres", h.genres)
	gr.GET("/movies", h.movies)
}

func (s *Handler) error(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, catalog.ErrUnavailable) {
		code = http.StatusServiceUnavailable
	}
	log.WithError(err).Warn("api request failed")
	c.JSON(code, gin.H{"error": err.Error()})
}

func (s *Handler) genres(c *gin.Context) {
	gm, err := s.s.Genres(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}
	names := gm.SortedNames()
	res := make([]Genre, 0, len(names))
	for _, n := range names {
		id, _ := gm.IDByName(n)
		res = append(res, Genre{ID: id, Name: n})
	}
	c.JSON(http.StatusOK, res)
}

func (s *Handler) movies(c *gin.Context) {
	cr := common.BindCriteria(c)
	if c.Query("adult") == "true" {
		// adult movies follow the same age lock as the html views
		st := explorer.NewState()
		age, err := strconv.Atoi(c.Query("age"))
		if err != nil {
			err = explorer.ErrBadAge
		} else {
			err = st.SetAge(age)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errors.Wrap(err, "age is required for adult movies").Error()})
			return
		}
		s.s.SetAllowAdult(st, true)
		cr.AllowAdult = st.AllowAdult
	}
	page, _ := strconv.Atoi(c.Query("page"))
	res, p, err := s.s.Search(c.Request.Context(), cr, page)
	if err != nil {
		s.error(c, err)
		return
	}
	mr := &MoviesResponse{
		Criteria: cr,
		Movies:   p.Items,
		Page:     p.Cursor,
		MaxPage:  p.MaxPage,
		Total:    p.Total,
		Message:  res.Message(),
	}
	if mr.Movies == nil {
		mr.Movies = []*models.Movie{}
	}
	if res.Fallback != nil {
		mr.Fallback = res.Fallback.Message()
	}
	c.JSON(http.StatusOK, mr)
}
