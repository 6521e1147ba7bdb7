package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/webtor-io/movie-explorer/models"
	"github.com/webtor-io/movie-explorer/services/catalog"
	"github.com/webtor-io/movie-explorer/services/explorer"
	"github.com/webtor-io/movie-explorer/services/filter"
	"github.com/webtor-io/movie-explorer/services/pager"
)

type mockSearcher struct {
	cr   models.Criteria
	page int
	err  error
}

func (m *mockSearcher) Search(_ context.Context, cr models.Criteria, page int) (*filter.Result, *pager.Page[*models.Movie], error) {
	m.cr = cr
	m.page = page
	if m.err != nil {
		return nil, nil, m.err
	}
	movies := []*models.Movie{{ID: "1", Title: "A"}}
	return &filter.Result{Movies: movies}, pager.Paginate(movies, page, 10), nil
}

func (m *mockSearcher) Genres(_ context.Context) (models.GenreMap, error) {
	if m.err != nil {
		return models.GenreMap{}, m.err
	}
	return models.GenreMap{28: "Action", 18: "Drama"}, nil
}

func (m *mockSearcher) SetAllowAdult(st *explorer.State, allow bool) {
	st.AllowAdult = allow && st.Age >= 18
}

func newTestRouter(s Searcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHandler(r, s)
	return r
}

func TestHandler_Genres(t *testing.T) {
	r := newTestRouter(&mockSearcher{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/genres = %d", w.Code)
	}
	var res []Genre
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 || res[0].Name != "Action" || res[0].ID != 28 {
		t.Errorf("genres = %+v", res)
	}
}

func TestHandler_Movies(t *testing.T) {
	s := &mockSearcher{}
	r := newTestRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/movies?q=+rescue+&year=2020&min_rating=15&adult=true&age=30&page=3", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/movies = %d", w.Code)
	}
	if s.cr.Query != "rescue" || s.cr.Year != 2020 || s.cr.MinRating != 10 || !s.cr.AllowAdult || s.page != 3 {
		t.Errorf("criteria = %+v page %d", s.cr, s.page)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing cors header")
	}
	var res MoviesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Movies) != 1 || res.Page != 0 || res.Total != 1 {
		t.Errorf("response = %+v", res)
	}
}

func TestHandler_Unavailable(t *testing.T) {
	r := newTestRouter(&mockSearcher{err: errors.Wrap(catalog.ErrUnavailable, "boom")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/movies = %d, want 503", w.Code)
	}
}

func TestHandler_MoviesAdultLock(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  int
		adult bool
	}{
		{name: "no age", query: "adult=true", code: http.StatusBadRequest},
		{name: "bad age", query: "adult=true&age=500", code: http.StatusBadRequest},
		{name: "minor", query: "adult=true&age=12", code: http.StatusOK, adult: false},
		{name: "adult", query: "adult=true&age=18", code: http.StatusOK, adult: true},
		{name: "not requested", query: "age=30", code: http.StatusOK, adult: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{}
			r := newTestRouter(s)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/movies?"+tt.query, nil))
			if w.Code != tt.code {
				t.Fatalf("GET /api/movies?%v = %d, want %d", tt.query, w.Code, tt.code)
			}
			if w.Code == http.StatusOK && s.cr.AllowAdult != tt.adult {
				t.Errorf("AllowAdult = %v, want %v", s.cr.AllowAdult, tt.adult)
			}
		})
	}
}
