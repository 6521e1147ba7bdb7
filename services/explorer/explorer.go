package explorer

import (
	"context"
	"time"

	"github.com/urfave/cli"
	"github.com/webtor-io/movie-explorer/models"
	"github.com/webtor-io/movie-explorer/services/common"
	"github.com/webtor-io/movie-explorer/services/dataset"
	"github.com/webtor-io/movie-explorer/services/filter"
	"github.com/webtor-io/movie-explorer/services/pager"
)

type GenreCatalog interface {
	Get(ctx context.Context) (models.GenreMap, error)
	Clear()
}

type DatasetLoader interface {
	Load(ctx context.Context, genres models.GenreMap) (*dataset.Dataset, error)
	Clear() error
}

type Explorer struct {
	catalog  GenreCatalog
	loader   DatasetLoader
	langs    models.LanguageMap
	adultAge int
	pageSize int
	now      func() time.Time
}

func New(c *cli.Context, catalog GenreCatalog, loader DatasetLoader) *Explorer {
	return NewExplorer(catalog, loader, models.Languages, c.Int(common.AdultAgeFlag), c.Int(common.PageSizeFlag), time.Now)
}

func NewExplorer(catalog GenreCatalog, loader DatasetLoader, langs models.LanguageMap, adultAge int, pageSize int, now func() time.Time) *Explorer {
	if pageSize <= 0 {
		pageSize = pager.DefaultSize
	}
	return &Explorer{
		catalog:  catalog,
		loader:   loader,
		langs:    langs,
		adultAge: adultAge,
		pageSize: pageSize,
		now:      now,
	}
}

type Card struct {
	*models.Movie
	Genres   string
	Language string
	Favorite bool
}

type View struct {
	Age         int
	AdultAge    int
	AdultLocked bool
	Criteria    *models.Criteria
	GenreCount  int
	Genres      []string
	Languages   []string
	Years       []int
	Warnings    []string
	Result      *filter.Result
	Page        *pager.Page[*models.Movie]
	Cards       []*Card
	Favorites   int
}

func (s *Explorer) AdultAge() int {
	return s.adultAge
}

// AdultLocked reports whether adult content is forced off for the session.
func (s *Explorer) AdultLocked(st *State) bool {
	return st.Age < s.adultAge
}

func (s *Explorer) SetAllowAdult(st *State, allow bool) {
	st.AllowAdult = allow && !s.AdultLocked(st)
}

func (s *Explorer) ToggleFavorite(st *State, id string) bool {
	return st.Favorites.Toggle(id)
}

// ClearCache drops memoized genres and the cached dataset.
func (s *Explorer) ClearCache() error {
	s.catalog.Clear()
	return s.loader.Clear()
}

func (s *Explorer) load(ctx context.Context) (models.GenreMap, *dataset.Dataset, error) {
	genres, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	ds, err := s.loader.Load(ctx, genres)
	if err != nil {
		return nil, nil, err
	}
	return genres, ds, nil
}

// View recomputes everything shown for the session from st and the requested
// criteria. It moves the page cursor back to the first page when the criteria
// changed and clamps it into the available pages.
func (s *Explorer) View(ctx context.Context, st *State, in models.Criteria) (*View, error) {
	genres, ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	cr := in
	cr.AllowAdult = st.AllowAdult && !s.AdultLocked(st)
	if key := cr.Key(); key != st.CriteriaKey {
		st.CriteriaKey = key
		st.Page = 0
	}
	now := s.now()
	res := filter.Apply(ds.Movies, &cr, genres, s.langs, now)
	page := pager.Paginate(res.Movies, st.Page, s.pageSize)
	st.Page = page.Cursor
	cards := make([]*Card, len(page.Items))
	for i, m := range page.Items {
		cards[i] = &Card{
			Movie:    m,
			Genres:   genres.Names(m.GenreIDs),
			Language: s.langs.Display(m.OriginalLanguage),
			Favorite: st.Favorites.Contains(m.ID),
		}
	}
	return &View{
		Age:         st.Age,
		AdultAge:    s.adultAge,
		AdultLocked: s.AdultLocked(st),
		Criteria:    &cr,
		GenreCount:  len(genres),
		Genres:      genres.SortedNames(),
		Languages:   s.langs.DisplayNames(ds.Languages()),
		Years:       ds.Years(now),
		Warnings:    ds.Warnings,
		Result:      res,
		Page:        page,
		Cards:       cards,
		Favorites:   st.Favorites.Len(),
	}, nil
}

// Favorites returns the favorite movies of the session present in the dataset.
func (s *Explorer) Favorites(ctx context.Context, st *State) ([]*models.Movie, error) {
	_, ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var res []*models.Movie
	for _, id := range st.Favorites.All() {
		if m := ds.Get(id); m != nil {
			res = append(res, m)
		}
	}
	return res, nil
}

// Search serves stateless lookups, page is clamped like in View.
func (s *Explorer) Search(ctx context.Context, cr models.Criteria, page int) (*filter.Result, *pager.Page[*models.Movie], error) {
	genres, ds, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	res := filter.Apply(ds.Movies, &cr, genres, s.langs, s.now())
	return res, pager.Paginate(res.Movies, page, s.pageSize), nil
}

func (s *Explorer) Genres(ctx context.Context) (models.GenreMap, error) {
	return s.catalog.Get(ctx)
}
