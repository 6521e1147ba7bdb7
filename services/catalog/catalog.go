package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazymap"
	"github.com/webtor-io/movie-explorer/models"
)

const (
	catalogErrorExpireFlag = "genre-catalog-error-expire"
)

const (
	// successful fetches are kept until Clear
	keepForever = 100 * 365 * 24 * time.Hour
	// fetchTimeout bounds a shared fetch, it does not follow the caller.
	fetchTimeout = time.Minute
)

var ErrUnavailable = errors.New("genre catalog unavailable")

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.DurationFlag{
			Name:   catalogErrorExpireFlag,
			Usage:  "how long a failed genre fetch is remembered",
			Value:  10 * time.Second,
			EnvVar: "GENRE_CATALOG_ERROR_EXPIRE",
		},
	)
}

type GenreFetcher interface {
	Key() string
	GetGenres(ctx context.Context) (models.GenreMap, error)
}

type Catalog struct {
	api         GenreFetcher
	errorExpire time.Duration
	mux         sync.Mutex
	genres      *lazymap.LazyMap[models.GenreMap]
}

func New(c *cli.Context, api GenreFetcher) *Catalog {
	return NewCatalog(api, c.Duration(catalogErrorExpireFlag))
}

func NewCatalog(api GenreFetcher, errorExpire time.Duration) *Catalog {
	s := &Catalog{
		api:         api,
		errorExpire: errorExpire,
	}
	s.genres = s.makeMap()
	return s
}

func (s *Catalog) makeMap() *lazymap.LazyMap[models.GenreMap] {
	m := lazymap.New[models.GenreMap](&lazymap.Config{
		Expire:      keepForever,
		ErrorExpire: s.errorExpire,
	})
	return &m
}

// Get returns the memoized genre map. An empty map is reported as ErrUnavailable,
// dependent views must not render without it.
func (s *Catalog) Get(ctx context.Context) (models.GenreMap, error) {
	if s.api == nil {
		return models.GenreMap{}, errors.Wrap(ErrUnavailable, "tmdb api key is not configured")
	}
	s.mux.Lock()
	genres := s.genres
	s.mux.Unlock()
	gm, err := genres.Get(s.api.Key(), func() (models.GenreMap, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		gm, err := s.api.GetGenres(ctx)
		if err != nil {
			return nil, err
		}
		if len(gm) == 0 {
			return nil, errors.Wrap(ErrUnavailable, "empty genre list")
		}
		log.Infof("loaded %v genres", len(gm))
		return gm, nil
	})
	if err != nil {
		return models.GenreMap{}, errors.Wrap(ErrUnavailable, err.Error())
	}
	return gm, nil
}

func (s *Catalog) Clear() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.genres = s.makeMap()
}
