package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/movie-explorer/models"
)

const (
	tmdbApiKeyFlag        = "tmdb-api-key"
	tmdbApiSecureFlag     = "tmdb-api-secure"
	tmdbApiHostFlag       = "tmdb-api-host"
	tmdbApiPortFlag       = "tmdb-api-port"
	tmdbApiTimeoutFlag    = "tmdb-api-timeout"
	tmdbApiRetriesFlag    = "tmdb-api-retries"
	tmdbApiRetryDelayFlag = "tmdb-api-retry-delay"
)

const genreListPath = "/3/genre/movie/list"

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   tmdbApiHostFlag,
			Usage:  "tmdb api host",
			EnvVar: "TMDB_API_HOST",
			Value:  "api.themoviedb.org",
		},
		cli.IntFlag{
			Name:   tmdbApiPortFlag,
			Usage:  "tmdb api port",
			EnvVar: "TMDB_API_PORT",
			Value:  443,
		},
		cli.BoolTFlag{
			Name:   tmdbApiSecureFlag,
			Usage:  "tmdb api secure (https)",
			EnvVar: "TMDB_API_SECURE",
		},
		cli.StringFlag{
			Name:   tmdbApiKeyFlag,
			Usage:  "tmdb api key",
			Value:  "",
			EnvVar: "TMDB_API_KEY",
		},
		cli.DurationFlag{
			Name:   tmdbApiTimeoutFlag,
			Usage:  "tmdb api request timeout",
			EnvVar: "TMDB_API_TIMEOUT",
			Value:  10 * time.Second,
		},
		cli.IntFlag{
			Name:   tmdbApiRetriesFlag,
			Usage:  "tmdb api attempts before giving up",
			EnvVar: "TMDB_API_RETRIES",
			Value:  3,
		},
		cli.DurationFlag{
			Name:   tmdbApiRetryDelayFlag,
			Usage:  "tmdb api delay between attempts",
			EnvVar: "TMDB_API_RETRY_DELAY",
			Value:  2 * time.Second,
		},
	)
}

type GenreListResponse struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type Api struct {
	url            string
	key            string
	cl             *http.Client
	timeout        time.Duration
	retries        int
	delay          time.Duration
	prepareRequest func(r *http.Request) (*http.Request, error)
}

func New(c *cli.Context, cl *http.Client) *Api {
	host := c.String(tmdbApiHostFlag)
	port := c.Int(tmdbApiPortFlag)
	secure := c.BoolT(tmdbApiSecureFlag)
	key := c.String(tmdbApiKeyFlag)
	if key == "" {
		return nil
	}
	protocol := "http"
	if secure {
		protocol = "https"
	}
	u := fmt.Sprintf("%v://%v:%v", protocol, host, port)
	log.Infof("tmdb api endpoint %v", u)
	return NewApi(u, key, cl, c.Duration(tmdbApiTimeoutFlag), c.Int(tmdbApiRetriesFlag), c.Duration(tmdbApiRetryDelayFlag))
}

func NewApi(u string, key string, cl *http.Client, timeout time.Duration, retries int, delay time.Duration) *Api {
	if retries < 1 {
		retries = 1
	}
	return &Api{
		url:     u,
		key:     key,
		cl:      cl,
		timeout: timeout,
		retries: retries,
		delay:   delay,
		prepareRequest: func(r *http.Request) (*http.Request, error) {
			q := r.URL.Query()
			q.Set("api_key", key)
			r.URL.RawQuery = q.Encode()
			return r, nil
		},
	}
}

// Key identifies the catalog the api talks to.
func (api *Api) Key() string {
	return api.key
}

// GetGenres fetches the movie genre list, retrying a fixed number of times with a
// fixed delay. After the last failed attempt it returns an empty map and the error.
func (api *Api) GetGenres(ctx context.Context) (models.GenreMap, error) {
	var lastErr error
	for attempt := 1; attempt <= api.retries; attempt++ {
		genres, err := api.getGenres(ctx)
		if err == nil {
			return genres, nil
		}
		lastErr = err
		if attempt == api.retries {
			break
		}
		log.WithError(err).Warnf("tmdb genre request failed (attempt %v/%v), retrying in %v", attempt, api.retries, api.delay)
		select {
		case <-ctx.Done():
			return models.GenreMap{}, errors.Wrap(ctx.Err(), "genre request canceled")
		case <-time.After(api.delay):
		}
	}
	return models.GenreMap{}, errors.Wrapf(lastErr, "failed to fetch genres after %v attempts", api.retries)
}

func (api *Api) getGenres(ctx context.Context) (models.GenreMap, error) {
	if api.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", api.url+genreListPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	q := req.URL.Query()
	q.Set("language", "en-US")
	req.URL.RawQuery = q.Encode()

	req, err = api.prepareRequest(req)
	if err != nil {
		return nil, errors.Wrap(err, "prepare request")
	}

	resp, err := api.cl.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var raw GenreListResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	res := make(models.GenreMap, len(raw.Genres))
	for _, g := range raw.Genres {
		res[g.ID] = g.Name
	}
	return res, nil
}
