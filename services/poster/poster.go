package poster

import (
	"context"
	"image"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	posterHostFlag    = "poster-host"
	posterSizeFlag    = "poster-size"
	posterTimeoutFlag = "poster-timeout"
)

var sizeRegexp = regexp.MustCompile(`^(w\d{2,4}|original)$`)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   posterHostFlag,
			Usage:  "poster image host",
			Value:  "https://image.tmdb.org/t/p",
			EnvVar: "POSTER_HOST",
		},
		cli.StringFlag{
			Name:   posterSizeFlag,
			Usage:  "default poster size",
			Value:  "w185",
			EnvVar: "POSTER_SIZE",
		},
		cli.DurationFlag{
			Name:   posterTimeoutFlag,
			Usage:  "poster fetch timeout",
			Value:  5 * time.Second,
			EnvVar: "POSTER_TIMEOUT",
		},
	)
}

type Poster struct {
	url     string
	size    string
	timeout time.Duration
	cl      *http.Client
}

func New(c *cli.Context, cl *http.Client) *Poster {
	return NewPoster(cl, c.String(posterHostFlag), c.String(posterSizeFlag), c.Duration(posterTimeoutFlag))
}

func NewPoster(cl *http.Client, u string, size string, timeout time.Duration) *Poster {
	log.Infof("poster endpoint %v", u)
	return &Poster{
		url:     strings.TrimSuffix(u, "/"),
		size:    size,
		timeout: timeout,
		cl:      cl,
	}
}

func (s *Poster) DefaultSize() string {
	return s.size
}

func ValidSize(size string) bool {
	return sizeRegexp.MatchString(size)
}

// Get fetches and decodes a poster. Any failure is reported as no image.
func (s *Poster) Get(ctx context.Context, size string, path string) image.Image {
	img, err := s.get(ctx, size, path)
	if err != nil {
		log.WithError(err).Debugf("no poster for %v", path)
		return nil
	}
	return img
}

func (s *Poster) get(ctx context.Context, size string, path string) (image.Image, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, errors.Errorf("bad poster path %q", path)
	}
	if size == "" {
		size = s.size
	}
	if !ValidSize(size) {
		return nil, errors.Errorf("bad poster size %q", size)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", s.url+"/"+size+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	resp, err := s.cl.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "decode poster")
	}
	return img, nil
}
