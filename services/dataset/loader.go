package dataset

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
	"github.com/webtor-io/lazymap"
	"github.com/webtor-io/movie-explorer/models"
)

const (
	datasetPathFlag       = "dataset-path"
	datasetURLFlag        = "dataset-url"
	datasetS3BucketFlag   = "dataset-s3-bucket"
	datasetS3KeyFlag      = "dataset-s3-key"
	datasetCachePathFlag  = "dataset-cache-path"
	datasetParsedPathFlag = "dataset-parsed-path"
	DatasetWatchFlag      = "dataset-watch"
)

const (
	keepForever = 100 * 365 * 24 * time.Hour
	// loadTimeout bounds a dataset load, which outlives the request that
	// started it.
	loadTimeout = 10 * time.Minute
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   datasetPathFlag,
			Usage:  "local dataset file (.parquet, .csv, .tsv), globs are allowed",
			EnvVar: "DATASET_PATH",
		},
		cli.StringFlag{
			Name:   datasetURLFlag,
			Usage:  "remote dataset url",
			EnvVar: "DATASET_URL",
		},
		cli.StringFlag{
			Name:   datasetS3BucketFlag,
			Usage:  "s3 bucket of remote dataset",
			EnvVar: "DATASET_S3_BUCKET",
		},
		cli.StringFlag{
			Name:   datasetS3KeyFlag,
			Usage:  "s3 key of remote dataset",
			EnvVar: "DATASET_S3_KEY",
		},
		cli.StringFlag{
			Name:   datasetCachePathFlag,
			Usage:  "local copy of remote dataset",
			Value:  "cached_movie_dataset.parquet",
			EnvVar: "DATASET_CACHE_PATH",
		},
		cli.StringFlag{
			Name:   datasetParsedPathFlag,
			Usage:  "pre-parsed dataset cache, empty disables it",
			Value:  "cached_movie_dataset.parsed.parquet",
			EnvVar: "DATASET_PARSED_PATH",
		},
		cli.BoolFlag{
			Name:   DatasetWatchFlag,
			Usage:  "reload local dataset on change",
			EnvVar: "DATASET_WATCH",
		},
	)
}

type Loader struct {
	source     Source
	parsedPath string
	mux        sync.Mutex
	datasets   *lazymap.LazyMap[*Dataset]
}

func New(c *cli.Context, cl *http.Client, s3Cl *cs.S3Client) (*Loader, error) {
	cachePath := c.String(datasetCachePathFlag)
	var source Source
	if p := c.String(datasetPathFlag); p != "" {
		source = NewLocalSource(p)
	} else if u := c.String(datasetURLFlag); u != "" {
		source = NewHTTPSource(cl, u, cachePath)
	} else if b := c.String(datasetS3BucketFlag); b != "" {
		if s3Cl == nil {
			return nil, errors.New("s3 client is not configured")
		}
		source = NewS3Source(s3Cl.Get(), b, c.String(datasetS3KeyFlag), cachePath)
	} else {
		return nil, errors.Errorf("no dataset source, set --%v, --%v or --%v", datasetPathFlag, datasetURLFlag, datasetS3BucketFlag)
	}
	log.Infof("dataset source %v", source.Key())
	return NewLoader(source, c.String(datasetParsedPathFlag)), nil
}

func NewLoader(source Source, parsedPath string) *Loader {
	s := &Loader{
		source:     source,
		parsedPath: parsedPath,
	}
	s.datasets = makeMap()
	return s
}

func makeMap() *lazymap.LazyMap[*Dataset] {
	m := lazymap.New[*Dataset](&lazymap.Config{
		Expire:      keepForever,
		ErrorExpire: 10 * time.Second,
	})
	return &m
}

func (s *Loader) Source() Source {
	return s.source
}

// Load returns the memoized dataset. Genre names of textual genre cells are
// resolved with genres.
func (s *Loader) Load(ctx context.Context, genres models.GenreMap) (*Dataset, error) {
	s.mux.Lock()
	datasets := s.datasets
	s.mux.Unlock()
	key := s.source.Key()
	if len(genres) == 0 {
		key += "#no-genres"
	}
	return datasets.Get(key, func() (*Dataset, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.load(ctx, genres)
	})
}

func (s *Loader) load(ctx context.Context, genres models.GenreMap) (*Dataset, error) {
	if s.parsedPath != "" && fileExists(s.parsedPath) {
		movies, warnings, err := ReadParsed(s.parsedPath)
		if err == nil {
			log.Infof("loaded %v movies from %v", len(movies), s.parsedPath)
			return NewDataset(movies, warnings), nil
		}
		log.WithError(err).Warn("failed to read parsed dataset, falling back to source")
	}
	path, err := s.source.Path(ctx)
	if err != nil {
		return nil, err
	}
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	movies, warnings := Normalize(t, genres)
	log.Infof("loaded %v movies from %v", len(movies), path)
	if s.parsedPath != "" && len(genres) == 0 {
		log.Warn("genre catalog is empty, parsed dataset is not stored")
	} else if s.parsedPath != "" {
		if err := WriteParsed(s.parsedPath, movies, warnings); err != nil {
			log.WithError(err).Warn("failed to store parsed dataset")
		}
	}
	return NewDataset(movies, warnings), nil
}

// Invalidate drops the memoized dataset and the pre-parsed cache.
func (s *Loader) Invalidate() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.datasets = makeMap()
	return removeFile(s.parsedPath)
}

// Clear invalidates the loader and also removes the downloaded copy of a remote
// dataset. Local datasets are never removed.
func (s *Loader) Clear() error {
	if err := s.Invalidate(); err != nil {
		return err
	}
	return removeFile(s.source.CachePath())
}

func removeFile(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove %v", path)
	}
	return nil
}

func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ReadParquetFile(path)
	case ".csv", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %v", path)
		}
		defer func() {
			_ = f.Close()
		}()
		comma := ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			comma = '\t'
		}
		return ReadCSV(f, comma)
	}
	return nil, errors.Errorf("unsupported dataset format %v", path)
}
