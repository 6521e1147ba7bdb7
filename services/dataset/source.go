package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/yargevad/filepathx"
)

const downloadTimeout = 10 * time.Minute

// Source provides a local path of the raw dataset.
type Source interface {
	// Key identifies the dataset for memoization.
	Key() string
	// Path returns a local path of the raw dataset, downloading it when required.
	Path(ctx context.Context) (string, error)
	// CachePath is the downloaded copy owned by the loader, empty for local files.
	CachePath() string
}

type LocalSource struct {
	pattern string
}

func NewLocalSource(pattern string) *LocalSource {
	return &LocalSource{pattern: pattern}
}

func (s *LocalSource) Key() string {
	return "file:" + s.pattern
}

func (s *LocalSource) CachePath() string {
	return ""
}

// Path resolves pattern, "**" globs are allowed. The first match in lexical order wins.
func (s *LocalSource) Path(_ context.Context) (string, error) {
	matches, err := filepathx.Glob(s.pattern)
	if err != nil {
		return "", errors.Wrapf(err, "bad dataset path %v", s.pattern)
	}
	var files []string
	for _, m := range matches {
		if fileExists(m) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return "", errors.Errorf("dataset not found at %v", s.pattern)
	}
	sort.Strings(files)
	return files[0], nil
}

type HTTPSource struct {
	url       string
	cachePath string
	cl        *http.Client
}

func NewHTTPSource(cl *http.Client, url string, cachePath string) *HTTPSource {
	return &HTTPSource{
		url:       url,
		cachePath: cachePath,
		cl:        cl,
	}
}

func (s *HTTPSource) Key() string {
	return "url:" + s.url
}

func (s *HTTPSource) CachePath() string {
	return s.cachePath
}

func (s *HTTPSource) Path(ctx context.Context) (string, error) {
	if fileExists(s.cachePath) {
		return s.cachePath, nil
	}
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	log.Infof("downloading dataset from %v", s.url)
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	resp, err := s.cl.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := store(resp.Body, s.cachePath); err != nil {
		return "", err
	}
	return s.cachePath, nil
}

type S3Source struct {
	cl        *s3.S3
	bucket    string
	key       string
	cachePath string
}

func NewS3Source(cl *s3.S3, bucket string, key string, cachePath string) *S3Source {
	return &S3Source{
		cl:        cl,
		bucket:    bucket,
		key:       key,
		cachePath: cachePath,
	}
}

func (s *S3Source) Key() string {
	return fmt.Sprintf("s3:%v/%v", s.bucket, s.key)
}

func (s *S3Source) CachePath() string {
	return s.cachePath
}

func (s *S3Source) Path(ctx context.Context) (string, error) {
	if fileExists(s.cachePath) {
		return s.cachePath, nil
	}
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	log.Infof("downloading dataset from s3 bucket=%v key=%v", s.bucket, s.key)
	r, err := s.cl.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to get dataset object")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(r.Body)
	if err := store(r.Body, s.cachePath); err != nil {
		return "", err
	}
	return s.cachePath, nil
}

// store writes r to path through a temporary file so a broken download never
// leaves a partial dataset at path.
func store(r io.Reader, path string) error {
	tmp := tempPath(path)
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "failed to create %v", tmp)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to download dataset")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "failed to move dataset to %v", path)
	}
	log.Infof("dataset stored at %v (%v)", path, humanize.Bytes(uint64(n)))
	return nil
}
