package poster

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	ps "github.com/webtor-io/movie-explorer/services/poster"
)

const (
	JPEGQuality = 85
	maxWidth    = 2000
)

type Getter interface {
	Get(ctx context.Context, size string, path string) image.Image
}

type Handler struct {
	p Getter
}

func RegisterHandler(r *gin.Engine, p Getter) {
	h := &Handler{
		p: p,
	}
	r.GET("/poster/:size/*path", h.poster)
}

type Args struct {
	size  string
	path  string
	width int
}

func bindArgs(c *gin.Context) (*Args, error) {
	size := c.Param("size")
	if !ps.ValidSize(size) {
		return nil, errors.Errorf("wrong size %v", size)
	}
	a := &Args{
		size: size,
		path: c.Param("path"),
	}
	if w := c.Query("w"); w != "" {
		width, err := strconv.Atoi(w)
		if err != nil || width <= 0 || width > maxWidth {
			return nil, errors.Errorf("wrong width %v", w)
		}
		a.width = width
	}
	return a, nil
}

func (s *Handler) poster(c *gin.Context) {
	a, err := bindArgs(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	img := s.p.Get(c.Request.Context(), a.size, a.path)
	if img == nil {
		c.Status(http.StatusNotFound)
		return
	}
	if a.width > 0 {
		img = imaging.Resize(img, a.width, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		log.WithError(err).Error("failed to encode poster")
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	etag := generateETag(buf.Bytes())
	if match := c.Request.Header.Get("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, &buf)
}

func generateETag(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf(`"%x"`, sum[:])
}
