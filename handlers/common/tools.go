package common

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/webtor-io/movie-explorer/models"
)

// ReturnQueryField carries the explorer query string through form posts.
const ReturnQueryField = "return"

// ReturnURL rebuilds the explorer location from the posted query string. The
// query is re-encoded so only parameters, never another host or path, survive.
func ReturnURL(c *gin.Context) string {
	q, err := url.ParseQuery(c.PostForm(ReturnQueryField))
	if err != nil || len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// BindCriteria reads explorer filters from the query string. Unparseable
// numbers are ignored and the minimum rating is clamped into [0, 10].
func BindCriteria(c *gin.Context) models.Criteria {
	cr := models.Criteria{
		Query:    strings.TrimSpace(c.Query("q")),
		Genre:    c.Query("genre"),
		Language: c.Query("language"),
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		cr.Year = y
	}
	if r, err := strconv.ParseFloat(c.Query("min_rating"), 64); err == nil {
		cr.MinRating = min(max(r, 0), 10)
	}
	return cr
}
