package web

import (
	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"
)

type Context struct {
	Data  any
	CSRF  string
	Path  string
	Query string
	Err   error
	G     *gin.Context
}

func NewContext(c *gin.Context) *Context {
	return &Context{
		CSRF:  csrf.GetToken(c),
		Path:  c.Request.URL.Path,
		Query: c.Request.URL.RawQuery,
		G:     c,
	}
}

func (s *Context) WithData(data any) *Context {
	s.Data = data
	return s
}

func (s *Context) WithErr(err error) *Context {
	s.Err = err
	return s
}
