package session

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	csrf "github.com/utrack/gin-csrf"
	"github.com/webtor-io/movie-explorer/services/common"
)

const (
	sessionName       = "movie-explorer"
	sessionSecureFlag = "session-secure"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.BoolFlag{
			Name:   sessionSecureFlag,
			Usage:  "send session cookie over https only",
			EnvVar: "SESSION_SECURE",
		},
	)
}

// RegisterHandler installs cookie sessions and csrf protection. Paths starting
// with one of ignorePaths skip csrf checks.
func RegisterHandler(c *cli.Context, r *gin.Engine, ignorePaths []string) error {
	secret := c.String(common.SessionSecretFlag)
	if secret == "" {
		return errors.New("session secret is empty")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   c.Bool(sessionSecureFlag),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	cm := csrf.Middleware(csrf.Options{
		Secret: secret,
		ErrorFunc: func(c *gin.Context) {
			c.String(http.StatusBadRequest, "CSRF token mismatch")
			c.Abort()
		},
	})
	r.Use(func(c *gin.Context) {
		for _, p := range ignorePaths {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}
		cm(c)
	})
	return nil
}
