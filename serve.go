package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
	wapi "github.com/webtor-io/movie-explorer/handlers/api"
	wex "github.com/webtor-io/movie-explorer/handlers/explorer"
	wp "github.com/webtor-io/movie-explorer/handlers/poster"
	sess "github.com/webtor-io/movie-explorer/handlers/session"
	"github.com/webtor-io/movie-explorer/services/catalog"
	"github.com/webtor-io/movie-explorer/services/common"
	"github.com/webtor-io/movie-explorer/services/dataset"
	"github.com/webtor-io/movie-explorer/services/explorer"
	"github.com/webtor-io/movie-explorer/services/favorites"
	"github.com/webtor-io/movie-explorer/services/poster"
	"github.com/webtor-io/movie-explorer/services/template"
	"github.com/webtor-io/movie-explorer/services/tmdb"
	w "github.com/webtor-io/movie-explorer/services/web"
	"github.com/webtor-io/movie-explorer/templates"
)

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves web server",
		Action:  serve,
	}
	configureServe(&serveCMD)
	return serveCMD
}

func configureServe(c *cli.Command) {
	c.Flags = cs.RegisterProbeFlags(c.Flags)
	c.Flags = cs.RegisterPprofFlags(c.Flags)
	c.Flags = w.RegisterFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = sess.RegisterFlags(c.Flags)
	c.Flags = favorites.RegisterFlags(c.Flags)
	c.Flags = poster.RegisterFlags(c.Flags)
	c.Flags = catalog.RegisterFlags(c.Flags)
	c.Flags = configureDataset(c.Flags)
}

// configureDataset registers flags needed to fetch genres and the dataset.
func configureDataset(f []cli.Flag) []cli.Flag {
	f = cs.RegisterS3ClientFlags(f)
	f = tmdb.RegisterFlags(f)
	f = dataset.RegisterFlags(f)
	return f
}

func makeCatalog(c *cli.Context, cl *http.Client) *catalog.Catalog {
	api := tmdb.New(c, cl)
	if api == nil {
		log.Warn("tmdb api key is not set, genres are unavailable")
		return catalog.New(c, nil)
	}
	return catalog.New(c, api)
}

func makeLoader(c *cli.Context, cl *http.Client) (*dataset.Loader, error) {
	return dataset.New(c, cl, cs.NewS3Client(c, cl))
}

func serve(c *cli.Context) error {
	// Setting HTTP Client
	cl := http.DefaultClient

	// Setting template renderer
	re := multitemplate.NewRenderer()

	// Setting Poster
	ps := poster.New(c, cl)

	// Setting TemplateManager
	tm := template.NewManager(re, templates.FS).
		WithHelper(w.NewHelper(ps.DefaultSize()))

	var servers []cs.Servable
	// Setting Probe
	probe := cs.NewProbe(c)
	if probe != nil {
		servers = append(servers, probe)
		defer probe.Close()
	}

	// Setting Pprof
	pprof := cs.NewPprof(c)
	if pprof != nil {
		servers = append(servers, pprof)
		defer pprof.Close()
	}

	// Setting Gin
	r := gin.Default()
	r.RedirectTrailingSlash = false
	r.HTMLRender = re

	// Setting Web
	web, err := w.New(c, r)
	if err != nil {
		return err
	}
	servers = append(servers, web)
	defer web.Close()

	err = sess.RegisterHandler(c, r, []string{
		"/api/",
		"/poster/",
	})
	if err != nil {
		return err
	}

	// Setting GenreCatalog
	ca := makeCatalog(c, cl)

	// Setting DatasetLoader
	l, err := makeLoader(c, cl)
	if err != nil {
		return err
	}

	// Setting DatasetWatcher
	if c.Bool(dataset.DatasetWatchFlag) {
		dw, err := dataset.NewWatcher(context.Background(), l)
		if err != nil {
			return err
		}
		servers = append(servers, dw)
		defer dw.Close()
	}

	// Setting Explorer
	ex := explorer.New(c, ca, l)

	// Setting FavoritesStore
	var fs favorites.Store
	if rs := favorites.NewRedisStore(c); rs != nil {
		defer rs.Close()
		fs = rs
	}

	// Setting ExplorerHandler
	wex.RegisterHandler(r, tm, ex, fs)

	// Setting PosterHandler
	wp.RegisterHandler(r, ps)

	// Setting ApiHandler
	wapi.RegisterHandler(r, ex)

	// Render templates
	err = tm.Init()
	if err != nil {
		return err
	}

	// Setting Serve
	serve := cs.NewServe(servers...)

	// And SERVE!
	err = serve.Serve()
	if err != nil {
		log.WithError(err).Error("got server error")
	}
	return err
}
