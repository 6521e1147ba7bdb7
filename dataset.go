package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/movie-explorer/services/catalog"
)

func makeFetchDatasetCMD() cli.Command {
	fetchCMD := cli.Command{
		Name:    "fetch-dataset",
		Aliases: []string{"f"},
		Usage:   "Downloads the dataset and builds the pre-parsed cache",
		Action:  fetchDataset,
	}
	configureFetchDataset(&fetchCMD)
	return fetchCMD
}

func configureFetchDataset(c *cli.Command) {
	c.Flags = append(c.Flags,
		cli.BoolFlag{
			Name:  "force",
			Usage: "drop cached copies before fetching",
		},
	)
	c.Flags = catalog.RegisterFlags(c.Flags)
	c.Flags = configureDataset(c.Flags)
}

func fetchDataset(c *cli.Context) error {
	// Setting HTTP Client
	cl := http.DefaultClient

	// Setting GenreCatalog
	ca := makeCatalog(c, cl)

	// Setting DatasetLoader
	l, err := makeLoader(c, cl)
	if err != nil {
		return err
	}
	if c.Bool("force") {
		if err := l.Clear(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	// Textual genre cells can't be resolved without genres.
	genres, err := ca.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get genres")
	}
	ds, err := l.Load(ctx, genres)
	if err != nil {
		return errors.Wrap(err, "failed to load dataset")
	}
	for _, w := range ds.Warnings {
		log.Warn(w)
	}
	log.Infof("dataset ready, %v movies", humanize.Comma(int64(len(ds.Movies))))
	return nil
}

func makeClearCacheCMD() cli.Command {
	clearCMD := cli.Command{
		Name:    "clear-cache",
		Aliases: []string{"cc"},
		Usage:   "Removes the downloaded dataset and the pre-parsed cache",
		Action:  clearCache,
	}
	clearCMD.Flags = configureDataset(clearCMD.Flags)
	return clearCMD
}

func clearCache(c *cli.Context) error {
	l, err := makeLoader(c, http.DefaultClient)
	if err != nil {
		return err
	}
	if err := l.Clear(); err != nil {
		return err
	}
	log.Info("dataset cache cleared")
	return nil
}
