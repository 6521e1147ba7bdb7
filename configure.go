package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	fetchDatasetCMD := makeFetchDatasetCMD()
	clearCacheCMD := makeClearCacheCMD()
	app.Commands = []cli.Command{serveCMD, fetchDatasetCMD, clearCacheCMD}
}
