package common

import (
	"strings"

	"github.com/urfave/cli"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	SessionSecretFlag = "secret"
	AdultAgeFlag      = "adult-age"
	PageSizeFlag      = "page-size"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	f = append(f,
		cli.StringFlag{
			Name:   SessionSecretFlag,
			Usage:  "session secret",
			Value:  "secret123",
			EnvVar: "SESSION_SECRET",
		},
		cli.IntFlag{
			Name:   AdultAgeFlag,
			Usage:  "minimal age to allow adult content",
			Value:  18,
			EnvVar: "ADULT_AGE",
		},
		cli.IntFlag{
			Name:   PageSizeFlag,
			Usage:  "movies per page",
			Value:  10,
			EnvVar: "PAGE_SIZE",
		},
	)

	return f
}

// Lower trims and lower-cases s for case-insensitive matching.
func Lower(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
