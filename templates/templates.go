package templates

import "embed"

//go:embed layouts views partials
var FS embed.FS
