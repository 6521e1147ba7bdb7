package web

import (
	"html/template"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// NewHelper returns template functions shared by all views.
func NewHelper(posterSize string) template.FuncMap {
	return template.FuncMap{
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"posterURL": func(path string) string {
			return "/poster/" + posterSize + path
		},
		"add": func(a, b int) int {
			return a + b
		},
		"dict": dict,
	}
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict expects key value pairs")
	}
	res := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.Errorf("dict key %v is not a string", kv[i])
		}
		res[k] = kv[i+1]
	}
	return res, nil
}
