package template

import (
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-contrib/multitemplate"
	"github.com/pkg/errors"
	"github.com/webtor-io/movie-explorer/services/web"
)

const (
	viewsDir    = "views"
	layoutsDir  = "layouts"
	partialsDir = "partials"
)

type Manager struct {
	re       multitemplate.Renderer
	fs       fs.FS
	funcs    template.FuncMap
	builders []*Builder
}

func NewManager(re multitemplate.Renderer, fsys fs.FS) *Manager {
	return &Manager{
		re:    re,
		fs:    fsys,
		funcs: template.FuncMap{},
	}
}

func (s *Manager) WithHelper(funcs template.FuncMap) *Manager {
	for k, v := range funcs {
		s.funcs[k] = v
	}
	return s
}

// MustRegisterViews registers views matching pattern relative to the views dir.
func (s *Manager) MustRegisterViews(pattern string) *Builder {
	files, err := fs.Glob(s.fs, path.Join(viewsDir, pattern+".html"))
	if err != nil {
		panic(err)
	}
	if len(files) == 0 {
		panic(errors.Errorf("no views found for %v", pattern))
	}
	b := &Builder{
		files: files,
	}
	s.builders = append(s.builders, b)
	return b
}

func (s *Manager) Init() error {
	partials, err := fs.Glob(s.fs, path.Join(partialsDir, "*.html"))
	if err != nil {
		return err
	}
	for _, b := range s.builders {
		for _, f := range b.files {
			var files []string
			name := path.Base(f)
			if b.layout != "" {
				lf := path.Join(layoutsDir, b.layout+".html")
				files = append(files, lf)
				name = path.Base(lf)
			}
			files = append(files, partials...)
			files = append(files, f)
			t, err := template.New(name).Funcs(s.funcs).ParseFS(s.fs, files...)
			if err != nil {
				return errors.Wrapf(err, "failed to parse view %v", f)
			}
			s.re.Add(viewName(f), t)
		}
	}
	return nil
}

func viewName(f string) string {
	return strings.TrimSuffix(strings.TrimPrefix(f, viewsDir+"/"), ".html")
}

type Builder struct {
	files  []string
	layout string
}

func (s *Builder) WithLayout(name string) *Builder {
	s.layout = name
	return s
}

func (s *Builder) Build(name string) *Template {
	return &Template{name: name}
}

type Template struct {
	name string
}

func (s *Template) HTML(code int, c *web.Context) {
	c.G.HTML(code, s.name, c)
}
