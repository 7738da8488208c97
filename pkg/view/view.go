// Package view renders the admin HTML pages with unrolled/render.
//
// Templates live in resources/templates and are embedded into the binary.
// Every page is wrapped in layout.html. Standalone documents such as the
// printable receipt pass Bare, since an empty Layout falls back to the default.
package view

import (
	"embed"
	"html/template"
	"path"
	"time"

	"github.com/unrolled/render"

	"github.com/shashiranjanraj/shopdesk/pkg/money"
)

// Flash is a one-line notice shown at the top of a page.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// Page holds the fields the layout reads. Page structs embed it.
type Page struct {
	Title string
	Flash *Flash
}

// Bare renders a template without the site layout.
var Bare = render.HTMLOptions{Layout: "bare"}

// Options configures New.
type Options struct {
	Templates embed.FS
	Currency  string
}

// New builds the renderer shared by all controllers.
func New(o Options) *render.Render {
	return render.New(render.Options{
		Directory:  "templates",
		FileSystem: &render.EmbedFileSystem{FS: o.Templates},
		Layout:     "layout",
		Extensions: []string{".html"},
		Funcs:      []template.FuncMap{Funcs(o.Currency)},
	})
}

// Funcs returns the template helpers. Exported for template tests.
func Funcs(currency string) template.FuncMap {
	f := money.NewFormatter(currency)
	return template.FuncMap{
		"money":    f.Format,
		"currency": func() string { return currency },
		"date": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
		"image": func(file string) string {
			if file == "" {
				file = "default.jpg"
			}
			return path.Join("/static/product_images", file)
		},
		"has": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
	}
}
