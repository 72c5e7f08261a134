// Package view renders server-side HTML pages. Every page template is
// parsed together with the shared layout so each one can fill the
// "title" and "content" blocks.
//
//	r, _ := view.New(views.FS, nil)
//	r.Render(w, http.StatusOK, "index.html", page)
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

// LayoutFile is the template every page is rendered inside.
const LayoutFile = "layout.html"

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// DefaultFuncs are available to every template.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// New parses LayoutFile plus every other *.html file in fsys.
func New(fsys fs.FS, funcs template.FuncMap) (*Renderer, error) {
	all := DefaultFuncs()
	for k, v := range funcs {
		all[k] = v
	}

	layout, err := template.New(LayoutFile).Funcs(all).ParseFS(fsys, LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("view: parse layout: %w", err)
	}

	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("view: glob: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == LayoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("view: clone layout: %w", err)
		}
		if _, err := t.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[path.Base(name)] = t
	}
	return r, nil
}

// Has reports whether a page was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render executes page name into a buffer and writes it with status.
// Nothing is written when execution fails, so the caller can still send
// an error page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, LayoutFile, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
