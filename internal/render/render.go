// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the public site's html/template pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/mentoreu-go/internal/i18n"
	"github.com/olegiv/mentoreu-go/internal/locale"
)

// Template directories inside the templates filesystem.
const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// Renderer executes pre-parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
	now       func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Logger      *slog.Logger
}

// New parses every page under pages/ together with the base layout and the
// partials. A page named pages/landing.html is rendered as "landing".
func New(cfg Config) (*Renderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		logger:    logger,
		now:       time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, partialsDir)
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := templateFiles(templatesFS, pagesDir)
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no templates found in %s", pagesDir)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")

		// Parse in order: base layout, partials, page template
		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// templateFuncs returns the functions available to every template. "T" is a
// placeholder rebound to the visitor's language on each render.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"T": func(key string, _ ...any) string {
			return key
		},
		"languages": locale.All,
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("02.01.2006")
		},
		"truncate": func(s string, length int) string {
			if utf8.RuneCountInString(s) <= length {
				return s
			}
			return string([]rune(s)[:length]) + "..."
		},
		"add": func(a, b int) int {
			return a + b
		},
		"paragraphs": func(s string) []string {
			var out []string
			for _, p := range strings.Split(s, "\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	Lang        locale.Lang
	Path        string
	Data        any
	CurrentYear int
}

// Has reports whether a page template called name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes page name into w with the given status code. Output is
// buffered so a template error never produces a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if !data.Lang.Valid() {
		data.Lang = locale.Base
	}
	data.CurrentYear = r.now().Year()
	if data.Path == "" {
		data.Path = req.URL.Path
	}

	tmpl, err := tmpl.Clone()
	if err != nil {
		return fmt.Errorf("cloning template %s: %w", name, err)
	}
	tmpl.Funcs(template.FuncMap{"T": i18n.Func(data.Lang)})

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("writing response failed", "template", name, "error", err)
	}
	return nil
}
