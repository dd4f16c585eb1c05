// Package render holds the HTML templates: one renderer per portfolio section,
// the builder page with its HTMX fragments, the preview page and the admin pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Zachkp/portfolio-builder/internal/builder"
	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/section"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
	"plural": func(n int, word string) string {
		if n == 1 {
			return word
		}
		return word + "s"
	},
}

// Templates parses every embedded template into one set.
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// SectionRenderers binds each section to its template in t.
func SectionRenderers(t *template.Template) builder.Renderers {
	return builder.Renderers{
		section.Hero:     sectionRenderer(t, "section-hero", func(c content.Portfolio) any { return c.Hero }),
		section.About:    sectionRenderer(t, "section-about", func(c content.Portfolio) any { return c.About }),
		section.Projects: sectionRenderer(t, "section-projects", func(c content.Portfolio) any { return c.Projects }),
		section.Contact:  sectionRenderer(t, "section-contact", func(c content.Portfolio) any { return c.Contact }),
	}
}

func sectionRenderer(t *template.Template, name string, pick func(content.Portfolio) any) builder.Renderer {
	return func(c content.Portfolio) (template.HTML, error) {
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, name, pick(c)); err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		return template.HTML(buf.String()), nil
	}
}
