package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/techbites/storefront/internal/domain/catalog"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Renderer executes the embedded storefront templates
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"formatPrice":   FormatPrice,
		"categoryQuery": categoryQuery,
		"emptyText":     func() string { return EmptyCategoryText },
	}
	tmpl, err := template.New("storefront").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse storefront templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes page to w. Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, page Page) error {
	name := "index.html.tmpl"
	if !page.Ready {
		name = "blank.html.tmpl"
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func categoryQuery(c catalog.Category) string {
	return "/?categoria=" + template.URLQueryEscaper(c.String())
}
