// Package render produces the HTML fragments served to the browse UI.
// The listing endpoint returns a ready-to-insert fragment of recipe
// cards rather than structured data, so the markup lives here in one
// place and both the web page and the API hand out identical HTML.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mvolkova/plateful/pkg/catalog"
)

//go:embed cards.html
var cardsTemplate string

// Renderer renders recipe card fragments using the tag catalog for
// display labels.
type Renderer struct {
	template *template.Template
	catalog  *catalog.Catalog
}

// cardData holds data passed to the cards template.
type cardData struct {
	Recipes []catalog.Recipe
	Query   string
}

// NewRenderer parses the card templates and returns a renderer bound to
// the given tag catalog.
func NewRenderer(cat *catalog.Catalog) (*Renderer, error) {
	funcs := template.FuncMap{
		"formatTime": FormatTime,
		"coverFor":   catalog.CoverFor,
		"tagLabel":   cat.LabelFor,
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
	}

	tmpl, err := template.New("cards").Funcs(funcs).Parse(cardsTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing cards template: %w", err)
	}

	return &Renderer{
		template: tmpl,
		catalog:  cat,
	}, nil
}

// RecipeCards renders the card fragment for a result set. An empty
// result set renders the empty-state markup, never an empty string.
func (r *Renderer) RecipeCards(recipes []catalog.Recipe, query string) (string, error) {
	var buf strings.Builder
	err := r.template.Execute(&buf, cardData{
		Recipes: recipes,
		Query:   query,
	})
	if err != nil {
		return "", fmt.Errorf("rendering cards: %w", err)
	}
	return buf.String(), nil
}

// RecipeCardsHTML is RecipeCards with the result marked safe for
// embedding in a page template.
func (r *Renderer) RecipeCardsHTML(recipes []catalog.Recipe, query string) (template.HTML, error) {
	s, err := r.RecipeCards(recipes, query)
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil
}

// FormatTime formats a time for display
func FormatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
