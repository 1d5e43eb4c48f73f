// Package catalog defines the recipe domain model and the tag catalog that
// drives the listing page filters. Quick tags get always-visible filter
// buttons; extra tags are only reachable through the multi-select dropdown.
package catalog

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrMissingTitle       = errors.New("recipe title is required")
	ErrMissingSteps       = errors.New("recipe needs at least one step")
	ErrMissingIngredients = errors.New("recipe needs at least one ingredient")
	ErrInvalidIngredient  = errors.New("ingredient needs a name and a positive amount")
)

// Tag is a single catalog entry: an opaque value used for filtering plus a
// human-readable label.
type Tag struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog holds the configured tag sets and answers membership questions for
// tag normalization and the dropdown's governed values.
type Catalog struct {
	quick  []Tag
	extra  []Tag
	known  map[string]Tag
	titler cases.Caser
}

// New builds a catalog from quick and extra tag lists. Tags without a label
// get a title-cased label derived from the value. Duplicate values keep their
// first occurrence; a value present in both lists stays quick.
func New(quick, extra []Tag) *Catalog {
	c := &Catalog{
		known:  make(map[string]Tag, len(quick)+len(extra)),
		titler: cases.Title(language.English),
	}
	for _, t := range quick {
		if t.Value == "" {
			continue
		}
		if _, seen := c.known[t.Value]; seen {
			continue
		}
		t = c.withLabel(t)
		c.quick = append(c.quick, t)
		c.known[t.Value] = t
	}
	for _, t := range extra {
		if t.Value == "" {
			continue
		}
		if _, seen := c.known[t.Value]; seen {
			continue
		}
		t = c.withLabel(t)
		c.extra = append(c.extra, t)
		c.known[t.Value] = t
	}
	return c
}

func (c *Catalog) withLabel(t Tag) Tag {
	if t.Label == "" {
		t.Label = c.titler.String(strings.ReplaceAll(t.Value, "-", " "))
	}
	return t
}

// Quick returns the always-visible filter tags in configured order.
func (c *Catalog) Quick() []Tag { return c.quick }

// Extra returns the dropdown-only tags in configured order.
func (c *Catalog) Extra() []Tag { return c.extra }

// ExtraValues returns the values governed by the dropdown panel.
func (c *Catalog) ExtraValues() []string {
	values := make([]string, len(c.extra))
	for i, t := range c.extra {
		values[i] = t.Value
	}
	return values
}

// Known reports whether the value belongs to the catalog.
func (c *Catalog) Known(value string) bool {
	_, ok := c.known[value]
	return ok
}

// LabelFor returns the display label for a tag value. Unknown values get a
// title-cased fallback so imported recipes with stray tags still render.
func (c *Catalog) LabelFor(value string) string {
	if t, ok := c.known[value]; ok {
		return t.Label
	}
	return c.titler.String(strings.ReplaceAll(value, "-", " "))
}

// Normalize drops unknown tag values and duplicates, preserving input order.
func (c *Catalog) Normalize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !c.Known(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		normalized = append(normalized, v)
	}
	return normalized
}

// Cover placeholders keyed by tag; recipes without an uploaded image fall
// back to the first matching tag placeholder, then to the default.
var coverPlaceholders = map[string]string{
	"breakfast": "/static/covers/breakfast.svg",
	"lunch":     "/static/covers/lunch.svg",
	"dinner":    "/static/covers/dinner.svg",
	"dessert":   "/static/covers/dessert.svg",
}

const defaultCover = "/static/covers/default.svg"

// CoverFor resolves the image shown on a recipe card.
func CoverFor(r Recipe) string {
	if r.ImagePath != "" {
		return r.ImagePath
	}
	for _, tag := range r.Tags {
		if cover, ok := coverPlaceholders[tag]; ok {
			return cover
		}
	}
	return defaultCover
}
