package catalog

import (
	"strings"
	"time"
)

// Recipe is the fundamental unit of the catalog: searchable text content,
// a set of tag facets, and the structured ingredients and steps needed to
// render the detail page.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ImagePath   string       `json:"image_path,omitempty"`
	Author      string       `json:"author,omitempty"`
	Tags        []string     `json:"tags"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Steps       []Step       `json:"steps,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Ingredient is a single recipe ingredient with an amount in a fixed unit.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit,omitempty"`
}

// Step is one instruction in a recipe, ordered by Position.
type Step struct {
	Position    int    `json:"position"`
	Instruction string `json:"instruction"`
	ImagePath   string `json:"image_path,omitempty"`
}

// SearchText returns the text indexed for full-text search: title,
// description and ingredient names.
func (r Recipe) SearchText() string {
	parts := make([]string, 0, 2+len(r.Ingredients))
	parts = append(parts, r.Title)
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.Name)
	}
	return strings.Join(parts, " ")
}

// HasTag reports whether the recipe carries the given tag.
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate reports the first structural problem with the recipe, mirroring
// what the create form enforces: a title, at least one step and at least one
// ingredient with a positive amount.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if len(r.Steps) == 0 {
		return ErrMissingSteps
	}
	if len(r.Ingredients) == 0 {
		return ErrMissingIngredients
	}
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" || ing.Amount <= 0 {
			return ErrInvalidIngredient
		}
	}
	return nil
}
