package api

import (
	"time"

	"github.com/mvolkova/plateful/pkg/catalog"
)

// SearchResponse carries the rendered card fragment for the listing page.
// The browse UI replaces the results region with this HTML verbatim.
type SearchResponse struct {
	HTML string `json:"html"`
}

// TagInfo describes one filter tag with its display label and how many
// recipes currently carry it.
type TagInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type TagsResponse struct {
	Quick []TagInfo `json:"quick"`
	Extra []TagInfo `json:"extra"`
}

type IngredientInfo struct {
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
}

type IngredientsResponse struct {
	Ingredients []IngredientInfo `json:"ingredients"`
	Count       int              `json:"count"`
}

type RecipeResponse struct {
	Recipe catalog.Recipe `json:"recipe"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Recipes   int       `json:"recipes"`
}
