// Package search turns listing-page requests into catalog queries.
// It parses the request parameters the browse UI sends (repeated tags
// keys plus an optional q term) and executes them against the store.
package search

import (
	"strconv"
	"strings"

	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/storage"
)

// DefaultLimit is the number of results returned when the request does
// not specify one.
const DefaultLimit = 30

// Params represents all parameters for a search operation.
type Params struct {
	// Query is the free-text search term. Empty means no text filtering.
	Query string

	// Tags restricts results to recipes carrying every listed tag.
	Tags []string

	// Limit is the maximum number of results to return.
	Limit int
}

// ParseParams extracts search parameters from URL query values.
// Tags arrive as repeated "tags" keys, the text term as a single "q".
//
// Example:
//
//	params := search.ParseParams(r.URL.Query())
func ParseParams(queryParams map[string][]string) Params {
	params := Params{
		Limit: DefaultLimit,
	}

	if q := queryParams["q"]; len(q) > 0 {
		params.Query = strings.TrimSpace(q[0])
	}

	if tags := queryParams["tags"]; len(tags) > 0 {
		params.Tags = tags
	}

	if limitStr := queryParams["limit"]; len(limitStr) > 0 && limitStr[0] != "" {
		if parsed, err := strconv.Atoi(limitStr[0]); err == nil && parsed > 0 {
			params.Limit = parsed
		}
	}

	return params
}

// Service executes searches against the recipe store. Tags are
// normalized through the catalog first, so unknown or duplicated tags
// never reach the database.
type Service struct {
	store   *storage.Store
	catalog *catalog.Catalog
}

// NewService creates a search service over the given store and tag catalog.
func NewService(store *storage.Store, cat *catalog.Catalog) *Service {
	return &Service{
		store:   store,
		catalog: cat,
	}
}

// Search runs the query and returns matching recipes, newest first.
func (s *Service) Search(params Params) ([]catalog.Recipe, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	tags := s.catalog.Normalize(params.Tags)
	return s.store.SearchRecipes(params.Query, tags, limit)
}
