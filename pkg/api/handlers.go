package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/realtime"
	"github.com/mvolkova/plateful/pkg/search"
	"github.com/mvolkova/plateful/pkg/storage"
	"github.com/mvolkova/plateful/pkg/version"
)

// HandleSearch serves the listing page's result fragment. Tags arrive as
// repeated "tags" keys, the text term as "q". The response is always a
// single HTML string, the empty result set included.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.ParseParams(r.URL.Query())

	recipes, err := s.search.Search(params)
	if err != nil {
		logger.Errorf("search failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "search_failed", "Failed to search recipes")
		return
	}

	html, err := s.renderer.RecipeCards(recipes, params.Query)
	if err != nil {
		logger.Errorf("rendering results failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "render_failed", "Failed to render results")
		return
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{HTML: html})
}

// HandleTags lists the filter tags in their two groups, with recipe counts.
func (s *Server) HandleTags(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.TagCounts()
	if err != nil {
		logger.Errorf("counting tags: %v", err)
		s.writeError(w, http.StatusInternalServerError, "tags_failed", "Failed to list tags")
		return
	}

	toInfo := func(tags []catalog.Tag) []TagInfo {
		infos := make([]TagInfo, 0, len(tags))
		for _, t := range tags {
			infos = append(infos, TagInfo{
				Value: t.Value,
				Label: t.Label,
				Count: counts[t.Value],
			})
		}
		return infos
	}

	s.writeJSON(w, http.StatusOK, TagsResponse{
		Quick: toInfo(s.catalog.Quick()),
		Extra: toInfo(s.catalog.Extra()),
	})
}

// HandleIngredients suggests ingredients for the create-recipe form.
func (s *Server) HandleIngredients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries := s.ingredients.Suggest(query, limit)
	infos := make([]IngredientInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, IngredientInfo{Name: e.Name, Unit: e.Unit})
	}

	s.writeJSON(w, http.StatusOK, IngredientsResponse{
		Ingredients: infos,
		Count:       len(infos),
	})
}

// HandleCreateRecipe stores a new recipe and announces it on the firehose.
func (s *Server) HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var recipe catalog.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}

	if err := recipe.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_recipe", err.Error())
		return
	}

	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	recipe.Tags = s.catalog.Normalize(recipe.Tags)

	if err := s.store.SaveRecipe(recipe); err != nil {
		logger.Errorf("saving recipe: %v", err)
		s.writeError(w, http.StatusInternalServerError, "save_failed", "Failed to save recipe")
		return
	}

	s.hub.Broadcast(realtime.Event{
		Type: realtime.EventRecipeCreated,
		Recipe: realtime.RecipeEvent{
			ID:        recipe.ID,
			Title:     recipe.Title,
			Author:    recipe.Author,
			Tags:      recipe.Tags,
			CreatedAt: recipe.CreatedAt,
		},
	})

	s.writeJSON(w, http.StatusCreated, RecipeResponse{Recipe: recipe})
}

// HandleGetRecipe fetches a single recipe by ID.
func (s *Server) HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	recipe, err := s.store.GetRecipe(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", "Recipe not found")
		return
	}
	if err != nil {
		logger.Errorf("getting recipe %s: %v", id, err)
		s.writeError(w, http.StatusInternalServerError, "get_failed", "Failed to get recipe")
		return
	}

	s.writeJSON(w, http.StatusOK, RecipeResponse{Recipe: *recipe})
}

// HandleDeleteRecipe removes a recipe and announces the removal.
func (s *Server) HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	recipe, err := s.store.GetRecipe(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", "Recipe not found")
		return
	}
	if err != nil {
		logger.Errorf("getting recipe %s: %v", id, err)
		s.writeError(w, http.StatusInternalServerError, "delete_failed", "Failed to delete recipe")
		return
	}

	if err := s.store.DeleteRecipe(id); err != nil {
		logger.Errorf("deleting recipe %s: %v", id, err)
		s.writeError(w, http.StatusInternalServerError, "delete_failed", "Failed to delete recipe")
		return
	}

	s.hub.Broadcast(realtime.Event{
		Type: realtime.EventRecipeDeleted,
		Recipe: realtime.RecipeEvent{
			ID:        recipe.ID,
			Title:     recipe.Title,
			Author:    recipe.Author,
			Tags:      recipe.Tags,
			CreatedAt: recipe.CreatedAt,
		},
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.RecipeCount()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "unhealthy", "Failed to query database")
		return
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.BuildVersion(),
		Recipes:   count,
	})
}
