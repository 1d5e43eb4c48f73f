package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/tags", s.HandleTags)
	mux.HandleFunc("GET /api/ingredients", s.HandleIngredients)
	mux.HandleFunc("POST /api/recipes", s.HandleCreateRecipe)
	mux.HandleFunc("GET /api/recipes/{id}", s.HandleGetRecipe)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.HandleDeleteRecipe)
	mux.HandleFunc("GET /api/firehose/ws", s.HandleFirehoseWS)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
