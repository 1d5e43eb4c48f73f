package api

import (
	"encoding/json"
	"net/http"

	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/ingredients"
	"github.com/mvolkova/plateful/pkg/log"
	"github.com/mvolkova/plateful/pkg/realtime"
	"github.com/mvolkova/plateful/pkg/render"
	"github.com/mvolkova/plateful/pkg/search"
	"github.com/mvolkova/plateful/pkg/storage"
)

var logger = log.ForComponent("api")

type Server struct {
	store       *storage.Store
	search      *search.Service
	renderer    *render.Renderer
	catalog     *catalog.Catalog
	ingredients *ingredients.Catalog
	hub         *realtime.Hub
}

func NewServer(store *storage.Store, cat *catalog.Catalog, ing *ingredients.Catalog, renderer *render.Renderer, hub *realtime.Hub) *Server {
	return &Server{
		store:       store,
		search:      search.NewService(store, cat),
		renderer:    renderer,
		catalog:     cat,
		ingredients: ing,
		hub:         hub,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
