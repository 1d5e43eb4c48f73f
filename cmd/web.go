package cmd

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/mvolkova/plateful/pkg/api"
	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/config"
	"github.com/mvolkova/plateful/pkg/ingredients"
	"github.com/mvolkova/plateful/pkg/realtime"
	"github.com/mvolkova/plateful/pkg/render"
	"github.com/mvolkova/plateful/pkg/search"
	"github.com/mvolkova/plateful/pkg/storage"
	"github.com/mvolkova/plateful/pkg/version"
)

//go:embed web/static/*
var staticFS embed.FS

//go:embed web/templates/*.html
var templatesFS embed.FS

// WebServer holds the server configuration and dependencies
type WebServer struct {
	config    *config.Config
	store     *storage.Store
	catalog   *catalog.Catalog
	renderer  *render.Renderer
	searchSvc *search.Service
	pages     *template.Template
}

// newWebServer builds the UI server and parses the page templates.
func newWebServer(cfg *config.Config, store *storage.Store, cat *catalog.Catalog) (*WebServer, error) {
	renderer, err := render.NewRenderer(cat)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	pages, err := template.New("pages").Funcs(template.FuncMap{
		"coverFor":   catalog.CoverFor,
		"tagLabel":   cat.LabelFor,
		"formatTime": render.FormatTime,
	}).ParseFS(templatesFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &WebServer{
		config:    cfg,
		store:     store,
		catalog:   cat,
		renderer:  renderer,
		searchSvc: search.NewService(store, cat),
		pages:     pages,
	}, nil
}

// buildHandler assembles the full HTTP handler: API routes, the UI pages and
// embedded static assets, all behind CORS.
func buildHandler(cfg *config.Config, store *storage.Store, hub *realtime.Hub) (http.Handler, error) {
	cat := catalogFromConfig(cfg)

	ws, err := newWebServer(cfg, store, cat)
	if err != nil {
		return nil, err
	}

	apiServer := api.NewServer(store, cat, ingredients.Default(), ws.renderer, hub)

	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	mux.HandleFunc("GET /{$}", ws.handleBrowse)
	mux.HandleFunc("GET /recipes/{id}", ws.handleRecipe)
	mux.HandleFunc("GET /static/", ws.handleStatic)

	return api.CorsMiddleware(mux), nil
}

// Template data

type tagOption struct {
	Value  string
	Label  string
	Active bool
	Count  int
}

type browsePageData struct {
	Title        string
	Query        string
	QuickTags    []tagOption
	ExtraTags    []tagOption
	ActiveExtras int
	ResultsHTML  template.HTML
	DebounceMS   int64
	Version      string
}

type recipePageData struct {
	Title   string
	Recipe  catalog.Recipe
	Version string
}

// handleBrowse serves the recipe listing page. The same tags and q query
// parameters drive both this full render and the /api/search fragment
// endpoint, so a pasted address reproduces the filtered view.
func (s *WebServer) handleBrowse(w http.ResponseWriter, r *http.Request) {
	params := search.ParseParams(r.URL.Query())
	if params.Limit == search.DefaultLimit && s.config.Search.Limit > 0 {
		params.Limit = s.config.Search.Limit
	}

	recipes, err := s.searchSvc.Search(params)
	if err != nil {
		http.Error(w, fmt.Sprintf("Search error: %v", err), http.StatusInternalServerError)
		return
	}

	resultsHTML, err := s.renderer.RecipeCardsHTML(recipes, params.Query)
	if err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
		return
	}

	active := make(map[string]bool, len(params.Tags))
	for _, tag := range s.catalog.Normalize(params.Tags) {
		active[tag] = true
	}

	counts, err := s.store.TagCounts()
	if err != nil {
		http.Error(w, fmt.Sprintf("Tag counts error: %v", err), http.StatusInternalServerError)
		return
	}

	data := browsePageData{
		Title:       "Plateful - Browse Recipes",
		Query:       params.Query,
		QuickTags:   tagOptions(s.catalog.Quick(), active, counts),
		ExtraTags:   tagOptions(s.catalog.Extra(), active, counts),
		ResultsHTML: resultsHTML,
		DebounceMS:  s.config.Search.Debounce.Milliseconds(),
		Version:     version.APIVersion(),
	}
	for _, opt := range data.ExtraTags {
		if opt.Active {
			data.ActiveExtras++
		}
	}

	if err := s.pages.ExecuteTemplate(w, "browse.html", data); err != nil {
		log.Printf("Error rendering browse page: %v", err)
	}
}

func tagOptions(tags []catalog.Tag, active map[string]bool, counts map[string]int) []tagOption {
	opts := make([]tagOption, len(tags))
	for i, tag := range tags {
		opts[i] = tagOption{
			Value:  tag.Value,
			Label:  tag.Label,
			Active: active[tag.Value],
			Count:  counts[tag.Value],
		}
	}
	return opts
}

// handleRecipe serves the recipe detail page
func (s *WebServer) handleRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.store.GetRecipe(r.PathValue("id"))
	if err != nil {
		if err == storage.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		http.Error(w, fmt.Sprintf("Storage error: %v", err), http.StatusInternalServerError)
		return
	}

	data := recipePageData{
		Title:   recipe.Title + " - Plateful",
		Recipe:  *recipe,
		Version: version.APIVersion(),
	}

	if err := s.pages.ExecuteTemplate(w, "recipe.html", data); err != nil {
		log.Printf("Error rendering recipe page: %v", err)
	}
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Remove /static/ prefix and add web/static/ prefix for embedded filesystem
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	// Read file from embedded filesystem
	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Set appropriate content type
	if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	} else if strings.HasSuffix(path, ".svg") {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else if strings.HasSuffix(path, ".ico") {
		w.Header().Set("Content-Type", "image/x-icon")
	} else if strings.HasSuffix(path, ".png") {
		w.Header().Set("Content-Type", "image/png")
	}

	// Set cache headers for static assets
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		log.Printf("Error writing static content: %v", err)
	}
}
