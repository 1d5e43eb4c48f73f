package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mvolkova/plateful/pkg/catalog"
	"github.com/mvolkova/plateful/pkg/ingredients"
	"github.com/mvolkova/plateful/pkg/realtime"
	"github.com/mvolkova/plateful/pkg/render"
	"github.com/mvolkova/plateful/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, *storage.Store) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	cat := catalog.New(
		[]catalog.Tag{{Value: "breakfast"}, {Value: "dinner"}, {Value: "dessert"}, {Value: "vegan"}},
		[]catalog.Tag{{Value: "gluten-free"}, {Value: "spicy"}},
	)
	renderer, err := render.NewRenderer(cat)
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}

	srv := NewServer(store, cat, ingredients.Default(), renderer, realtime.NewHub(0))

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return srv, ts, store
}

func saveTestRecipes(t *testing.T, store *storage.Store) {
	t.Helper()

	now := time.Now().UTC()
	recipes := []catalog.Recipe{
		{
			ID:          "r1",
			Title:       "Vegan Brownies",
			Tags:        []string{"dessert", "vegan"},
			Ingredients: []catalog.Ingredient{{Name: "cocoa powder", Amount: 50, Unit: "g"}},
			Steps:       []catalog.Step{{Position: 1, Instruction: "Bake"}},
			CreatedAt:   now,
		},
		{
			ID:          "r2",
			Title:       "Minestrone Soup",
			Tags:        []string{"dinner"},
			Ingredients: []catalog.Ingredient{{Name: "carrot", Amount: 2, Unit: "pcs"}},
			Steps:       []catalog.Step{{Position: 1, Instruction: "Simmer"}},
			CreatedAt:   now.Add(time.Second),
		},
	}
	if err := store.SaveRecipes(recipes); err != nil {
		t.Fatalf("saving recipes: %v", err)
	}
}

func getSearchHTML(t *testing.T, ts *httptest.Server, rawQuery string) string {
	t.Helper()

	resp, err := http.Get(ts.URL + "/api/search?" + rawQuery)
	if err != nil {
		t.Fatalf("GET /api/search: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return sr.HTML
}

func TestHandleSearch(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	html := getSearchHTML(t, ts, "")
	if !strings.Contains(html, "Vegan Brownies") || !strings.Contains(html, "Minestrone Soup") {
		t.Errorf("unfiltered search missing recipes:\n%s", html)
	}

	html = getSearchHTML(t, ts, "tags=dessert&tags=vegan")
	if !strings.Contains(html, "Vegan Brownies") {
		t.Errorf("tag search missing match:\n%s", html)
	}
	if strings.Contains(html, "Minestrone Soup") {
		t.Errorf("tag search includes non-match:\n%s", html)
	}

	html = getSearchHTML(t, ts, "q=soup")
	if !strings.Contains(html, "Minestrone Soup") {
		t.Errorf("text search missing match:\n%s", html)
	}
}

func TestHandleSearchEmptyResultRendersEmptyState(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	html := getSearchHTML(t, ts, "q=unicorn")
	if !strings.Contains(html, "empty-state") {
		t.Errorf("empty result did not render empty state:\n%s", html)
	}
}

func TestHandleSearchIgnoresUnknownTags(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	html := getSearchHTML(t, ts, "tags=bogus")
	if !strings.Contains(html, "Vegan Brownies") || !strings.Contains(html, "Minestrone Soup") {
		t.Errorf("unknown tag should not filter anything:\n%s", html)
	}
}

func TestHandleTags(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	resp, err := http.Get(ts.URL + "/api/tags")
	if err != nil {
		t.Fatalf("GET /api/tags: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var tr TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(tr.Quick) != 4 || len(tr.Extra) != 2 {
		t.Fatalf("got %d quick, %d extra tags; want 4 and 2", len(tr.Quick), len(tr.Extra))
	}

	byValue := make(map[string]TagInfo)
	for _, info := range append(tr.Quick, tr.Extra...) {
		byValue[info.Value] = info
	}
	if byValue["dessert"].Count != 1 {
		t.Errorf("dessert count = %d, want 1", byValue["dessert"].Count)
	}
	if byValue["gluten-free"].Label != "Gluten Free" {
		t.Errorf("gluten-free label = %q, want %q", byValue["gluten-free"].Label, "Gluten Free")
	}
}

func TestHandleIngredients(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/ingredients?q=egg&limit=5")
	if err != nil {
		t.Fatalf("GET /api/ingredients: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var ir IngredientsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if ir.Count == 0 || ir.Count > 5 {
		t.Fatalf("count = %d, want 1..5", ir.Count)
	}
	if ir.Ingredients[0].Name != "egg" {
		t.Errorf("first suggestion = %q, want egg", ir.Ingredients[0].Name)
	}
}

func TestHandleCreateRecipe(t *testing.T) {
	_, ts, store := newTestServer(t)

	body, _ := json.Marshal(catalog.Recipe{
		Title:       "Shakshuka",
		Tags:        []string{"breakfast", "bogus"},
		Ingredients: []catalog.Ingredient{{Name: "egg", Amount: 4, Unit: "pcs"}},
		Steps:       []catalog.Step{{Position: 1, Instruction: "Poach eggs in sauce"}},
	})

	resp, err := http.Post(ts.URL+"/api/recipes", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/recipes: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var rr RecipeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if rr.Recipe.ID == "" {
		t.Error("created recipe has no ID")
	}
	if len(rr.Recipe.Tags) != 1 || rr.Recipe.Tags[0] != "breakfast" {
		t.Errorf("tags = %v, want [breakfast]", rr.Recipe.Tags)
	}

	stored, err := store.GetRecipe(rr.Recipe.ID)
	if err != nil {
		t.Fatalf("recipe not stored: %v", err)
	}
	if stored.Title != "Shakshuka" {
		t.Errorf("stored title = %q", stored.Title)
	}
}

func TestHandleCreateRecipeRejectsInvalid(t *testing.T) {
	_, ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing title", `{"steps":[{"position":1,"instruction":"x"}],"ingredients":[{"name":"egg","amount":1}]}`},
		{"missing steps", `{"title":"X","ingredients":[{"name":"egg","amount":1}]}`},
		{"zero amount", `{"title":"X","steps":[{"position":1,"instruction":"x"}],"ingredients":[{"name":"egg","amount":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/recipes", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST /api/recipes: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestHandleGetRecipe(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	resp, err := http.Get(ts.URL + "/api/recipes/r1")
	if err != nil {
		t.Fatalf("GET /api/recipes/r1: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/api/recipes/nope")
	if err != nil {
		t.Fatalf("GET /api/recipes/nope: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp2.StatusCode)
	}
}

func TestHandleDeleteRecipe(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/recipes/r1", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE /api/recipes/r1: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if _, err := store.GetRecipe("r1"); err == nil {
		t.Error("recipe still exists after delete")
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var hr HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if hr.Status != "ok" {
		t.Errorf("status = %q, want ok", hr.Status)
	}
	if hr.Recipes != 2 {
		t.Errorf("recipes = %d, want 2", hr.Recipes)
	}
}

func TestCorsMiddleware(t *testing.T) {
	handler := CorsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/search", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("GET status = %d, want passthrough 418", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
