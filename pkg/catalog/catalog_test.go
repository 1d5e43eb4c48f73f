package catalog

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func testCatalog() *Catalog {
	return New(
		[]Tag{{Value: "breakfast", Label: "Breakfast"}, {Value: "vegan"}},
		[]Tag{{Value: "gluten-free"}, {Value: "spicy", Label: "Spicy"}},
	)
}

func TestLabelFallback(t *testing.T) {
	c := testCatalog()

	if got := c.LabelFor("vegan"); got != "Vegan" {
		t.Errorf("expected derived label Vegan, got %q", got)
	}
	if got := c.LabelFor("gluten-free"); got != "Gluten Free" {
		t.Errorf("expected derived label Gluten Free, got %q", got)
	}
	if got := c.LabelFor("breakfast"); got != "Breakfast" {
		t.Errorf("expected configured label, got %q", got)
	}
	if got := c.LabelFor("unknown-tag"); got != "Unknown Tag" {
		t.Errorf("expected fallback label for unknown value, got %q", got)
	}
}

func TestNormalizeDropsUnknownAndDuplicates(t *testing.T) {
	c := testCatalog()

	got := c.Normalize([]string{"vegan", "nope", "vegan", " spicy", "spicy"})
	want := []string{"vegan", "spicy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestExtraValues(t *testing.T) {
	c := testCatalog()

	want := []string{"gluten-free", "spicy"}
	if got := c.ExtraValues(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraValues = %v, want %v", got, want)
	}
}

func TestDuplicateValueStaysQuick(t *testing.T) {
	c := New([]Tag{{Value: "vegan"}}, []Tag{{Value: "vegan"}})

	if len(c.Extra()) != 0 {
		t.Errorf("expected duplicate value to stay quick, extra = %v", c.Extra())
	}
	if !c.Known("vegan") {
		t.Errorf("expected vegan to be known")
	}
}

func TestCoverFor(t *testing.T) {
	tests := []struct {
		name   string
		recipe Recipe
		want   string
	}{
		{
			name:   "uploaded image wins",
			recipe: Recipe{ImagePath: "/static/uploads/abc.jpg", Tags: []string{"breakfast"}},
			want:   "/static/uploads/abc.jpg",
		},
		{
			name:   "tag placeholder",
			recipe: Recipe{Tags: []string{"spicy", "dinner"}},
			want:   "/static/covers/dinner.svg",
		},
		{
			name:   "default placeholder",
			recipe: Recipe{Tags: []string{"spicy"}},
			want:   "/static/covers/default.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoverFor(tt.recipe); got != tt.want {
				t.Errorf("CoverFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecipeValidate(t *testing.T) {
	valid := Recipe{
		ID:          "r1",
		Title:       "Tomato soup",
		Ingredients: []Ingredient{{Name: "tomato", Amount: 400, Unit: "g"}},
		Steps:       []Step{{Position: 1, Instruction: "Simmer the tomatoes."}},
		CreatedAt:   time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid recipe rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Recipe)
		want   error
	}{
		{"empty title", func(r *Recipe) { r.Title = "  " }, ErrMissingTitle},
		{"no steps", func(r *Recipe) { r.Steps = nil }, ErrMissingSteps},
		{"no ingredients", func(r *Recipe) { r.Ingredients = nil }, ErrMissingIngredients},
		{"zero amount", func(r *Recipe) { r.Ingredients[0].Amount = 0 }, ErrInvalidIngredient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.Ingredients = append([]Ingredient(nil), valid.Ingredients...)
			tt.mutate(&r)
			if err := r.Validate(); err != tt.want {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSearchTextIncludesIngredients(t *testing.T) {
	r := Recipe{
		Title:       "Pasta",
		Description: "Weeknight dinner",
		Ingredients: []Ingredient{{Name: "spaghetti", Amount: 200}, {Name: "garlic", Amount: 2}},
	}
	text := r.SearchText()
	for _, want := range []string{"Pasta", "Weeknight dinner", "spaghetti", "garlic"} {
		if !strings.Contains(text, want) {
			t.Errorf("SearchText missing %q: %q", want, text)
		}
	}
}
