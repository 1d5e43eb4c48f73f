package browse

import (
	"net/url"
	"reflect"
	"testing"
)

func TestToggleIsOwnInverse(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		tag   string
	}{
		{"add then remove", nil, "vegan"},
		{"remove then add", []string{"vegan", "dessert"}, "vegan"},
		{"untouched members survive", []string{"dinner"}, "spicy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := NewFilterSet(tt.start...)
			roundTripped := original.Toggle(tt.tag).Toggle(tt.tag)
			if !reflect.DeepEqual(roundTripped.Values(), original.Values()) {
				t.Errorf("toggle twice = %v, want %v", roundTripped.Values(), original.Values())
			}
		})
	}
}

func TestToggleDoesNotMutateReceiver(t *testing.T) {
	original := NewFilterSet("vegan")
	_ = original.Toggle("vegan")
	_ = original.Toggle("dessert")

	if !original.Has("vegan") || original.Len() != 1 {
		t.Errorf("receiver mutated: %v", original.Values())
	}
}

func TestReadFilters(t *testing.T) {
	query, err := url.ParseQuery("tags=vegan&tags=dessert&tags=vegan&q=soup")
	if err != nil {
		t.Fatalf("parsing query: %v", err)
	}

	set := ReadFilters(query)
	if set.Len() != 2 || !set.Has("vegan") || !set.Has("dessert") {
		t.Errorf("set = %v, want {dessert, vegan}", set.Values())
	}
}

func TestWithAndWithout(t *testing.T) {
	set := NewFilterSet("vegan", "gluten-free", "spicy")

	got := set.Without("gluten-free", "spicy").With("snack")
	want := []string{"snack", "vegan"}
	if !reflect.DeepEqual(got.Values(), want) {
		t.Errorf("got %v, want %v", got.Values(), want)
	}
	// Original untouched.
	if set.Len() != 3 {
		t.Errorf("receiver mutated: %v", set.Values())
	}
}

func TestDescriptorEncode(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "empty",
			d:    NewDescriptor(NewFilterSet(), ""),
			want: "",
		},
		{
			name: "tags sorted",
			d:    NewDescriptor(NewFilterSet("vegan", "dessert"), ""),
			want: "tags=dessert&tags=vegan",
		},
		{
			name: "text included",
			d:    NewDescriptor(NewFilterSet("dinner"), "soup"),
			want: "q=soup&tags=dinner",
		},
		{
			name: "empty text omitted",
			d:    NewDescriptor(NewFilterSet("dinner"), ""),
			want: "tags=dinner",
		},
		{
			name: "text escaped",
			d:    NewDescriptor(NewFilterSet(), "miso soup"),
			want: "q=miso+soup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptorEncodeDeterministic(t *testing.T) {
	d := NewDescriptor(NewFilterSet("spicy", "vegan", "gluten-free"), "stew")
	first := d.Encode()
	for i := 0; i < 20; i++ {
		if got := d.Encode(); got != first {
			t.Fatalf("Encode() varies across calls: %q vs %q", got, first)
		}
	}
}
