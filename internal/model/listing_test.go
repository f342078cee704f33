package model

import "testing"

func TestCategoryFromSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug   string
		want   Category
		wantOK bool
	}{
		{"trending", CategoryTrending, true},
		{"iconic-cities", CategoryIconicCities, true},
		{"  Mountains ", CategoryMountains, true},
		{"BEACH", CategoryBeach, true},
		{"all", "", false},
		{"", "", false},
		{"volcanoes", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, ok := CategoryFromSlug(tt.slug)
			if ok != tt.wantOK {
				t.Fatalf("CategoryFromSlug(%q) ok = %v, want %v", tt.slug, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CategoryFromSlug(%q) = %q, want %q", tt.slug, got, tt.want)
			}
		})
	}
}

func TestCategory_SlugRoundTrip(t *testing.T) {
	t.Parallel()

	if len(Categories) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(Categories))
	}

	for _, c := range Categories {
		if !c.IsValid() {
			t.Errorf("%q should be valid", c)
		}
		got, ok := CategoryFromSlug(c.Slug())
		if !ok || got != c {
			t.Errorf("slug %q resolved to %q", c.Slug(), got)
		}
	}

	if Category("Volcanoes").IsValid() {
		t.Error("unknown category should be invalid")
	}
}

func TestImage_IsReleasable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image Image
		want  bool
	}{
		{"default placeholder", DefaultImage(), false},
		{"empty filename", Image{URL: "https://cdn.example.com/a.jpg"}, false},
		{"uploaded", Image{URL: "/uploads/abc.jpg", Filename: "abc.jpg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.image.IsReleasable(); got != tt.want {
				t.Errorf("IsReleasable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListing_IsOwnedBy(t *testing.T) {
	t.Parallel()

	l := &Listing{ID: "l1", OwnerID: "u1"}

	if !l.IsOwnedBy("u1") {
		t.Error("expected owner match")
	}
	if l.IsOwnedBy("u2") {
		t.Error("expected owner mismatch")
	}
	if l.IsOwnedBy("") {
		t.Error("empty caller must never own a listing")
	}
}

func TestListing_HasReview(t *testing.T) {
	t.Parallel()

	l := &Listing{ReviewIDs: []string{"r1", "r2"}}

	if !l.HasReview("r2") {
		t.Error("expected r2 to be present")
	}
	if l.HasReview("r3") {
		t.Error("r3 should not be present")
	}
}
