package app

import (
	"sort"
	"testing"
)

func TestReconcileGallery_FeaturedNeverInGallery(t *testing.T) {
	featured, gallery := ReconcileGallery([]string{"a.jpg", "A.JPG", "b.jpg"}, "a.jpg")
	if featured != "a.jpg" {
		t.Fatalf("featured = %q", featured)
	}
	if len(gallery) != 1 || gallery[0] != "b.jpg" {
		t.Fatalf("gallery = %v, want [b.jpg]", gallery)
	}
}

func TestReconcileGallery_DefaultsToFirstEntry(t *testing.T) {
	featured, gallery := ReconcileGallery([]string{"x.jpg", "y.jpg"}, "")
	if featured != "x.jpg" {
		t.Fatalf("featured = %q, want x.jpg", featured)
	}
	if len(gallery) != 1 || gallery[0] != "y.jpg" {
		t.Fatalf("gallery = %v, want [y.jpg]", gallery)
	}
}

func TestReconcileGallery_Empty(t *testing.T) {
	featured, gallery := ReconcileGallery(nil, "")
	if featured != "" || len(gallery) != 0 {
		t.Fatalf("expected empty result, got %q / %v", featured, gallery)
	}
}

func TestReconcileGallery_QueryStringsCompareEqual(t *testing.T) {
	featured, gallery := ReconcileGallery(
		[]string{"https://cdn.example.com/p/a.jpg?w=800", "https://cdn.example.com/p/a.jpg", "https://cdn.example.com/p/b.jpg"},
		"",
	)
	if featured != "https://cdn.example.com/p/a.jpg?w=800" {
		t.Fatalf("featured = %q", featured)
	}
	if len(gallery) != 1 || gallery[0] != "https://cdn.example.com/p/b.jpg" {
		t.Fatalf("gallery = %v", gallery)
	}
}

func TestFlattenReconcileRoundTrip(t *testing.T) {
	images := []string{"https://h/1.jpg", "https://h/2.jpg", "https://h/3.jpg"}
	featured, gallery := ReconcileGallery(images, "https://h/2.jpg")
	flat := FlattenGallery(featured, gallery)

	got := append([]string(nil), flat...)
	want := append([]string(nil), images...)
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("round-trip lost entries: %v vs %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("round-trip mismatch: %v vs %v", got, want)
		}
	}
}
