package app

import (
	"testing"
)

func TestNormalizePost_AbsentVsEmpty(t *testing.T) {
	p := NormalizePost(map[string]any{"address": ""})
	if p.Address == nil {
		t.Fatal("explicitly empty address must count as provided")
	}
	if *p.Address != "" {
		t.Fatalf("address = %q, want empty", *p.Address)
	}
	if p.Phone != nil || p.Website != nil || p.Images != nil {
		t.Fatal("absent keys must stay nil")
	}
}

func TestNormalizePost_LegacyAliases(t *testing.T) {
	p := NormalizePost(map[string]any{
		"direccion":   "Av. Italia 1234",
		"horario":     "10-18",
		"datoCurioso": "fue una fábrica",
	})
	if p.Address == nil || *p.Address != "Av. Italia 1234" {
		t.Fatalf("address not resolved from legacy alias: %+v", p.Address)
	}
	if p.Hours == nil || *p.Hours != "10-18" {
		t.Fatal("hours not resolved from legacy alias")
	}
	if p.InterestingFact == nil || *p.InterestingFact != "fue una fábrica" {
		t.Fatal("interestingFact not resolved from legacy alias")
	}
}

func TestNormalizePost_SlugPrecedence(t *testing.T) {
	p := NormalizePost(map[string]any{
		"slug": "Hotel Magnolia",
		"es":   map[string]any{"name": "Otro Nombre"},
	})
	if p.Slug == nil || *p.Slug != "hotel-magnolia" {
		t.Fatalf("explicit slug should win, got %+v", p.Slug)
	}
	if p.EffectiveSlug() != "hotel-magnolia" {
		t.Fatalf("EffectiveSlug = %q", p.EffectiveSlug())
	}

	p = NormalizePost(map[string]any{"es": map[string]any{"name": "Café Central"}})
	if p.Slug != nil {
		t.Fatal("slug key absent must stay nil")
	}
	if p.EffectiveSlug() != "cafe-central" {
		t.Fatalf("derived slug = %q, want cafe-central", p.EffectiveSlug())
	}
}

func TestNormalizePost_TranslationsAlwaysFullSet(t *testing.T) {
	p := NormalizePost(map[string]any{"es": map[string]any{"name": "Bar Liguria"}})
	if p.Translations == nil {
		t.Fatal("translations must be provided")
	}
	if len(p.Translations) != 2 {
		t.Fatalf("expected one entry per language, got %d", len(p.Translations))
	}
	if p.Translations["es"].Name != "Bar Liguria" {
		t.Fatalf("es name = %q", p.Translations["es"].Name)
	}
	if en, ok := p.Translations["en"]; !ok || en.Name != "" {
		t.Fatalf("en must be present and empty, got %+v ok=%v", en, ok)
	}
}

func TestNormalizePost_DescriptionSplit(t *testing.T) {
	p := NormalizePost(map[string]any{
		"es": map[string]any{"name": "X", "description": "<p>primero</p><p>segundo</p>"},
	})
	d := p.Translations["es"].Description
	if len(d) != 2 || d[0] != "primero" || d[1] != "segundo" {
		t.Fatalf("html split = %v", d)
	}

	p = NormalizePost(map[string]any{
		"es": map[string]any{"name": "X", "description": "uno\n\ndos"},
	})
	d = p.Translations["es"].Description
	if len(d) != 2 || d[0] != "uno" || d[1] != "dos" {
		t.Fatalf("blank-line split = %v", d)
	}

	p = NormalizePost(map[string]any{
		"es": map[string]any{"name": "X", "description": []any{"a", "", "b"}},
	})
	d = p.Translations["es"].Description
	if len(d) != 2 || d[0] != "a" || d[1] != "b" {
		t.Fatalf("list coercion = %v", d)
	}
}

func TestNormalizePost_FeaturedDefaultAndDedup(t *testing.T) {
	p := NormalizePost(map[string]any{
		"images": []any{"https://h/a.jpg", "https://h/b.jpg", "https://h/a.jpg"},
	})
	if p.FeaturedImage == nil || *p.FeaturedImage != "https://h/a.jpg" {
		t.Fatalf("featured should default to first gallery entry: %+v", p.FeaturedImage)
	}
	if p.Images == nil || len(*p.Images) != 1 || (*p.Images)[0] != "https://h/b.jpg" {
		t.Fatalf("gallery = %+v", p.Images)
	}
}

func TestNormalizePost_FeaturedOnlyLeavesGalleryAlone(t *testing.T) {
	p := NormalizePost(map[string]any{"featuredImage": "https://h/c.jpg"})
	if p.Images != nil {
		t.Fatal("gallery must not be touched when only featured arrives")
	}
	if p.FeaturedImage == nil || *p.FeaturedImage != "https://h/c.jpg" {
		t.Fatalf("featured = %+v", p.FeaturedImage)
	}
}

func TestNormalizePost_EmptyImagesProvided(t *testing.T) {
	p := NormalizePost(map[string]any{"images": []any{}})
	if p.Images == nil || len(*p.Images) != 0 {
		t.Fatalf("images = %+v, want provided empty list", p.Images)
	}
	if p.FeaturedImage == nil || *p.FeaturedImage != "" {
		t.Fatalf("featured should clear with an emptied gallery: %+v", p.FeaturedImage)
	}
}

func TestNormalizePost_LocationPhones(t *testing.T) {
	p := NormalizePost(map[string]any{
		"locations": []any{
			map[string]any{"nombre": "Sede Centro", "telefono": "+56 2 2345 6789"},
		},
	})
	if p.Locations == nil || len(*p.Locations) != 1 {
		t.Fatalf("locations = %+v", p.Locations)
	}
	loc := (*p.Locations)[0]
	if loc.Label != "Sede Centro" {
		t.Fatalf("label = %q", loc.Label)
	}
	if loc.Phone != "tel:+56223456789" {
		t.Fatalf("phone = %q, want tel:+56223456789", loc.Phone)
	}
}

func TestNormalizePost_UsefulInfo(t *testing.T) {
	p := NormalizePost(map[string]any{
		"usefulInfo": map[string]any{"es": "<p>hola</p>", "en": ""},
	})
	if p.UsefulInfo == nil {
		t.Fatal("usefulInfo must be provided")
	}
	if p.UsefulInfo["es"] != "<p>hola</p>" {
		t.Fatalf("es = %q", p.UsefulInfo["es"])
	}
	if v, ok := p.UsefulInfo["en"]; !ok || v != "" {
		t.Fatalf("en must be present and empty, got %q ok=%v", v, ok)
	}
}
