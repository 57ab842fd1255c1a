package app

import (
	"testing"

	"chileadicto/internal/domain"
)

func strp(s string) *string { return &s }

func TestValidatePost_CreateRequiresSlugAndName(t *testing.T) {
	err := ValidatePost(domain.PostPatch{}, true)
	if err == nil {
		t.Fatal("empty create payload must fail")
	}
	fields := map[string]bool{}
	for _, is := range err.Issues {
		fields[is.Field] = true
	}
	if !fields["slug"] || !fields["translations"] {
		t.Fatalf("issues = %+v", err.Issues)
	}
}

func TestValidatePost_CreateWithDerivedSlug(t *testing.T) {
	p := domain.PostPatch{
		DerivedSlug: "cafe-central",
		Translations: map[string]domain.Translation{
			"es": {Name: "Café Central"},
			"en": {},
		},
	}
	if err := ValidatePost(p, true); err != nil {
		t.Fatalf("unexpected issues: %+v", err.Issues)
	}
}

func TestValidatePost_SlugShape(t *testing.T) {
	for _, bad := range []string{"Café", "two words", "UPPER", "a--b", "-lead", "trail-"} {
		p := domain.PostPatch{Slug: strp(bad)}
		if ValidatePost(p, false) == nil {
			t.Errorf("slug %q accepted", bad)
		}
	}
	if err := ValidatePost(domain.PostPatch{Slug: strp("bar-liguria-2")}, false); err != nil {
		t.Fatalf("valid slug rejected: %+v", err.Issues)
	}
}

func TestValidatePost_ImageURLs(t *testing.T) {
	imgs := []string{"https://h/a.jpg", "ftp://h/b.jpg", "/relative.jpg"}
	err := ValidatePost(domain.PostPatch{Images: &imgs}, false)
	if err == nil || len(err.Issues) != 2 {
		t.Fatalf("want two image issues, got %+v", err)
	}
	if err.Issues[0].Field != "images[1]" || err.Issues[1].Field != "images[2]" {
		t.Fatalf("issue fields = %+v", err.Issues)
	}
}

func TestValidatePost_FeaturedEmptyTolerated(t *testing.T) {
	// An emptied gallery carries an empty featured pointer with it.
	if err := ValidatePost(domain.PostPatch{FeaturedImage: strp("")}, false); err != nil {
		t.Fatalf("empty featured should pass: %+v", err.Issues)
	}
	if ValidatePost(domain.PostPatch{FeaturedImage: strp("not a url")}, false) == nil {
		t.Fatal("malformed featured accepted")
	}
}

func TestValidatePost_LocationLabels(t *testing.T) {
	locs := []domain.Location{{Label: "Centro"}, {Address: "sin nombre"}}
	err := ValidatePost(domain.PostPatch{Locations: &locs}, false)
	if err == nil || len(err.Issues) != 1 || err.Issues[0].Field != "locations[1].label" {
		t.Fatalf("issues = %+v", err)
	}
}
