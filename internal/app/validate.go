package app

import (
	"fmt"
	"net/url"
	"regexp"

	"chileadicto/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidatePost checks the normalized patch against the post schema. It
// only accepts or rejects: no issue is ever "fixed" here. Returns nil
// when the patch is acceptable.
func ValidatePost(p domain.PostPatch, forCreate bool) *domain.ValidationError {
	var issues []domain.FieldIssue

	if forCreate {
		if p.EffectiveSlug() == "" {
			issues = append(issues, domain.FieldIssue{
				Field:   "slug",
				Message: "no slug given and none derivable from a translation name",
			})
		}
		hasName := false
		for _, t := range p.Translations {
			if t.Name != "" {
				hasName = true
				break
			}
		}
		if !hasName {
			issues = append(issues, domain.FieldIssue{
				Field:   "translations",
				Message: "at least one language needs a non-empty name",
			})
		}
	}

	if p.Slug != nil && *p.Slug != "" && !slugPattern.MatchString(*p.Slug) {
		issues = append(issues, domain.FieldIssue{
			Field:   "slug",
			Message: "must match ^[a-z0-9]+(-[a-z0-9]+)*$",
		})
	}

	if p.Images != nil {
		for i, img := range *p.Images {
			if !wellFormedURL(img) {
				issues = append(issues, domain.FieldIssue{
					Field:   fmt.Sprintf("images[%d]", i),
					Message: "not an absolute http(s) URL",
				})
			}
		}
	}
	if p.FeaturedImage != nil && *p.FeaturedImage != "" && !wellFormedURL(*p.FeaturedImage) {
		issues = append(issues, domain.FieldIssue{
			Field:   "featuredImage",
			Message: "not an absolute http(s) URL",
		})
	}

	if p.Locations != nil {
		for i, loc := range *p.Locations {
			if loc.Label == "" {
				issues = append(issues, domain.FieldIssue{
					Field:   fmt.Sprintf("locations[%d].label", i),
					Message: "label is required",
				})
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &domain.ValidationError{Issues: issues}
}

func wellFormedURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
