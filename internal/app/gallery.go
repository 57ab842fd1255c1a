package app

import (
	"net/url"
	"strings"
)

// normalizeImageURL produces the comparison form of an image URL: query
// and fragment stripped, final path segment case-folded. The original
// string is what gets stored; this form is only ever compared.
func normalizeImageURL(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil {
		return strings.ToLower(s)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if i := strings.LastIndexByte(u.Path, '/'); i >= 0 {
		u.Path = u.Path[:i+1] + strings.ToLower(u.Path[i+1:])
	} else {
		u.Path = strings.ToLower(u.Path)
	}
	return u.String()
}

// ReconcileGallery merges a flat image list with a featured-image pointer
// into (featured, gallery). The featured image is the explicit one if
// given, else the first list entry, else absent. The gallery preserves
// input order, collapses duplicates to their first occurrence, and never
// contains the featured image (all by normalized-URL comparison). Total
// over empty input.
func ReconcileGallery(images []string, featured string) (string, []string) {
	list := make([]string, 0, len(images))
	for _, img := range images {
		if strings.TrimSpace(img) != "" {
			list = append(list, img)
		}
	}

	if featured == "" && len(list) > 0 {
		featured = list[0]
	}

	seen := make(map[string]struct{}, len(list)+1)
	if featured != "" {
		seen[normalizeImageURL(featured)] = struct{}{}
	}
	gallery := make([]string, 0, len(list))
	for _, img := range list {
		key := normalizeImageURL(img)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		gallery = append(gallery, img)
	}
	return featured, gallery
}

// FlattenGallery is the inverse used when round-tripping through the edit
// UI: featured first, then the gallery in order.
func FlattenGallery(featured string, gallery []string) []string {
	out := make([]string, 0, len(gallery)+1)
	if featured != "" {
		out = append(out, featured)
	}
	return append(out, gallery...)
}
