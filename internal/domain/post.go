package domain

// Languages is the set of translation rows every post carries.
// Translation writes always emit one row per entry, even when empty,
// so bulk inserts keep a uniform shape.
var Languages = []string{"es", "en"}

type Post struct {
	ID            int64
	Slug          string
	Site          string
	FeaturedImage string // empty = none; never repeated inside Images
	Website       string
	Instagram     string
	Email         string
	Phone         string
	Address       string
	Hours         string

	ReservationLink   string
	ReservationPolicy string
	InterestingFact   string
	PhotosCredit      string

	Images       []string // gallery only, in display order
	Locations    []Location
	Translations map[string]Translation
	UsefulInfo   map[string]string // lang -> sanitized HTML block
	Categories   []string          // resolved display labels
	Communes     []string
}

type Translation struct {
	Name        string
	Subtitle    string
	Description []string // paragraph strings, HTML-fragment-safe
	Category    string   // legacy free-text label
	InfoHTML    string   // legacy blob, superseded by UsefulInfo when present
}

type Location struct {
	Position int
	Label    string
	Address  string
	Hours    string
	Phone    string // normalized tel: URI
	Website  string
	Email    string
}

// PostPatch is the canonical write shape produced by the payload
// normalizer. Nil means the key was absent from the raw payload and the
// stored value must not be touched; a non-nil pointer to an empty value
// means the caller wants it cleared.
type PostPatch struct {
	Slug        *string // normalized; nil = slug key absent
	DerivedSlug string  // from the primary-language name, create fallback

	FeaturedImage     *string
	Website           *string
	Instagram         *string
	Email             *string
	Phone             *string
	Address           *string
	Hours             *string
	ReservationLink   *string
	ReservationPolicy *string
	InterestingFact   *string
	PhotosCredit      *string

	Images    *[]string
	Locations *[]Location

	// Translations, when non-nil, holds the full per-language set
	// (one entry per Languages, empty entries included).
	Translations map[string]Translation

	// UsefulInfo holds only the languages the payload mentioned;
	// an empty value clears that language's block.
	UsefulInfo map[string]string

	Categories *[]string
	Communes   *[]string
}

// EffectiveSlug resolves the slug used on create: an explicit slug wins,
// otherwise the one derived from the primary-language name.
func (p PostPatch) EffectiveSlug() string {
	if p.Slug != nil && *p.Slug != "" {
		return *p.Slug
	}
	return p.DerivedSlug
}

// HasTranslationContent reports whether any language carries text worth
// persisting. Create skips the translation write entirely when false.
func (p PostPatch) HasTranslationContent() bool {
	for _, t := range p.Translations {
		if t.Name != "" || t.Subtitle != "" || len(t.Description) > 0 || t.Category != "" || t.InfoHTML != "" {
			return true
		}
	}
	return false
}
