package domain

// CatalogKind selects between the two tenant catalogs posts can link to.
type CatalogKind string

const (
	KindCategory CatalogKind = "categories"
	KindCommune  CatalogKind = "communes"
)

// CatalogEntry is a tenant-scoped category or commune.
type CatalogEntry struct {
	ID         int64
	Slug       string
	Site       string
	NameES     string
	NameEN     string
	ShowInMenu bool
	MenuOrder  int
}

// Label returns the display label for navigation, preferring Spanish
// (the primary language of the published sites).
func (e CatalogEntry) Label() string {
	if e.NameES != "" {
		return e.NameES
	}
	if e.NameEN != "" {
		return e.NameEN
	}
	return e.Slug
}

type MediaObject struct {
	Name string
	URL  string
	Size int64
}
