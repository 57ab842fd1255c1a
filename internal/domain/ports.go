package domain

import "context"

// PostRepository is the row-level surface the persistence coordinator
// sequences its writes over. There is no transaction primitive: each
// method is one store round-trip and later steps may fail with earlier
// ones already committed.
type PostRepository interface {
	ResolveID(ctx context.Context, site, slug string) (int64, error) // ErrNotFound
	SlugExists(ctx context.Context, site, slug string) (bool, error)

	InsertPost(ctx context.Context, site, slug string, p PostPatch) (int64, error)
	PatchPost(ctx context.Context, id int64, p PostPatch) error
	RenamePost(ctx context.Context, id int64, newSlug string) error

	ReplaceTranslations(ctx context.Context, id int64, set map[string]Translation) error
	UpsertUsefulInfo(ctx context.Context, id int64, lang, html string) error
	DeleteUsefulInfo(ctx context.Context, id int64, lang string) error

	ReplaceImages(ctx context.Context, id int64, urls []string) error
	ReplaceLocations(ctx context.Context, id int64, locs []Location) error

	LinkedIDs(ctx context.Context, id int64, kind CatalogKind) ([]int64, error)
	Link(ctx context.Context, id int64, kind CatalogKind, ids []int64) error
	Unlink(ctx context.Context, id int64, kind CatalogKind, ids []int64) error

	GetPost(ctx context.Context, site, slug string) (Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type CatalogRepository interface {
	ListCatalog(ctx context.Context, site string, kind CatalogKind, includeHidden bool) ([]CatalogEntry, error)
	CatalogSlugExists(ctx context.Context, site string, kind CatalogKind, slug string) (bool, error)
	InsertCatalog(ctx context.Context, kind CatalogKind, e CatalogEntry) (int64, error)
	DeleteCatalog(ctx context.Context, site string, kind CatalogKind, slug string) error
}

// BlobStore hosts uploaded images; the core only ever consumes the
// resulting public URL.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]MediaObject, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
