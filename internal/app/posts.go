package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"chileadicto/internal/domain"
)

// PostService is the persistence coordinator. Each operation sequences
// several store round-trips in a fixed order (core record, translations
// and info, images, locations, relations); there is no transaction and
// no compensation, so a failed step leaves earlier steps committed and
// the error names the step for operator diagnosis.
type PostService struct {
	repo    domain.PostRepository
	catalog domain.CatalogRepository
}

func NewPostService(repo domain.PostRepository, catalog domain.CatalogRepository) *PostService {
	return &PostService{repo: repo, catalog: catalog}
}

// Create validates and persists a new post. The slug-uniqueness check is
// check-then-act; a store unique constraint is the only backstop against
// a concurrent create of the same slug, and its failure surfaces as a
// conflict, not a generic write error.
func (s *PostService) Create(ctx context.Context, site string, raw map[string]any) (string, error) {
	p := NormalizePost(raw)
	if verr := ValidatePost(p, true); verr != nil {
		return "", verr
	}
	slug := p.EffectiveSlug()

	exists, err := s.repo.SlugExists(ctx, site, slug)
	if err != nil {
		return "", &domain.StoreError{Step: "slug-check", Err: err}
	}
	if exists {
		return "", domain.ErrSlugConflict
	}

	id, err := s.repo.InsertPost(ctx, site, slug, p)
	if err != nil {
		if errors.Is(err, domain.ErrSlugConflict) {
			return "", err
		}
		return "", &domain.StoreError{Step: "posts", Err: err}
	}

	if p.HasTranslationContent() {
		if err := s.repo.ReplaceTranslations(ctx, id, p.Translations); err != nil {
			return "", &domain.StoreError{Step: "translations", Err: err}
		}
	}
	for _, lang := range domain.Languages {
		if html := p.UsefulInfo[lang]; html != "" {
			if err := s.repo.UpsertUsefulInfo(ctx, id, lang, html); err != nil {
				return "", &domain.StoreError{Step: "useful-info", Err: err}
			}
		}
	}
	if p.Images != nil && len(*p.Images) > 0 {
		if err := s.repo.ReplaceImages(ctx, id, *p.Images); err != nil {
			return "", &domain.StoreError{Step: "images", Err: err}
		}
	}
	if p.Locations != nil && len(*p.Locations) > 0 {
		if err := s.repo.ReplaceLocations(ctx, id, *p.Locations); err != nil {
			return "", &domain.StoreError{Step: "locations", Err: err}
		}
	}
	if p.Categories != nil {
		if err := s.applyRelations(ctx, id, site, domain.KindCategory, *p.Categories); err != nil {
			return "", err
		}
	}
	if p.Communes != nil {
		if err := s.applyRelations(ctx, id, site, domain.KindCommune, *p.Communes); err != nil {
			return "", err
		}
	}
	return slug, nil
}

// Update applies a partial update: only fields the raw payload actually
// carried are touched. A rename is conflict-checked before anything else
// mutates, so a conflicting rename leaves the post untouched.
func (s *PostService) Update(ctx context.Context, site, slug string, raw map[string]any) (string, error) {
	p := NormalizePost(raw)
	if verr := ValidatePost(p, false); verr != nil {
		return "", verr
	}

	id, err := s.repo.ResolveID(ctx, site, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", &domain.StoreError{Step: "resolve", Err: err}
	}

	current := slug
	if p.Slug != nil && *p.Slug != "" && *p.Slug != slug {
		exists, err := s.repo.SlugExists(ctx, site, *p.Slug)
		if err != nil {
			return "", &domain.StoreError{Step: "slug-check", Err: err}
		}
		if exists {
			return "", domain.ErrSlugConflict
		}
		if err := s.repo.RenamePost(ctx, id, *p.Slug); err != nil {
			if errors.Is(err, domain.ErrSlugConflict) {
				return "", err
			}
			return "", &domain.StoreError{Step: "rename", Err: err}
		}
		current = *p.Slug
	}

	if err := s.repo.PatchPost(ctx, id, p); err != nil {
		return "", &domain.StoreError{Step: "posts", Err: err}
	}

	if p.Translations != nil {
		if err := s.repo.ReplaceTranslations(ctx, id, p.Translations); err != nil {
			return "", &domain.StoreError{Step: "translations", Err: err}
		}
	}
	for _, lang := range domain.Languages {
		html, provided := p.UsefulInfo[lang]
		if !provided {
			continue
		}
		if html == "" {
			// Provided-empty clears, same rule as every scalar field.
			if err := s.repo.DeleteUsefulInfo(ctx, id, lang); err != nil {
				return "", &domain.StoreError{Step: "useful-info", Err: err}
			}
			continue
		}
		if err := s.repo.UpsertUsefulInfo(ctx, id, lang, html); err != nil {
			return "", &domain.StoreError{Step: "useful-info", Err: err}
		}
	}
	if p.Images != nil {
		if err := s.repo.ReplaceImages(ctx, id, *p.Images); err != nil {
			return "", &domain.StoreError{Step: "images", Err: err}
		}
	}
	if p.Locations != nil {
		if err := s.repo.ReplaceLocations(ctx, id, *p.Locations); err != nil {
			return "", &domain.StoreError{Step: "locations", Err: err}
		}
	}
	if p.Categories != nil {
		if err := s.applyRelations(ctx, id, site, domain.KindCategory, *p.Categories); err != nil {
			return "", err
		}
	}
	if p.Communes != nil {
		if err := s.applyRelations(ctx, id, site, domain.KindCommune, *p.Communes); err != nil {
			return "", err
		}
	}
	return current, nil
}

func (s *PostService) Read(ctx context.Context, site, slug string) (domain.Post, error) {
	return s.repo.GetPost(ctx, site, slug)
}

func (s *PostService) Delete(ctx context.Context, site, slug string) error {
	id, err := s.repo.ResolveID(ctx, site, slug)
	if err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, id)
}

// applyRelations brings a post's category/commune links to the desired
// set with a minimal add/remove pair. The catalog is read fresh on every
// call; no staleness window is assumed correct for it. Labels that match
// nothing in the catalog are dropped with a warning, never an error.
func (s *PostService) applyRelations(ctx context.Context, id int64, site string, kind domain.CatalogKind, labels []string) error {
	step := string(kind)

	catalog, err := s.catalog.ListCatalog(ctx, site, kind, true)
	if err != nil {
		return &domain.StoreError{Step: step, Err: err}
	}
	desired, dropped := ResolveCatalog(labels, catalog)
	if len(dropped) > 0 {
		log.Warn().Int64("post_id", id).Str("kind", step).Strs("labels", dropped).Msg("unmatched labels dropped")
	}

	current, err := s.repo.LinkedIDs(ctx, id, kind)
	if err != nil {
		return &domain.StoreError{Step: step, Err: err}
	}
	toAdd, toRemove := DiffIDs(current, desired)
	if err := s.repo.Unlink(ctx, id, kind, toRemove); err != nil {
		return &domain.StoreError{Step: step, Err: err}
	}
	if err := s.repo.Link(ctx, id, kind, toAdd); err != nil {
		return &domain.StoreError{Step: step, Err: err}
	}
	return nil
}
