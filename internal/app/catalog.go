package app

import (
	"context"

	"chileadicto/internal/domain"
)

var catalogAliases = map[string][]string{
	"slug":       {"slug"},
	"nameEs":     {"nameEs", "name_es", "nombre", "label", "name"},
	"nameEn":     {"nameEn", "name_en"},
	"showInMenu": {"showInMenu", "show_in_menu", "visible"},
	"menuOrder":  {"menuOrder", "menu_order", "orden", "order"},
}

// CatalogService covers the simple create/list/delete surface of the
// tenant catalogs (categories and communes).
type CatalogService struct {
	repo domain.CatalogRepository
}

func NewCatalogService(repo domain.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Create(ctx context.Context, site string, kind domain.CatalogKind, raw map[string]any) (domain.CatalogEntry, error) {
	e := domain.CatalogEntry{
		Site:   site,
		NameES: strAt(raw, catalogAliases, "nameEs"),
		NameEN: strAt(raw, catalogAliases, "nameEn"),
	}
	e.Slug = Slugify(strAt(raw, catalogAliases, "slug"))
	if e.Slug == "" {
		e.Slug = Slugify(e.NameES)
	}
	if e.Slug == "" {
		e.Slug = Slugify(e.NameEN)
	}
	if e.Slug == "" {
		return domain.CatalogEntry{}, &domain.ValidationError{Issues: []domain.FieldIssue{
			{Field: "slug", Message: "no slug given and none derivable from a name"},
		}}
	}

	e.ShowInMenu = true
	if v, ok := presentAlias(raw, catalogAliases, "showInMenu"); ok {
		if b, isBool := v.(bool); isBool {
			e.ShowInMenu = b
		}
	}
	if v, ok := presentAlias(raw, catalogAliases, "menuOrder"); ok {
		if f, isNum := v.(float64); isNum {
			e.MenuOrder = int(f)
		}
	}

	exists, err := s.repo.CatalogSlugExists(ctx, site, kind, e.Slug)
	if err != nil {
		return domain.CatalogEntry{}, &domain.StoreError{Step: string(kind), Err: err}
	}
	if exists {
		return domain.CatalogEntry{}, domain.ErrSlugConflict
	}

	id, err := s.repo.InsertCatalog(ctx, kind, e)
	if err != nil {
		return domain.CatalogEntry{}, err
	}
	e.ID = id
	return e, nil
}

func (s *CatalogService) List(ctx context.Context, site string, kind domain.CatalogKind, includeHidden bool) ([]domain.CatalogEntry, error) {
	return s.repo.ListCatalog(ctx, site, kind, includeHidden)
}

func (s *CatalogService) Delete(ctx context.Context, site string, kind domain.CatalogKind, slug string) error {
	exists, err := s.repo.CatalogSlugExists(ctx, site, kind, slug)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return s.repo.DeleteCatalog(ctx, site, kind, slug)
}
