package postgrest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"chileadicto/internal/adapters/postgrest"
	"chileadicto/internal/domain"
)

// Repo implements the post and catalog repositories over the store's
// row-oriented REST interface. Methods are single round-trips (plus the
// drift guard's retries inside the client); multi-step consistency is
// the coordinator's problem, not this layer's.
type Repo struct{ c *postgrest.Client }

func New(c *postgrest.Client) *Repo { return &Repo{c: c} }

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// translate maps store sentinels onto the domain taxonomy at the port
// boundary, the only place the two vocabularies meet.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, postgrest.ErrConflict):
		return fmt.Errorf("%w: %v", domain.ErrSlugConflict, err)
	case errors.Is(err, postgrest.ErrNoRows):
		return domain.ErrNotFound
	default:
		return err
	}
}

func linkTable(kind domain.CatalogKind) (table, fk string) {
	if kind == domain.KindCommune {
		return tablePostCommunes, "commune_id"
	}
	return tablePostCategories, "category_id"
}

func catalogTable(kind domain.CatalogKind) string {
	if kind == domain.KindCommune {
		return tableCommunes
	}
	return tableCategories
}

// -----------------------------------------------------------------------------
// posts core
// -----------------------------------------------------------------------------

func (r *Repo) ResolveID(ctx context.Context, site, slug string) (int64, error) {
	var rows []idRow
	err := r.c.From(tablePosts).Select("id").Eq("slug", slug).Eq("site", site).Limit(1).Get(ctx, &rows)
	if err != nil {
		return 0, translate(err)
	}
	if len(rows) == 0 {
		return 0, domain.ErrNotFound
	}
	return rows[0].ID, nil
}

func (r *Repo) SlugExists(ctx context.Context, site, slug string) (bool, error) {
	_, err := r.ResolveID(ctx, site, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// scalarColumns collects only the provided scalar fields; an explicitly
// empty value becomes null so callers can clear a column.
func scalarColumns(p domain.PostPatch) postgrest.Row {
	row := postgrest.Row{}
	set := func(col string, v *string) {
		if v != nil {
			row[col] = nullable(*v)
		}
	}
	set("featured_image", p.FeaturedImage)
	set("website", p.Website)
	set("instagram", p.Instagram)
	set("email", p.Email)
	set("phone", p.Phone)
	set("address", p.Address)
	set("hours", p.Hours)
	set("reservation_link", p.ReservationLink)
	set("reservation_policy", p.ReservationPolicy)
	set("interesting_fact", p.InterestingFact)
	set("photos_credit", p.PhotosCredit)
	return row
}

func (r *Repo) InsertPost(ctx context.Context, site, slug string, p domain.PostPatch) (int64, error) {
	row := scalarColumns(p)
	row["slug"] = slug
	row["site"] = site

	var out []idRow
	err := r.c.From(tablePosts).Select("id").InsertReturning(ctx, []postgrest.Row{row}, &out)
	if err != nil {
		return 0, translate(err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("insert post: store returned no representation")
	}
	return out[0].ID, nil
}

func (r *Repo) PatchPost(ctx context.Context, id int64, p domain.PostPatch) error {
	row := scalarColumns(p)
	if len(row) == 0 {
		return nil
	}
	return translate(r.c.From(tablePosts).Eq("id", id).Patch(ctx, row))
}

func (r *Repo) RenamePost(ctx context.Context, id int64, newSlug string) error {
	return translate(r.c.From(tablePosts).Eq("id", id).Patch(ctx, postgrest.Row{"slug": newSlug}))
}

func (r *Repo) DeletePost(ctx context.Context, id int64) error {
	// Dependent rows go away through the store's cascade rules.
	return translate(r.c.From(tablePosts).Eq("id", id).Delete(ctx))
}

// -----------------------------------------------------------------------------
// translations / useful info
// -----------------------------------------------------------------------------

func (r *Repo) ReplaceTranslations(ctx context.Context, id int64, set map[string]domain.Translation) error {
	if err := r.c.From(tableTranslations).Eq("post_id", id).Delete(ctx); err != nil {
		return translate(err)
	}
	// One row per supported language, empty or not: the bulk insert
	// requires every row to carry the same columns.
	rows := make([]postgrest.Row, 0, len(domain.Languages))
	for _, lang := range domain.Languages {
		t := set[lang]
		desc := t.Description
		if desc == nil {
			desc = []string{}
		}
		rows = append(rows, postgrest.Row{
			"post_id":     id,
			"lang":        lang,
			"name":        nullable(t.Name),
			"subtitle":    nullable(t.Subtitle),
			"description": desc,
			"category":    nullable(t.Category),
			"info_html":   nullable(t.InfoHTML),
		})
	}
	return translate(r.c.From(tableTranslations).Insert(ctx, rows))
}

func (r *Repo) UpsertUsefulInfo(ctx context.Context, id int64, lang, html string) error {
	rows := []postgrest.Row{{"post_id": id, "lang": lang, "html": html}}
	return translate(r.c.From(tableUsefulInfo).Upsert(ctx, rows, "post_id,lang"))
}

func (r *Repo) DeleteUsefulInfo(ctx context.Context, id int64, lang string) error {
	return translate(r.c.From(tableUsefulInfo).Eq("post_id", id).Eq("lang", lang).Delete(ctx))
}

// -----------------------------------------------------------------------------
// images / locations
// -----------------------------------------------------------------------------

func (r *Repo) ReplaceImages(ctx context.Context, id int64, urls []string) error {
	if err := r.c.From(tableImages).Eq("post_id", id).Delete(ctx); err != nil {
		return translate(err)
	}
	if len(urls) == 0 {
		return nil
	}
	rows := make([]postgrest.Row, 0, len(urls))
	for pos, u := range urls {
		rows = append(rows, postgrest.Row{"post_id": id, "url": u, "position": pos})
	}
	return translate(r.c.From(tableImages).Insert(ctx, rows))
}

func (r *Repo) ReplaceLocations(ctx context.Context, id int64, locs []domain.Location) error {
	if err := r.c.From(tableLocations).Eq("post_id", id).Delete(ctx); err != nil {
		return translate(err)
	}
	if len(locs) == 0 {
		return nil
	}
	rows := make([]postgrest.Row, 0, len(locs))
	for pos, l := range locs {
		rows = append(rows, postgrest.Row{
			"post_id":  id,
			"position": pos,
			"label":    l.Label,
			"address":  nullable(l.Address),
			"hours":    nullable(l.Hours),
			"phone":    nullable(l.Phone),
			"website":  nullable(l.Website),
			"email":    nullable(l.Email),
		})
	}
	return translate(r.c.From(tableLocations).Insert(ctx, rows))
}

// -----------------------------------------------------------------------------
// relation maps
// -----------------------------------------------------------------------------

func (r *Repo) LinkedIDs(ctx context.Context, id int64, kind domain.CatalogKind) ([]int64, error) {
	table, fk := linkTable(kind)
	var rows []map[string]int64
	if err := r.c.From(table).Select(fk).Eq("post_id", id).Get(ctx, &rows); err != nil {
		return nil, translate(err)
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row[fk])
	}
	return ids, nil
}

func (r *Repo) Link(ctx context.Context, id int64, kind domain.CatalogKind, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	table, fk := linkTable(kind)
	rows := make([]postgrest.Row, 0, len(ids))
	for _, cid := range ids {
		rows = append(rows, postgrest.Row{"post_id": id, fk: cid})
	}
	return translate(r.c.From(table).Insert(ctx, rows))
}

func (r *Repo) Unlink(ctx context.Context, id int64, kind domain.CatalogKind, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	table, fk := linkTable(kind)
	vals := make([]any, len(ids))
	for i, cid := range ids {
		vals[i] = cid
	}
	return translate(r.c.From(table).Eq("post_id", id).In(fk, vals...).Delete(ctx))
}

// -----------------------------------------------------------------------------
// canonical read
// -----------------------------------------------------------------------------

func (r *Repo) GetPost(ctx context.Context, site, slug string) (domain.Post, error) {
	var rows []postRow
	err := r.c.From(tablePosts).Select(postReadSelect).Eq("slug", slug).Eq("site", site).Limit(1).Get(ctx, &rows)
	if err != nil {
		return domain.Post{}, translate(err)
	}
	if len(rows) == 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	return mapPost(rows[0]), nil
}

// mapPost turns the embedded read row into the canonical shape. Every
// relation tolerates being empty; the result never has nil slices or
// maps.
func mapPost(row postRow) domain.Post {
	p := domain.Post{
		ID:                row.ID,
		Slug:              row.Slug,
		Site:              row.Site,
		FeaturedImage:     deref(row.FeaturedImage),
		Website:           deref(row.Website),
		Instagram:         deref(row.Instagram),
		Email:             deref(row.Email),
		Phone:             deref(row.Phone),
		Address:           deref(row.Address),
		Hours:             deref(row.Hours),
		ReservationLink:   deref(row.ReservationLink),
		ReservationPolicy: deref(row.ReservationPolicy),
		InterestingFact:   deref(row.InterestingFact),
		PhotosCredit:      deref(row.PhotosCredit),
		Images:            []string{},
		Locations:         []domain.Location{},
		Translations:      make(map[string]domain.Translation, len(domain.Languages)),
		UsefulInfo:        map[string]string{},
		Categories:        []string{},
		Communes:          []string{},
	}

	sort.Slice(row.Images, func(i, j int) bool { return row.Images[i].Position < row.Images[j].Position })
	for _, img := range row.Images {
		p.Images = append(p.Images, img.URL)
	}

	sort.Slice(row.Locations, func(i, j int) bool { return row.Locations[i].Position < row.Locations[j].Position })
	for _, l := range row.Locations {
		p.Locations = append(p.Locations, domain.Location{
			Position: l.Position,
			Label:    l.Label,
			Address:  deref(l.Address),
			Hours:    deref(l.Hours),
			Phone:    deref(l.Phone),
			Website:  deref(l.Website),
			Email:    deref(l.Email),
		})
	}

	for _, lang := range domain.Languages {
		p.Translations[lang] = domain.Translation{Description: []string{}}
	}
	for _, t := range row.Translations {
		desc := t.Description
		if desc == nil {
			desc = []string{}
		}
		p.Translations[t.Lang] = domain.Translation{
			Name:        deref(t.Name),
			Subtitle:    deref(t.Subtitle),
			Description: desc,
			Category:    deref(t.Category),
			InfoHTML:    deref(t.InfoHTML),
		}
	}
	for _, ui := range row.UsefulInfo {
		if ui.HTML != "" {
			p.UsefulInfo[ui.Lang] = ui.HTML
		}
	}

	for _, c := range row.Categories {
		p.Categories = append(p.Categories, refLabel(c))
	}
	for _, c := range row.Communes {
		p.Communes = append(p.Communes, refLabel(c))
	}
	return p
}

func refLabel(c catalogRefRow) string {
	if s := deref(c.NameES); s != "" {
		return s
	}
	if s := deref(c.NameEN); s != "" {
		return s
	}
	return c.Slug
}

// -----------------------------------------------------------------------------
// catalog
// -----------------------------------------------------------------------------

func (r *Repo) ListCatalog(ctx context.Context, site string, kind domain.CatalogKind, includeHidden bool) ([]domain.CatalogEntry, error) {
	req := r.c.From(catalogTable(kind)).Select("*").Eq("site", site).Order("menu_order", true)
	if !includeHidden {
		req = req.Eq("show_in_menu", true)
	}
	var rows []catalogRow
	if err := req.Get(ctx, &rows); err != nil {
		return nil, translate(err)
	}
	out := make([]domain.CatalogEntry, 0, len(rows))
	for _, c := range rows {
		out = append(out, domain.CatalogEntry{
			ID:         c.ID,
			Slug:       c.Slug,
			Site:       c.Site,
			NameES:     deref(c.NameES),
			NameEN:     deref(c.NameEN),
			ShowInMenu: c.ShowInMenu,
			MenuOrder:  c.MenuOrder,
		})
	}
	return out, nil
}

func (r *Repo) CatalogSlugExists(ctx context.Context, site string, kind domain.CatalogKind, slug string) (bool, error) {
	var rows []idRow
	err := r.c.From(catalogTable(kind)).Select("id").Eq("slug", slug).Eq("site", site).Limit(1).Get(ctx, &rows)
	if err != nil {
		return false, translate(err)
	}
	return len(rows) > 0, nil
}

func (r *Repo) InsertCatalog(ctx context.Context, kind domain.CatalogKind, e domain.CatalogEntry) (int64, error) {
	row := postgrest.Row{
		"slug":         e.Slug,
		"site":         e.Site,
		"name_es":      nullable(e.NameES),
		"name_en":      nullable(e.NameEN),
		"show_in_menu": e.ShowInMenu,
		"menu_order":   e.MenuOrder,
	}
	var out []idRow
	err := r.c.From(catalogTable(kind)).Select("id").InsertReturning(ctx, []postgrest.Row{row}, &out)
	if err != nil {
		return 0, translate(err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("insert %s: store returned no representation", kind)
	}
	return out[0].ID, nil
}

func (r *Repo) DeleteCatalog(ctx context.Context, site string, kind domain.CatalogKind, slug string) error {
	return translate(r.c.From(catalogTable(kind)).Eq("slug", slug).Eq("site", site).Delete(ctx))
}
