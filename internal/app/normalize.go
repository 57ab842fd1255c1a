package app

import (
	"fmt"
	"strconv"
	"strings"

	"chileadicto/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Top-level payload keys. Admin forms evolved over several years, so
// most fields arrive under an English key, a snake_case key, or the
// original Spanish one.
var postAliases = map[string][]string{
	"slug":              {"slug", "url_slug", "permalink"},
	"featuredImage":     {"featuredImage", "featured_image", "imagenDestacada", "imagen_destacada", "cover"},
	"images":            {"images", "gallery", "galeria", "imagenes", "fotos"},
	"website":           {"website", "web", "sitioWeb", "sitio_web"},
	"instagram":         {"instagram", "ig"},
	"email":             {"email", "correo", "mail"},
	"phone":             {"phone", "telefono", "tel"},
	"address":           {"address", "direccion"},
	"hours":             {"hours", "horario", "horarios"},
	"reservationLink":   {"reservationLink", "reservation_link", "linkReserva", "link_reserva", "bookingLink"},
	"reservationPolicy": {"reservationPolicy", "reservation_policy", "politicaReserva", "politica_reserva"},
	"interestingFact":   {"interestingFact", "interesting_fact", "datoCurioso", "dato_curioso"},
	"photosCredit":      {"photosCredit", "photos_credit", "creditoFotos", "credito_fotos"},
	"locations":         {"locations", "ubicaciones", "sucursales"},
	"categories":        {"categories", "categorias"},
	"communes":          {"communes", "comunas"},
	"usefulInfo":        {"usefulInfo", "useful_info", "infoUtil", "info_util"},
}

var translationAliases = map[string][]string{
	"name":        {"name", "nombre", "title", "titulo"},
	"subtitle":    {"subtitle", "subtitulo", "bajada"},
	"description": {"description", "descripcion", "paragraphs", "parrafos"},
	"category":    {"category", "categoria"},
	"infoHtml":    {"infoHtml", "info_html", "info"},
	"usefulInfo":  {"usefulInfo", "useful_info", "infoUtil", "info_util"},
}

var locationAliases = map[string][]string{
	"label":   {"label", "nombre", "name", "titulo"},
	"address": {"address", "direccion"},
	"hours":   {"hours", "horario", "horarios"},
	"phone":   {"phone", "telefono", "tel"},
	"website": {"website", "web", "sitioWeb"},
	"email":   {"email", "correo", "mail"},
}

/********** tiny helpers **********/

// presentAlias returns the value of the first alias key present in the
// raw object, distinguishing "key present with an empty value" (clear)
// from "key absent" (leave stored value alone).
func presentAlias(m map[string]any, aliases map[string][]string, key string) (any, bool) {
	for _, k := range aliases[key] {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// stringField coerces a provided value to a string pointer; nil means
// the key was absent.
func stringField(m map[string]any, aliases map[string][]string, key string) *string {
	v, ok := presentAlias(m, aliases, key)
	if !ok {
		return nil
	}
	s := coerceString(v)
	return &s
}

// strAt is stringField for contexts where absent and empty collapse.
func strAt(m map[string]any, aliases map[string][]string, key string) string {
	if p := stringField(m, aliases, key); p != nil {
		return *p
	}
	return ""
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// coerceStrings accepts an already-split list, a list of {url|src}
// objects, or a single string; empty entries are dropped.
func coerceStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			switch e := it.(type) {
			case string:
				if s := strings.TrimSpace(e); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				for _, k := range []string{"url", "src", "name"} {
					if s, ok := e[k].(string); ok && strings.TrimSpace(s) != "" {
						out = append(out, strings.TrimSpace(s))
						break
					}
				}
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s := strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

// splitParagraphs turns raw markup into paragraph strings: <p> blocks
// when present, blank-line separation otherwise.
func splitParagraphs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var parts []string
	if strings.Contains(strings.ToLower(raw), "</p>") {
		for _, chunk := range strings.Split(raw, "</p>") {
			chunk = strings.TrimSpace(chunk)
			if i := strings.Index(chunk, ">"); strings.HasPrefix(strings.ToLower(chunk), "<p") && i >= 0 {
				chunk = chunk[i+1:]
			}
			if chunk = strings.TrimSpace(chunk); chunk != "" {
				parts = append(parts, chunk)
			}
		}
	} else {
		normalized := strings.ReplaceAll(raw, "\r\n", "\n")
		for _, chunk := range strings.Split(normalized, "\n\n") {
			if chunk = strings.TrimSpace(chunk); chunk != "" {
				parts = append(parts, chunk)
			}
		}
	}
	if parts == nil {
		parts = []string{}
	}
	return parts
}

// telURI normalizes a free-form phone into a tel: URI. Anything that is
// not a digit or a leading + is dropped; empty input stays empty.
func telURI(phone string) string {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(phone), "tel:"))
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "tel:" + b.String()
}

/********** post normalizer **********/

// NormalizePost maps an arbitrary, legacy-shaped payload onto the
// canonical patch. It never fails: missing keys stay nil pointers,
// provided values are coerced, legacy aliases resolve here and nowhere
// else.
func NormalizePost(raw map[string]any) domain.PostPatch {
	var p domain.PostPatch

	if v, ok := presentAlias(raw, postAliases, "slug"); ok {
		s := Slugify(coerceString(v))
		p.Slug = &s
	}

	p.Website = stringField(raw, postAliases, "website")
	p.Instagram = stringField(raw, postAliases, "instagram")
	p.Email = stringField(raw, postAliases, "email")
	p.Address = stringField(raw, postAliases, "address")
	p.Hours = stringField(raw, postAliases, "hours")
	p.ReservationLink = stringField(raw, postAliases, "reservationLink")
	p.ReservationPolicy = stringField(raw, postAliases, "reservationPolicy")
	p.InterestingFact = stringField(raw, postAliases, "interestingFact")
	p.PhotosCredit = stringField(raw, postAliases, "photosCredit")

	if v, ok := presentAlias(raw, postAliases, "phone"); ok {
		s := coerceString(v)
		p.Phone = &s
	}

	normalizeGalleryFields(raw, &p)
	normalizeTranslations(raw, &p)
	normalizeLocations(raw, &p)

	if v, ok := presentAlias(raw, postAliases, "categories"); ok {
		labels := coerceStrings(v)
		p.Categories = &labels
	}
	if v, ok := presentAlias(raw, postAliases, "communes"); ok {
		labels := coerceStrings(v)
		p.Communes = &labels
	}

	return p
}

func normalizeGalleryFields(raw map[string]any, p *domain.PostPatch) {
	imagesGiven := false
	var images []string
	if v, ok := presentAlias(raw, postAliases, "images"); ok {
		imagesGiven = true
		images = coerceStrings(v)
	}

	featured := ""
	featuredGiven := false
	if v, ok := presentAlias(raw, postAliases, "featuredImage"); ok {
		featuredGiven = true
		featured = coerceString(v)
	}

	if !imagesGiven && !featuredGiven {
		return
	}

	// Featured defaults to the first gallery entry when a gallery was
	// supplied without an explicit pointer; the reconciler keeps the two
	// disjoint either way.
	if imagesGiven {
		f, gallery := ReconcileGallery(images, featured)
		p.Images = &gallery
		p.FeaturedImage = &f
		return
	}

	// Only the featured pointer arrived: leave the stored gallery alone.
	p.FeaturedImage = &featured
}

func normalizeTranslations(raw map[string]any, p *domain.PostPatch) {
	blocks := make(map[string]map[string]any, len(domain.Languages))
	provided := false

	nested, _ := raw["translations"].(map[string]any)
	for _, lang := range domain.Languages {
		if b, ok := raw[lang].(map[string]any); ok {
			blocks[lang] = b
			provided = true
		} else if nested != nil {
			if b, ok := nested[lang].(map[string]any); ok {
				blocks[lang] = b
				provided = true
			}
		}
	}

	// Per-language useful-info HTML can also arrive as a top-level map.
	if v, ok := presentAlias(raw, postAliases, "usefulInfo"); ok {
		if m, ok := v.(map[string]any); ok {
			for _, lang := range domain.Languages {
				if hv, ok := m[lang]; ok {
					if p.UsefulInfo == nil {
						p.UsefulInfo = make(map[string]string, len(domain.Languages))
					}
					p.UsefulInfo[lang] = coerceString(hv)
				}
			}
		}
	}

	if !provided {
		return
	}

	// Always a full per-language set, empty blocks included: the store's
	// bulk insert requires uniform row shape.
	p.Translations = make(map[string]domain.Translation, len(domain.Languages))
	for _, lang := range domain.Languages {
		block := blocks[lang]
		var t domain.Translation
		if block != nil {
			t.Name = strAt(block, translationAliases, "name")
			t.Subtitle = strAt(block, translationAliases, "subtitle")
			t.Category = strAt(block, translationAliases, "category")
			t.InfoHTML = strAt(block, translationAliases, "infoHtml")
			t.Description = normalizeDescription(block)

			if v, ok := presentAlias(block, translationAliases, "usefulInfo"); ok {
				if p.UsefulInfo == nil {
					p.UsefulInfo = make(map[string]string, len(domain.Languages))
				}
				p.UsefulInfo[lang] = coerceString(v)
			}
		}
		if t.Description == nil {
			t.Description = []string{}
		}
		p.Translations[lang] = t
	}

	// Derived slug: primary-language name first, then any other.
	for _, lang := range domain.Languages {
		if name := p.Translations[lang].Name; name != "" {
			p.DerivedSlug = Slugify(name)
			break
		}
	}
}

func normalizeDescription(block map[string]any) []string {
	v, ok := presentAlias(block, translationAliases, "description")
	if !ok {
		return []string{}
	}
	switch t := v.(type) {
	case string:
		return splitParagraphs(t)
	default:
		return coerceStrings(t)
	}
}

func normalizeLocations(raw map[string]any, p *domain.PostPatch) {
	v, ok := presentAlias(raw, postAliases, "locations")
	if !ok {
		return
	}
	items, _ := v.([]any)
	locs := make([]domain.Location, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		loc := domain.Location{
			Position: len(locs),
			Label:    strAt(m, locationAliases, "label"),
			Address:  strAt(m, locationAliases, "address"),
			Hours:    strAt(m, locationAliases, "hours"),
			Phone:    telURI(strAt(m, locationAliases, "phone")),
			Website:  strAt(m, locationAliases, "website"),
			Email:    strAt(m, locationAliases, "email"),
		}
		locs = append(locs, loc)
	}
	p.Locations = &locs
}
