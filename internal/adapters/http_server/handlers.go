package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"chileadicto/internal/app"
	"chileadicto/internal/domain"
)

type Handlers struct {
	Posts    *app.PostService
	Catalog  *app.CatalogService
	Media    *app.MediaService
	AdminKey string
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Issues []domain.FieldIssue `json:"issues,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/posts/{slug}", h.getPost)
		r.Get("/categories", h.listCatalog(domain.KindCategory))
		r.Get("/communes", h.listCatalog(domain.KindCommune))
		r.Get("/media", h.listMedia)

		r.Group(func(r chi.Router) {
			r.Use(AdminKey(h.AdminKey))
			r.Post("/posts", h.createPost)
			r.Put("/posts/{slug}", h.updatePost)
			r.Delete("/posts/{slug}", h.deletePost)
			r.Post("/categories", h.createCatalog(domain.KindCategory))
			r.Delete("/categories/{slug}", h.deleteCatalog(domain.KindCategory))
			r.Post("/communes", h.createCatalog(domain.KindCommune))
			r.Delete("/communes/{slug}", h.deleteCatalog(domain.KindCommune))
			r.Post("/media", h.uploadMedia)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemIssues(w, status, title, detail, nil)
}

func writeProblemIssues(w http.ResponseWriter, status int, title, detail string, issues []domain.FieldIssue) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Issues: issues}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto the HTTP surface.
// Validation and conflicts get actionable detail; store failures get a
// generic body with the failing step kept to the logs.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeProblemIssues(w, http.StatusBadRequest, "Validation Failed", "one or more fields are invalid", verr.Issues)
		return
	}
	if errors.Is(err, domain.ErrSlugConflict) {
		writeProblem(w, http.StatusConflict, "Conflict", "slug already in use for this site")
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "")
		return
	}
	var serr *domain.StoreError
	if errors.As(err, &serr) {
		log.Error().Err(serr.Err).Str("step", serr.Step).Msg("store write failed")
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "the content store rejected the operation")
		return
	}
	log.Error().Err(err).Msg("unhandled error")
	writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeRaw(r *http.Request) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<20)).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ---- posts ----

func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeRaw(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON object")
		return
	}
	slug, err := h.Posts.Create(r.Context(), siteFrom(r), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"slug": slug})
}

func (h *Handlers) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.Posts.Read(r.Context(), siteFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse(p))
}

func (h *Handlers) updatePost(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeRaw(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON object")
		return
	}
	slug, err := h.Posts.Update(r.Context(), siteFrom(r), chi.URLParam(r, "slug"), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"slug": slug})
}

func (h *Handlers) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.Posts.Delete(r.Context(), siteFrom(r), chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---- response shaping ----

type postView struct {
	Slug              string                     `json:"slug"`
	Site              string                     `json:"site"`
	FeaturedImage     string                     `json:"featuredImage,omitempty"`
	Website           string                     `json:"website,omitempty"`
	Instagram         string                     `json:"instagram,omitempty"`
	Email             string                     `json:"email,omitempty"`
	Phone             string                     `json:"phone,omitempty"`
	Address           string                     `json:"address,omitempty"`
	Hours             string                     `json:"hours,omitempty"`
	ReservationLink   string                     `json:"reservationLink,omitempty"`
	ReservationPolicy string                     `json:"reservationPolicy,omitempty"`
	InterestingFact   string                     `json:"interestingFact,omitempty"`
	PhotosCredit      string                     `json:"photosCredit,omitempty"`
	Images            []string                   `json:"images"`
	Locations         []locationView             `json:"locations"`
	Translations      map[string]translationView `json:"translations"`
	UsefulInfo        map[string]string          `json:"usefulInfo,omitempty"`
	Categories        []string                   `json:"categories"`
	Communes          []string                   `json:"communes"`
}

type translationView struct {
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description []string `json:"description"`
	Category    string   `json:"category,omitempty"`
	InfoHTML    string   `json:"infoHtml,omitempty"`
}

type locationView struct {
	Label   string `json:"label"`
	Address string `json:"address,omitempty"`
	Hours   string `json:"hours,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
}

func postResponse(p domain.Post) postView {
	v := postView{
		Slug:              p.Slug,
		Site:              p.Site,
		FeaturedImage:     p.FeaturedImage,
		Website:           p.Website,
		Instagram:         p.Instagram,
		Email:             p.Email,
		Phone:             p.Phone,
		Address:           p.Address,
		Hours:             p.Hours,
		ReservationLink:   p.ReservationLink,
		ReservationPolicy: p.ReservationPolicy,
		InterestingFact:   p.InterestingFact,
		PhotosCredit:      p.PhotosCredit,
		Images:            p.Images,
		Locations:         []locationView{},
		Translations:      map[string]translationView{},
		UsefulInfo:        p.UsefulInfo,
		Categories:        p.Categories,
		Communes:          p.Communes,
	}
	for _, l := range p.Locations {
		v.Locations = append(v.Locations, locationView{
			Label: l.Label, Address: l.Address, Hours: l.Hours,
			Phone: l.Phone, Website: l.Website, Email: l.Email,
		})
	}
	for lang, t := range p.Translations {
		v.Translations[lang] = translationView{
			Name: t.Name, Subtitle: t.Subtitle, Description: t.Description,
			Category: t.Category, InfoHTML: t.InfoHTML,
		}
	}
	return v
}

// ---- catalog ----

type catalogView struct {
	Slug       string `json:"slug"`
	NameES     string `json:"nameEs,omitempty"`
	NameEN     string `json:"nameEn,omitempty"`
	ShowInMenu bool   `json:"showInMenu"`
	MenuOrder  int    `json:"menuOrder"`
}

func (h *Handlers) listCatalog(kind domain.CatalogKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeHidden := r.URL.Query().Get("include_hidden") == "1"
		entries, err := h.Catalog.List(r.Context(), siteFrom(r), kind, includeHidden)
		if err != nil {
			writeError(w, err)
			return
		}
		// Default is the legacy labels-only list the older admin widgets
		// expect; ?full=1 returns the extended shape.
		if r.URL.Query().Get("full") != "1" {
			labels := make([]string, 0, len(entries))
			for _, e := range entries {
				labels = append(labels, e.Label())
			}
			writeJSON(w, http.StatusOK, labels)
			return
		}
		out := make([]catalogView, 0, len(entries))
		for _, e := range entries {
			out = append(out, catalogView{
				Slug: e.Slug, NameES: e.NameES, NameEN: e.NameEN,
				ShowInMenu: e.ShowInMenu, MenuOrder: e.MenuOrder,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *Handlers) createCatalog(kind domain.CatalogKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := decodeRaw(r)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON object")
			return
		}
		e, err := h.Catalog.Create(r.Context(), siteFrom(r), kind, raw)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"slug": e.Slug})
	}
}

func (h *Handlers) deleteCatalog(kind domain.CatalogKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.Catalog.Delete(r.Context(), siteFrom(r), kind, chi.URLParam(r, "slug")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ---- media ----

func (h *Handlers) listMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.Media.List(r.Context(), siteFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) uploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "expected multipart form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "missing file field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, 16<<20))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "could not read file")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := h.Media.Upload(r.Context(), siteFrom(r), header.Filename, data, contentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
