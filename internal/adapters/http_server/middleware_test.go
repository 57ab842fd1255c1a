package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTenant(t *testing.T) {
	var seen string
	h := Tenant("hoteles")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = siteFrom(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/posts/x", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "hoteles" {
		t.Fatalf("default site = %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/posts/x", nil)
	req.Header.Set("X-Site", "otrositio")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "otrositio" {
		t.Fatalf("header site = %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/posts/x", nil)
	req.Header.Set("X-Site", "   ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "hoteles" {
		t.Fatalf("blank header must fall back, got %q", seen)
	}
}

func TestAdminKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	h := AdminKey("s3cret")(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/posts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing key = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/posts", nil)
	req.Header.Set("x-admin-key", "wrong")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/posts", nil)
	req.Header.Set("x-admin-key", "s3cret")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("right key = %d", rec.Code)
	}
}

func TestAdminKey_EmptySecretDisablesGate(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := AdminKey("")(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/posts", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("open gate = %d", rec.Code)
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &srw{ResponseWriter: rec}
	if w.Status() != http.StatusOK {
		t.Fatalf("zero-value status = %d", w.Status())
	}
	_, _ = w.Write([]byte("implicit 200"))
	if w.Status() != http.StatusOK {
		t.Fatalf("after write = %d", w.Status())
	}

	rec = httptest.NewRecorder()
	w = &srw{ResponseWriter: rec}
	w.WriteHeader(http.StatusConflict)
	w.WriteHeader(http.StatusOK) // later calls must not overwrite
	if w.Status() != http.StatusConflict {
		t.Fatalf("status = %d", w.Status())
	}
}
