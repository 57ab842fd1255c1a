package blobstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpload(t *testing.T) {
	var gotPath, gotType, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "store-key", "media")
	if err != nil {
		t.Fatal(err)
	}
	url, err := c.Upload(context.Background(), "hoteles/x.jpg", []byte("jpegbytes"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/object/media/hoteles/x.jpg" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotType != "image/jpeg" || string(gotBody) != "jpegbytes" {
		t.Fatalf("type = %q body = %q", gotType, gotBody)
	}
	if gotAuth != "Bearer store-key" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if url != srv.URL+"/object/public/media/hoteles/x.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestUpload_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bucket policy"))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", "media")
	if _, err := c.Upload(context.Background(), "x.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/object/list/media" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["prefix"] != "hoteles" {
			t.Errorf("prefix = %v", body["prefix"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"a.jpg","metadata":{"size":1024}},{"name":"b.jpg","metadata":{"size":2048}}]`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", "media")
	items, err := c.List(context.Background(), "hoteles")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].URL != srv.URL+"/object/public/media/hoteles/a.jpg" {
		t.Fatalf("url = %q", items[0].URL)
	}
	if items[1].Size != 2048 {
		t.Fatalf("size = %d", items[1].Size)
	}
}

func TestNew_RequiresBaseAndBucket(t *testing.T) {
	if _, err := New("", "k", "media"); err == nil {
		t.Fatal("missing base accepted")
	}
	if _, err := New("https://storage.test", "k", ""); err == nil {
		t.Fatal("missing bucket accepted")
	}
}
