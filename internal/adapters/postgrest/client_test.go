package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "test-key", 1000)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClient_GetDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("slug"); got != "eq.bar-liguria" {
			t.Errorf("slug filter = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 7, "slug": "bar-liguria"}]`))
	})

	var out []struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}
	err := c.From("posts").Select("id,slug").Eq("slug", "bar-liguria").Get(context.Background(), &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != 7 {
		t.Fatalf("out = %+v", out)
	}
}

func TestClient_DriftPruneRetries(t *testing.T) {
	var attempts int32
	var mu sync.Mutex
	var lastBody []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		var rows []map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rows)
		mu.Lock()
		lastBody = rows
		mu.Unlock()
		if n == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"PGRST204","message":"Could not find the 'reservation_policy' column of 'posts' in the schema cache"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	rows := []Row{
		{"slug": "a", "reservation_policy": "x"},
		{"slug": "b", "reservation_policy": "y"},
	}
	if err := c.From("posts").Insert(context.Background(), rows); err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d", attempts)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, r := range lastBody {
		if _, still := r["reservation_policy"]; still {
			t.Fatalf("pruned column resent: %v", r)
		}
		if _, ok := r["slug"]; !ok {
			t.Fatalf("surviving column dropped: %v", r)
		}
	}
}

func TestClient_DriftUnsentColumnNotRetried(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"PGRST204","message":"Could not find the 'phantom' column of 'posts' in the schema cache"}`))
	})

	err := c.From("posts").Insert(context.Background(), []Row{{"slug": "a"}})
	var uc *UnknownColumnError
	if !errors.As(err, &uc) || uc.Column != "phantom" {
		t.Fatalf("err = %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, blamed column was never sent", attempts)
	}
}

func TestClient_TransientErrorNotRetried(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream unavailable`))
	})

	err := c.From("posts").Insert(context.Background(), []Row{{"slug": "a"}})
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, transient failures must not retry", attempts)
	}
}

func TestClient_UniqueViolation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"posts_site_slug_key\""}`))
	})

	err := c.From("posts").Insert(context.Background(), []Row{{"slug": "dup"}})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_UpsertHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("on_conflict"); got != "post_id,lang" {
			t.Errorf("on_conflict = %q", got)
		}
		if got := r.Header.Get("Prefer"); got != "resolution=merge-duplicates,return=minimal" {
			t.Errorf("prefer = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := c.From("post_useful_info").Upsert(context.Background(),
		[]Row{{"post_id": 1, "lang": "es", "html": "<p>x</p>"}}, "post_id,lang")
	if err != nil {
		t.Fatal(err)
	}
}

func TestClient_DriftBudgetExhausted(t *testing.T) {
	cols := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		col := cols[int(n)-1]
		_, _ = w.Write([]byte(`{"code":"PGRST204","message":"Could not find the '` + col + `' column of 'posts' in the schema cache"}`))
	})

	row := Row{}
	for _, col := range cols {
		row[col] = "v"
	}
	err := c.From("posts").Insert(context.Background(), []Row{row})
	var uc *UnknownColumnError
	if !errors.As(err, &uc) {
		t.Fatalf("err = %v", err)
	}
	if attempts != 6 {
		t.Fatalf("attempts = %d, budget is six", attempts)
	}
}
