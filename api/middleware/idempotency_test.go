package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

// mountedRouter applies the middleware the same way the api router does:
// r.Use inside the versioned subrouter, with the handler on a nested path.
func mountedRouter(store *fakeStore, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Post("/marketplace/sales", handler)
		r.Get("/marketplace/sales", handler)
		r.Route("/consumer", func(r chi.Router) {
			r.Post("/orders", handler)
		})
	})
	return r
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		ok     bool
	}{
		{"record sale", http.MethodPost, "/api/v1/marketplace/sales", true},
		{"place order", http.MethodPost, "/api/v1/consumer/orders", true},
		{"create product", http.MethodPost, "/api/v1/warehouse/products", true},
		{"register manager", http.MethodPost, "/api/v1/managers", true},
		{"read sales", http.MethodGet, "/api/v1/marketplace/sales", false},
		{"update product", http.MethodPut, "/api/v1/warehouse/products/RICE-5KG", false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.path)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != defaultIdempotencyTTL {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, defaultIdempotencyTTL, ttl)
		}
	}
}

func TestIdempotencyEngagesThroughMountedRouter(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountedRouter(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/marketplace/sales", strings.NewReader(`{"foo":"bar"}`))
		req.Header.Set("Idempotency-Key", "k1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("request %d: expected 202 got %d", i, rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
			t.Fatalf("request %d: unexpected body %s", i, rec.Body.String())
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Fatalf("request %d: content-type not preserved", i)
		}
	}

	if calls != 1 {
		t.Fatalf("handler executed %d times, expected the second request replayed", calls)
	}
	if len(store.data) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.data))
	}
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountedRouter(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/marketplace/sales", strings.NewReader(`{"foo":"bar"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("without a key each request executes, got %d calls", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key, got %d records", len(store.data))
	}
}

func TestIdempotencySkipsReads(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountedRouter(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/sales", nil)
		req.Header.Set("Idempotency-Key", "k1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("reads are never replay-protected, got %d calls", calls)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	router := mountedRouter(store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/consumer/orders", strings.NewReader(`{"foo":"bar"}`))
	first.Header.Set("Idempotency-Key", "xyz")
	router.ServeHTTP(httptest.NewRecorder(), first)

	changed := httptest.NewRequest(http.MethodPost, "/api/v1/consumer/orders", strings.NewReader(`{"foo":"diff"}`))
	changed.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, changed)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}
