package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gastos/internal/core"
	"gastos/internal/log"
)

type fakeRepo struct {
	lists   int
	removes int
	lastUID string
}

func (f *fakeRepo) List(ctx context.Context, table, sel, userID, order string) ([]byte, error) {
	f.lists++
	f.lastUID = userID
	return []byte(`[{"id":"x"}]`), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, table, sel, userID, id string) ([]byte, error) {
	return []byte(`{"id":"` + id + `"}`), nil
}

func (f *fakeRepo) Upsert(ctx context.Context, table string, item any, sel string) ([]byte, error) {
	return []byte(`[{"id":"new"}]`), nil
}

func (f *fakeRepo) Remove(ctx context.Context, table, userID, id string) error {
	f.removes++
	return nil
}

func TestDirectRequiresSession(t *testing.T) {
	repo := &fakeRepo{}
	tr := NewDirect(repo, func() string { return "" })

	if _, err := tr.List(context.Background(), core.TableExpenses, "*", ""); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := tr.Remove(context.Background(), core.TableExpenses, "x"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized on remove, got %v", err)
	}
	if repo.lists != 0 || repo.removes != 0 {
		t.Fatalf("repository must not be reached without a session")
	}
}

func TestDirectScopesToUser(t *testing.T) {
	repo := &fakeRepo{}
	tr := NewDirect(repo, func() string { return "user-7" })

	if _, err := tr.List(context.Background(), core.TableExpenses, "*", "expense_date.desc"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastUID != "user-7" {
		t.Fatalf("expected user scoping, got %q", repo.lastUID)
	}
}

func TestProxyList(t *testing.T) {
	var gotAuth, gotTable string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTable = r.URL.Query().Get("table")
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{{"id": "e1"}}})
	}))
	defer srv.Close()

	tr := NewProxy(srv.URL, func() string { return "tok-1" })
	data, err := tr.List(context.Background(), core.TableExpenses, "*", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotTable != "expenses" {
		t.Fatalf("expected table param, got %q", gotTable)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) != 1 {
		t.Fatalf("unexpected data %s (%v)", data, err)
	}
}

func TestProxyErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": "boom"})
	}))
	defer srv.Close()

	tr := NewProxy(srv.URL, func() string { return "tok" })
	_, err := tr.List(context.Background(), core.TableExpenses, "", "")
	if err == nil || !core.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestProxyUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": "Unauthorized"})
	}))
	defer srv.Close()

	tr := NewProxy(srv.URL, func() string { return "" })
	_, err := tr.List(context.Background(), core.TableExpenses, "", "")
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestProxyDelete(t *testing.T) {
	var method, id string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		id = r.URL.Query().Get("id")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	tr := NewProxy(srv.URL, func() string { return "tok" })
	if err := tr.Remove(context.Background(), core.TableExpenses, "exp-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if method != http.MethodDelete || id != "exp-1" {
		t.Fatalf("unexpected request %s id=%s", method, id)
	}
}

func TestFactorySelectsMode(t *testing.T) {
	logger := log.New(log.DefaultConfig())
	f := NewFactory(logger)

	tr, err := f.Create(Config{Mode: ModeDirect, Repo: &fakeRepo{}, UserID: func() string { return "" }})
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	if tr.Mode() != ModeDirect {
		t.Fatalf("expected direct mode, got %s", tr.Mode())
	}

	tr, err = f.Create(Config{Mode: ModeProxy, BaseURL: "http://localhost", Token: func() string { return "" }})
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	if tr.Mode() != ModeProxy {
		t.Fatalf("expected proxy mode, got %s", tr.Mode())
	}

	if _, err := f.Create(Config{Mode: "carrier-pigeon"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
