package gamemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAndLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"created_at": "2026-08-01",
			"total_matches": 3,
			"games": [
				{"appid": 17300, "name": "Crysis"},
				{"appid": 17300, "name": "Crysis (2007)"},
				{"appid": 400, "name": "Portal"}
			]
		}`))
	}))
	defer srv.Close()

	m := New()
	if err := m.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2 distinct appids", m.Len())
	}
	if names := m.Names(17300); len(names) != 2 {
		t.Errorf("Names(17300) = %v, want 2 aliases", names)
	}

	appid, ok := m.AppIDByTitle("  crysis ")
	if !ok || appid != 17300 {
		t.Errorf("AppIDByTitle = (%d, %t), want (17300, true)", appid, ok)
	}
	if _, ok := m.AppIDByTitle("Unknown Game"); ok {
		t.Error("AppIDByTitle matched an unknown title")
	}
	if _, ok := m.AppIDByTitle(""); ok {
		t.Error("AppIDByTitle matched the empty title")
	}
}

func TestFetch_SkipsWhenLoaded(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"games": [{"appid": 1, "name": "A"}]}`))
	}))
	defer srv.Close()

	m := New()
	for i := 0; i < 3; i++ {
		if err := m.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1", calls)
	}

	m.Clear()
	if err := m.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch after Clear: %v", err)
	}
	if calls != 2 {
		t.Errorf("server hit %d times after Clear, want 2", calls)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if err := New().Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch on HTTP 403 succeeded")
	}
}

func TestReplace(t *testing.T) {
	m := New()
	m.Replace([]Game{{AppID: 7, Name: "Oyun"}})
	if appid, ok := m.AppIDByTitle("OYUN"); !ok || appid != 7 {
		t.Errorf("AppIDByTitle after Replace = (%d, %t)", appid, ok)
	}
}
