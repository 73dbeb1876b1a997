package sahmk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAvailableRequiresSaudiSuffix(t *testing.T) {
	p := New("key")
	if !p.Available("1120.SR") {
		t.Error("Saudi ticker with key should be available")
	}
	if !p.Available("1120.sr") {
		t.Error("suffix check should be case-insensitive")
	}
	if p.Available("AAPL") {
		t.Error("non-Saudi ticker should never route to sahmk")
	}
	if New("").Available("1120.SR") {
		t.Error("provider without key should be unavailable")
	}
}

func TestFetchSynthesizesEPS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/financials/1120/" {
			t.Errorf("unexpected path %s (suffix should be stripped)", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing X-API-Key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"income_statements":[
			{"report_date":"2023-12-31","total_revenue":14000000000,"operating_income":8000000000,"net_income":3000000000},
			{"report_date":"2022-12-31","total_revenue":12000000000,"net_income":2500000000,"eps":1.25}
		]}`))
	}))
	defer srv.Close()

	p := New("secret")
	p.BaseURL = srv.URL

	records, err := p.Fetch(context.Background(), "1120.SR")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Missing eps is synthesized as NetIncome / 1e9.
	if records[0].EPS == nil || *records[0].EPS != 3.0 {
		t.Errorf("synthesized EPS = %v, want 3.0", records[0].EPS)
	}
	// Explicit eps is passed through untouched.
	if records[1].EPS == nil || *records[1].EPS != 1.25 {
		t.Errorf("explicit EPS = %v, want 1.25", records[1].EPS)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New("bad")
	p.BaseURL = srv.URL

	if _, err := p.Fetch(context.Background(), "1120.SR"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
