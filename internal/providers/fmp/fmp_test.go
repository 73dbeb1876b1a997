package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAvailable(t *testing.T) {
	if New("").Available("AAPL") {
		t.Error("provider without key should be unavailable")
	}
	if !New("demo").Available("AAPL") {
		t.Error("provider with key should be available")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/income-statement/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("period") != "annual" || q.Get("apikey") != "demo" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2023-09-30","revenue":383285000000,"operatingIncome":114301000000,"netIncome":96995000000,"eps":6.16},
			{"date":"2022-09-30","revenue":394328000000,"operatingIncome":119437000000,"netIncome":99803000000},
			{"date":"bogus","revenue":1}
		]`))
	}))
	defer srv.Close()

	p := New("demo")
	p.BaseURL = srv.URL

	records, err := p.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (bogus date dropped)", len(records))
	}

	first := records[0]
	if first.Year != 2023 {
		t.Errorf("Year = %d, want 2023", first.Year)
	}
	if first.Revenue == nil || *first.Revenue != 383285000000 {
		t.Errorf("Revenue = %v", first.Revenue)
	}
	if first.EPS == nil || *first.EPS != 6.16 {
		t.Errorf("EPS = %v", first.EPS)
	}
	if records[1].EPS != nil {
		t.Errorf("missing eps should stay nil, got %v", *records[1].EPS)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := New("demo")
	p.BaseURL = srv.URL

	if _, err := p.Fetch(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
