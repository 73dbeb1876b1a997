package yfinance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAvailableAlwaysTrue(t *testing.T) {
	p := New()
	for _, ticker := range []string{"AAPL", "1120.SR", "", "anything"} {
		if !p.Available(ticker) {
			t.Errorf("Available(%q) = false, want always true", ticker)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v10/finance/quoteSummary/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":[{"incomeStatementHistory":{
			"incomeStatementHistory":[
				{
					"endDate":{"raw":1695945600,"fmt":"2023-09-29"},
					"totalRevenue":{"raw":383285000000},
					"operatingIncome":{"raw":114301000000},
					"netIncome":{"raw":96995000000},
					"dilutedEPS":{"raw":6.13}
				},
				{
					"endDate":{"fmt":"2022-09-24"},
					"totalRevenue":{"raw":394328000000}
				}
			]
		}}],"error":null}}`))
	}))
	defer srv.Close()

	p := New()
	p.BaseURL = srv.URL

	records, err := p.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].Year != 2023 {
		t.Errorf("Year from raw epoch = %d, want 2023", records[0].Year)
	}
	if records[0].EPS == nil || *records[0].EPS != 6.13 {
		t.Errorf("EPS = %v", records[0].EPS)
	}
	// Second statement has no raw endDate; the formatted date is used.
	if records[1].Year != 2022 {
		t.Errorf("Year from fmt date = %d, want 2022", records[1].Year)
	}
	if records[1].NetIncome != nil {
		t.Errorf("missing netIncome should be nil")
	}
}

func TestFetchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
	}))
	defer srv.Close()

	p := New()
	p.BaseURL = srv.URL

	if _, err := p.Fetch(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error when the API reports one")
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "saudi aramco" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":[
			{"symbol":"2222.SR","longname":"Saudi Arabian Oil Company"},
			{"symbol":"","shortname":"junk row"},
			{"symbol":"ARMCO","shortname":"Aramco Shortname Only"}
		]}`))
	}))
	defer srv.Close()

	p := New()
	p.BaseURL = srv.URL

	results, err := p.Search(context.Background(), "saudi aramco")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (empty symbol dropped)", len(results))
	}
	if results[0].Symbol != "2222.SR" || results[0].Name != "Saudi Arabian Oil Company" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].Name != "Aramco Shortname Only" {
		t.Errorf("shortname fallback missing: %+v", results[1])
	}
}
