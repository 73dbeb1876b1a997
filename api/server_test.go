package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spy799/finforecast-ai/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	// Restrict the chain to credential-gated providers with no credentials
	// configured, so handler tests never reach the network.
	cfg.Providers.Order = []string{"fmp", "polygon"}
	cfg.Cache.TTL = 7200

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.SetServeUI(false)
	return srv
}

func doGet(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON from %s: %v", path, err)
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doGet(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Success {
		t.Error("expected success")
	}

	rec, _ = doGet(t, srv, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Errorf("v1 health status = %d", rec.Code)
	}
}

func TestProviders(t *testing.T) {
	// Listing providers performs no fetches, so keyless yfinance is safe here.
	cfg := &config.Config{}
	cfg.Providers.Order = []string{"fmp", "sahmk", "yfinance"}
	cfg.Providers.Sahmk.APIKey = "sahmk-key"
	cfg.Cache.TTL = 7200

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.SetServeUI(false)

	rec, resp := doGet(t, srv, "/api/v1/providers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var infos []ProviderInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		t.Fatalf("decode providers: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("got %d providers, want 3", len(infos))
	}
	if infos[0].Name != "fmp" || infos[0].Priority != 1 {
		t.Errorf("first provider = %+v", infos[0])
	}
	if infos[0].Available {
		t.Error("fmp without a key must report unavailable")
	}
	if !infos[1].Available {
		t.Error("sahmk with a key must report available despite its market gating")
	}
	if !infos[2].Available {
		t.Error("yfinance must always report available")
	}
}

func TestResolveRequiresQuery(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doGet(t, srv, "/api/v1/resolve")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Success {
		t.Error("expected failure envelope")
	}
}

func TestResolveTicker(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doGet(t, srv, "/api/v1/resolve?q=1120.SR")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var rr ResolveResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		t.Fatal(err)
	}
	if rr.Ticker != "1120.SR" {
		t.Errorf("Ticker = %q", rr.Ticker)
	}
}

func TestFinancialsEmptyChain(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doGet(t, srv, "/api/v1/financials/XYZ")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; total provider failure is not an HTTP error", rec.Code)
	}
	if !resp.Success {
		t.Error("expected success envelope with empty records")
	}

	data, _ := json.Marshal(resp.Data)
	var result struct {
		Ticker  string            `json:"ticker"`
		Records []json.RawMessage `json:"records"`
		Cached  bool              `json:"cached"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Ticker != "XYZ" {
		t.Errorf("ticker = %q", result.Ticker)
	}
	if len(result.Records) != 0 {
		t.Errorf("records = %v, want empty", result.Records)
	}

	// Second request is served from cache.
	_, resp = doGet(t, srv, "/api/v1/financials/XYZ")
	data, _ = json.Marshal(resp.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if !result.Cached {
		t.Error("second request should be cached")
	}

	// refresh=1 bypasses the cache read.
	_, resp = doGet(t, srv, "/api/v1/financials/XYZ?refresh=1")
	data, _ = json.Marshal(resp.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Cached {
		t.Error("refreshed request must not be marked cached")
	}
}

func TestConfigKeys(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doGet(t, srv, "/api/v1/config/keys")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var keys []config.KeyStatus
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 4 {
		t.Errorf("got %d key statuses, want 4", len(keys))
	}
	for _, k := range keys {
		if k.IsSet {
			t.Errorf("%s should be unset in the test config", k.Name)
		}
	}
}
