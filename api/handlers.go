package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spy799/finforecast-ai/internal/config"
)

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResolveResponse is the payload for GET /api/v1/resolve.
type ResolveResponse struct {
	Query  string `json:"query"`
	Ticker string `json:"ticker"`
}

// ProviderInfo describes one provider in the chain.
type ProviderInfo struct {
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Available bool   `json:"available"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var result interface{}
	if r.URL.Query().Get("refresh") == "1" {
		result = s.chain.FetchFresh(ctx, ticker)
	} else {
		result = s.chain.Fetch(ctx, ticker)
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ticker := s.resolver.Resolve(ctx, q)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ResolveResponse{
			Query:  q,
			Ticker: ticker,
		},
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	var infos []ProviderInfo
	for i, p := range s.chain.Providers() {
		infos = append(infos, ProviderInfo{
			Name:     p.Name(),
			Priority: i + 1,
			// Some providers gate on the market suffix as well as on a
			// credential; probe a US and a Saudi symbol so the flag reports
			// "attempted for at least some ticker".
			Available: p.Available("AAPL") || p.Available("1120.SR"),
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    infos,
	})
}

func (s *Server) handleConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
