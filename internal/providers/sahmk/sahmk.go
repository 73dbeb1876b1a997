// Package sahmk implements the SAHMK income-statement provider for
// Saudi-market (Tadawul) instruments. SAHMK is only attempted for tickers
// carrying the `.SR` market suffix and authenticates via an X-API-Key header.
package sahmk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spy799/finforecast-ai/internal/infra"
	"github.com/spy799/finforecast-ai/internal/provider"
	"github.com/spy799/finforecast-ai/pkg/models"
)

const (
	providerName   = "sahmk"
	defaultBaseURL = "https://app.sahmk.sa"

	// SaudiSuffix is the Tadawul market suffix that gates this provider.
	SaudiSuffix = ".SR"
)

// Provider implements provider.StatementProvider for SAHMK.
type Provider struct {
	apiKey string

	// BaseURL is overridable for tests.
	BaseURL string
}

// New creates a SAHMK provider. An empty apiKey disables it.
func New(apiKey string) *Provider {
	return &Provider{apiKey: apiKey, BaseURL: defaultBaseURL}
}

func (p *Provider) Name() string { return providerName }

// Available requires both the API key and the Saudi market suffix. A ticker
// without `.SR` never routes here, key or no key.
func (p *Provider) Available(ticker string) bool {
	return p.apiKey != "" && strings.HasSuffix(strings.ToUpper(ticker), SaudiSuffix)
}

type financialsResponse struct {
	IncomeStatements []incomeStatement `json:"income_statements"`
}

type incomeStatement struct {
	ReportDate      string   `json:"report_date"`
	TotalRevenue    *float64 `json:"total_revenue"`
	OperatingIncome *float64 `json:"operating_income"`
	NetIncome       *float64 `json:"net_income"`
	EPS             *float64 `json:"eps"`
}

// Fetch strips the `.SR` suffix to obtain the local Tadawul symbol and maps
// SAHMK's income statements to the canonical schema.
//
// When a statement carries no eps field, one is synthesized as
// NetIncome / 1e9. That assumes a fixed share count and is an explicit
// approximation: callers must treat the value as low-confidence.
func (p *Provider) Fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error) {
	symbol := strings.TrimSuffix(strings.ToUpper(ticker), SaudiSuffix)
	u := fmt.Sprintf("%s/api/v1/financials/%s/", p.BaseURL, url.PathEscape(symbol))
	headers := map[string]string{
		"X-API-Key": p.apiKey,
		"Accept":    "application/json",
	}

	var resp financialsResponse
	if err := infra.FetchJSON(ctx, u, headers, &resp); err != nil {
		return nil, fmt.Errorf("sahmk financials %s: %w", symbol, err)
	}

	records := make([]models.FinancialRecord, 0, len(resp.IncomeStatements))
	for _, stmt := range resp.IncomeStatements {
		year, ok := provider.YearOf(stmt.ReportDate)
		if !ok {
			continue
		}
		rec := models.FinancialRecord{
			Year:            year,
			Revenue:         stmt.TotalRevenue,
			OperatingIncome: stmt.OperatingIncome,
			NetIncome:       stmt.NetIncome,
			EPS:             stmt.EPS,
		}
		if rec.EPS == nil && rec.NetIncome != nil {
			rec.EPS = models.Float(*rec.NetIncome / 1e9)
		}
		records = append(records, rec)
	}
	return records, nil
}
