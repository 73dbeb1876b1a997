// Package fmp implements the Financial Modeling Prep (FMP) income-statement
// provider. FMP serves annual income statements via a REST API with API key
// authentication; it is the first provider attempted in the default chain.
//
// Free tier: 250 requests/day.
// Docs: https://financialmodelingprep.com/developer/docs
package fmp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spy799/finforecast-ai/internal/infra"
	"github.com/spy799/finforecast-ai/internal/provider"
	"github.com/spy799/finforecast-ai/pkg/models"
)

const (
	providerName   = "fmp"
	defaultBaseURL = "https://financialmodelingprep.com/api/v3"

	// Most recent annual periods requested per ticker.
	periodLimit = 12
)

// Provider implements provider.StatementProvider for FMP.
type Provider struct {
	apiKey string

	// BaseURL is overridable for tests.
	BaseURL string
}

// New creates an FMP provider. An empty apiKey disables it.
func New(apiKey string) *Provider {
	return &Provider{apiKey: apiKey, BaseURL: defaultBaseURL}
}

func (p *Provider) Name() string { return providerName }

// Available reports whether the FMP key is configured.
func (p *Provider) Available(string) bool { return p.apiKey != "" }

// incomeStatement is the subset of FMP's income-statement payload we keep.
type incomeStatement struct {
	Date            string   `json:"date"`
	Revenue         *float64 `json:"revenue"`
	OperatingIncome *float64 `json:"operatingIncome"`
	NetIncome       *float64 `json:"netIncome"`
	EPS             *float64 `json:"eps"`
}

// Fetch retrieves up to 12 annual income statements and maps them to the
// canonical schema, deriving Year from the filing date.
func (p *Provider) Fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error) {
	u := fmt.Sprintf("%s/income-statement/%s?limit=%d&period=annual&apikey=%s",
		p.BaseURL, url.PathEscape(ticker), periodLimit, url.QueryEscape(p.apiKey))

	var statements []incomeStatement
	if err := infra.FetchJSON(ctx, u, jsonHeaders(), &statements); err != nil {
		return nil, fmt.Errorf("fmp income statements %s: %w", ticker, err)
	}

	records := make([]models.FinancialRecord, 0, len(statements))
	for _, stmt := range statements {
		year, ok := provider.YearOf(stmt.Date)
		if !ok {
			continue
		}
		records = append(records, models.FinancialRecord{
			Year:            year,
			Revenue:         stmt.Revenue,
			OperatingIncome: stmt.OperatingIncome,
			NetIncome:       stmt.NetIncome,
			EPS:             stmt.EPS,
		})
	}
	return records, nil
}

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}
