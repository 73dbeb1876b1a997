// Package polygon implements the Polygon.io income-statement provider.
// It reads annual stock financials from the vX reference financials API
// with API key authentication.
//
// Docs: https://polygon.io/docs/stocks/get_vx_reference_financials
package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spy799/finforecast-ai/internal/infra"
	"github.com/spy799/finforecast-ai/pkg/models"
)

const (
	providerName   = "polygon"
	defaultBaseURL = "https://api.polygon.io"

	filingLimit = 12
)

// Provider implements provider.StatementProvider for Polygon.io.
type Provider struct {
	apiKey string

	// BaseURL is overridable for tests.
	BaseURL string
}

// New creates a Polygon provider. An empty apiKey disables it.
func New(apiKey string) *Provider {
	return &Provider{apiKey: apiKey, BaseURL: defaultBaseURL}
}

func (p *Provider) Name() string { return providerName }

// Available reports whether the Polygon key is configured.
func (p *Provider) Available(string) bool { return p.apiKey != "" }

type financialsResponse struct {
	Results []filing `json:"results"`
}

type filing struct {
	FiscalYear string `json:"fiscal_year"`
	Financials struct {
		IncomeStatement struct {
			Revenues               *lineItem `json:"revenues"`
			OperatingIncomeLoss    *lineItem `json:"operating_income_loss"`
			NetIncomeLoss          *lineItem `json:"net_income_loss"`
			BasicEarningsPerShare  *lineItem `json:"basic_earnings_per_share"`
		} `json:"income_statement"`
	} `json:"financials"`
}

type lineItem struct {
	Value *float64 `json:"value"`
}

func (li *lineItem) value() *float64 {
	if li == nil {
		return nil
	}
	return li.Value
}

// Fetch requests up to 12 annual financial filings and extracts the
// income-statement line items. Rows where every field is absent are dropped
// downstream by normalization.
func (p *Provider) Fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error) {
	u := fmt.Sprintf("%s/vX/reference/financials?ticker=%s&timeframe=annual&limit=%d&apiKey=%s",
		p.BaseURL, url.QueryEscape(ticker), filingLimit, url.QueryEscape(p.apiKey))

	var resp financialsResponse
	if err := infra.FetchJSON(ctx, u, map[string]string{"Accept": "application/json"}, &resp); err != nil {
		return nil, fmt.Errorf("polygon financials %s: %w", ticker, err)
	}

	records := make([]models.FinancialRecord, 0, len(resp.Results))
	for _, f := range resp.Results {
		year, err := strconv.Atoi(f.FiscalYear)
		if err != nil {
			continue
		}
		inc := f.Financials.IncomeStatement
		records = append(records, models.FinancialRecord{
			Year:            year,
			Revenue:         inc.Revenues.value(),
			OperatingIncome: inc.OperatingIncomeLoss.value(),
			NetIncome:       inc.NetIncomeLoss.value(),
			EPS:             inc.BasicEarningsPerShare.value(),
		})
	}
	return records, nil
}
