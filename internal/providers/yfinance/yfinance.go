// Package yfinance implements the Yahoo Finance income-statement provider.
// It wraps the public v10 quoteSummary API and is the final fallback in the
// default chain: free, no API key, always attempted.
package yfinance

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spy799/finforecast-ai/internal/infra"
	"github.com/spy799/finforecast-ai/pkg/models"
)

const (
	providerName   = "yfinance"
	defaultBaseURL = "https://query1.finance.yahoo.com"
)

// Provider implements provider.StatementProvider for Yahoo Finance.
type Provider struct {
	// BaseURL is overridable for tests.
	BaseURL string
}

// New creates a Yahoo Finance provider.
func New() *Provider {
	return &Provider{BaseURL: defaultBaseURL}
}

func (p *Provider) Name() string { return providerName }

// Available is always true: yfinance needs no credentials and serves as the
// last-resort fallback for any ticker.
func (p *Provider) Available(string) bool { return true }

// Fetch reads the annual income-statement history and maps Yahoo's standard
// line items (totalRevenue, operatingIncome, netIncome, dilutedEPS) to the
// canonical schema, deriving Year from each statement's end date.
func (p *Provider) Fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=incomeStatementHistory",
		p.BaseURL, url.PathEscape(ticker))

	var resp yfQuoteSummaryResponse
	if err := infra.FetchJSON(ctx, u, jsonHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("yfinance income statement %s: %w", ticker, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no income statement data for %s", ticker)
	}

	container := resp.QuoteSummary.Result[0].IncomeStatementHistory
	if container == nil {
		return nil, fmt.Errorf("no income statement history for %s", ticker)
	}

	records := make([]models.FinancialRecord, 0, len(container.Statements))
	for _, stmt := range container.Statements {
		year, ok := statementYear(stmt)
		if !ok {
			continue
		}
		records = append(records, models.FinancialRecord{
			Year:            year,
			Revenue:         valRaw(stmt, "totalRevenue"),
			OperatingIncome: valRaw(stmt, "operatingIncome"),
			NetIncome:       valRaw(stmt, "netIncome"),
			EPS:             valRaw(stmt, "dilutedEPS"),
		})
	}
	return records, nil
}

// Search performs a best-effort symbol search and returns the matching
// quotes. Used by the ticker resolver for free-text company names.
func (p *Provider) Search(ctx context.Context, query string) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=5&newsCount=0",
		p.BaseURL, url.QueryEscape(query))

	var resp yfSearchResponse
	if err := infra.FetchJSON(ctx, u, jsonHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("yfinance search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		results = append(results, SearchResult{Symbol: q.Symbol, Name: name})
	}
	return results, nil
}

// statementYear derives the fiscal year from a statement's endDate, using
// the raw epoch seconds when present and the formatted date otherwise.
func statementYear(stmt map[string]yfFinVal) (int, bool) {
	end, ok := stmt["endDate"]
	if !ok {
		return 0, false
	}
	if end.Raw != nil {
		return time.Unix(int64(*end.Raw), 0).UTC().Year(), true
	}
	if t, err := time.Parse("2006-01-02", end.Fmt); err == nil {
		return t.Year(), true
	}
	return 0, false
}

// valRaw extracts the raw numeric value for a line item, nil when absent.
func valRaw(stmt map[string]yfFinVal, key string) *float64 {
	v, ok := stmt[key]
	if !ok {
		return nil
	}
	return v.Raw
}

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}
