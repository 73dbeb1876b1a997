package yfinance

// --- Yahoo Finance API response types ---

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	IncomeStatementHistory *yfStatementContainer `json:"incomeStatementHistory"`
}

type yfStatementContainer struct {
	Statements []map[string]yfFinVal `json:"incomeStatementHistory"`
}

// yfFinVal is a Yahoo financial value; Raw is nil for empty line items,
// which Yahoo serializes as {}.
type yfFinVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yfSearchResponse wraps the v1 symbol search API response.
type yfSearchResponse struct {
	Quotes []yfSearchQuote `json:"quotes"`
}

type yfSearchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	QuoteType string `json:"quoteType"`
	Exchange  string `json:"exchange"`
}

// SearchResult is one match from the Yahoo symbol search endpoint.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
