// Package models defines the canonical data model shared by all
// financial-statement providers.
package models

import "time"

// FinancialRecord is one fiscal year's income-statement summary in the
// canonical schema. All financial fields are nullable; values are in the
// currency units of the source provider.
type FinancialRecord struct {
	Year            int      `json:"year"`
	Revenue         *float64 `json:"revenue,omitempty"`
	OperatingIncome *float64 `json:"operating_income,omitempty"`
	NetIncome       *float64 `json:"net_income,omitempty"`
	EPS             *float64 `json:"eps,omitempty"`
}

// Empty reports whether every financial field is absent. Normalization
// drops such records.
func (r FinancialRecord) Empty() bool {
	return r.Revenue == nil && r.OperatingIncome == nil && r.NetIncome == nil && r.EPS == nil
}

// FetchResult is the outcome of one financial-statement fetch.
// Records are ordered ascending by Year with no duplicate years; an empty
// Records slice means no provider returned usable data, which is a neutral
// "no data found" state rather than an error.
type FetchResult struct {
	Ticker    string            `json:"ticker"`
	Source    string            `json:"source,omitempty"` // provider that supplied the data
	Records   []FinancialRecord `json:"records"`
	Warnings  []string          `json:"warnings,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
	Cached    bool              `json:"cached"`
}

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 { return &v }
