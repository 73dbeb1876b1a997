package datasource

import (
	"context"
	"strings"
	"unicode"

	"github.com/spy799/finforecast-ai/internal/providers/yfinance"
)

// recognizedSuffixes are market suffixes that mark a query as already being
// a ticker symbol.
var recognizedSuffixes = []string{".SR", ".T", ".L"}

// symbolSearcher is the lookup used for free-text queries. The Yahoo search
// endpoint satisfies it in production.
type symbolSearcher interface {
	Search(ctx context.Context, query string) ([]yfinance.SearchResult, error)
}

// Resolver turns a free-text company name or ticker into a ticker symbol.
type Resolver struct {
	searcher symbolSearcher
}

// NewResolver creates a resolver backed by the given Yahoo Finance provider.
// A nil provider gets the default one.
func NewResolver(yf *yfinance.Provider) *Resolver {
	if yf == nil {
		yf = yfinance.New()
	}
	return &Resolver{searcher: yf}
}

// Resolve returns the query unchanged (uppercased) when it already looks
// like a ticker; otherwise it performs one best-effort symbol search and
// returns the top match. It never fails: any lookup error falls back to the
// uppercased input.
func (r *Resolver) Resolve(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	upper := strings.ToUpper(query)
	if looksLikeTicker(query) {
		return upper
	}

	results, err := r.searcher.Search(ctx, query)
	if err != nil || len(results) == 0 {
		return upper
	}
	return results[0].Symbol
}

// looksLikeTicker reports whether the query is already a symbol: carries a
// recognized market suffix, is all-uppercase, or is all digits (Tadawul
// symbols are numeric).
func looksLikeTicker(query string) bool {
	upper := strings.ToUpper(query)
	for _, suffix := range recognizedSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	if query != "" && query == upper {
		// No lowercase letters at all, but at least one letter.
		for _, c := range query {
			if unicode.IsLetter(c) {
				return true
			}
		}
	}
	digits := strings.ReplaceAll(query, ".", "")
	if digits != "" {
		allDigit := true
		for _, c := range digits {
			if !unicode.IsDigit(c) {
				allDigit = false
				break
			}
		}
		if allDigit {
			return true
		}
	}
	return false
}
