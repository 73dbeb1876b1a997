// Package provider defines the abstraction shared by all income-statement
// data providers: the StatementProvider interface, the optional credential
// set that gates each provider, and the normalization rules applied to
// every provider's output.
package provider

import (
	"context"
	"fmt"

	"github.com/spy799/finforecast-ai/pkg/models"
)

// Credentials is the bag of optional provider credentials. Absence of a
// field silently disables the corresponding provider rather than erroring.
type Credentials struct {
	FMPKey     string `json:"fmp_key,omitempty"`
	SahmkKey   string `json:"sahmk_key,omitempty"`
	PolygonKey string `json:"polygon_key,omitempty"`
	EdgarEmail string `json:"edgar_email,omitempty"`
}

// StatementProvider is a single source of annual income-statement data.
//
// Available reports whether the provider should be attempted for the given
// ticker; a false return is a silent skip, not a failure. Fetch returns raw
// canonical records; callers normalize them before use. Any error from Fetch
// means "this provider yielded nothing" and advances the chain.
type StatementProvider interface {
	Name() string
	Available(ticker string) bool
	Fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error)
}

// Warning wraps a provider failure that should be surfaced to the caller
// as a non-fatal message instead of being silently discarded. The chain
// still advances to the next provider.
type Warning struct {
	Provider string
	Err      error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s failed: %v", w.Provider, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }
