// Package datasource orchestrates the prioritized provider chain and the
// transient result cache, and resolves free-text queries to ticker symbols.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"github.com/spy799/finforecast-ai/internal/infra"
	"github.com/spy799/finforecast-ai/internal/provider"
	"github.com/spy799/finforecast-ai/internal/providers/edgar"
	"github.com/spy799/finforecast-ai/internal/providers/fmp"
	"github.com/spy799/finforecast-ai/internal/providers/polygon"
	"github.com/spy799/finforecast-ai/internal/providers/sahmk"
	"github.com/spy799/finforecast-ai/internal/providers/yfinance"
	"github.com/spy799/finforecast-ai/pkg/models"
)

// DefaultCacheTTL is the freshness window for fetched results when no
// explicit TTL is configured.
const DefaultCacheTTL = 2 * time.Hour

// DefaultOrder is the default provider priority order. First non-empty
// result wins in full; data is never combined across providers.
var DefaultOrder = []string{"fmp", "sahmk", "edgar", "polygon", "yfinance"}

// Chain queries income-statement providers strictly sequentially in
// priority order and caches the winning result per (ticker, credentials)
// for the freshness window.
type Chain struct {
	providers []provider.StatementProvider
	cache     *infra.Cache
	credKey   string
}

// Option configures a Chain.
type Option func(*Chain)

// WithProviders replaces the default provider set. Order is priority order.
func WithProviders(ps ...provider.StatementProvider) Option {
	return func(c *Chain) { c.providers = ps }
}

// WithCacheTTL overrides the result freshness window.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Chain) { c.cache = infra.NewCache(ttl) }
}

// NewChain builds the default chain from the given credentials. Providers
// whose credentials are absent stay in the chain but report unavailable and
// are skipped silently.
func NewChain(creds provider.Credentials, opts ...Option) *Chain {
	c := &Chain{
		providers: []provider.StatementProvider{
			fmp.New(creds.FMPKey),
			sahmk.New(creds.SahmkKey),
			edgar.New(creds.EdgarEmail),
			polygon.New(creds.PolygonKey),
			yfinance.New(),
		},
		cache:   infra.NewCache(DefaultCacheTTL),
		credKey: fingerprint(creds),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reorder restricts and reorders the chain to the named providers, in the
// given order. Unknown names are ignored; an empty list is a no-op.
func (c *Chain) Reorder(names []string) {
	if len(names) == 0 {
		return
	}
	byName := make(map[string]provider.StatementProvider, len(c.providers))
	for _, p := range c.providers {
		byName[p.Name()] = p
	}
	ordered := make([]provider.StatementProvider, 0, len(names))
	for _, name := range names {
		if p, ok := byName[strings.ToLower(name)]; ok {
			ordered = append(ordered, p)
		}
	}
	if len(ordered) > 0 {
		c.providers = ordered
	}
}

// Providers returns the chain's providers in priority order.
func (c *Chain) Providers() []provider.StatementProvider {
	return c.providers
}

// Fetch returns the normalized income-statement history for ticker. It
// never returns an error: every provider failure is swallowed and the next
// provider is tried; if all providers are skipped or fail, the result
// carries zero records. Results are served from cache within the freshness
// window without touching any provider.
func (c *Chain) Fetch(ctx context.Context, ticker string) *models.FetchResult {
	key := c.cacheKey(ticker)
	if cached, ok := c.cache.Get(key); ok {
		res := cached.(models.FetchResult)
		res.Cached = true
		return &res
	}
	return c.fetch(ctx, ticker, key)
}

// FetchFresh bypasses the cache read but still stores the new result.
func (c *Chain) FetchFresh(ctx context.Context, ticker string) *models.FetchResult {
	return c.fetch(ctx, ticker, c.cacheKey(ticker))
}

func (c *Chain) fetch(ctx context.Context, ticker string, key string) *models.FetchResult {
	result := &models.FetchResult{
		Ticker:    ticker,
		Records:   []models.FinancialRecord{},
		FetchedAt: time.Now(),
	}

	for _, p := range c.providers {
		if !p.Available(ticker) {
			continue
		}

		records, err := p.Fetch(ctx, ticker)
		if err != nil {
			var warn *provider.Warning
			if errors.As(err, &warn) {
				result.Warnings = append(result.Warnings, warn.Error())
			}
			log.Printf("provider %s: %v (trying next)", p.Name(), err)
			continue
		}

		records = provider.Normalize(records)
		if len(records) == 0 {
			continue
		}

		result.Source = p.Name()
		result.Records = records
		break
	}

	c.cache.Set(key, *result)
	return result
}

func (c *Chain) cacheKey(ticker string) string {
	return strings.ToUpper(ticker) + "|" + c.credKey
}

// fingerprint derives a stable cache-key component from the credential set
// so results are never shared across differently-credentialed chains.
func fingerprint(creds provider.Credentials) string {
	h := fnv.New64a()
	for _, s := range []string{creds.FMPKey, creds.SahmkKey, creds.PolygonKey, creds.EdgarEmail} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
