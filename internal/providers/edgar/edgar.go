// Package edgar implements the SEC EDGAR income-statement provider.
// It resolves the ticker to a CIK through the public company-tickers map,
// then reads annual 10-K facts from the XBRL company-facts API.
//
// No API key is required, but SEC policy demands a User-Agent identifying
// the caller; the provider is gated on a configured contact email. It is
// skipped for Saudi-market (`.SR`) tickers, which EDGAR does not cover.
//
// Docs: https://www.sec.gov/edgar/sec-api-documentation
// Rate limit: 10 requests/second per user-agent.
package edgar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spy799/finforecast-ai/internal/infra"
	"github.com/spy799/finforecast-ai/internal/provider"
	"github.com/spy799/finforecast-ai/pkg/models"
)

const (
	providerName = "edgar"

	defaultDataURL      = "https://data.sec.gov"
	defaultTickerMapURL = "https://www.sec.gov/files/company_tickers.json"

	saudiSuffix = ".SR"

	// SEC fair-access policy: at most 10 requests per second per user-agent.
	maxRequestsPerSecond = 10
)

// us-gaap concepts accepted for each canonical column, in preference order.
// Concept names are matched case-insensitively; filers disagree on spelling.
var (
	revenueConcepts = []string{
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"Revenues",
		"SalesRevenueNet",
	}
	operatingIncomeConcepts = []string{"OperatingIncomeLoss"}
	netIncomeConcepts       = []string{"NetIncomeLoss", "ProfitLoss"}
	epsConcepts             = []string{"EarningsPerShareBasic", "EarningsPerShareDiluted"}
)

// Provider implements provider.StatementProvider for SEC EDGAR.
type Provider struct {
	email string

	// DataURL and TickerMapURL are overridable for tests.
	DataURL      string
	TickerMapURL string

	cikCache *infra.Cache       // ticker map is large; refetch at most daily
	limiter  *infra.RateLimiter // SEC fair-access policy
}

// New creates an EDGAR provider identified by the given contact email.
func New(email string) *Provider {
	return &Provider{
		email:        email,
		DataURL:      defaultDataURL,
		TickerMapURL: defaultTickerMapURL,
		cikCache:     infra.NewCache(24 * time.Hour),
		limiter:      infra.NewRateLimiter(maxRequestsPerSecond, time.Second),
	}
}

func (p *Provider) Name() string { return providerName }

// Available requires a plausible contact email and a non-Saudi ticker.
func (p *Provider) Available(ticker string) bool {
	return strings.Contains(p.email, "@") &&
		!strings.HasSuffix(strings.ToUpper(ticker), saudiSuffix)
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"User-Agent": "finforecast/1.0 (" + p.email + ")",
		"Accept":     "application/json",
	}
}

// getJSON performs one SEC request, holding every call under the
// fair-access rate limit.
func (p *Provider) getJSON(ctx context.Context, url string, dest any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	return infra.FetchJSON(ctx, url, p.headers(), dest)
}

// --- SEC payload types ---

type tickerMapEntry struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

type companyFacts struct {
	Facts map[string]map[string]concept `json:"facts"`
}

type concept struct {
	Units map[string][]factEntry `json:"units"`
}

type factEntry struct {
	End   string   `json:"end"`
	Value *float64 `json:"val"`
	FY    int      `json:"fy"`
	FP    string   `json:"fp"`
	Form  string   `json:"form"`
}

// Fetch looks up the company's CIK and extracts annual income-statement rows
// from its XBRL facts. Failures are wrapped in provider.Warning so the chain
// surfaces them as non-fatal messages instead of discarding them silently.
func (p *Provider) Fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error) {
	records, err := p.fetch(ctx, ticker)
	if err != nil {
		return nil, &provider.Warning{Provider: providerName, Err: err}
	}
	return records, nil
}

func (p *Provider) fetch(ctx context.Context, ticker string) ([]models.FinancialRecord, error) {
	cik, err := p.lookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", p.DataURL, padCIK(fmt.Sprint(cik)))
	var facts companyFacts
	if err := p.getJSON(ctx, u, &facts); err != nil {
		return nil, fmt.Errorf("company facts for %s: %w", ticker, err)
	}

	gaap := normalizeConceptNames(facts.Facts["us-gaap"])
	if len(gaap) == 0 {
		return nil, fmt.Errorf("no us-gaap facts for %s", ticker)
	}

	byYear := make(map[int]*models.FinancialRecord)
	collect := func(concepts []string, unit string, assign func(*models.FinancialRecord, *float64)) {
		for _, name := range concepts {
			c, ok := gaap[strings.ToLower(name)]
			if !ok {
				continue
			}
			collected := 0
			for _, entry := range c.Units[unit] {
				if !entry.annual() || entry.Value == nil {
					continue
				}
				year, ok := provider.YearOf(entry.End)
				if !ok {
					continue
				}
				rec := byYear[year]
				if rec == nil {
					rec = &models.FinancialRecord{Year: year}
					byYear[year] = rec
				}
				assign(rec, entry.Value)
				collected++
			}
			if collected > 0 {
				return // first concept yielding annual data wins
			}
		}
	}

	collect(revenueConcepts, "USD", func(r *models.FinancialRecord, v *float64) {
		if r.Revenue == nil {
			r.Revenue = v
		}
	})
	collect(operatingIncomeConcepts, "USD", func(r *models.FinancialRecord, v *float64) {
		if r.OperatingIncome == nil {
			r.OperatingIncome = v
		}
	})
	collect(netIncomeConcepts, "USD", func(r *models.FinancialRecord, v *float64) {
		if r.NetIncome == nil {
			r.NetIncome = v
		}
	})
	collect(epsConcepts, "USD/shares", func(r *models.FinancialRecord, v *float64) {
		if r.EPS == nil {
			r.EPS = v
		}
	})

	records := make([]models.FinancialRecord, 0, len(byYear))
	for _, rec := range byYear {
		records = append(records, *rec)
	}
	return records, nil
}

// annual reports whether the fact covers a full fiscal year from a 10-K.
func (e factEntry) annual() bool {
	return e.FP == "FY" && strings.HasPrefix(e.Form, "10-K")
}

// lookupCIK resolves a ticker to its SEC CIK via the company-tickers map,
// which is fetched at most once per day.
func (p *Provider) lookupCIK(ctx context.Context, ticker string) (int, error) {
	const cacheKey = "ticker-map"

	var entries map[string]tickerMapEntry
	if cached, ok := p.cikCache.Get(cacheKey); ok {
		entries = cached.(map[string]tickerMapEntry)
	} else {
		if err := p.getJSON(ctx, p.TickerMapURL, &entries); err != nil {
			return 0, fmt.Errorf("company tickers map: %w", err)
		}
		p.cikCache.Set(cacheKey, entries)
	}

	want := strings.ToUpper(ticker)
	for _, e := range entries {
		if strings.ToUpper(e.Ticker) == want {
			return e.CIK, nil
		}
	}
	return 0, fmt.Errorf("no CIK found for ticker %q", ticker)
}

// normalizeConceptNames lowercases concept keys so filers' spelling
// variants (e.g. earningspersharebasic) all resolve.
func normalizeConceptNames(concepts map[string]concept) map[string]concept {
	out := make(map[string]concept, len(concepts))
	for name, c := range concepts {
		out[strings.ToLower(name)] = c
	}
	return out
}

// padCIK pads a CIK number to 10 digits with leading zeros.
func padCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}
