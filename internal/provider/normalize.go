package provider

import (
	"sort"
	"strconv"
	"time"

	"github.com/spy799/finforecast-ai/pkg/models"
)

// Normalize applies the canonical post-processing shared by every provider:
// records with no financial fields at all are dropped, duplicate years keep
// the first occurrence, and the result is sorted ascending by year.
// Normalizing an already-normalized set is a no-op.
func Normalize(records []models.FinancialRecord) []models.FinancialRecord {
	out := make([]models.FinancialRecord, 0, len(records))
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if r.Empty() || r.Year == 0 || seen[r.Year] {
			continue
		}
		seen[r.Year] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// dateLayouts are the date shapes providers are known to emit.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006",
}

// YearOf coerces a date-like string to its 4-digit calendar year.
// Returns 0, false when the value cannot be interpreted.
func YearOf(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(date); err == nil && y >= 1000 && y <= 9999 {
		return y, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
