package provider

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spy799/finforecast-ai/pkg/models"
)

func TestNormalizeSortsAscending(t *testing.T) {
	records := []models.FinancialRecord{
		{Year: 2023, Revenue: models.Float(300)},
		{Year: 2021, Revenue: models.Float(100)},
		{Year: 2022, Revenue: models.Float(200)},
	}

	got := Normalize(records)
	years := yearsOf(got)
	if !reflect.DeepEqual(years, []int{2021, 2022, 2023}) {
		t.Errorf("years = %v, want ascending", years)
	}
}

func TestNormalizeDropsEmptyRecords(t *testing.T) {
	records := []models.FinancialRecord{
		{Year: 2021},
		{Year: 2022, NetIncome: models.Float(5)},
		{Year: 0, Revenue: models.Float(1)},
	}

	got := Normalize(records)
	if len(got) != 1 || got[0].Year != 2022 {
		t.Errorf("got %v, want single 2022 record", yearsOf(got))
	}
}

func TestNormalizeDedupesKeepingFirst(t *testing.T) {
	records := []models.FinancialRecord{
		{Year: 2022, Revenue: models.Float(1)},
		{Year: 2022, Revenue: models.Float(2)},
	}

	got := Normalize(records)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if *got[0].Revenue != 1 {
		t.Errorf("Revenue = %v, want first occurrence kept", *got[0].Revenue)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	records := []models.FinancialRecord{
		{Year: 2023, Revenue: models.Float(3)},
		{Year: 2021, Revenue: models.Float(1)},
	}

	once := Normalize(records)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize not idempotent: %v vs %v", once, twice)
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		date string
		year int
		ok   bool
	}{
		{"2023-09-30", 2023, true},
		{"2023", 2023, true},
		{"2023-09-30T00:00:00Z", 2023, true},
		{"2019-12-31 00:00:00", 2019, true},
		{"", 0, false},
		{"not-a-date", 0, false},
		{"99", 0, false},
	}

	for _, tt := range tests {
		year, ok := YearOf(tt.date)
		if year != tt.year || ok != tt.ok {
			t.Errorf("YearOf(%q) = %d, %v; want %d, %v", tt.date, year, ok, tt.year, tt.ok)
		}
	}
}

func TestWarningUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	warn := &Warning{Provider: "edgar", Err: sentinel}
	if !errors.Is(warn, sentinel) {
		t.Error("Warning should unwrap to the inner error")
	}
	if !strings.Contains(warn.Error(), "edgar") {
		t.Errorf("Error() = %q, want provider name included", warn.Error())
	}
}

func yearsOf(records []models.FinancialRecord) []int {
	years := make([]int, len(records))
	for i, r := range records {
		years[i] = r.Year
	}
	return years
}
