package models

import (
	"encoding/json"
	"testing"
)

func TestFinancialRecordEmpty(t *testing.T) {
	if !(FinancialRecord{Year: 2023}).Empty() {
		t.Error("record with only a year should be empty")
	}
	if (FinancialRecord{Year: 2023, Revenue: Float(0)}).Empty() {
		t.Error("explicit zero revenue is still data")
	}
	if (FinancialRecord{EPS: Float(1.5)}).Empty() {
		t.Error("record with any field set is not empty")
	}
}

func TestFinancialRecordJSON(t *testing.T) {
	rec := FinancialRecord{Year: 2023, Revenue: Float(100), EPS: Float(1.5)}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["year"] != float64(2023) || got["revenue"] != float64(100) {
		t.Errorf("payload = %v", got)
	}
	// Nil fields are omitted, not serialized as null.
	if _, present := got["net_income"]; present {
		t.Error("nil net_income should be omitted")
	}
}

func TestFloat(t *testing.T) {
	v := Float(6.16)
	if v == nil || *v != 6.16 {
		t.Errorf("Float = %v", v)
	}
}
