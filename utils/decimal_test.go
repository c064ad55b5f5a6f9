package utils

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"20000", "20000"},
		{"9,259", "9259"},
		{"9,259 lbs", "9259"},
		{"-20 lb", "-20"},
		{"  1,234.50 kg ", "1234.5"},
	}
	for _, tc := range cases {
		d, err := ParseDecimal(tc.in)
		if err != nil {
			t.Fatalf("ParseDecimal(%q) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("ParseDecimal(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseDecimal_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "lbs", "abc"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Fatalf("ParseDecimal(%q) expected error", in)
		}
	}
}

func TestFlexDecimal_UnmarshalNumberAndString(t *testing.T) {
	var payload struct {
		WeightIn  FlexDecimal `json:"weight_in"`
		WeightOut FlexDecimal `json:"weight_out"`
		Spillage  FlexDecimal `json:"spillage"`
	}
	body := `{"weight_in": 1250.5, "weight_out": "1,000 lbs", "spillage": null}`
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.WeightIn.String() != "1250.5" {
		t.Fatalf("weight_in expected 1250.5, got %s", payload.WeightIn.String())
	}
	if payload.WeightOut.String() != "1000" {
		t.Fatalf("weight_out expected 1000, got %s", payload.WeightOut.String())
	}
	if !payload.Spillage.IsZero() {
		t.Fatalf("spillage expected zero, got %s", payload.Spillage.String())
	}
}

func TestDecimalFromAny(t *testing.T) {
	cases := []struct {
		in       any
		expected string
		ok       bool
	}{
		{float64(12.5), "12.5", true},
		{"1,000", "1000", true},
		{json.Number("7"), "7", true},
		{3, "3", true},
		{nil, "0", false},
		{map[string]any{}, "0", false},
	}
	for _, tc := range cases {
		d, ok := DecimalFromAny(tc.in)
		if ok != tc.ok {
			t.Fatalf("DecimalFromAny(%#v) ok expected %v, got %v", tc.in, tc.ok, ok)
		}
		if d.String() != tc.expected {
			t.Fatalf("DecimalFromAny(%#v) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}
