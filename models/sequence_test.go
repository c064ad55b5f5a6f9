package models

import "testing"

func TestNextId(t *testing.T) {
	cases := []struct {
		name     string
		ids      []int
		expected int
	}{
		{"empty", nil, 1},
		{"single", []int{1}, 2},
		{"gaps", []int{3, 9, 4}, 10},
		{"non positive ids", []int{-4, 0}, 1},
	}
	for _, tc := range cases {
		lots := make([]RawMaterial, 0, len(tc.ids))
		for _, id := range tc.ids {
			lots = append(lots, RawMaterial{ID: id})
		}
		if got := NextId(lots); got != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}
