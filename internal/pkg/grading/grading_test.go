package grading

import (
	"testing"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		obtained float64
		max      float64
		want     float64
	}{
		{"full marks", 100, 100, 100},
		{"zero", 0, 100, 0},
		{"half", 40, 80, 50},
		{"fractional", 33, 60, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.obtained, tt.max)
			if got != tt.want {
				t.Errorf("Percentage(%v, %v) = %v, want %v", tt.obtained, tt.max, got, tt.want)
			}
		})
	}
}

func TestGradeForDefaultBands(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		want       string
	}{
		{"top of table", 100, "A1"},
		{"boundary resolves upward", 91, "A1"},
		{"just below boundary", 90.9, "A2"},
		{"passing threshold", 33, "D"},
		{"below passing", 32.9, "E"},
		{"zero", 0, "E"},
		{"above table clamps high", 105, "A1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeFor(tt.percentage, nil)
			if got != tt.want {
				t.Errorf("GradeFor(%v) = %q, want %q", tt.percentage, got, tt.want)
			}
		})
	}
}

func TestGradeForCustomBands(t *testing.T) {
	bands := []models.GradeBand{
		{Grade: "PASS", Min: 40, Max: 100},
		{Grade: "FAIL", Min: 0, Max: 40},
	}

	if got := GradeFor(40, bands); got != "PASS" {
		t.Errorf("boundary 40 = %q, want PASS", got)
	}
	if got := GradeFor(39.9, bands); got != "FAIL" {
		t.Errorf("39.9 = %q, want FAIL", got)
	}
}

func TestCalculate(t *testing.T) {
	res, err := Calculate(45, 50, nil)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if res.Percentage != 90 {
		t.Errorf("percentage = %v, want 90", res.Percentage)
	}
	if res.Grade != "A2" {
		t.Errorf("grade = %q, want A2", res.Grade)
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	if _, err := Calculate(10, 0, nil); err == nil {
		t.Error("expected error for non-positive max marks")
	}
	if _, err := Calculate(-1, 100, nil); err == nil {
		t.Error("expected error for negative obtained marks")
	}
	if _, err := Calculate(101, 100, nil); err == nil {
		t.Error("expected error for obtained above max")
	}
}

func TestValidateBands(t *testing.T) {
	tests := []struct {
		name    string
		bands   []models.GradeBand
		wantErr bool
	}{
		{"empty falls back to default", nil, false},
		{"default table is valid", DefaultBands, false},
		{
			"two contiguous bands",
			[]models.GradeBand{
				{Grade: "P", Min: 33, Max: 100},
				{Grade: "F", Min: 0, Max: 33},
			},
			false,
		},
		{
			"gap between bands",
			[]models.GradeBand{
				{Grade: "P", Min: 50, Max: 100},
				{Grade: "F", Min: 0, Max: 40},
			},
			true,
		},
		{
			"overlapping bands",
			[]models.GradeBand{
				{Grade: "P", Min: 30, Max: 100},
				{Grade: "F", Min: 0, Max: 40},
			},
			true,
		},
		{
			"does not start at zero",
			[]models.GradeBand{
				{Grade: "P", Min: 10, Max: 100},
			},
			true,
		},
		{
			"does not end at hundred",
			[]models.GradeBand{
				{Grade: "F", Min: 0, Max: 90},
			},
			true,
		},
		{
			"missing grade label",
			[]models.GradeBand{
				{Grade: "", Min: 0, Max: 100},
			},
			true,
		},
		{
			"inverted band",
			[]models.GradeBand{
				{Grade: "X", Min: 50, Max: 40},
				{Grade: "F", Min: 0, Max: 50},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBands(tt.bands)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBands() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
