// Package grading maps obtained marks onto percentages and letter grades
// using a configurable banding table.
package grading

import (
	"fmt"
	"sort"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
)

// DefaultBands is the fallback banding table used when an exam carries none.
// Bands are [min,max] inclusive and together cover 0-100.
var DefaultBands = []models.GradeBand{
	{Grade: "A1", Min: 91, Max: 100},
	{Grade: "A2", Min: 81, Max: 91},
	{Grade: "B1", Min: 71, Max: 81},
	{Grade: "B2", Min: 61, Max: 71},
	{Grade: "C1", Min: 51, Max: 61},
	{Grade: "C2", Min: 41, Max: 51},
	{Grade: "D", Min: 33, Max: 41},
	{Grade: "E", Min: 0, Max: 33},
}

// Result carries the derived percentage and letter grade for one entry
type Result struct {
	Percentage float64
	Grade      string
}

// Percentage computes obtained/max*100. Max must be positive.
func Percentage(obtained, max float64) float64 {
	return obtained / max * 100
}

// GradeFor returns the grade of the band containing percentage. When bands
// is empty the default table is used. Bands are checked highest first so a
// boundary value lands in the higher band.
func GradeFor(percentage float64, bands []models.GradeBand) string {
	if len(bands) == 0 {
		bands = DefaultBands
	}
	ordered := make([]models.GradeBand, len(bands))
	copy(ordered, bands)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Min > ordered[j].Min })

	for _, b := range ordered {
		if percentage >= b.Min && percentage <= b.Max {
			return b.Grade
		}
	}
	// Out-of-table values clamp to the nearest band.
	if percentage > 100 {
		return ordered[0].Grade
	}
	return ordered[len(ordered)-1].Grade
}

// Calculate derives percentage and grade for obtained marks against max marks
func Calculate(obtained, max float64, bands []models.GradeBand) (Result, error) {
	if max <= 0 {
		return Result{}, fmt.Errorf("max marks must be positive, got %v", max)
	}
	if obtained < 0 || obtained > max {
		return Result{}, fmt.Errorf("marks obtained %v out of range [0, %v]", obtained, max)
	}
	pct := Percentage(obtained, max)
	return Result{Percentage: pct, Grade: GradeFor(pct, bands)}, nil
}

// ValidateBands checks a banding table for non-overlapping, contiguous
// coverage of 0-100. Adjacent bands share their boundary value; the lookup
// resolves boundaries to the higher band.
func ValidateBands(bands []models.GradeBand) error {
	if len(bands) == 0 {
		return nil // absent table falls back to DefaultBands
	}
	ordered := make([]models.GradeBand, len(bands))
	copy(ordered, bands)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Min < ordered[j].Min })

	for i, b := range ordered {
		if b.Grade == "" {
			return fmt.Errorf("band %d has no grade label", i)
		}
		if b.Min >= b.Max {
			return fmt.Errorf("band %q has min %v >= max %v", b.Grade, b.Min, b.Max)
		}
	}
	if ordered[0].Min != 0 {
		return fmt.Errorf("banding table must start at 0, starts at %v", ordered[0].Min)
	}
	if ordered[len(ordered)-1].Max != 100 {
		return fmt.Errorf("banding table must end at 100, ends at %v", ordered[len(ordered)-1].Max)
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Min != ordered[i-1].Max {
			return fmt.Errorf("gap or overlap between bands %q and %q",
				ordered[i-1].Grade, ordered[i].Grade)
		}
	}
	return nil
}
