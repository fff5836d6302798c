// Package duedate resolves a single best-effort due date for a work item from
// the platform's structured date, the item text, or its last update time.
package duedate

import (
	"time"

	"cloud.google.com/go/civil"

	"classroom_sync/internal/domain"
)

// Extract returns the calendar date for a (year, month, day) triple, or nil
// when the triple is not a real Gregorian date.
func Extract(year, month, day int) *civil.Date {
	if month < 1 || month > 12 || day < 1 {
		return nil
	}
	d := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return nil
	}
	return &d
}

// ExtractStructured is Extract for a platform date; any missing component
// makes the triple invalid.
func ExtractStructured(sd *domain.StructuredDate) *civil.Date {
	if sd == nil || sd.Year == nil || sd.Month == nil || sd.Day == nil {
		return nil
	}
	return Extract(*sd.Year, *sd.Month, *sd.Day)
}
