/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All engine error types in one place. Callers match with errors.Is /
  errors.As; the structured variants carry the offending values so the
  UI layer can echo them back.

ERROR CATEGORIES:
  1. Input validation - rejected hour entries and clock spans
  2. Date parsing - malformed Y-M-D strings

No engine error is ever fatal: a rejected entry simply is not stored
and the caller resubmits.
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHoursOutOfRange is returned when a directly-entered hour count
	// falls outside [0, 24]. The entry is rejected, nothing is stored.
	ErrHoursOutOfRange = errors.New("hours out of range")

	// ErrInvalidTimeSpan is returned when end-start-lunch is negative or
	// exceeds 24 hours. The raw clock times are retained for correction
	// but no worked hours are derived.
	ErrInvalidTimeSpan = errors.New("invalid time span")

	// ErrInvalidClockTime is returned for a clock time that is not HH:MM.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidDay is returned for a date string that is not YYYY-MM-DD.
	ErrInvalidDay = errors.New("invalid day")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// HoursRangeError reports a rejected direct hour entry.
type HoursRangeError struct {
	Date  Day
	Hours decimal.Decimal
}

func (e *HoursRangeError) Error() string {
	return fmt.Sprintf("hours out of range on %s: %v not in [0, %d]", e.Date, e.Hours, MaxDayHours)
}

func (e *HoursRangeError) Unwrap() error { return ErrHoursOutOfRange }

// TimeSpanError reports a rejected start/end clock span.
type TimeSpanError struct {
	Date    Day
	Start   string
	End     string
	Minutes int // span after lunch deduction; negative or > 24h
}

func (e *TimeSpanError) Error() string {
	return fmt.Sprintf("invalid span on %s: %s-%s yields %d minutes", e.Date, e.Start, e.End, e.Minutes)
}

func (e *TimeSpanError) Unwrap() error { return ErrInvalidTimeSpan }

// IsClientError returns true if the error is due to invalid user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrHoursOutOfRange) ||
		errors.Is(err, ErrInvalidTimeSpan) ||
		errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidDay)
}
