/*
normalize.go - Raw day input to worked hours

PURPOSE:
  Converts one day's raw input into a DayEntry with an authoritative
  WorkedHours value. Three derivation paths, in priority order:

    1. Both clock times set: hours = (end - start - lunch) / 60.
       A negative or > 24h span REJECTS the derivation: the clock times
       are kept on the entry so the user can fix them, but WorkedHours
       stays nil and the invalid span is never stored as hours.
    2. A direct hour count: hours = max(0, typed - lunch/60), rounded
       to 2 decimal places. Values outside [0, 24] are rejected outright
       with no entry to store.
    3. A retained OriginalHours with no new input: same formula as (2).
       This is the lunch-toggle path - changing the lunch deduction
       alone must re-derive from what the user originally typed, never
       from the previous WorkedHours (which would compound the
       subtraction).

LUNCH RESOLUTION:
  nil        -> DefaultLunchMinutes (30)
  disabled   -> 0 (legacy lunch:false flag)
  configured -> clamped to [0, MaxLunchMinutes]

SEE ALSO:
  - payroll.go: consumes the derived WorkedHours
  - profile:    merges prior stored state into RawDayInput before calling
*/
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawDayInput is one day's input as supplied by the caller, merged with
// whatever was previously stored for the date (lunch setting, original
// hours). The engine does not reach into storage itself.
type RawDayInput struct {
	Date Day

	// Clock times in "HH:MM"; both empty or both set for derivation.
	Start string
	End   string

	// Hours is a freshly typed direct hour count, nil when the user
	// entered clock times or only changed the lunch setting.
	Hours *decimal.Decimal

	// LunchMinutes is the configured deduction, nil if never set.
	LunchMinutes  *int
	LunchDisabled bool

	// OriginalHours is the retained direct entry from a previous edit.
	OriginalHours *decimal.Decimal
}

// Normalize derives the DayEntry for one day. On ErrHoursOutOfRange the
// returned entry must not be stored; on ErrInvalidTimeSpan the entry is
// returned with nil WorkedHours and SHOULD be stored so the raw clock
// times survive for correction.
func Normalize(in RawDayInput) (DayEntry, error) {
	lunch := effectiveLunchMinutes(in.LunchMinutes, in.LunchDisabled)

	entry := DayEntry{
		Date:          in.Date,
		Start:         in.Start,
		End:           in.End,
		LunchDisabled: in.LunchDisabled,
		OriginalHours: in.OriginalHours,
	}
	if in.LunchMinutes != nil {
		clamped := clampLunch(*in.LunchMinutes)
		entry.LunchMinutes = &clamped
	}

	switch {
	case in.Start != "" && in.End != "":
		startMin, err := parseClock(in.Start)
		if err != nil {
			return entry, err
		}
		endMin, err := parseClock(in.End)
		if err != nil {
			return entry, err
		}
		span := endMin - startMin - lunch
		if span < 0 || span > MaxDayHours*60 {
			return entry, &TimeSpanError{Date: in.Date, Start: in.Start, End: in.End, Minutes: span}
		}
		hours := Round2(decimal.NewFromInt(int64(span)).Div(decimal.NewFromInt(60)))
		entry.WorkedHours = &hours
		return entry, nil

	case in.Hours != nil:
		typed := *in.Hours
		if typed.IsNegative() || typed.GreaterThan(decimal.NewFromInt(MaxDayHours)) {
			return DayEntry{}, &HoursRangeError{Date: in.Date, Hours: typed}
		}
		entry.OriginalHours = &typed
		hours := lessLunch(typed, lunch)
		entry.WorkedHours = &hours
		return entry, nil

	case in.OriginalHours != nil:
		hours := lessLunch(*in.OriginalHours, lunch)
		entry.WorkedHours = &hours
		return entry, nil
	}

	// Nothing to derive from: an empty shell (caller usually deletes).
	return entry, nil
}

// lessLunch computes max(0, hours - lunch/60) rounded to 2 places.
func lessLunch(hours decimal.Decimal, lunchMinutes int) decimal.Decimal {
	h := hours.Sub(decimal.NewFromInt(int64(lunchMinutes)).Div(decimal.NewFromInt(60)))
	if h.IsNegative() {
		return decimal.Zero
	}
	return Round2(h)
}

func effectiveLunchMinutes(configured *int, disabled bool) int {
	if disabled {
		return 0
	}
	if configured == nil {
		return DefaultLunchMinutes
	}
	return clampLunch(*configured)
}

func clampLunch(minutes int) int {
	if minutes < 0 {
		return 0
	}
	if minutes > MaxLunchMinutes {
		return MaxLunchMinutes
	}
	return minutes
}

// parseClock converts "HH:MM" to minutes past midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return h*60 + m, nil
}
