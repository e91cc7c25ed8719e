package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar-local date abstraction (this IS a day-keyed system)
// =============================================================================

// Day identifies a calendar date with no timezone and no clock component.
// Two Days are the same day iff their Y-M-D match; the zero-padded string
// form "YYYY-MM-DD" orders lexicographically in chronological order, which
// is what the rest of the engine relies on for sorting and map keys.
type Day struct {
	t time.Time
}

const dayLayout = "2006-01-02"

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a strict "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return Day{t: t.UTC()}, nil
}

// MustDay is a test/constant helper; panics on malformed input.
func MustDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }
func (d Day) IsZero() bool          { return d.t.IsZero() }

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) DayOfMonth() int   { return d.t.Day() }

func (d Day) String() string { return d.t.Format(dayLayout) }

// MarshalText/UnmarshalText make Day usable as a JSON string and map key.
func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns to - from in whole days. Negative when to < from.
func DaysBetween(from, to Day) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// StartOfMonth returns the first day of the month containing d.
func StartOfMonth(year int, month time.Month) Day { return NewDay(year, month, 1) }

// EndOfMonth returns the last day of the month.
func EndOfMonth(year int, month time.Month) Day {
	return Day{t: time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

// TodayIn returns the current calendar day for the given location.
// The engine itself never calls this: callers that need "today" (default
// start dates, export timestamps) pass the result in explicitly.
func TodayIn(loc *time.Location) Day {
	now := time.Now().In(loc)
	return NewDay(now.Year(), now.Month(), now.Day())
}
