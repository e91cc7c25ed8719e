/*
timesheet.go - Day entry operations on a job

PURPOSE:
  Upsert, lunch-toggle, and clear operations for the per-date entries.
  These merge retained state (stored lunch setting, original typed
  hours) into the raw input before handing it to the engine's
  normalizer, so edits never compound.

LIFECYCLE:
  An entry is created on first input for a date and DELETED when the
  user clears the field. Deletion removes the date from every
  aggregate; it never degenerates into a zero row.
*/
package profile

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
)

// SetDay normalizes and upserts one day's input. Prior stored state
// (lunch setting, original hours) fills whatever the input omits.
//
// On ErrHoursOutOfRange nothing is stored. On ErrInvalidTimeSpan the
// entry is stored hours-less so the raw clock times survive for
// correction; the error is still returned so the caller can notify.
func (j *Job) SetDay(in engine.RawDayInput) (engine.DayEntry, error) {
	key := in.Date.String()
	if prev, ok := j.Entries[key]; ok {
		if in.LunchMinutes == nil {
			in.LunchMinutes = prev.LunchMinutes
			in.LunchDisabled = in.LunchDisabled || prev.LunchDisabled
		}
		if in.Hours == nil && in.OriginalHours == nil {
			in.OriginalHours = prev.OriginalHours
		}
	}

	entry, err := engine.Normalize(in)
	if err != nil && !errors.Is(err, engine.ErrInvalidTimeSpan) {
		return entry, err
	}
	if j.Entries == nil {
		j.Entries = make(map[string]engine.DayEntry)
	}
	j.Entries[key] = entry
	return entry, err
}

// SetHours records a directly typed hour count for a date.
func (j *Job) SetHours(date engine.Day, hours decimal.Decimal) (engine.DayEntry, error) {
	return j.SetDay(engine.RawDayInput{Date: date, Hours: &hours})
}

// SetClockTimes records a start/end span for a date.
func (j *Job) SetClockTimes(date engine.Day, start, end string) (engine.DayEntry, error) {
	return j.SetDay(engine.RawDayInput{Date: date, Start: start, End: end})
}

// SetLunch changes only the lunch deduction for a date. With clock
// times present the span is re-derived; with a direct entry the hours
// re-derive from the retained OriginalHours, never from the previous
// WorkedHours.
func (j *Job) SetLunch(date engine.Day, minutes int, disabled bool) (engine.DayEntry, error) {
	in := engine.RawDayInput{Date: date, LunchDisabled: disabled}
	if !disabled {
		in.LunchMinutes = &minutes
	}
	if prev, ok := j.Entries[date.String()]; ok {
		in.Start, in.End = prev.Start, prev.End
		in.OriginalHours = prev.OriginalHours
	}
	return j.SetDay(in)
}

// ClearDay deletes the entry for a date. The date disappears from all
// aggregates; clearing an absent date is a no-op.
func (j *Job) ClearDay(date engine.Day) {
	delete(j.Entries, date.String())
}
