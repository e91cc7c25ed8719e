/*
Package factory provides JSON bundle to Go job conversion.

PURPOSE:
  Converts persisted JSON bundles into profile.Job values and back.
  This is the storage contract importer/exporter code must honor when
  round-tripping: the same shapes the browser-local original wrote.

BUNDLE SCHEMA (one job):
  {
    "items": [{"id": 1, "name": "...", "price": 100, "taxable": true, "enabled": true}],
    "hourlyRate": 17.6,
    "dayHours": [{"date": "2025-06-02", "start": "09:00", "end": "17:30",
                  "hours": 8, "lunchMinutes": 30, "originalHours": 8.5}],
    "startDate": "2025-06-02",
    "currentDate": "2025-06-15T00:00:00Z",
    "payCycle": "biweekly",
    "taxFreeRule": false,
    "roster": {"weekly": {...}, "monthly": {...}}
  }

DEFAULTING DISCIPLINE:
  Malformed or missing fields are normalized FIELD BY FIELD, never by
  rejecting the whole bundle: hourly rate 17.6, empty day list, the
  caller-supplied "today" as start date, biweekly cycle, empty roster.
  Corrupted JSON is treated as absent. The one wholesale rejection is
  an import archive whose job list normalizes to empty.

LEGACY MAPPINGS:
  - "lunch": false        -> 0-minute lunch deduction
  - job display name 3495 -> TaxFreeRule flag (when the flag is absent)

WORKED HOURS ARE RECOMPUTED:
  Parsing re-runs normalization per day rather than trusting the
  persisted hours figure, so the (start, end, lunch) invariant holds
  even for bundles written by older versions. The persisted hours value
  is used only as a last resort when nothing else is derivable.

SEE ALSO:
  - profile: the Job type this package produces
  - archive.go: the multi-job export envelope
*/
package factory

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/profile"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// BundleJSON is the persisted representation of one job's state.
type BundleJSON struct {
	Items       []ItemJSON      `json:"items"`
	HourlyRate  *float64        `json:"hourlyRate"`
	DayHours    []DayJSON       `json:"dayHours"`
	StartDate   string          `json:"startDate"`
	CurrentDate string          `json:"currentDate,omitempty"`
	PayCycle    string          `json:"payCycle,omitempty"`
	TaxFreeRule *bool           `json:"taxFreeRule,omitempty"`
	Roster      *profile.Roster `json:"roster,omitempty"`
}

type ItemJSON struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Taxable bool    `json:"taxable"`
	Enabled bool    `json:"enabled"`
}

type DayJSON struct {
	Date          string   `json:"date"`
	Start         *string  `json:"start,omitempty"`
	End           *string  `json:"end,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	LunchMinutes  *int     `json:"lunchMinutes,omitempty"`
	Lunch         *bool    `json:"lunch,omitempty"` // legacy flag, false = no deduction
	OriginalHours *float64 `json:"originalHours,omitempty"`
}

// =============================================================================
// PARSE - JSON to Job, defaulting field by field
// =============================================================================

// ParseBundle converts raw bundle JSON into a Job. It never fails:
// corrupted JSON yields a job with pure defaults. today supplies the
// default start date so this package stays wall-clock free.
func ParseBundle(data []byte, id, name string, today engine.Day) *profile.Job {
	var b BundleJSON
	if len(data) > 0 {
		// Corrupted JSON is treated as absent, not propagated.
		_ = json.Unmarshal(data, &b)
	}
	return bundleToJob(b, id, name, today)
}

func bundleToJob(b BundleJSON, id, name string, today engine.Day) *profile.Job {
	job := profile.NewJob(id, name, today)

	if b.HourlyRate != nil && *b.HourlyRate >= 0 {
		job.HourlyRate = decimal.NewFromFloat(*b.HourlyRate)
	}
	if d, err := engine.ParseDay(b.StartDate); err == nil {
		job.StartDate = d
	}
	if cycle := engine.PayCycle(b.PayCycle); cycle.Valid() {
		job.PayCycle = cycle
	}
	switch {
	case b.TaxFreeRule != nil:
		job.TaxFreeRule = *b.TaxFreeRule
	case name == profile.LegacyTaxFreeJobName:
		// Legacy bundles selected the regime by display name.
		job.TaxFreeRule = true
	}

	job.CurrentDate = b.CurrentDate
	if b.Roster != nil {
		job.Roster = *b.Roster
	}

	for _, it := range b.Items {
		price := decimal.NewFromFloat(it.Price)
		if price.IsNegative() {
			continue // malformed item, dropped
		}
		job.Items = append(job.Items, engine.Item{
			ID:      it.ID,
			Name:    it.Name,
			Price:   price,
			Taxable: it.Taxable,
			Enabled: it.Enabled,
		})
	}

	for _, d := range b.DayHours {
		entry, ok := parseDayRecord(d)
		if ok {
			job.Entries[entry.Date.String()] = entry
		}
	}
	return job
}

// parseDayRecord re-derives one day's entry. Underivable or invalid
// records are dropped (ok=false) rather than stored as zero rows.
func parseDayRecord(d DayJSON) (engine.DayEntry, bool) {
	date, err := engine.ParseDay(d.Date)
	if err != nil {
		return engine.DayEntry{}, false
	}

	in := engine.RawDayInput{
		Date:          date,
		LunchMinutes:  d.LunchMinutes,
		LunchDisabled: d.Lunch != nil && !*d.Lunch,
	}
	if d.Start != nil {
		in.Start = *d.Start
	}
	if d.End != nil {
		in.End = *d.End
	}
	if d.OriginalHours != nil {
		orig := decimal.NewFromFloat(*d.OriginalHours)
		in.OriginalHours = &orig
	}

	entry, err := engine.Normalize(in)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidTimeSpan) {
			// Keep the raw times for correction, hours stay unset.
			return entry, true
		}
		return engine.DayEntry{}, false
	}

	if entry.WorkedHours == nil && d.Hours != nil {
		// Older bundles carry only a worked-hours figure. Take it
		// verbatim when nothing better is derivable.
		h := engine.Round2(decimal.NewFromFloat(*d.Hours))
		if h.IsNegative() || h.GreaterThan(decimal.NewFromInt(engine.MaxDayHours)) {
			return engine.DayEntry{}, false
		}
		entry.WorkedHours = &h
	}
	if entry.WorkedHours == nil {
		return engine.DayEntry{}, false
	}
	return entry, true
}

// =============================================================================
// SERIALIZE - Job to JSON
// =============================================================================

// BundleFromJob builds the persisted representation of a job.
func BundleFromJob(j *profile.Job) BundleJSON {
	rate, _ := j.HourlyRate.Float64()
	b := BundleJSON{
		HourlyRate:  &rate,
		StartDate:   j.StartDate.String(),
		CurrentDate: j.CurrentDate,
		PayCycle:    string(j.PayCycle),
		TaxFreeRule: &j.TaxFreeRule,
		Items:       []ItemJSON{},
		DayHours:    []DayJSON{},
	}
	if j.Roster.Weekly != nil || j.Roster.Monthly != nil {
		roster := j.Roster
		b.Roster = &roster
	}

	for _, it := range j.Items {
		price, _ := it.Price.Float64()
		b.Items = append(b.Items, ItemJSON{
			ID:      it.ID,
			Name:    it.Name,
			Price:   price,
			Taxable: it.Taxable,
			Enabled: it.Enabled,
		})
	}

	for _, e := range j.SortedEntries() {
		d := DayJSON{Date: e.Date.String(), LunchMinutes: e.LunchMinutes}
		if e.Start != "" {
			d.Start = &e.Start
		}
		if e.End != "" {
			d.End = &e.End
		}
		if e.LunchDisabled {
			f := false
			d.Lunch = &f
		}
		if e.OriginalHours != nil {
			orig, _ := e.OriginalHours.Float64()
			d.OriginalHours = &orig
		}
		if e.WorkedHours != nil {
			h, _ := e.WorkedHours.Float64()
			d.Hours = &h
		}
		b.DayHours = append(b.DayHours, d)
	}
	return b
}

// SerializeBundle is the Set-side counterpart of ParseBundle.
func SerializeBundle(j *profile.Job) ([]byte, error) {
	return json.Marshal(BundleFromJob(j))
}
