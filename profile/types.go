// Package profile implements multi-job bookkeeping on top of the engine.
// A Job bundles everything one payroll computation needs: wish-list items,
// hourly rate, day entries, anchor start date, and the pay-cycle regime.
// Multiple jobs may coexist; exactly one is active at a time, and the
// engine only ever sees one bundle.
package profile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
)

// DefaultHourlyRate applies when a bundle is missing or corrupted.
var DefaultHourlyRate = decimal.RequireFromString("17.6")

// DefaultPayCycle is the regime a bundle falls back to.
const DefaultPayCycle = engine.CycleBiweekly

// LegacyTaxFreeJobName is the display-name sentinel that historically
// selected the bi-weekly tax-free regime. It survives only as an
// import-time mapping to the explicit TaxFreeRule flag; the engine
// itself never looks at job names.
const LegacyTaxFreeJobName = "3495"

// Ref identifies a job in the job list without loading its bundle.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Roster carries opaque per-period image data URLs. The engine never
// interprets them; they round-trip through bundles untouched.
type Roster struct {
	Weekly  map[string]string `json:"weekly,omitempty"`
	Monthly map[string]string `json:"monthly,omitempty"`
}

// Job is one isolated bundle of payroll state.
type Job struct {
	ID   string
	Name string

	HourlyRate  decimal.Decimal
	StartDate   engine.Day
	PayCycle    engine.PayCycle
	TaxFreeRule bool

	Items []engine.Item

	// Entries is keyed by the date's string form; at most one entry
	// per date by construction.
	Entries map[string]engine.DayEntry

	// CurrentDate is a UI bookmark (ISO8601), passed through verbatim.
	CurrentDate string

	Roster Roster
}

// NewJob creates a job with documented defaults.
func NewJob(id, name string, start engine.Day) *Job {
	return &Job{
		ID:         id,
		Name:       name,
		HourlyRate: DefaultHourlyRate,
		StartDate:  start,
		PayCycle:   DefaultPayCycle,
		Entries:    make(map[string]engine.DayEntry),
	}
}

// Config snapshots the job's settings for an engine pass.
func (j *Job) Config() engine.Config {
	return engine.Config{
		HourlyRate:  j.HourlyRate,
		Anchor:      j.StartDate,
		Cycle:       j.PayCycle,
		TaxFreeRule: j.TaxFreeRule,
	}
}

// SortedEntries returns the day entries in date order. Lexicographic
// key order is chronological order for YYYY-MM-DD keys.
func (j *Job) SortedEntries() []engine.DayEntry {
	keys := make([]string, 0, len(j.Entries))
	for k := range j.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]engine.DayEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, j.Entries[k])
	}
	return entries
}

// Detailed runs the per-day payroll pass for this job.
func (j *Job) Detailed() []engine.DetailedDay {
	return engine.ComputeDetailedDays(j.SortedEntries(), j.Config())
}

// Summaries runs the period aggregation pass for this job.
func (j *Job) Summaries() []engine.PeriodSummary {
	return engine.SummarizePeriods(j.SortedEntries(), j.Config())
}

// Progress reports purchasing-power completion for this job.
func (j *Job) Progress() engine.Progress {
	return engine.ComputeProgress(j.Items, j.Detailed())
}
