/*
Package engine implements the payroll computation core.

PURPOSE:
  This package contains the pure functions that turn a sparse set of
  per-day hour entries into taxed daily and period earnings. It covers
  four concerns, leaves first:

    1. Time normalization (normalize.go): raw clock times or a typed
       hour count + lunch deduction -> worked hours for one day.
    2. Period indexing (period.go): which week / bi-week / semi-month /
       month bucket a date falls into, relative to an anchor date.
    3. Payroll computation (payroll.go): per-day earnings, statutory
       deductions and after-tax amounts under two earnings regimes,
       plus per-pay-period aggregates.
    4. Budget progress (progress.go): after-tax totals vs. a priced
       wish-list.

DESIGN PRINCIPLES:
  1. Purity: every function takes an immutable snapshot and returns a
     new result. No wall-clock reads, no hidden counters, no stored
     state. Callers own persistence and serialization of writes.
  2. Precision: money and hours use decimal.Decimal; all financial
     figures are rounded to 2 decimal places with half-up semantics.
  3. Calendar-local dates: a day is its Y-M-D, full stop (day.go).

SEE ALSO:
  - payroll.go: the regime branching and running counters
  - profile:    job bundles that feed this engine
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// STATUTORY AND CONTRACTUAL CONSTANTS
// =============================================================================
// Fixed, not user-configurable. The rates are hardcoded approximations,
// not a compliance product.

var (
	// IncomeTaxRate is also reused as the item tax rate in progress.go.
	IncomeTaxRate = decimal.RequireFromString("0.117")

	// InsuranceRate is the employee-insurance deduction rate.
	InsuranceRate = decimal.RequireFromString("0.0164")

	// PensionRate is the CPP-equivalent deduction rate.
	PensionRate = decimal.RequireFromString("0.05482")

	// OvertimeMultiplier applies to weekly hours beyond the threshold
	// under the standard regime.
	OvertimeMultiplier = decimal.RequireFromString("1.5")

	// BonusMultiplier models per-period vacation-pay accrual. It applies
	// to every computed gross figure, in every regime.
	BonusMultiplier = decimal.RequireFromString("1.04")

	// WeeklyOvertimeThreshold is in hours per anchor-relative week.
	WeeklyOvertimeThreshold = decimal.NewFromInt(44)

	// BiweeklyTaxFreeThreshold is in hours per anchor-relative bi-week.
	// Only the tax-free regime reads it.
	BiweeklyTaxFreeThreshold = decimal.NewFromInt(88)
)

const (
	// DefaultLunchMinutes applies when lunch was never configured for a date.
	DefaultLunchMinutes = 30

	// MaxLunchMinutes is the clamp ceiling for a lunch deduction.
	MaxLunchMinutes = 180

	// MaxDayHours bounds a single day's worked hours.
	MaxDayHours = 24
)

// Round2 rounds to 2 decimal places, half away from zero. All engine
// amounts are non-negative, so this matches half-up on the x100-scaled
// value, which the persisted figures depend on bit-for-bit.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// =============================================================================
// PAY CYCLE - Closed set of period regimes
// =============================================================================

type PayCycle string

const (
	CycleWeekly      PayCycle = "weekly"
	CycleBiweekly    PayCycle = "biweekly"
	CycleSemiMonthly PayCycle = "semi-monthly"
	CycleMonthly     PayCycle = "monthly"
)

// Valid reports whether c is one of the persisted pay-cycle values.
// CycleWeekly is an internal bucketing unit, never a stored cycle.
func (c PayCycle) Valid() bool {
	switch c {
	case CycleBiweekly, CycleSemiMonthly, CycleMonthly:
		return true
	}
	return false
}

// =============================================================================
// DAY ENTRY - One user-editable record per calendar date
// =============================================================================

// DayEntry holds one day's raw input plus the derived worked hours.
//
// Invariants:
//   - At most one DayEntry per date (enforced by the owning collection).
//   - WorkedHours is always recomputed from (Start, End, lunch) when both
//     clock times are present, otherwise from OriginalHours - lunch/60,
//     floored at zero. Never trust a stale WorkedHours across an edit.
//   - WorkedHours == nil means "no usable hours", which is NOT zero: the
//     payroll pass skips such entries entirely. An entry can carry nil
//     hours while retaining an invalid Start/End pair so the user can
//     correct it.
type DayEntry struct {
	Date Day

	// Clock times in "HH:MM", empty when unset. When both are present
	// they are the source of truth for WorkedHours.
	Start string
	End   string

	// LunchMinutes is the stored, already-clamped deduction. nil means
	// never configured (DefaultLunchMinutes applies at normalization).
	LunchMinutes *int

	// LunchDisabled maps the legacy lunch:false flag to a 0-minute
	// deduction for backward compatibility.
	LunchDisabled bool

	// OriginalHours is the last value the user typed directly as hours,
	// kept so toggling lunch settings re-derives WorkedHours without
	// compounding the subtraction.
	OriginalHours *decimal.Decimal

	// WorkedHours is the derived, authoritative value the payroll pass
	// consumes. nil = no record for payroll purposes.
	WorkedHours *decimal.Decimal
}

// HasClockTimes reports whether both clock times are set.
func (e DayEntry) HasClockTimes() bool { return e.Start != "" && e.End != "" }

// =============================================================================
// ITEM - A priced thing the user is saving toward
// =============================================================================

// Item is a wish-list entry. Disabled items are excluded from all totals
// but retained in storage.
type Item struct {
	ID      int64
	Name    string
	Price   decimal.Decimal
	Taxable bool
	Enabled bool
}

// =============================================================================
// CONFIG - Everything the payroll pass needs besides the entries
// =============================================================================

// Config selects the earnings regime and supplies the anchor for period
// bucketing. It is a snapshot: the engine never mutates it.
type Config struct {
	HourlyRate decimal.Decimal

	// Anchor is the start date all week/bi-week indices count from.
	Anchor Day

	// Cycle selects the period grouping for SummarizePeriods.
	Cycle PayCycle

	// TaxFreeRule switches the engine from the standard weekly-overtime
	// split to the bi-weekly 88-hour tax-free carve-out. Stored as an
	// explicit capability flag on the job profile; the legacy job-name
	// sentinel is mapped to it once, at import time.
	TaxFreeRule bool
}

// =============================================================================
// COMPUTED ROWS
// =============================================================================

// DetailedDay is one row of the per-day breakdown. All figures are
// rounded to 2 decimal places.
type DetailedDay struct {
	Date  Day
	Hours decimal.Decimal

	// Standard regime split. Under the tax-free regime both are zero
	// and Hours stands alone.
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	// TaxFreeHours is this day's proportional share of the bi-week's
	// over-threshold hours. Zero under the standard regime.
	TaxFreeHours decimal.Decimal

	Earnings        decimal.Decimal
	TaxableEarnings decimal.Decimal
	IncomeTax       decimal.Decimal
	Insurance       decimal.Decimal
	Pension         decimal.Decimal
	AfterTax        decimal.Decimal
}

// PeriodSummary is one row per pay period. It is a separate aggregation
// pass over the same entries, not a sum of DetailedDay rows: the running
// counters restart at each period boundary.
type PeriodSummary struct {
	// Number is the 1-based display index: raw arithmetic bucket index
	// + 1 for bi-weekly, occurrence order in the data for semi-monthly
	// and monthly. The asymmetry is a compatibility requirement.
	Number int

	Start Day
	End   Day

	Hours         decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	TaxFreeHours  decimal.Decimal

	Earnings  decimal.Decimal
	IncomeTax decimal.Decimal
	Insurance decimal.Decimal
	Pension   decimal.Decimal

	// Net is the after-tax amount of the taxed portion only. TakeHome
	// adds back the untaxed cash overflow. They differ only under the
	// tax-free regime.
	Net      decimal.Decimal
	TakeHome decimal.Decimal
}

// Progress is the budget completion report.
type Progress struct {
	TotalEarnedAfterTax decimal.Decimal
	TotalItemCost       decimal.Decimal

	// Percent is clamped to [0, 100].
	Percent decimal.Decimal
}
