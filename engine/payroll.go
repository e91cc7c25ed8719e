/*
payroll.go - Per-day earnings, deductions, and period aggregation

PURPOSE:
  The heart of the engine. Turns normalized day entries into a taxed
  per-day breakdown and per-pay-period summary rows.

TWO EARNINGS REGIMES (mutually exclusive, per job profile):

  Standard (default):
    Hours split into regular/overtime on a WEEKLY basis. Days are
    processed in date order with a running worked-hours counter per
    anchor-relative week:
      regular  = min(dayHours, max(0, 44 - workedSoFarThisWeek))
      overtime = dayHours - regular
      earnings = (regular*rate + overtime*rate*1.5) * 1.04
    The entire earnings amount is taxable.

  Tax-free (legacy carve-out):
    No weekly split. Within each BI-WEEK, cumulative hours beyond 88
    are flagged tax-free, allocated proportionally across the bi-week's
    days:
      taxFree  = min(dayHours, round2(dayHours/biweekTotal * excess))
      earnings = dayHours*rate*1.04
      taxable  = (dayHours - taxFree)*rate*1.04
    Gross pay is unchanged; only the taxable base shrinks.

DEDUCTIONS (both regimes, per day):
    incomeTax = round2(taxable * 0.117)
    insurance = round2(taxable * 0.0164)
    pension   = round2(taxable * 0.05482)
    afterTax  = round2(earnings - incomeTax - insurance - pension)

PERIOD AGGREGATION:
  SummarizePeriods is a genuinely separate pass over the same entries:
  each period's rows are recomputed with the running counters scoped to
  that period, NOT summed from the global per-day pass. The weekly
  counter must restart at period boundaries and the tax-free threshold
  math is period-relative.

STATE MODEL:
  The running counters are plain accumulator maps local to each call.
  Calling any function twice with identical inputs yields identical
  output.
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ComputeDetailedDays produces one row per entry with usable hours,
// in date order. Entries with zero hours produce all-zero rows; entries
// with nil WorkedHours (deleted or rejected) are skipped entirely, not
// zero-filled.
func ComputeDetailedDays(entries []DayEntry, cfg Config) []DetailedDay {
	days := usableEntries(entries)
	if cfg.TaxFreeRule {
		return computeTaxFreeDays(days, cfg)
	}
	return computeStandardDays(days, cfg)
}

// usableEntries filters out entries without derived hours and sorts the
// remainder chronologically. The input slice is never mutated.
func usableEntries(entries []DayEntry) []DayEntry {
	days := make([]DayEntry, 0, len(entries))
	for _, e := range entries {
		if e.WorkedHours != nil {
			days = append(days, e)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// =============================================================================
// STANDARD REGIME - weekly regular/overtime split
// =============================================================================

func computeStandardDays(days []DayEntry, cfg Config) []DetailedDay {
	out := make([]DetailedDay, 0, len(days))
	weekWorked := make(map[int]decimal.Decimal)

	for _, e := range days {
		hours := *e.WorkedHours
		if !hours.IsPositive() {
			out = append(out, zeroRow(e.Date))
			continue
		}

		wi := WeekIndex(e.Date, cfg.Anchor)
		soFar := weekWorked[wi]
		weekWorked[wi] = soFar.Add(hours)

		remaining := WeeklyOvertimeThreshold.Sub(soFar)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		regular := decimal.Min(hours, remaining)
		overtime := hours.Sub(regular)

		gross := regular.Mul(cfg.HourlyRate).
			Add(overtime.Mul(cfg.HourlyRate).Mul(OvertimeMultiplier)).
			Mul(BonusMultiplier)
		earnings := Round2(gross)

		row := DetailedDay{
			Date:            e.Date,
			Hours:           hours,
			RegularHours:    regular,
			OvertimeHours:   overtime,
			Earnings:        earnings,
			TaxableEarnings: earnings,
		}
		applyDeductions(&row)
		out = append(out, row)
	}
	return out
}

// =============================================================================
// TAX-FREE REGIME - bi-weekly 88-hour threshold
// =============================================================================

func computeTaxFreeDays(days []DayEntry, cfg Config) []DetailedDay {
	// First pass: total hours per bi-week. The per-day share is
	// relative to the whole bi-week, so it cannot be computed streaming.
	biweekTotal := make(map[int]decimal.Decimal)
	for _, e := range days {
		if h := *e.WorkedHours; h.IsPositive() {
			bi := BiweekIndex(e.Date, cfg.Anchor)
			biweekTotal[bi] = biweekTotal[bi].Add(h)
		}
	}

	out := make([]DetailedDay, 0, len(days))
	for _, e := range days {
		hours := *e.WorkedHours
		if !hours.IsPositive() {
			out = append(out, zeroRow(e.Date))
			continue
		}

		total := biweekTotal[BiweekIndex(e.Date, cfg.Anchor)]
		taxFree := decimal.Zero
		if total.GreaterThan(BiweeklyTaxFreeThreshold) {
			excess := total.Sub(BiweeklyTaxFreeThreshold)
			share := Round2(hours.Div(total).Mul(excess))
			taxFree = decimal.Min(hours, share)
		}

		earnings := Round2(hours.Mul(cfg.HourlyRate).Mul(BonusMultiplier))
		taxable := Round2(hours.Sub(taxFree).Mul(cfg.HourlyRate).Mul(BonusMultiplier))

		row := DetailedDay{
			Date:            e.Date,
			Hours:           hours,
			TaxFreeHours:    taxFree,
			Earnings:        earnings,
			TaxableEarnings: taxable,
		}
		applyDeductions(&row)
		out = append(out, row)
	}
	return out
}

// applyDeductions fills the statutory deductions and after-tax amount
// from the row's earnings and taxable base.
func applyDeductions(row *DetailedDay) {
	row.IncomeTax = Round2(row.TaxableEarnings.Mul(IncomeTaxRate))
	row.Insurance = Round2(row.TaxableEarnings.Mul(InsuranceRate))
	row.Pension = Round2(row.TaxableEarnings.Mul(PensionRate))
	row.AfterTax = Round2(row.Earnings.
		Sub(row.IncomeTax).
		Sub(row.Insurance).
		Sub(row.Pension))
}

func zeroRow(date Day) DetailedDay {
	return DetailedDay{
		Date:            date,
		Hours:           decimal.Zero,
		RegularHours:    decimal.Zero,
		OvertimeHours:   decimal.Zero,
		TaxFreeHours:    decimal.Zero,
		Earnings:        decimal.Zero,
		TaxableEarnings: decimal.Zero,
		IncomeTax:       decimal.Zero,
		Insurance:       decimal.Zero,
		Pension:         decimal.Zero,
		AfterTax:        decimal.Zero,
	}
}

// =============================================================================
// PERIOD AGGREGATION
// =============================================================================

// SummarizePeriods groups the entries into pay periods per cfg.Cycle and
// recomputes each period's breakdown with counters scoped to the period.
//
// Display numbering: bi-weekly periods use the raw arithmetic bucket
// index + 1; semi-monthly and monthly periods are renumbered 1..N in the
// order they first appear in the data.
func SummarizePeriods(entries []DayEntry, cfg Config) []PeriodSummary {
	days := usableEntries(entries)

	// Group into buckets preserving first-occurrence order. With
	// date-sorted input and monotonic indices, that order is ascending.
	var order []int
	byIndex := make(map[int][]DayEntry)
	buckets := make(map[int]Bucket)
	for _, e := range days {
		b := BucketFor(e.Date, cfg.Anchor, cfg.Cycle)
		if _, seen := byIndex[b.Index]; !seen {
			order = append(order, b.Index)
			buckets[b.Index] = b
		}
		byIndex[b.Index] = append(byIndex[b.Index], e)
	}

	out := make([]PeriodSummary, 0, len(order))
	for pos, idx := range order {
		bucket := buckets[idx]
		rows := ComputeDetailedDays(byIndex[idx], cfg)

		s := PeriodSummary{Start: bucket.Start, End: bucket.End}
		switch cfg.Cycle {
		case CycleSemiMonthly, CycleMonthly:
			s.Number = pos + 1
		default:
			s.Number = bucket.Index + 1
		}

		var taxable, afterTax decimal.Decimal
		for _, r := range rows {
			s.Hours = s.Hours.Add(r.Hours)
			s.RegularHours = s.RegularHours.Add(r.RegularHours)
			s.OvertimeHours = s.OvertimeHours.Add(r.OvertimeHours)
			s.TaxFreeHours = s.TaxFreeHours.Add(r.TaxFreeHours)
			s.Earnings = s.Earnings.Add(r.Earnings)
			s.IncomeTax = s.IncomeTax.Add(r.IncomeTax)
			s.Insurance = s.Insurance.Add(r.Insurance)
			s.Pension = s.Pension.Add(r.Pension)
			taxable = taxable.Add(r.TaxableEarnings)
			afterTax = afterTax.Add(r.AfterTax)
		}

		// Net covers only the taxed portion; TakeHome adds back the
		// untaxed cash overflow. Identical under the standard regime.
		s.Net = Round2(taxable.Sub(s.IncomeTax).Sub(s.Insurance).Sub(s.Pension))
		s.TakeHome = Round2(afterTax)
		out = append(out, s)
	}
	return out
}
