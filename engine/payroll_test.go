package engine_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// STANDARD REGIME - weekly overtime split
// =============================================================================

func TestStandard_FiftyHourWeek_FridaySplit(t *testing.T) {
	// GIVEN: rate $20/hr, anchor on a Monday, Mon-Fri at 10h/day (50h)
	// WHEN: computing detailed days
	// THEN: Mon-Thu fully regular; Friday splits 4 regular + 6 overtime
	//       and earns 4*20*1.04 + 6*20*1.5*1.04 = 83.20 + 187.20 = 270.40

	cfg := standardConfig("20", "2025-06-02") // a Monday
	entries := []engine.DayEntry{
		entry("2025-06-02", "10"),
		entry("2025-06-03", "10"),
		entry("2025-06-04", "10"),
		entry("2025-06-05", "10"),
		entry("2025-06-06", "10"),
	}

	rows := engine.ComputeDetailedDays(entries, cfg)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	for i := 0; i < 4; i++ {
		assertDec(t, "regular hours", rows[i].RegularHours, "10")
		assertDec(t, "overtime hours", rows[i].OvertimeHours, "0")
	}

	friday := rows[4]
	assertDec(t, "friday regular", friday.RegularHours, "4")
	assertDec(t, "friday overtime", friday.OvertimeHours, "6")
	assertDec(t, "friday earnings", friday.Earnings, "270.40")
	assertDec(t, "friday taxable", friday.TaxableEarnings, "270.40")
	assertDec(t, "friday income tax", friday.IncomeTax, "31.64")
	assertDec(t, "friday insurance", friday.Insurance, "4.43")
	assertDec(t, "friday pension", friday.Pension, "14.82")
	assertDec(t, "friday after tax", friday.AfterTax, "219.51")
}

func TestStandard_WeeklyBoundary_Exactly44(t *testing.T) {
	// GIVEN: a single week totaling exactly 44 hours
	// THEN: zero overtime anywhere

	cfg := standardConfig("20", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "22"),
		entry("2025-06-03", "22"),
	}

	for _, r := range engine.ComputeDetailedDays(entries, cfg) {
		assertDec(t, "overtime at boundary", r.OvertimeHours, "0")
	}
}

func TestStandard_WeeklyBoundary_MarginalHundredth(t *testing.T) {
	// GIVEN: 44.01 hours in one week
	// THEN: exactly the marginal 0.01h is overtime-priced

	cfg := standardConfig("20", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "22"),
		entry("2025-06-03", "22.01"),
	}

	rows := engine.ComputeDetailedDays(entries, cfg)
	assertDec(t, "regular", rows[1].RegularHours, "22")
	assertDec(t, "overtime", rows[1].OvertimeHours, "0.01")
}

func TestStandard_WeekCounterRestartsAcrossWeeks(t *testing.T) {
	// GIVEN: 44h in week 0 and 10h on the first day of week 1
	// THEN: week 1's day is fully regular

	cfg := standardConfig("20", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "22"),
		entry("2025-06-03", "22"),
		entry("2025-06-09", "10"), // next anchor-relative week
	}

	rows := engine.ComputeDetailedDays(entries, cfg)
	assertDec(t, "new week regular", rows[2].RegularHours, "10")
	assertDec(t, "new week overtime", rows[2].OvertimeHours, "0")
}

// =============================================================================
// TAX-FREE REGIME - bi-weekly 88h threshold
// =============================================================================

func TestTaxFree_ExactThreshold_NoCarveOut(t *testing.T) {
	// GIVEN: a bi-week totaling exactly 88 hours under the tax-free rule
	// THEN: no tax-free hours; everything taxable

	cfg := taxFreeConfig("10", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "22"),
		entry("2025-06-03", "22"),
		entry("2025-06-04", "22"),
		entry("2025-06-05", "22"),
	}

	for _, r := range engine.ComputeDetailedDays(entries, cfg) {
		assertDec(t, "tax-free hours", r.TaxFreeHours, "0")
		if !r.TaxableEarnings.Equal(r.Earnings) {
			t.Errorf("taxable %s should equal earnings %s", r.TaxableEarnings, r.Earnings)
		}
	}
}

func TestTaxFree_NinetyHourBiweek_ProportionalShares(t *testing.T) {
	// GIVEN: 9 days of 10h (90h) in one bi-week, rate $10
	// THEN: 2 excess hours distributed proportionally; each day's share
	//       is round2(10/90 * 2) = 0.22, capped at day hours; shares sum
	//       to the excess within allocation rounding tolerance

	cfg := taxFreeConfig("10", "2025-06-02")
	var entries []engine.DayEntry
	for i := 0; i < 9; i++ {
		entries = append(entries, entry(day("2025-06-02").AddDays(i).String(), "10"))
	}

	rows := engine.ComputeDetailedDays(entries, cfg)
	sum := decimal.Zero
	for _, r := range rows {
		assertDec(t, "per-day tax-free share", r.TaxFreeHours, "0.22")
		assertDec(t, "earnings keep full hours", r.Earnings, "104")     // 10*10*1.04
		assertDec(t, "taxable excludes share", r.TaxableEarnings, "101.71") // 9.78*10*1.04
		sum = sum.Add(r.TaxFreeHours)
	}

	tolerance := dec("0.1")
	if sum.Sub(dec("2")).Abs().GreaterThan(tolerance) {
		t.Errorf("tax-free shares should sum to ~2h, got %s", sum)
	}
}

func TestTaxFree_NoOvertimeSplit(t *testing.T) {
	// The tax-free regime never splits regular/overtime, even past 44h/week.

	cfg := taxFreeConfig("10", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "24"),
		entry("2025-06-03", "24"),
	}

	for _, r := range engine.ComputeDetailedDays(entries, cfg) {
		assertDec(t, "regular", r.RegularHours, "0")
		assertDec(t, "overtime", r.OvertimeHours, "0")
	}
}

// =============================================================================
// SHARED INVARIANTS
// =============================================================================

func TestComputeDetailedDays_Idempotent(t *testing.T) {
	// Pure function: identical inputs yield identical output.

	cfg := taxFreeConfig("17.6", "2025-01-06")
	entries := []engine.DayEntry{
		entry("2025-01-06", "12"),
		entry("2025-01-07", "0"),
		entry("2025-01-13", "9.5"),
	}

	first := engine.ComputeDetailedDays(entries, cfg)
	second := engine.ComputeDetailedDays(entries, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with identical inputs must be identical")
	}
}

func TestComputeDetailedDays_AfterTaxSumInvariant(t *testing.T) {
	// For every row: afterTax == round2(earnings - tax - insurance - pension)

	for name, cfg := range map[string]engine.Config{
		"standard": standardConfig("23.45", "2025-03-03"),
		"tax-free": taxFreeConfig("23.45", "2025-03-03"),
	} {
		entries := []engine.DayEntry{
			entry("2025-03-03", "11.25"),
			entry("2025-03-04", "13"),
			entry("2025-03-05", "24"),
			entry("2025-03-06", "24"),
			entry("2025-03-07", "20"),
		}
		for _, r := range engine.ComputeDetailedDays(entries, cfg) {
			want := engine.Round2(r.Earnings.Sub(r.IncomeTax).Sub(r.Insurance).Sub(r.Pension))
			if !r.AfterTax.Equal(want) {
				t.Errorf("%s %s: afterTax %s != %s", name, r.Date, r.AfterTax, want)
			}
		}
	}
}

func TestComputeDetailedDays_ZeroHoursRow_VsAbsent(t *testing.T) {
	// GIVEN: one zero-hour entry and one entry with nil hours (deleted)
	// THEN: the zero entry yields an all-zero row; the nil entry is
	//       skipped entirely

	cfg := standardConfig("20", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "0"),
		{Date: day("2025-06-03")}, // nil WorkedHours
	}

	rows := engine.ComputeDetailedDays(entries, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	assertDec(t, "zero row hours", rows[0].Hours, "0")
	assertDec(t, "zero row earnings", rows[0].Earnings, "0")
	assertDec(t, "zero row after tax", rows[0].AfterTax, "0")
}

func TestComputeDetailedDays_SortsByDate(t *testing.T) {
	cfg := standardConfig("20", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-05", "8"),
		entry("2025-06-02", "8"),
		entry("2025-06-03", "8"),
	}

	rows := engine.ComputeDetailedDays(entries, cfg)
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Date.Before(rows[i].Date) {
			t.Errorf("rows out of order: %s before %s", rows[i-1].Date, rows[i].Date)
		}
	}
}

// =============================================================================
// PERIOD SUMMARIES
// =============================================================================

func TestSummarizePeriods_BiweeklyNumbering_UsesRawIndex(t *testing.T) {
	// GIVEN: data in bi-weeks 0 and 3 (gap of two empty bi-weeks)
	// THEN: display numbers are 1 and 4, not 1 and 2

	cfg := standardConfig("20", "2025-06-02")
	entries := []engine.DayEntry{
		entry("2025-06-02", "8"),
		entry("2025-07-14", "8"), // 42 days later = bi-week 3
	}

	sums := engine.SummarizePeriods(entries, cfg)
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[0].Number != 1 || sums[1].Number != 4 {
		t.Errorf("expected numbers 1 and 4, got %d and %d", sums[0].Number, sums[1].Number)
	}
}

func TestSummarizePeriods_MonthlyNumbering_ByOccurrence(t *testing.T) {
	// GIVEN: data in June and September only, monthly cycle
	// THEN: summaries are numbered 1 and 2 by occurrence, not by
	//       calendar distance

	cfg := standardConfig("20", "2025-06-02")
	cfg.Cycle = engine.CycleMonthly
	entries := []engine.DayEntry{
		entry("2025-06-10", "8"),
		entry("2025-09-10", "8"),
	}

	sums := engine.SummarizePeriods(entries, cfg)
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[0].Number != 1 || sums[1].Number != 2 {
		t.Errorf("expected occurrence numbering 1, 2; got %d, %d", sums[0].Number, sums[1].Number)
	}
	if sums[0].Start.String() != "2025-06-01" || sums[0].End.String() != "2025-06-30" {
		t.Errorf("june boundaries wrong: %s..%s", sums[0].Start, sums[0].End)
	}
}

func TestSummarizePeriods_CountersScopedToPeriod(t *testing.T) {
	// GIVEN: monthly cycle where a single anchor-relative week spans the
	//        June/July boundary, 30h in each month within that week
	// THEN: each month's summary re-runs the weekly counter from zero,
	//       so neither month sees overtime even though the week's global
	//       total (60h) exceeds 44

	cfg := standardConfig("20", "2025-06-30") // Monday; week 0 = Jun 30 - Jul 6
	cfg.Cycle = engine.CycleMonthly
	entries := []engine.DayEntry{
		entry("2025-06-30", "15"),
		entry("2025-07-01", "15"),
		entry("2025-07-02", "15"),
		entry("2025-07-03", "15"),
	}

	// Sanity: the global per-day pass does see overtime in that week.
	var globalOT decimal.Decimal
	for _, r := range engine.ComputeDetailedDays(entries, cfg) {
		globalOT = globalOT.Add(r.OvertimeHours)
	}
	assertDec(t, "global overtime", globalOT, "16")

	sums := engine.SummarizePeriods(entries, cfg)
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	assertDec(t, "june overtime", sums[0].OvertimeHours, "0")
	assertDec(t, "july overtime", sums[1].OvertimeHours, "1") // 45h within July's scope
}

func TestSummarizePeriods_NetVsTakeHome(t *testing.T) {
	// GIVEN: tax-free regime, 90h bi-week at $10/hr
	// THEN: TakeHome = Net + untaxed cash overflow; under the standard
	//       regime the two are equal

	cfg := taxFreeConfig("10", "2025-06-02")
	var entries []engine.DayEntry
	for i := 0; i < 9; i++ {
		entries = append(entries, entry(day("2025-06-02").AddDays(i).String(), "10"))
	}

	sums := engine.SummarizePeriods(entries, cfg)
	if len(sums) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sums))
	}
	s := sums[0]
	assertDec(t, "net", s.Net, "743.04")
	assertDec(t, "take-home", s.TakeHome, "763.65")

	// Standard regime: no cash overflow, Net == TakeHome.
	std := engine.SummarizePeriods(entries, standardConfig("10", "2025-06-02"))
	if !std[0].Net.Equal(std[0].TakeHome) {
		t.Errorf("standard regime: net %s != take-home %s", std[0].Net, std[0].TakeHome)
	}
}

func TestSummarizePeriods_SemiMonthlyBoundaries(t *testing.T) {
	// Days 1-15 and 16-end land in separate halves with correct spans.

	cfg := standardConfig("20", "2025-06-02")
	cfg.Cycle = engine.CycleSemiMonthly
	entries := []engine.DayEntry{
		entry("2025-02-15", "8"),
		entry("2025-02-16", "8"),
	}

	sums := engine.SummarizePeriods(entries, cfg)
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[0].Start.String() != "2025-02-01" || sums[0].End.String() != "2025-02-15" {
		t.Errorf("first half boundaries wrong: %s..%s", sums[0].Start, sums[0].End)
	}
	if sums[1].Start.String() != "2025-02-16" || sums[1].End.String() != "2025-02-28" {
		t.Errorf("second half boundaries wrong: %s..%s", sums[1].Start, sums[1].End)
	}
}
