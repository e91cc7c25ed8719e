/*
period.go - Pay period bucketing

PURPOSE:
  Maps a calendar date to the pay-period bucket it falls into, relative
  to an anchor start date. The bucket's arithmetic Index is what the
  payroll pass keys its running counters on; the display numbering is a
  separate concern handled during aggregation.

INDEX SCHEMES:
  Weekly       floor(diffDays / 7)            anchor-relative
  Biweekly     floor(diffDays / 14)           anchor-relative
  SemiMonthly  year*24 + (month-1)*2 + half   calendar-absolute, half
               0 covers days 1-15, half 1 covers 16..end-of-month
  Monthly      year*12 + (month-1)            calendar-absolute

All arithmetic is calendar-local whole days; floor division keeps dates
before the anchor in negative buckets rather than collapsing them into
bucket zero.
*/
package engine

// Bucket is one pay period: a stable arithmetic index plus the calendar
// span the period display covers. Rebuilt on every computation pass,
// never persisted.
type Bucket struct {
	Index int
	Start Day
	End   Day
}

// BucketFor returns the bucket containing date under the given cycle.
// Weekly and bi-weekly buckets count from anchor; semi-monthly and
// monthly buckets ignore the anchor and follow the calendar.
func BucketFor(date, anchor Day, cycle PayCycle) Bucket {
	switch cycle {
	case CycleWeekly:
		idx := WeekIndex(date, anchor)
		start := anchor.AddDays(idx * 7)
		return Bucket{Index: idx, Start: start, End: start.AddDays(6)}

	case CycleBiweekly:
		idx := BiweekIndex(date, anchor)
		start := anchor.AddDays(idx * 14)
		return Bucket{Index: idx, Start: start, End: start.AddDays(13)}

	case CycleSemiMonthly:
		return semiMonthBucket(date)

	case CycleMonthly:
		y, m := date.Year(), date.Month()
		return Bucket{
			Index: y*12 + int(m) - 1,
			Start: StartOfMonth(y, m),
			End:   EndOfMonth(y, m),
		}
	}

	// Unknown cycles bucket bi-weekly, the storage default.
	return BucketFor(date, anchor, CycleBiweekly)
}

// WeekIndex is the anchor-relative week number of date; negative before
// the anchor.
func WeekIndex(date, anchor Day) int {
	return floorDiv(DaysBetween(anchor, date), 7)
}

// BiweekIndex is the anchor-relative bi-week number of date. Both the
// standard overtime regime and the tax-free threshold key off this unit.
func BiweekIndex(date, anchor Day) int {
	return floorDiv(DaysBetween(anchor, date), 14)
}

func semiMonthBucket(date Day) Bucket {
	y, m := date.Year(), date.Month()
	half := 0
	start, end := StartOfMonth(y, m), NewDay(y, m, 15)
	if date.DayOfMonth() >= 16 {
		half = 1
		start, end = NewDay(y, m, 16), EndOfMonth(y, m)
	}
	return Bucket{Index: y*24 + (int(m)-1)*2 + half, Start: start, End: end}
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
