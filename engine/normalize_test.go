package engine_test

import (
	"errors"
	"testing"

	"github.com/warp/payroll-engine/engine"
)

func TestNormalize_ClockTimes_DefaultLunch(t *testing.T) {
	// GIVEN: 09:00-17:30 with lunch never configured
	// THEN: 8.5h span minus the 30-minute default = 8 hours

	e, err := engine.Normalize(engine.RawDayInput{
		Date:  day("2025-06-02"),
		Start: "09:00",
		End:   "17:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.WorkedHours == nil {
		t.Fatal("expected derived hours")
	}
	assertDec(t, "worked hours", *e.WorkedHours, "8")
}

func TestNormalize_ClockTimes_LegacyLunchDisabled(t *testing.T) {
	// The legacy lunch:false flag maps to a 0-minute deduction.

	e, err := engine.Normalize(engine.RawDayInput{
		Date:          day("2025-06-02"),
		Start:         "09:00",
		End:           "17:00",
		LunchDisabled: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "worked hours", *e.WorkedHours, "8")
}

func TestNormalize_LunchClampedTo180(t *testing.T) {
	e, err := engine.Normalize(engine.RawDayInput{
		Date:         day("2025-06-02"),
		Start:        "08:00",
		End:          "18:00",
		LunchMinutes: ptr(600),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "worked hours", *e.WorkedHours, "7") // 10h - 180min clamp
	if e.LunchMinutes == nil || *e.LunchMinutes != 180 {
		t.Errorf("stored lunch should be clamped to 180, got %v", e.LunchMinutes)
	}
}

func TestNormalize_NegativeSpan_RejectedButTimesKept(t *testing.T) {
	// GIVEN: end before start
	// THEN: no worked hours, a TimeSpanError, and the raw times retained
	//       on the entry so the user can correct them

	e, err := engine.Normalize(engine.RawDayInput{
		Date:  day("2025-06-02"),
		Start: "17:00",
		End:   "09:00",
	})
	if !errors.Is(err, engine.ErrInvalidTimeSpan) {
		t.Fatalf("expected ErrInvalidTimeSpan, got %v", err)
	}
	var spanErr *engine.TimeSpanError
	if !errors.As(err, &spanErr) {
		t.Fatal("expected structured TimeSpanError")
	}
	if e.WorkedHours != nil {
		t.Errorf("invalid span must not store hours, got %s", e.WorkedHours)
	}
	if e.Start != "17:00" || e.End != "09:00" {
		t.Errorf("raw times should survive rejection, got %q-%q", e.Start, e.End)
	}
}

func TestNormalize_DirectHours_SubtractsLunch(t *testing.T) {
	e, err := engine.Normalize(engine.RawDayInput{
		Date:  day("2025-06-02"),
		Hours: ptr(dec("8")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "worked hours", *e.WorkedHours, "7.5")
	if e.OriginalHours == nil || !e.OriginalHours.Equal(dec("8")) {
		t.Errorf("original hours should be retained as typed, got %v", e.OriginalHours)
	}
}

func TestNormalize_DirectHours_FlooredAtZero(t *testing.T) {
	// 0.25h typed with a 30-minute lunch floors at zero, not negative.

	e, err := engine.Normalize(engine.RawDayInput{
		Date:  day("2025-06-02"),
		Hours: ptr(dec("0.25")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "worked hours", *e.WorkedHours, "0")
}

func TestNormalize_DirectHours_OutOfRangeRejected(t *testing.T) {
	for _, h := range []string{"-1", "24.01", "100"} {
		_, err := engine.Normalize(engine.RawDayInput{
			Date:  day("2025-06-02"),
			Hours: ptr(dec(h)),
		})
		if !errors.Is(err, engine.ErrHoursOutOfRange) {
			t.Errorf("hours=%s: expected ErrHoursOutOfRange, got %v", h, err)
		}
	}
}

func TestNormalize_LunchToggle_RoundTrip(t *testing.T) {
	// GIVEN: originalHours=8 and no clock times
	// WHEN: lunch 30 -> 0 -> 30
	// THEN: 7.5, 8, 7.5 - always re-derived from OriginalHours, never
	//       compounded from the previous WorkedHours

	orig := dec("8")
	steps := []struct {
		lunch int
		want  string
	}{
		{30, "7.5"},
		{0, "8"},
		{30, "7.5"},
	}
	for _, s := range steps {
		e, err := engine.Normalize(engine.RawDayInput{
			Date:          day("2025-06-02"),
			LunchMinutes:  ptr(s.lunch),
			OriginalHours: &orig,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertDec(t, "worked hours after toggle", *e.WorkedHours, s.want)
	}
}

func TestNormalize_MalformedClockTime(t *testing.T) {
	for _, bad := range []string{"9am", "25:00", "09:60", "0900", ""} {
		_, err := engine.Normalize(engine.RawDayInput{
			Date:  day("2025-06-02"),
			Start: "09:00",
			End:   bad,
		})
		if bad == "" {
			// One empty time means no span derivation at all.
			if err != nil {
				t.Errorf("empty end should not error, got %v", err)
			}
			continue
		}
		if !errors.Is(err, engine.ErrInvalidClockTime) {
			t.Errorf("end=%q: expected ErrInvalidClockTime, got %v", bad, err)
		}
	}
}

func TestNormalize_ClockTimesWinOverDirectHours(t *testing.T) {
	// When both clock times are present they are authoritative.

	e, err := engine.Normalize(engine.RawDayInput{
		Date:          day("2025-06-02"),
		Start:         "08:00",
		End:           "12:00",
		LunchDisabled: true,
		Hours:         ptr(dec("10")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "worked hours", *e.WorkedHours, "4")
}
