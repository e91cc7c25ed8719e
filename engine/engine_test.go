package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// SHARED TEST HELPERS
// =============================================================================

func day(s string) engine.Day { return engine.MustDay(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// entry builds a DayEntry with derived hours, bypassing normalization.
func entry(date string, hours string) engine.DayEntry {
	h := dec(hours)
	return engine.DayEntry{Date: day(date), WorkedHours: &h}
}

func standardConfig(rate, anchor string) engine.Config {
	return engine.Config{
		HourlyRate: dec(rate),
		Anchor:     day(anchor),
		Cycle:      engine.CycleBiweekly,
	}
}

func taxFreeConfig(rate, anchor string) engine.Config {
	cfg := standardConfig(rate, anchor)
	cfg.TaxFreeRule = true
	return cfg
}

func assertDec(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got)
	}
}

func TestRound2_HalfUpOnScaledValue(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1.0",
		"270.4":  "270.4",
		"31.636": "31.64",
		"0":      "0",
	}
	for in, want := range cases {
		if got := engine.Round2(dec(in)); !got.Equal(dec(want)) {
			t.Errorf("Round2(%s): expected %s, got %s", in, want, got)
		}
	}
}
