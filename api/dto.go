/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures decoupling the engine's decimal-based domain model
  from the external API contract. Amounts cross the wire as float64;
  the engine keeps the exact decimals internally.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/profile"
)

// JobDTO summarizes one job's settings (not its entries).
type JobDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	HourlyRate  float64 `json:"hourly_rate"`
	StartDate   string  `json:"start_date"`
	PayCycle    string  `json:"pay_cycle"`
	TaxFreeRule bool    `json:"tax_free_rule"`
	Active      bool    `json:"active"`
}

// CreateJobRequest creates a new job profile.
type CreateJobRequest struct {
	Name string `json:"name"`
}

// UpdateJobRequest updates a job's settings. Absent fields are left
// unchanged.
type UpdateJobRequest struct {
	Name        *string  `json:"name,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	PayCycle    *string  `json:"pay_cycle,omitempty"`
	TaxFreeRule *bool    `json:"tax_free_rule,omitempty"`
}

// SwitchJobRequest moves the active pointer.
type SwitchJobRequest struct {
	ID string `json:"id"`
}

// SetDayRequest upserts one day's raw input.
type SetDayRequest struct {
	Date          string   `json:"date"`
	Start         string   `json:"start,omitempty"`
	End           string   `json:"end,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	LunchMinutes  *int     `json:"lunch_minutes,omitempty"`
	LunchDisabled bool     `json:"lunch_disabled,omitempty"`
}

// ItemRequest creates or updates a wish-list item.
type ItemRequest struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Taxable bool    `json:"taxable"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// ItemDTO is a wish-list item in responses.
type ItemDTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Taxable bool    `json:"taxable"`
	Enabled bool    `json:"enabled"`
}

// DetailedDayDTO is one row of the per-day breakdown.
type DetailedDayDTO struct {
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	TaxFreeHours    float64 `json:"tax_free_hours"`
	Earnings        float64 `json:"earnings"`
	TaxableEarnings float64 `json:"taxable_earnings"`
	IncomeTax       float64 `json:"income_tax"`
	Insurance       float64 `json:"insurance"`
	Pension         float64 `json:"pension"`
	AfterTax        float64 `json:"after_tax"`
}

// PeriodSummaryDTO is one pay-period row.
type PeriodSummaryDTO struct {
	Number        int     `json:"number"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TaxFreeHours  float64 `json:"tax_free_hours"`
	Earnings      float64 `json:"earnings"`
	IncomeTax     float64 `json:"income_tax"`
	Insurance     float64 `json:"insurance"`
	Pension       float64 `json:"pension"`
	Net           float64 `json:"net"`
	TakeHome      float64 `json:"take_home"`
}

// ProgressDTO is the budget completion report.
type ProgressDTO struct {
	TotalEarnedAfterTax float64 `json:"total_earned_after_tax"`
	TotalItemCost       float64 `json:"total_item_cost"`
	Percent             float64 `json:"percent"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func jobToDTO(j *profile.Job, active bool) JobDTO {
	return JobDTO{
		ID:          j.ID,
		Name:        j.Name,
		HourlyRate:  f(j.HourlyRate),
		StartDate:   j.StartDate.String(),
		PayCycle:    string(j.PayCycle),
		TaxFreeRule: j.TaxFreeRule,
		Active:      active,
	}
}

func itemToDTO(it engine.Item) ItemDTO {
	return ItemDTO{ID: it.ID, Name: it.Name, Price: f(it.Price), Taxable: it.Taxable, Enabled: it.Enabled}
}

func detailedToDTO(rows []engine.DetailedDay) []DetailedDayDTO {
	out := make([]DetailedDayDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, DetailedDayDTO{
			Date:            r.Date.String(),
			Hours:           f(r.Hours),
			RegularHours:    f(r.RegularHours),
			OvertimeHours:   f(r.OvertimeHours),
			TaxFreeHours:    f(r.TaxFreeHours),
			Earnings:        f(r.Earnings),
			TaxableEarnings: f(r.TaxableEarnings),
			IncomeTax:       f(r.IncomeTax),
			Insurance:       f(r.Insurance),
			Pension:         f(r.Pension),
			AfterTax:        f(r.AfterTax),
		})
	}
	return out
}

func summariesToDTO(sums []engine.PeriodSummary) []PeriodSummaryDTO {
	out := make([]PeriodSummaryDTO, 0, len(sums))
	for _, s := range sums {
		out = append(out, PeriodSummaryDTO{
			Number:        s.Number,
			Start:         s.Start.String(),
			End:           s.End.String(),
			Hours:         f(s.Hours),
			RegularHours:  f(s.RegularHours),
			OvertimeHours: f(s.OvertimeHours),
			TaxFreeHours:  f(s.TaxFreeHours),
			Earnings:      f(s.Earnings),
			IncomeTax:     f(s.IncomeTax),
			Insurance:     f(s.Insurance),
			Pension:       f(s.Pension),
			Net:           f(s.Net),
			TakeHome:      f(s.TakeHome),
		})
	}
	return out
}

func progressToDTO(p engine.Progress) ProgressDTO {
	return ProgressDTO{
		TotalEarnedAfterTax: f(p.TotalEarnedAfterTax),
		TotalItemCost:       f(p.TotalItemCost),
		Percent:             f(p.Percent),
	}
}
