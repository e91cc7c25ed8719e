package engine

import "github.com/shopspring/decimal"

// hundred is the progress clamp ceiling.
var hundred = decimal.NewFromInt(100)

// ComputeProgress compares accumulated after-tax earnings against the
// enabled wish-list items.
//
// The item tax uses IncomeTaxRate, not a sales-tax rate. That reuse is
// deliberate: it matches the stored figures this engine must reproduce.
func ComputeProgress(items []Item, rows []DetailedDay) Progress {
	cost := decimal.Zero
	for _, it := range items {
		if !it.Enabled {
			continue
		}
		cost = cost.Add(it.Price)
		if it.Taxable {
			cost = cost.Add(it.Price.Mul(IncomeTaxRate))
		}
	}
	cost = Round2(cost)

	earned := decimal.Zero
	for _, r := range rows {
		earned = earned.Add(r.AfterTax)
	}
	earned = Round2(earned)

	pct := decimal.Zero
	if cost.IsPositive() {
		pct = Round2(earned.Div(cost).Mul(hundred))
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
	}

	return Progress{TotalEarnedAfterTax: earned, TotalItemCost: cost, Percent: pct}
}
