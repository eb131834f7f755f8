package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Price is a derived, display-only price.
type Price struct {
	Amount decimal.Decimal
	Free   bool
	Period string
}

// Label renders the price the way the pricing cards show it.
func (p Price) Label() string {
	if p.Free {
		return "Free"
	}
	return "$" + p.Amount.String()
}

// DisplayPrice derives the shown price of a tier. Annual billing charges
// AnnualMonths monthly prices; the tier itself is never modified.
func DisplayPrice(t Tier, annual bool) Price {
	period := PeriodMonth
	if annual {
		period = PeriodYear
	}
	if t.IsFree() {
		return Price{Free: true, Period: period}
	}

	amount := *t.MonthlyPrice
	if annual {
		amount = amount.Mul(decimal.NewFromInt(AnnualMonths))
	}
	return Price{Amount: amount, Period: period}
}

// Displayed pairs a tier with its derived price.
type Displayed struct {
	Tier
	Price Price
}

// DisplayTiers derives prices for the whole catalog.
func DisplayTiers(annual bool) []Displayed {
	tiers := Tiers()
	out := make([]Displayed, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, Displayed{Tier: t, Price: DisplayPrice(t, annual)})
	}
	return out
}
