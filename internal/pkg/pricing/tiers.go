package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AnnualMonths is the number of monthly prices charged for a yearly plan
// (two months free).
const AnnualMonths = 10

// Tier is one entry of the immutable plan catalog.
type Tier struct {
	Name         string
	MonthlyPrice *decimal.Decimal // nil means the tier is free
	Description  string
	Features     []string
	CTA          string
	Highlighted  bool
}

// IsFree reports whether the tier has no price.
func (t Tier) IsFree() bool {
	return t.MonthlyPrice == nil
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var catalog = []Tier{
	{
		Name:        "Basic",
		Description: "Perfect for users looking to dip their toes into savings and investments with simple tools and automation.",
		Features: []string{
			"Core Savings & Investment Tools",
			"Automated Savings",
			"Goal Tracking (up to 3 goals)",
			"Basic Analytics",
			"Basic Support (24-48 hour response time)",
			"Mobile Access",
		},
		CTA: "Try for Free",
	},
	{
		Name:         "Premium",
		MonthlyPrice: price(3),
		Description:  "Ideal for users who are ready to make more informed financial decisions and actively grow their wealth through advanced tools and insights.",
		Features: []string{
			"Advanced Investment Options",
			"Automated Portfolio Rebalancing",
			"Staking & Passive Income",
			"Custom Savings Goals",
			"In-Depth Analytics & Reports",
			"Priority Support",
			"Exclusive Webinars & Tutorials",
		},
		CTA:         "Subscribe",
		Highlighted: true,
	},
	{
		Name:         "Enterprise",
		MonthlyPrice: price(7),
		Description:  "Designed for high-net-worth individuals or businesses looking for comprehensive financial management solutions.",
		Features: []string{
			"Full Investment Suite",
			"Dedicated Financial Advisor",
			"Custom Portfolio Strategies",
			"Enhanced Staking & Yield Farming",
			"Team Management (Business Accounts)",
			"Enterprise-Level Analytics",
			"White-Glove Support",
			"Custom Integrations & API Access",
		},
		CTA: "Contact Sales",
	},
}

// Tiers returns a copy of the catalog in display order. Callers may modify
// the returned slice without affecting the catalog.
func Tiers() []Tier {
	out := make([]Tier, len(catalog))
	for i, t := range catalog {
		out[i] = t.clone()
	}
	return out
}

// TierByName looks a tier up case-insensitively.
func TierByName(name string) (Tier, bool) {
	for _, t := range catalog {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t.clone(), true
		}
	}
	return Tier{}, false
}

func (t Tier) clone() Tier {
	c := t
	if t.MonthlyPrice != nil {
		p := *t.MonthlyPrice
		c.MonthlyPrice = &p
	}
	c.Features = append([]string(nil), t.Features...)
	return c
}
