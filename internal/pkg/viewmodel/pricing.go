package viewmodel

import (
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billingview"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/pricing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/staking"
)

// PublicPricing is the signed-out pricing page.
type PublicPricing struct {
	Layout
	Annual    bool
	Tiers     []pricing.Displayed
	FAQ       []pricing.FAQEntry
	SignInURL string
}

type UpgradeOption struct {
	ID       string
	Name     string
	Fee      string
	Selected bool
	// Current marks the plan the user is on; Downgrade a lower one.
	Current   bool
	Downgrade bool
}

type PaymentKindOption struct {
	Value    string
	Label    string
	Selected bool
}

// Dashboard is the signed-in billing dashboard.
type Dashboard struct {
	Layout
	View           billingview.View
	CopyText       string
	UpgradeOptions []UpgradeOption
	PaymentKinds   []PaymentKindOption
	Calculator     Calculator
}

// Calculator backs the staking calculator form and its result.
type Calculator struct {
	Tokens    []staking.Option
	Durations []staking.Option
	Token     string
	Amount    string
	PriceUSD  string
	Rate      string
	Weeks     string
	Result    *staking.Result
	Error     string
}

type Calculate struct {
	Layout
	Calculator Calculator
}
