package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is the current subscription plan shown on the dashboard.
type Plan string

const (
	PlanBasic      Plan = "Basic"
	PlanPremium    Plan = "Premium"
	PlanEnterprise Plan = "Enterprise"
)

type Cycle string

const (
	CycleMonthly Cycle = "Monthly"
	CycleAnnual  Cycle = "Annual"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusPaused    Status = "Paused"
	StatusCancelled Status = "Cancelled"
)

// Usage is a metered resource counter. Used <= Limit is expected from the
// source data and not enforced here.
type Usage struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Percent returns the usage ratio in percent, 0 when there is no limit.
func (u Usage) Percent() int {
	if u.Limit <= 0 {
		return 0
	}
	return u.Used * 100 / u.Limit
}

type PaymentMethod struct {
	Type   string `json:"type"`
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"`
}

type Transaction struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

type Referral struct {
	Count    int             `json:"count"`
	Earnings decimal.Decimal `json:"earnings"`
	Visits   int64           `json:"visits"`
}

// Snapshot is a read-mostly aggregate of a user's billing state.
type Snapshot struct {
	CurrentPlan     Plan             `json:"current_plan"`
	BillingCycle    Cycle            `json:"billing_cycle"`
	NextBillingDate time.Time        `json:"next_billing_date"`
	Cost            decimal.Decimal  `json:"cost"`
	Status          Status           `json:"status"`
	Features        []string         `json:"features"`
	UsageLimits     map[string]Usage `json:"usage_limits"`
	PaymentMethods  []PaymentMethod  `json:"payment_methods"`
	Transactions    []Transaction    `json:"transactions"`
	Referral        Referral         `json:"referral"`
}

// UpgradeRecord is a confirmed plan change reported by the upgrade flow.
type UpgradeRecord struct {
	Plan     UpgradePlan
	TxHash   string
	From     string
	ValueETH decimal.Decimal
}
