package billing

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// UpgradePlan is a plan id accepted by the upgrade dialog.
type UpgradePlan string

const (
	UpgradeBasic      UpgradePlan = "basic"
	UpgradePremium    UpgradePlan = "premium"
	UpgradeEnterprise UpgradePlan = "enterprise"
)

var ErrUnknownPlan = errors.New("unknown plan")

// UpgradePlans lists the selectable plans in display order.
var UpgradePlans = []UpgradePlan{UpgradeBasic, UpgradePremium, UpgradeEnterprise}

// upgradeFees are in ETH.
var upgradeFees = map[UpgradePlan]decimal.Decimal{
	UpgradeBasic:      decimal.Zero,
	UpgradePremium:    decimal.RequireFromString("0.01"),
	UpgradeEnterprise: decimal.RequireFromString("0.05"),
}

// ParseUpgradePlan accepts exactly basic, premium or enterprise. It returns
// the package constant, never a value sharing memory with id.
func ParseUpgradePlan(id string) (UpgradePlan, error) {
	for _, p := range UpgradePlans {
		if string(p) == id {
			return p, nil
		}
	}
	return "", ErrUnknownPlan
}

// UpgradeFee returns the fee of a plan in the network's native unit.
func UpgradeFee(p UpgradePlan) (decimal.Decimal, error) {
	fee, ok := upgradeFees[p]
	if !ok {
		return decimal.Zero, ErrUnknownPlan
	}
	return fee, nil
}

// Plan maps the dialog id to the dashboard plan name.
func (p UpgradePlan) Plan() Plan {
	switch p {
	case UpgradeEnterprise:
		return PlanEnterprise
	case UpgradePremium:
		return PlanPremium
	default:
		return PlanBasic
	}
}

// ToWei converts an ETH amount to wei, truncating below 1 wei.
func ToWei(eth decimal.Decimal) *big.Int {
	return eth.Shift(18).BigInt()
}

// FromWei converts wei back to ETH.
func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -18)
}

func normalizePlan(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case "premium":
		return PlanPremium
	case "enterprise":
		return PlanEnterprise
	default:
		return PlanBasic
	}
}

func planRank(plan Plan) int {
	switch normalizePlan(string(plan)) {
	case PlanEnterprise:
		return 2
	case PlanPremium:
		return 1
	default:
		return 0
	}
}

// IsUpgrade reports whether moving from current to target raises the plan.
func IsUpgrade(current Plan, target UpgradePlan) bool {
	return planRank(target.Plan()) > planRank(current)
}

func isEntitlingStatus(status Status) bool {
	switch status {
	case StatusActive:
		return true
	default:
		return false
	}
}
