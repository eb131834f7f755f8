package billingview

import (
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/pricing"
)

// Page is the top level page rendered for a visitor.
type Page string

const (
	PageDashboard Page = "dashboard"
	PagePricing   Page = "pricing"
)

// ViewFor selects the page solely by authentication status.
func ViewFor(signedIn bool) Page {
	if signedIn {
		return PageDashboard
	}
	return PagePricing
}

type PaymentKind string

const (
	PaymentCreditCard PaymentKind = "credit_card"
	PaymentPayPal     PaymentKind = "paypal"
)

func (k PaymentKind) Label() string {
	switch k {
	case PaymentPayPal:
		return "PayPal"
	default:
		return "Credit/Debit Card"
	}
}

// UpgradeSelection is the pending plan choice inside the upgrade modal.
type UpgradeSelection struct {
	Plan  billing.UpgradePlan
	Token string
}

// User is the signed-in user the controller belongs to.
type User struct {
	ID        uint
	PublicID  string
	FirstName string
}

// View is an immutable copy of the controller state for rendering.
type View struct {
	Page     Page
	User     User
	Snapshot billing.Snapshot
	Annual   bool
	Tiers    []pricing.Displayed

	UpgradeOpen    bool
	Selection      *UpgradeSelection
	UpgradeToken   string
	UpgradePending bool
	UpgradePlans   []billing.UpgradePlan

	PaymentOpen bool
	PaymentKind PaymentKind

	ReferralOpen bool
	ReferralLink string
	Copied       bool

	CalculatorOpen bool
}

// SelectedPlan returns the selected plan id or "" when nothing is selected.
func (v View) SelectedPlan() string {
	if v.Selection == nil {
		return ""
	}
	return string(v.Selection.Plan)
}

func cloneSnapshot(s billing.Snapshot) billing.Snapshot {
	out := s
	out.Features = append([]string(nil), s.Features...)
	out.PaymentMethods = append([]billing.PaymentMethod(nil), s.PaymentMethods...)
	out.Transactions = append([]billing.Transaction(nil), s.Transactions...)
	if s.UsageLimits != nil {
		out.UsageLimits = make(map[string]billing.Usage, len(s.UsageLimits))
		for k, v := range s.UsageLimits {
			out.UsageLimits[k] = v
		}
	}
	return out
}
