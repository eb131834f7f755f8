package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billingview"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/oauth"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/pricing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/viewmodel"
)

// HandlePricing shows the dashboard to signed-in users and the public
// pricing page to everyone else.
func HandlePricing(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if billingview.ViewFor(uc.IsLoggedIn) == billingview.PageDashboard {
		return renderDashboard(c)
	}

	annual := c.Query("billing") == "annual"
	signIn := "/pricing"
	if providers := oauth.ProviderNames(); len(providers) > 0 {
		signIn = "/auth/" + providers[0]
	}

	vm := viewmodel.PublicPricing{
		Layout:    layoutFor(c, string(billingview.PagePricing), "Pricing"),
		Annual:    annual,
		Tiers:     pricing.DisplayTiers(annual),
		FAQ:       pricing.FAQ(),
		SignInURL: signIn,
	}
	return c.Render("pricing_public", vm, "layouts/main")
}

func renderDashboard(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	view := ctrl.State()

	vm := viewmodel.Dashboard{
		Layout:     layoutFor(c, string(billingview.PageDashboard), "Billing"),
		View:       view,
		Calculator: calculatorForm(c),
	}
	if out := ctrl.Outbox(); out != nil {
		vm.CopyText = out.Clipboard.Take()
	}

	selected := view.SelectedPlan()
	for _, p := range view.UpgradePlans {
		fee, _ := billing.UpgradeFee(p)
		vm.UpgradeOptions = append(vm.UpgradeOptions, viewmodel.UpgradeOption{
			ID:        string(p),
			Name:      string(p.Plan()),
			Fee:       fee.String(),
			Selected:  string(p) == selected,
			Current:   p.Plan() == view.Snapshot.CurrentPlan,
			Downgrade: p.Plan() != view.Snapshot.CurrentPlan && !billing.IsUpgrade(view.Snapshot.CurrentPlan, p),
		})
	}
	for _, k := range []billingview.PaymentKind{billingview.PaymentCreditCard, billingview.PaymentPayPal} {
		vm.PaymentKinds = append(vm.PaymentKinds, viewmodel.PaymentKindOption{
			Value:    string(k),
			Label:    k.Label(),
			Selected: k == view.PaymentKind,
		})
	}

	return c.Render("pricing_dashboard", vm, "layouts/main")
}

// dashboardFor returns the controller of the signed-in user and loads its
// snapshot on first access.
func dashboardFor(c *fiber.Ctx) *billingview.Controller {
	uc := usercontext.GetUserContext(c)
	ctrl, created := deps.Dashboards.Get(billingview.User{
		ID:        uc.UserID,
		PublicID:  uc.PublicID,
		FirstName: uc.FirstName,
	})
	if created {
		if err := ctrl.Refresh(c.UserContext()); err != nil {
			deps.Log.Error().Err(err).Uint("user_id", uc.UserID).Msg("billing snapshot unavailable")
		}
	}
	return ctrl
}
