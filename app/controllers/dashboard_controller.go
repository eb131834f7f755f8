package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billingview"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/notify"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/session"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/upgrade"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
)

const dashboardPath = "/pricing"

// backToDashboard turns the toasts raised by the last action into a flash
// message and redirects to the dashboard.
func backToDashboard(c *fiber.Ctx, ctrl *billingview.Controller) error {
	if out := ctrl.Outbox(); out != nil {
		c = notify.Flash(c, out.Notes)
	}
	return c.Redirect(dashboardPath, fiber.StatusSeeOther)
}

// failToDashboard flashes msg and drops any toast the action queued before
// failing, so it cannot surface on a later request.
func failToDashboard(c *fiber.Ctx, ctrl *billingview.Controller, msg string) error {
	if out := ctrl.Outbox(); out != nil {
		out.Notes.Drain()
	}
	return flashError(c, msg).Redirect(dashboardPath, fiber.StatusSeeOther)
}

func HandleDashboardAnnual(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.SetAnnual(c.FormValue("annual") == "true")
	return backToDashboard(c, ctrl)
}

func HandleUpgradeOpen(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.OpenUpgradeModal()
	return backToDashboard(c, ctrl)
}

func HandleUpgradeClose(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.CloseUpgradeModal()
	return backToDashboard(c, ctrl)
}

func HandleUpgradeSelect(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	if err := ctrl.SelectUpgradePlan(c.FormValue("plan")); err != nil {
		return failToDashboard(c, ctrl, "Please choose one of the listed plans.")
	}
	return backToDashboard(c, ctrl)
}

// HandleUpgradeConfirm runs the wallet transaction for the selected plan.
// The request blocks until the transaction is mined or the flow gives up.
func HandleUpgradeConfirm(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	uc := usercontext.GetUserContext(c)
	log := deps.Log.With().Uint("user_id", uc.UserID).Logger()

	receipt, err := ctrl.ConfirmUpgrade(c.UserContext())
	switch {
	case err == nil:
		log.Info().Str("tx_hash", receipt.TxHash.Hex()).Str("plan", string(receipt.Plan)).Msg("plan upgraded")
		if err := refreshSessionPlan(c, string(receipt.Plan.Plan())); err != nil {
			log.Warn().Err(err).Msg("session plan not updated")
		}
	case errors.Is(err, billingview.ErrNoPlanSelected):
		return failToDashboard(c, ctrl, "Please select a plan first.")
	case errors.Is(err, billingview.ErrUpgradePending):
		return flashInfo(c, "Your upgrade is still being confirmed.").Redirect(dashboardPath, fiber.StatusSeeOther)
	case receipt != nil:
		// Paid on chain but not stored. Needs manual reconciliation.
		log.Error().Err(err).Str("tx_hash", receipt.TxHash.Hex()).Msg("upgrade paid but not recorded")
		return failToDashboard(c, ctrl, billingview.MsgUpgradeNotRecorded)
	default:
		var uerr *upgrade.Error
		if errors.As(err, &uerr) {
			log.Warn().Err(err).Msg("upgrade failed")
		} else {
			log.Error().Err(err).Msg("upgrade failed")
		}
	}
	return backToDashboard(c, ctrl)
}

func HandlePaymentOpen(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.OpenAddPaymentModal()
	return backToDashboard(c, ctrl)
}

func HandlePaymentClose(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.CloseAddPaymentModal()
	return backToDashboard(c, ctrl)
}

func HandlePaymentKind(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	if err := ctrl.SetPaymentMethodKind(c.FormValue("kind")); err != nil {
		return failToDashboard(c, ctrl, "Unsupported payment method.")
	}
	return backToDashboard(c, ctrl)
}

func HandlePaymentSubmit(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	if kind := c.FormValue("kind"); kind != "" {
		if err := ctrl.SetPaymentMethodKind(kind); err != nil {
			return failToDashboard(c, ctrl, "Unsupported payment method.")
		}
	}
	ctrl.SubmitPaymentMethod()
	return backToDashboard(c, ctrl)
}

func HandleReferralOpen(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.OpenReferralModal()
	return backToDashboard(c, ctrl)
}

func HandleReferralClose(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.CloseReferralModal()
	return backToDashboard(c, ctrl)
}

// HandleReferralCopy queues the link for the browser clipboard; the next
// dashboard render hands it to the page script.
func HandleReferralCopy(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	if err := ctrl.CopyReferralLink(); err != nil {
		deps.Log.Warn().Err(err).Msg("copy referral link")
		return failToDashboard(c, ctrl, "Could not copy the referral link.")
	}
	return backToDashboard(c, ctrl)
}

// HandleReferralShare redirects to the share intent of the platform.
// Unsupported platforms go back to the dashboard.
func HandleReferralShare(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ok, err := ctrl.ShareReferral(c.Params("platform"))
	if err != nil {
		deps.Log.Warn().Err(err).Msg("share referral link")
		return failToDashboard(c, ctrl, "Could not open the share dialog.")
	}
	if !ok {
		return backToDashboard(c, ctrl)
	}

	var target string
	if out := ctrl.Outbox(); out != nil {
		target = out.Navigate.Take()
	}
	if target == "" {
		return backToDashboard(c, ctrl)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func HandleCalculatorOpen(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.OpenCalculator()
	return backToDashboard(c, ctrl)
}

func HandleCalculatorClose(c *fiber.Ctx) error {
	ctrl := dashboardFor(c)
	ctrl.CloseCalculator()
	return backToDashboard(c, ctrl)
}

// refreshSessionPlan keeps the navbar plan in sync after an upgrade.
func refreshSessionPlan(c *fiber.Ctx, plan string) error {
	if session.GetSessionValue(c, usercontext.KeyPlan) == plan {
		return nil
	}
	return session.SetSessionValue(c, usercontext.KeyPlan, plan)
}
