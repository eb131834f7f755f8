package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/feedback"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/pricing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/staking"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
)

// TierResponse is the JSON shape of one pricing tier.
type TierResponse struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Period      string           `json:"period"`
	Free        bool             `json:"free"`
	Description string           `json:"description"`
	Features    []string         `json:"features"`
	CTA         string           `json:"cta"`
	Highlighted bool             `json:"highlighted"`
}

// HandleAPIPricingTiers lists the tiers priced for ?annual=true|false.
func HandleAPIPricingTiers(c *fiber.Ctx) error {
	annual, _ := strconv.ParseBool(c.Query("annual", "false"))

	tiers := pricing.DisplayTiers(annual)
	out := make([]TierResponse, 0, len(tiers))
	for _, t := range tiers {
		r := TierResponse{
			Name:        t.Name,
			Period:      t.Price.Period,
			Free:        t.Price.Free,
			Description: t.Description,
			Features:    t.Features,
			CTA:         t.CTA,
			Highlighted: t.Highlighted,
		}
		if !t.Price.Free {
			amount := t.Price.Amount
			r.Price = &amount
		}
		out = append(out, r)
	}
	return c.JSON(fiber.Map{"annual": annual, "tiers": out})
}

// HandleAPIBillingSnapshot returns the snapshot of the session user.
func HandleAPIBillingSnapshot(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if deps.Billing == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "unavailable", "billing is not available")
	}
	snap, err := deps.Billing.Snapshot(c.UserContext(), uc.UserID)
	if err != nil {
		deps.Log.Error().Err(err).Uint("user_id", uc.UserID).Msg("api billing snapshot")
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load billing data")
	}
	return c.JSON(snap)
}

// HandleAPIFeedback accepts the feedback form as JSON.
func HandleAPIFeedback(c *fiber.Ctx) error {
	ctrl := newFeedbackController(c)
	if err := c.BodyParser(&ctrl.Form); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid JSON body")
	}

	err := ctrl.Submit(c.UserContext())
	var verr *feedback.ValidationError
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msgFeedbackThanks})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "required fields are missing",
			"fields":  verr.Fields,
		})
	default:
		return jsonError(c, fiber.StatusBadGateway, "submission_failed", msgFeedbackFailed)
	}
}

// HandleAPIStakingCalculate runs the staking calculator on a JSON input.
func HandleAPIStakingCalculate(c *fiber.Ctx) error {
	var in staking.Input
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid JSON body")
	}
	res, err := staking.Calculate(in)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_input", err.Error())
	}
	return c.JSON(res)
}
