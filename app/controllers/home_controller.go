package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
)

// HandleStart renders the landing page and counts referral link visits.
func HandleStart(c *fiber.Ctx) error {
	if ref := strings.TrimSpace(c.Query("ref")); ref != "" && deps.Referrals != nil {
		uc := usercontext.GetUserContext(c)
		// Own link clicks are not visits.
		if uc.PublicID != ref {
			if err := deps.Referrals.AddReferralVisit(c.UserContext(), ref); err != nil {
				deps.Log.Warn().Err(err).Str("ref", ref).Msg("referral visit not counted")
			}
		}
	}

	return c.Render("index", layoutFor(c, "home", ""), "layouts/main")
}
