package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong is the ping response.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface lists the operations of public/docs/v1/openapi.yml.
type ServerInterface interface {
	GetPing(c *fiber.Ctx) error
	GetPricingTiers(c *fiber.Ctx) error
	GetBillingSnapshot(c *fiber.Ctx) error
	PostFeedback(c *fiber.Ctx) error
	PostStakingCalculate(c *fiber.Ctx) error
}

// Options attaches per-route middleware.
type Options struct {
	SessionAuth fiber.Handler
	RateLimit   fiber.Handler
}

// RegisterHandlers mounts si on router.
func RegisterHandlers(router fiber.Router, si ServerInterface, opts Options) {
	sessionAuth := passthrough(opts.SessionAuth)
	rateLimit := passthrough(opts.RateLimit)

	router.Get("/ping", si.GetPing)
	router.Get("/pricing/tiers", si.GetPricingTiers)
	router.Get("/billing/snapshot", sessionAuth, si.GetBillingSnapshot)
	router.Post("/feedback", rateLimit, si.PostFeedback)
	router.Post("/staking/calculate", si.PostStakingCalculate)
}

func passthrough(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
