package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/ManuelReschke/BlockHolder/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (s *APIServer) GetPricingTiers(c *fiber.Ctx) error {
	return controllers.HandleAPIPricingTiers(c)
}

// GetBillingSnapshot requires a web session; the router attaches the auth
// middleware.
func (s *APIServer) GetBillingSnapshot(c *fiber.Ctx) error {
	return controllers.HandleAPIBillingSnapshot(c)
}

func (s *APIServer) PostFeedback(c *fiber.Ctx) error {
	return controllers.HandleAPIFeedback(c)
}

func (s *APIServer) PostStakingCalculate(c *fiber.Ctx) error {
	return controllers.HandleAPIStakingCalculate(c)
}
