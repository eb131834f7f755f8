package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	PublicID   string `json:"public_id"`
	FirstName  string `json:"first_name"`
	IsLoggedIn bool   `json:"is_logged_in"`
	Plan       string `json:"plan"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(LocalsKey).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false}
}

// SetUserContext stores uc for the rest of the request.
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(LocalsKey, uc)
	c.Locals(KeyFromProtected, uc.IsLoggedIn)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
