package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/session"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own fiber session on /auth/*; reading ours there would
	// collide with its per-request locals.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	store := session.GetSessionStore()
	if store == nil {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}
	sess, err := store.Get(c)
	if err != nil {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || userID == 0 {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	uc := usercontext.UserContext{
		UserID:     userID,
		IsLoggedIn: true,
	}
	uc.PublicID, _ = sess.Get(usercontext.KeyPublicID).(string)
	uc.FirstName, _ = sess.Get(usercontext.KeyFirstName).(string)
	uc.Plan, _ = sess.Get(usercontext.KeyPlan).(string)
	if uc.Plan == "" {
		uc.Plan = "Basic"
	}
	usercontext.SetUserContext(c, uc)

	return c.Next()
}
